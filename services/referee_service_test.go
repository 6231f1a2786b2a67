package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-bot/models"
)

func TestSetReferee(t *testing.T) {
	admin := Actor{UserID: "admin", IsAdmin: true}

	t.Run("grants the referee role", func(t *testing.T) {
		settings := newFakeSettingRepo(models.SettingRefereeRole, "role-ref")
		svc := NewRefereeService(newFakeRefereeRepo(), settings)

		effects, err := svc.Set(context.Background(), admin, UserRef{ID: "u1"})
		if err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if len(effects) != 1 || effects[0].Kind != models.EffectRoleGrant || effects[0].RoleID != "role-ref" {
			t.Fatalf("unexpected effects %+v", effects)
		}
	})

	t.Run("admin only", func(t *testing.T) {
		svc := NewRefereeService(newFakeRefereeRepo(), newFakeSettingRepo())
		if _, err := svc.Set(context.Background(), Actor{UserID: "u1"}, UserRef{ID: "u2"}); !errors.Is(err, ErrForbiddenOperation) {
			t.Fatalf("expected ErrForbiddenOperation, got %v", err)
		}
	})

	t.Run("rejects bots", func(t *testing.T) {
		svc := NewRefereeService(newFakeRefereeRepo(), newFakeSettingRepo())
		if _, err := svc.Set(context.Background(), admin, UserRef{ID: "b1", IsBot: true}); !errors.Is(err, ErrBotUser) {
			t.Fatalf("expected ErrBotUser, got %v", err)
		}
	})

	t.Run("requires the role setting", func(t *testing.T) {
		svc := NewRefereeService(newFakeRefereeRepo(), newFakeSettingRepo())
		if _, err := svc.Set(context.Background(), admin, UserRef{ID: "u1"}); !errors.Is(err, ErrRefereeRoleNotConfigured) {
			t.Fatalf("expected ErrRefereeRoleNotConfigured, got %v", err)
		}
	})

	t.Run("duplicate referee", func(t *testing.T) {
		settings := newFakeSettingRepo(models.SettingRefereeRole, "role-ref")
		svc := NewRefereeService(newFakeRefereeRepo("u1"), settings)
		if _, err := svc.Set(context.Background(), admin, UserRef{ID: "u1"}); !errors.Is(err, ErrRefereeExists) {
			t.Fatalf("expected ErrRefereeExists, got %v", err)
		}
	})
}

func TestRemoveReferee(t *testing.T) {
	admin := Actor{UserID: "admin", IsAdmin: true}

	t.Run("revokes when role configured", func(t *testing.T) {
		settings := newFakeSettingRepo(models.SettingRefereeRole, "role-ref")
		svc := NewRefereeService(newFakeRefereeRepo("u1"), settings)

		effects, err := svc.Remove(context.Background(), admin, "u1")
		if err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if len(effects) != 1 || effects[0].Kind != models.EffectRoleRevoke {
			t.Fatalf("unexpected effects %+v", effects)
		}
	})

	t.Run("no revoke without role setting", func(t *testing.T) {
		svc := NewRefereeService(newFakeRefereeRepo("u1"), newFakeSettingRepo())
		effects, err := svc.Remove(context.Background(), admin, "u1")
		if err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if len(effects) != 0 {
			t.Fatalf("expected no effects, got %+v", effects)
		}
	})

	t.Run("unknown referee", func(t *testing.T) {
		svc := NewRefereeService(newFakeRefereeRepo(), newFakeSettingRepo())
		if _, err := svc.Remove(context.Background(), admin, "nobody"); !errors.Is(err, ErrRefereeNotFound) {
			t.Fatalf("expected ErrRefereeNotFound, got %v", err)
		}
	})
}
