package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
)

func TestResolveAdminFlag(t *testing.T) {
	svc := NewPermissionService(&fakeTeamRepo{}, newFakeRefereeRepo(), newFakeSettingRepo())

	authority, err := svc.Resolve(context.Background(), Actor{UserID: "u1", IsAdmin: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !authority.Admin {
		t.Fatal("expected admin authority")
	}
	if authority.Referee || authority.ManagedTeam != nil {
		t.Fatalf("unexpected extra authority: %+v", authority)
	}
}

func TestResolveRefereeFromRegistry(t *testing.T) {
	svc := NewPermissionService(&fakeTeamRepo{}, newFakeRefereeRepo("u1"), newFakeSettingRepo())

	authority, err := svc.Resolve(context.Background(), Actor{UserID: "u1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !authority.Referee {
		t.Fatal("expected referee authority from registry entry")
	}
}

func TestResolveRefereeFromRole(t *testing.T) {
	settings := newFakeSettingRepo(models.SettingRefereeRole, "role-ref")
	svc := NewPermissionService(&fakeTeamRepo{}, newFakeRefereeRepo(), settings)

	authority, err := svc.Resolve(context.Background(), Actor{UserID: "u1", RoleIDs: []string{"role-ref"}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !authority.Referee {
		t.Fatal("expected referee authority from held role")
	}

	authority, err = svc.Resolve(context.Background(), Actor{UserID: "u2", RoleIDs: []string{"other"}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if authority.Referee {
		t.Fatal("expected no referee authority without the role")
	}
}

func TestResolveManagedTeam(t *testing.T) {
	team := &models.Team{ID: 7, Name: "Rovers", RoleID: "role-rovers", ManagerID: strPtr("u1")}
	teams := &fakeTeamRepo{
		GetByManagerIDFunc: func(ctx context.Context, exec repositories.SQLExecutor, managerID string) (*models.Team, error) {
			if managerID == "u1" {
				return team, nil
			}
			return nil, repositories.ErrTeamNotFound
		},
	}

	t.Run("all conditions hold", func(t *testing.T) {
		settings := newFakeSettingRepo(models.SettingManagerRole, "role-mgr")
		svc := NewPermissionService(teams, newFakeRefereeRepo(), settings)

		authority, err := svc.Resolve(context.Background(), Actor{
			UserID:  "u1",
			RoleIDs: []string{"role-mgr", "role-rovers"},
		})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if authority.ManagedTeam == nil || authority.ManagedTeam.ID != 7 {
			t.Fatalf("expected managed team 7, got %+v", authority.ManagedTeam)
		}
	})

	t.Run("manager role not configured", func(t *testing.T) {
		svc := NewPermissionService(teams, newFakeRefereeRepo(), newFakeSettingRepo())

		authority, err := svc.Resolve(context.Background(), Actor{
			UserID:  "u1",
			RoleIDs: []string{"role-mgr", "role-rovers"},
		})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if authority.ManagedTeam != nil {
			t.Fatal("expected no manager authority while manager role is unset")
		}
	})

	t.Run("missing team role", func(t *testing.T) {
		settings := newFakeSettingRepo(models.SettingManagerRole, "role-mgr")
		svc := NewPermissionService(teams, newFakeRefereeRepo(), settings)

		authority, err := svc.Resolve(context.Background(), Actor{
			UserID:  "u1",
			RoleIDs: []string{"role-mgr"},
		})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if authority.ManagedTeam != nil {
			t.Fatal("expected no manager authority without the team role")
		}
	})

	t.Run("no team record", func(t *testing.T) {
		settings := newFakeSettingRepo(models.SettingManagerRole, "role-mgr")
		svc := NewPermissionService(teams, newFakeRefereeRepo(), settings)

		authority, err := svc.Resolve(context.Background(), Actor{
			UserID:  "u2",
			RoleIDs: []string{"role-mgr", "role-rovers"},
		})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if authority.ManagedTeam != nil {
			t.Fatal("expected no manager authority without a team record")
		}
	})
}

func TestResolveAffiliation(t *testing.T) {
	rovers := &models.Team{ID: 1, Name: "Rovers", RoleID: "role-rovers"}
	united := &models.Team{ID: 2, Name: "United", RoleID: "role-united"}
	teams := &fakeTeamRepo{
		ListByRoleIDsFunc: func(ctx context.Context, roleIDs []string) ([]*models.Team, error) {
			out := []*models.Team{}
			for _, id := range roleIDs {
				switch id {
				case "role-rovers":
					out = append(out, rovers)
				case "role-united":
					out = append(out, united)
				}
			}
			return out, nil
		},
	}
	svc := NewPermissionService(teams, newFakeRefereeRepo(), newFakeSettingRepo())

	if _, err := svc.ResolveAffiliation(context.Background(), Actor{UserID: "u1"}); !errors.Is(err, ErrNoTeamAffiliation) {
		t.Fatalf("expected ErrNoTeamAffiliation, got %v", err)
	}

	team, err := svc.ResolveAffiliation(context.Background(), Actor{UserID: "u1", RoleIDs: []string{"role-rovers", "misc"}})
	if err != nil {
		t.Fatalf("ResolveAffiliation() error = %v", err)
	}
	if team.ID != 1 {
		t.Fatalf("expected team 1, got %d", team.ID)
	}

	_, err = svc.ResolveAffiliation(context.Background(), Actor{UserID: "u1", RoleIDs: []string{"role-rovers", "role-united"}})
	if !errors.Is(err, ErrAmbiguousAffiliation) {
		t.Fatalf("expected ErrAmbiguousAffiliation, got %v", err)
	}
}

func strPtr(s string) *string { return &s }
