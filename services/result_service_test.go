package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
)

type counterDelta struct {
	goals, assists, mentions, motm int
}

func resultInput() PostResultInput {
	return PostResultInput{
		HomeTeam: "Rovers",
		AwayTeam: "United",
		Score:    "3-1",
		MOTM:     UserRef{ID: "u1", Name: "Pat"},
		Mentions: []UserRef{{ID: "u2", Name: "Sam"}},
		Scorers: []StatLine{
			{User: UserRef{ID: "u1", Name: "Pat"}, Count: 2},
			{User: UserRef{ID: "u3", Name: "Alex"}, Count: 1},
		},
		Assisters: []StatLine{
			{User: UserRef{ID: "u2", Name: "Sam"}, Count: 2},
		},
	}
}

func TestPostResult(t *testing.T) {
	build := func(players *fakePlayerRepo, settings *fakeSettingRepo) ResultService {
		permissions := NewPermissionService(&fakeTeamRepo{}, newFakeRefereeRepo("ref"), settings)
		return NewResultService(players, settings, permissions, fakeTxManager{}, nil)
	}

	t.Run("forbidden without authority", func(t *testing.T) {
		svc := build(&fakePlayerRepo{}, newFakeSettingRepo())
		_, err := svc.PostResult(context.Background(), Actor{UserID: "u1"}, resultInput())
		if !errors.Is(err, ErrForbiddenOperation) {
			t.Fatalf("expected ErrForbiddenOperation, got %v", err)
		}
	})

	t.Run("credits every referenced player", func(t *testing.T) {
		deltas := map[string]counterDelta{}
		players := &fakePlayerRepo{
			IncrementCountersFunc: func(ctx context.Context, exec repositories.SQLExecutor, userID string, goals, assists, mentions, motm int) error {
				d := deltas[userID]
				d.goals += goals
				d.assists += assists
				d.mentions += mentions
				d.motm += motm
				deltas[userID] = d
				return nil
			},
		}
		svc := build(players, newFakeSettingRepo())

		if _, err := svc.PostResult(context.Background(), refereeActor(), resultInput()); err != nil {
			t.Fatalf("PostResult() error = %v", err)
		}

		want := map[string]counterDelta{
			"u1": {goals: 2, motm: 1},
			"u2": {assists: 2, mentions: 1},
			"u3": {goals: 1},
		}
		for userID, expected := range want {
			if deltas[userID] != expected {
				t.Fatalf("player %s: expected %+v, got %+v", userID, expected, deltas[userID])
			}
		}
	})

	t.Run("announcement only when channel configured", func(t *testing.T) {
		svc := build(&fakePlayerRepo{}, newFakeSettingRepo())
		effects, err := svc.PostResult(context.Background(), refereeActor(), resultInput())
		if err != nil {
			t.Fatalf("PostResult() error = %v", err)
		}
		if len(effects) != 0 {
			t.Fatalf("expected no effects without a results channel, got %d", len(effects))
		}

		settings := newFakeSettingRepo(models.SettingResultsChannel, "chan-results")
		svc = build(&fakePlayerRepo{}, settings)
		effects, err = svc.PostResult(context.Background(), refereeActor(), resultInput())
		if err != nil {
			t.Fatalf("PostResult() error = %v", err)
		}
		if len(effects) != 1 || effects[0].Kind != models.EffectChannelPost || effects[0].ChannelID != "chan-results" {
			t.Fatalf("unexpected effects %+v", effects)
		}
	})

	t.Run("rejects non-positive stat counts", func(t *testing.T) {
		svc := build(&fakePlayerRepo{}, newFakeSettingRepo())
		input := resultInput()
		input.Scorers[0].Count = 0
		if _, err := svc.PostResult(context.Background(), refereeActor(), input); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
	})
}
