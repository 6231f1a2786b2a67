package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-bot/events"
	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
)

// StatLine credits one player with a per-match count (goals or assists).
type StatLine struct {
	User  UserRef `json:"user"`
	Count int     `json:"count"`
}

type PostResultInput struct {
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	Score     string     `json:"score"`
	MOTM      UserRef    `json:"motm"`
	Mentions  []UserRef  `json:"mentions,omitempty"`
	Scorers   []StatLine `json:"scorers,omitempty"`
	Assisters []StatLine `json:"assisters,omitempty"`
}

type ResultService interface {
	// PostResult records a finished match: every referenced player is
	// upserted and their career counters bumped in one transaction. The
	// returned effects carry the announcement for the results channel.
	PostResult(ctx context.Context, actor Actor, input PostResultInput) ([]models.Effect, error)
}

type resultService struct {
	playerRepo  repositories.PlayerRepository
	settingRepo repositories.SettingRepository
	permissions PermissionService
	txm         repositories.TxManager
	feed        *events.Hub
}

func NewResultService(
	playerRepo repositories.PlayerRepository,
	settingRepo repositories.SettingRepository,
	permissions PermissionService,
	txm repositories.TxManager,
	feed *events.Hub,
) ResultService {
	return &resultService{
		playerRepo:  playerRepo,
		settingRepo: settingRepo,
		permissions: permissions,
		txm:         txm,
		feed:        feed,
	}
}

func (s *resultService) PostResult(ctx context.Context, actor Actor, input PostResultInput) ([]models.Effect, error) {
	authority, err := s.permissions.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !authority.RefereeOrAdmin() {
		return nil, ErrForbiddenOperation
	}

	input.HomeTeam = strings.TrimSpace(input.HomeTeam)
	input.AwayTeam = strings.TrimSpace(input.AwayTeam)
	input.Score = strings.TrimSpace(input.Score)
	if input.HomeTeam == "" || input.AwayTeam == "" || input.Score == "" {
		return nil, fmt.Errorf("%w: teams and score are required", ErrValidationFailed)
	}
	if input.MOTM.ID == "" {
		return nil, fmt.Errorf("%w: man of the match is required", ErrValidationFailed)
	}
	for _, line := range append(input.Scorers, input.Assisters...) {
		if line.Count <= 0 {
			return nil, fmt.Errorf("%w: stat counts must be positive", ErrValidationFailed)
		}
	}

	err = s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, line := range input.Scorers {
			if err := s.credit(ctx, exec, line.User, line.Count, 0, 0, 0); err != nil {
				return err
			}
		}
		for _, line := range input.Assisters {
			if err := s.credit(ctx, exec, line.User, 0, line.Count, 0, 0); err != nil {
				return err
			}
		}
		for _, user := range input.Mentions {
			if err := s.credit(ctx, exec, user, 0, 0, 1, 0); err != nil {
				return err
			}
		}
		return s.credit(ctx, exec, input.MOTM, 0, 0, 0, 1)
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"home_team": input.HomeTeam,
		"away_team": input.AwayTeam,
		"score":     input.Score,
		"motm":      input.MOTM.Name,
	}

	var effects []models.Effect
	if channel, err := s.settingRepo.Get(ctx, models.SettingResultsChannel); err == nil {
		effects = append(effects, models.Effect{
			Kind:      models.EffectChannelPost,
			ChannelID: channel.Value,
			Event:     "match_result",
			Payload:   payload,
		})
	} else if !errors.Is(err, repositories.ErrSettingNotFound) {
		return nil, fmt.Errorf("failed to read results channel setting: %w", err)
	}

	if s.feed != nil {
		s.feed.Publish(events.RoomResults, "match_result", payload)
	}
	return effects, nil
}

func (s *resultService) credit(ctx context.Context, exec repositories.SQLExecutor, user UserRef, goals, assists, mentions, motm int) error {
	if user.ID == "" {
		return fmt.Errorf("%w: player reference without id", ErrValidationFailed)
	}
	player := &models.Player{UserID: user.ID, Name: user.Name}
	if err := s.playerRepo.Upsert(ctx, exec, player); err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", user.ID, err)
	}
	if err := s.playerRepo.IncrementCounters(ctx, exec, user.ID, goals, assists, mentions, motm); err != nil {
		return fmt.Errorf("failed to credit player %s: %w", user.ID, err)
	}
	return nil
}
