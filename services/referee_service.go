package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
)

type RefereeService interface {
	Set(ctx context.Context, actor Actor, target UserRef) ([]models.Effect, error)
	Remove(ctx context.Context, actor Actor, userID string) ([]models.Effect, error)
	List(ctx context.Context) ([]*models.Referee, error)
}

type refereeService struct {
	refereeRepo repositories.RefereeRepository
	settingRepo repositories.SettingRepository
}

func NewRefereeService(
	refereeRepo repositories.RefereeRepository,
	settingRepo repositories.SettingRepository,
) RefereeService {
	return &refereeService{
		refereeRepo: refereeRepo,
		settingRepo: settingRepo,
	}
}

// Set registers a referee. Admin only: referee status grants scheduling
// and results authority, so referees cannot appoint each other.
func (s *refereeService) Set(ctx context.Context, actor Actor, target UserRef) ([]models.Effect, error) {
	if !actor.IsAdmin {
		return nil, ErrForbiddenOperation
	}
	if target.IsBot {
		return nil, ErrBotUser
	}

	setting, err := s.settingRepo.Get(ctx, models.SettingRefereeRole)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return nil, ErrRefereeRoleNotConfigured
		}
		return nil, fmt.Errorf("failed to read referee role setting: %w", err)
	}

	if err := s.refereeRepo.Add(ctx, &models.Referee{UserID: target.ID}); err != nil {
		if errors.Is(err, repositories.ErrRefereeConflict) {
			return nil, ErrRefereeExists
		}
		return nil, fmt.Errorf("failed to add referee %s: %w", target.ID, err)
	}

	return []models.Effect{
		{Kind: models.EffectRoleGrant, UserID: target.ID, RoleID: setting.Value},
	}, nil
}

func (s *refereeService) Remove(ctx context.Context, actor Actor, userID string) ([]models.Effect, error) {
	if !actor.IsAdmin {
		return nil, ErrForbiddenOperation
	}

	if err := s.refereeRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrRefereeNotFound) {
			return nil, ErrRefereeNotFound
		}
		return nil, fmt.Errorf("failed to remove referee %s: %w", userID, err)
	}

	// The role revoke is best effort: if the role was never configured
	// there is nothing to take away.
	setting, err := s.settingRepo.Get(ctx, models.SettingRefereeRole)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read referee role setting: %w", err)
	}
	return []models.Effect{
		{Kind: models.EffectRoleRevoke, UserID: userID, RoleID: setting.Value},
	}, nil
}

func (s *refereeService) List(ctx context.Context) ([]*models.Referee, error) {
	referees, err := s.refereeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list referees: %w", err)
	}
	return referees, nil
}
