package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
)

// adminSettingKeys are configurable by admins only. results_channel is
// intentionally absent: referees may point results at a channel too.
var adminSettingKeys = map[string]bool{
	models.SettingManagerRole:         true,
	models.SettingRefereeRole:         true,
	models.SettingTransactionsChannel: true,
}

type SettingService interface {
	Set(ctx context.Context, actor Actor, key, value string) (*models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
}

type settingService struct {
	settingRepo repositories.SettingRepository
	permissions PermissionService
}

func NewSettingService(
	settingRepo repositories.SettingRepository,
	permissions PermissionService,
) SettingService {
	return &settingService{
		settingRepo: settingRepo,
		permissions: permissions,
	}
}

func (s *settingService) Set(ctx context.Context, actor Actor, key, value string) (*models.Setting, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: value is required", ErrValidationFailed)
	}

	switch {
	case adminSettingKeys[key]:
		if !actor.IsAdmin {
			return nil, ErrForbiddenOperation
		}
	case key == models.SettingResultsChannel:
		authority, err := s.permissions.Resolve(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !authority.RefereeOrAdmin() {
			return nil, ErrForbiddenOperation
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSettingKey, key)
	}

	setting := &models.Setting{Key: key, Value: value}
	if err := s.settingRepo.Set(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return setting, nil
}

func (s *settingService) Get(ctx context.Context, key string) (*models.Setting, error) {
	switch key {
	case models.SettingManagerRole, models.SettingRefereeRole,
		models.SettingResultsChannel, models.SettingTransactionsChannel:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSettingKey, key)
	}

	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return nil, ErrSettingNotConfigured
		}
		return nil, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return setting, nil
}
