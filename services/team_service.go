package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
	"github.com/Dosada05/league-bot/storage"
)

type CreateTeamInput struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	RoleID    string `json:"role_id"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, actor Actor, input CreateTeamInput) (*models.Team, error)

	// DeleteTeam refuses to delete a team that scheduled matches or pending
	// offers still reference; memberships are removed with the team.
	DeleteTeam(ctx context.Context, actor Actor, roleID string) (*models.Team, error)

	SetManager(ctx context.Context, actor Actor, roleID string, manager UserRef) (*models.Team, []models.Effect, error)
	RemoveManager(ctx context.Context, actor Actor, roleID string) (*models.Team, []models.Effect, error)

	// ReleasePlayer removes the player-kind membership from the caller's
	// team. Managers are removed via RemoveManager, never released.
	ReleasePlayer(ctx context.Context, actor Actor, target UserRef) (*models.Team, []models.Effect, error)

	Roster(ctx context.Context, actor Actor) (*models.Team, []*models.Membership, error)
	UploadCrest(ctx context.Context, actor Actor, roleID string, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	membershipRepo repositories.MembershipRepository
	matchRepo      repositories.MatchRepository
	offerRepo      repositories.OfferRepository
	settingRepo    repositories.SettingRepository
	permissions    PermissionService
	txm            repositories.TxManager
	uploader       storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	membershipRepo repositories.MembershipRepository,
	matchRepo repositories.MatchRepository,
	offerRepo repositories.OfferRepository,
	settingRepo repositories.SettingRepository,
	permissions PermissionService,
	txm repositories.TxManager,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		membershipRepo: membershipRepo,
		matchRepo:      matchRepo,
		offerRepo:      offerRepo,
		settingRepo:    settingRepo,
		permissions:    permissions,
		txm:            txm,
		uploader:       uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, actor Actor, input CreateTeamInput) (*models.Team, error) {
	if !actor.IsAdmin {
		return nil, ErrForbiddenOperation
	}

	input.Name = strings.TrimSpace(input.Name)
	input.ShortName = strings.TrimSpace(input.ShortName)
	if input.Name == "" || input.ShortName == "" || input.RoleID == "" {
		return nil, fmt.Errorf("%w: name, short name and role are required", ErrValidationFailed)
	}

	team := &models.Team{
		Name:      input.Name,
		ShortName: input.ShortName,
		RoleID:    input.RoleID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		case errors.Is(err, repositories.ErrTeamRoleConflict):
			return nil, ErrTeamRoleConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, actor Actor, roleID string) (*models.Team, error) {
	if !actor.IsAdmin {
		return nil, ErrForbiddenOperation
	}

	team, err := s.getTeamByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.CountScheduledByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches for team %d: %w", team.ID, err)
	}
	offers, err := s.offerRepo.CountPendingByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count offers for team %d: %w", team.ID, err)
	}
	if matches > 0 || offers > 0 {
		return nil, ErrTeamInUse
	}

	err = s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.membershipRepo.DeleteByTeamID(ctx, exec, team.ID); err != nil {
			return fmt.Errorf("failed to delete memberships of team %d: %w", team.ID, err)
		}
		if err := s.teamRepo.Delete(ctx, exec, team.ID); err != nil {
			return fmt.Errorf("failed to delete team %d: %w", team.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) SetManager(ctx context.Context, actor Actor, roleID string, manager UserRef) (*models.Team, []models.Effect, error) {
	if !actor.IsAdmin {
		return nil, nil, ErrForbiddenOperation
	}
	if manager.IsBot {
		return nil, nil, ErrBotUser
	}

	managerRole, err := s.settingRepo.Get(ctx, models.SettingManagerRole)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return nil, nil, ErrManagerRoleNotConfigured
		}
		return nil, nil, fmt.Errorf("failed to read manager role setting: %w", err)
	}

	team, err := s.getTeamByRoleID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	if team.ManagerID != nil {
		return nil, nil, ErrTeamAlreadyManaged
	}

	player := &models.Player{UserID: manager.ID, Name: manager.Name}
	err = s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// The elsewhere-check and the assignment must share the transaction,
		// or two teams could admit the same manager concurrently.
		other, err := s.teamRepo.GetByManagerID(ctx, exec, manager.ID)
		if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) {
			return fmt.Errorf("failed to check existing managed team: %w", err)
		}
		if other != nil {
			return ErrManagerElsewhere
		}

		if err := s.playerRepo.Upsert(ctx, exec, player); err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", manager.ID, err)
		}
		if err := s.teamRepo.AssignManager(ctx, exec, team.ID, manager.ID); err != nil {
			if errors.Is(err, repositories.ErrTeamManagedConflict) {
				return ErrTeamAlreadyManaged
			}
			return fmt.Errorf("failed to assign manager: %w", err)
		}
		membership := &models.Membership{
			PlayerID: player.ID,
			TeamID:   team.ID,
			Role:     models.MembershipRoleManager,
		}
		if err := s.membershipRepo.Create(ctx, exec, membership); err != nil {
			return fmt.Errorf("failed to create manager membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	team.ManagerID = &manager.ID
	team.Manager = player

	effects := []models.Effect{
		{Kind: models.EffectRoleGrant, UserID: manager.ID, RoleID: team.RoleID},
		{Kind: models.EffectRoleGrant, UserID: manager.ID, RoleID: managerRole.Value},
	}
	return team, effects, nil
}

func (s *teamService) RemoveManager(ctx context.Context, actor Actor, roleID string) (*models.Team, []models.Effect, error) {
	if !actor.IsAdmin {
		return nil, nil, ErrForbiddenOperation
	}

	team, err := s.getTeamByRoleID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	if team.ManagerID == nil {
		return nil, nil, ErrTeamHasNoManager
	}
	managerID := *team.ManagerID

	player, err := s.playerRepo.GetByUserID(ctx, managerID)
	if err != nil && !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, nil, fmt.Errorf("failed to look up manager %s: %w", managerID, err)
	}

	err = s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.ClearManager(ctx, exec, team.ID); err != nil {
			return fmt.Errorf("failed to clear manager of team %d: %w", team.ID, err)
		}
		if player != nil {
			err := s.membershipRepo.Delete(ctx, exec, player.ID, team.ID, models.MembershipRoleManager)
			if err != nil && !errors.Is(err, repositories.ErrMembershipNotFound) {
				return fmt.Errorf("failed to delete manager membership: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	team.ManagerID = nil

	effects := []models.Effect{
		{Kind: models.EffectRoleRevoke, UserID: managerID, RoleID: team.RoleID},
	}
	if managerRole, err := s.settingRepo.Get(ctx, models.SettingManagerRole); err == nil {
		effects = append(effects, models.Effect{
			Kind:   models.EffectRoleRevoke,
			UserID: managerID,
			RoleID: managerRole.Value,
		})
	} else if !errors.Is(err, repositories.ErrSettingNotFound) {
		return nil, nil, fmt.Errorf("failed to read manager role setting: %w", err)
	}
	return team, effects, nil
}

func (s *teamService) ReleasePlayer(ctx context.Context, actor Actor, target UserRef) (*models.Team, []models.Effect, error) {
	team, err := s.actingTeam(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	player, err := s.playerRepo.GetByUserID(ctx, target.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, fmt.Errorf("failed to look up player %s: %w", target.ID, err)
	}

	err = s.membershipRepo.Delete(ctx, nil, player.ID, team.ID, models.MembershipRolePlayer)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, nil, ErrMembershipNotFound
		}
		return nil, nil, fmt.Errorf("failed to delete membership: %w", err)
	}

	effects := []models.Effect{
		{Kind: models.EffectRoleRevoke, UserID: target.ID, RoleID: team.RoleID},
	}
	if channel, err := s.settingRepo.Get(ctx, models.SettingTransactionsChannel); err == nil {
		effects = append(effects, models.Effect{
			Kind:      models.EffectChannelPost,
			ChannelID: channel.Value,
			Event:     "player_released",
			Payload: map[string]interface{}{
				"user_id":     target.ID,
				"team":        team.Name,
				"released_by": actor.UserID,
			},
		})
	} else if !errors.Is(err, repositories.ErrSettingNotFound) {
		return nil, nil, fmt.Errorf("failed to read transactions channel setting: %w", err)
	}
	return team, effects, nil
}

func (s *teamService) Roster(ctx context.Context, actor Actor) (*models.Team, []*models.Membership, error) {
	team, err := s.permissions.ResolveAffiliation(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	memberships, err := s.membershipRepo.ListByTeamID(ctx, team.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list roster of team %d: %w", team.ID, err)
	}
	populateCrestURL(team, s.uploader)
	return team, memberships, nil
}

func (s *teamService) UploadCrest(ctx context.Context, actor Actor, roleID string, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.getTeamByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin {
		authority, err := s.permissions.Resolve(ctx, actor)
		if err != nil {
			return nil, err
		}
		if authority.ManagedTeam == nil || authority.ManagedTeam.ID != team.ID {
			return nil, ErrForbiddenOperation
		}
	}

	ext, err := extensionForContentType(contentType)
	if err != nil {
		return nil, err
	}

	oldKey := team.CrestKey
	key := fmt.Sprintf("crests/team_%d%s", team.ID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload crest for team %d: %w", team.ID, err)
	}
	if err := s.teamRepo.UpdateCrestKey(ctx, team.ID, &key); err != nil {
		return nil, fmt.Errorf("failed to store crest key for team %d: %w", team.ID, err)
	}
	if oldKey != nil && *oldKey != key {
		// Best effort: the new crest is already live.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.CrestKey = &key
	populateCrestURL(team, s.uploader)
	return team, nil
}

// actingTeam resolves which team the actor operates on for roster moves:
// managers act on their managed team, admins on their single affiliated
// team.
func (s *teamService) actingTeam(ctx context.Context, actor Actor) (*models.Team, error) {
	authority, err := s.permissions.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if authority.ManagedTeam != nil {
		return authority.ManagedTeam, nil
	}
	if authority.Admin {
		return s.permissions.ResolveAffiliation(ctx, actor)
	}
	return nil, ErrForbiddenOperation
}

func (s *teamService) getTeamByRoleID(ctx context.Context, roleID string) (*models.Team, error) {
	team, err := s.teamRepo.GetByRoleID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team by role %s: %w", roleID, err)
	}
	return team, nil
}
