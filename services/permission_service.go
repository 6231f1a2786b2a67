package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
)

// Actor is the authenticated caller as reported by the platform adapter:
// its user id, display name, the set of external role ids it currently
// holds, and the platform's own administrator flag.
type Actor struct {
	UserID  string   `json:"user_id"`
	Name    string   `json:"name"`
	RoleIDs []string `json:"role_ids"`
	IsAdmin bool     `json:"is_admin"`
}

func (a Actor) hasRole(roleID string) bool {
	for _, id := range a.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// UserRef identifies a platform user referenced by a command argument.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsBot bool   `json:"is_bot"`
}

// Authority is the resolved domain permission set for one action. It is
// always computed, never cached: role membership lives on the platform
// and can change between commands.
type Authority struct {
	Admin       bool
	Referee     bool
	ManagedTeam *models.Team
}

func (a *Authority) RefereeOrAdmin() bool {
	return a.Admin || a.Referee
}

type PermissionService interface {
	// Resolve never returns an authorization verdict as an error; an empty
	// Authority is a valid result. The error path is infrastructure only.
	Resolve(ctx context.Context, actor Actor) (*Authority, error)

	// ResolveAffiliation maps the actor's held roles to the single team
	// they belong to. Holding roles of two teams is a configuration error
	// surfaced as ErrAmbiguousAffiliation, never silently tie-broken.
	ResolveAffiliation(ctx context.Context, actor Actor) (*models.Team, error)
}

type permissionService struct {
	teamRepo    repositories.TeamRepository
	refereeRepo repositories.RefereeRepository
	settingRepo repositories.SettingRepository
}

func NewPermissionService(
	teamRepo repositories.TeamRepository,
	refereeRepo repositories.RefereeRepository,
	settingRepo repositories.SettingRepository,
) PermissionService {
	return &permissionService{
		teamRepo:    teamRepo,
		refereeRepo: refereeRepo,
		settingRepo: settingRepo,
	}
}

func (s *permissionService) Resolve(ctx context.Context, actor Actor) (*Authority, error) {
	authority := &Authority{Admin: actor.IsAdmin}

	referee, err := s.isReferee(ctx, actor)
	if err != nil {
		return nil, err
	}
	authority.Referee = referee

	team, err := s.managedTeam(ctx, actor)
	if err != nil {
		return nil, err
	}
	authority.ManagedTeam = team

	return authority, nil
}

func (s *permissionService) isReferee(ctx context.Context, actor Actor) (bool, error) {
	_, err := s.refereeRepo.Get(ctx, actor.UserID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, repositories.ErrRefereeNotFound) {
		return false, fmt.Errorf("failed to look up referee %s: %w", actor.UserID, err)
	}

	setting, err := s.settingRepo.Get(ctx, models.SettingRefereeRole)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read referee role setting: %w", err)
	}
	return actor.hasRole(setting.Value), nil
}

// managedTeam requires all three of: the global manager role, the team's
// own role, and the team record naming the actor as manager. Without the
// manager_role setting the answer is always "none" (fail closed).
func (s *permissionService) managedTeam(ctx context.Context, actor Actor) (*models.Team, error) {
	setting, err := s.settingRepo.Get(ctx, models.SettingManagerRole)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read manager role setting: %w", err)
	}
	if !actor.hasRole(setting.Value) {
		return nil, nil
	}

	team, err := s.teamRepo.GetByManagerID(ctx, nil, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up managed team for %s: %w", actor.UserID, err)
	}
	if !actor.hasRole(team.RoleID) {
		return nil, nil
	}
	return team, nil
}

func (s *permissionService) ResolveAffiliation(ctx context.Context, actor Actor) (*models.Team, error) {
	teams, err := s.teamRepo.ListByRoleIDs(ctx, actor.RoleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team affiliation for %s: %w", actor.UserID, err)
	}
	switch len(teams) {
	case 0:
		return nil, ErrNoTeamAffiliation
	case 1:
		return teams[0], nil
	default:
		return nil, ErrAmbiguousAffiliation
	}
}
