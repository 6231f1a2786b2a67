package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/league-bot/events"
	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
	"github.com/jonboulle/clockwork"
)

// offerTTL bounds how long an offer may stay pending before the sweeper
// removes it.
const offerTTL = 7 * 24 * time.Hour

// OfferDraft is a proposed offer that has not been persisted yet. The
// adapter delivers it to the player first and calls Finalize with the
// delivery message id; an offer whose message was never sent leaves no
// row behind.
type OfferDraft struct {
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name"`
	TeamID   int     `json:"team_id"`
	TeamName string  `json:"team_name"`
	TeamRole string  `json:"team_role"`
	Salary   string  `json:"salary"`
	Duration string  `json:"duration"`
	Position *string `json:"position,omitempty"`
}

type OfferService interface {
	Propose(ctx context.Context, actor Actor, target UserRef, salary, duration string, position *string) (*OfferDraft, error)
	Finalize(ctx context.Context, draft *OfferDraft, messageID string) (*models.ContractOffer, error)
	GetByMessageID(ctx context.Context, messageID string) (*models.ContractOffer, error)

	// Accept resolves the offer exactly once: the row is atomically
	// deleted and converted into a player membership. A second accept or
	// decline of the same id fails with ErrOfferNotFound.
	Accept(ctx context.Context, actor Actor, offerID int) (*models.Membership, []models.Effect, error)
	Decline(ctx context.Context, actor Actor, offerID int) error

	SweepExpired(ctx context.Context) (int64, error)
}

type offerService struct {
	offerRepo      repositories.OfferRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	membershipRepo repositories.MembershipRepository
	settingRepo    repositories.SettingRepository
	permissions    PermissionService
	txm            repositories.TxManager
	clock          clockwork.Clock
	feed           *events.Hub
}

func NewOfferService(
	offerRepo repositories.OfferRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	membershipRepo repositories.MembershipRepository,
	settingRepo repositories.SettingRepository,
	permissions PermissionService,
	txm repositories.TxManager,
	clock clockwork.Clock,
	feed *events.Hub,
) OfferService {
	return &offerService{
		offerRepo:      offerRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		membershipRepo: membershipRepo,
		settingRepo:    settingRepo,
		permissions:    permissions,
		txm:            txm,
		clock:          clock,
		feed:           feed,
	}
}

func (s *offerService) Propose(ctx context.Context, actor Actor, target UserRef, salary, duration string, position *string) (*OfferDraft, error) {
	if target.IsBot {
		return nil, ErrOfferToBot
	}
	if target.ID == actor.UserID {
		return nil, ErrOfferToSelf
	}
	salary = strings.TrimSpace(salary)
	duration = strings.TrimSpace(duration)
	if salary == "" || duration == "" {
		return nil, fmt.Errorf("%w: salary and duration are required", ErrValidationFailed)
	}

	team, err := s.actingTeam(ctx, actor)
	if err != nil {
		return nil, err
	}

	return &OfferDraft{
		UserID:   target.ID,
		UserName: target.Name,
		TeamID:   team.ID,
		TeamName: team.Name,
		TeamRole: team.RoleID,
		Salary:   salary,
		Duration: duration,
		Position: position,
	}, nil
}

func (s *offerService) Finalize(ctx context.Context, draft *OfferDraft, messageID string) (*models.ContractOffer, error) {
	if draft == nil || messageID == "" {
		return nil, fmt.Errorf("%w: draft and delivery message id are required", ErrValidationFailed)
	}

	offer := &models.ContractOffer{
		UserID:    draft.UserID,
		TeamID:    draft.TeamID,
		Salary:    draft.Salary,
		Duration:  draft.Duration,
		Position:  draft.Position,
		MessageID: messageID,
		ExpiresAt: s.clock.Now().UTC().Add(offerTTL),
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		switch {
		case errors.Is(err, repositories.ErrOfferMessageConflict):
			return nil, ErrOfferAlreadyFinalized
		case errors.Is(err, repositories.ErrOfferTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to persist contract offer: %w", err)
	}
	return offer, nil
}

func (s *offerService) GetByMessageID(ctx context.Context, messageID string) (*models.ContractOffer, error) {
	offer, err := s.offerRepo.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer by message %s: %w", messageID, err)
	}
	return offer, nil
}

func (s *offerService) Accept(ctx context.Context, actor Actor, offerID int) (*models.Membership, []models.Effect, error) {
	offer, err := s.getPending(ctx, actor, offerID)
	if err != nil {
		return nil, nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, offer.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to get offering team %d: %w", offer.TeamID, err)
	}

	player := &models.Player{UserID: actor.UserID, Name: actor.Name}
	membership := &models.Membership{
		Role:     models.MembershipRolePlayer,
		Salary:   &offer.Salary,
		Duration: &offer.Duration,
	}
	err = s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.offerRepo.TakeByID(ctx, exec, offer.ID); err != nil {
			if errors.Is(err, repositories.ErrOfferNotFound) {
				// Lost the race against a concurrent resolution.
				return ErrOfferNotFound
			}
			return fmt.Errorf("failed to take offer %d: %w", offer.ID, err)
		}
		if err := s.playerRepo.Upsert(ctx, exec, player); err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", actor.UserID, err)
		}
		membership.PlayerID = player.ID
		membership.TeamID = team.ID
		if err := s.membershipRepo.Create(ctx, exec, membership); err != nil {
			if errors.Is(err, repositories.ErrMembershipConflict) {
				return ErrAlreadyOnTeam
			}
			return fmt.Errorf("failed to create membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	membership.Player = player

	effects := []models.Effect{
		{Kind: models.EffectRoleGrant, UserID: actor.UserID, RoleID: team.RoleID},
	}
	if channel, err := s.settingRepo.Get(ctx, models.SettingTransactionsChannel); err == nil {
		effects = append(effects, models.Effect{
			Kind:      models.EffectChannelPost,
			ChannelID: channel.Value,
			Event:     "contract_signed",
			Payload: map[string]interface{}{
				"user_id":  actor.UserID,
				"team":     team.Name,
				"salary":   offer.Salary,
				"duration": offer.Duration,
				"position": derefString(offer.Position),
			},
		})
	} else if !errors.Is(err, repositories.ErrSettingNotFound) {
		return nil, nil, fmt.Errorf("failed to read transactions channel setting: %w", err)
	}

	if s.feed != nil {
		s.feed.Publish(events.RoomTransactions, "contract_signed", map[string]interface{}{
			"user_id": actor.UserID,
			"team":    team.Name,
		})
	}
	return membership, effects, nil
}

func (s *offerService) Decline(ctx context.Context, actor Actor, offerID int) error {
	offer, err := s.getPending(ctx, actor, offerID)
	if err != nil {
		return err
	}

	if _, err := s.offerRepo.TakeByID(ctx, nil, offer.ID); err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return ErrOfferNotFound
		}
		return fmt.Errorf("failed to delete offer %d: %w", offer.ID, err)
	}
	return nil
}

func (s *offerService) SweepExpired(ctx context.Context) (int64, error) {
	return s.offerRepo.DeleteExpired(ctx, s.clock.Now().UTC())
}

// getPending loads the offer and checks that the actor is its addressee
// and that it has not expired. Expired rows are removed eagerly instead
// of waiting for the sweeper.
func (s *offerService) getPending(ctx context.Context, actor Actor, offerID int) (*models.ContractOffer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer %d: %w", offerID, err)
	}
	if offer.UserID != actor.UserID {
		return nil, ErrOfferTargetMismatch
	}
	if s.clock.Now().After(offer.ExpiresAt) {
		if _, err := s.offerRepo.TakeByID(ctx, nil, offer.ID); err != nil &&
			!errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, fmt.Errorf("failed to delete expired offer %d: %w", offer.ID, err)
		}
		return nil, ErrOfferExpired
	}
	return offer, nil
}

// actingTeam mirrors teamService.actingTeam for offer proposals.
func (s *offerService) actingTeam(ctx context.Context, actor Actor) (*models.Team, error) {
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
