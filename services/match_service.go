package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
	"github.com/Dosada05/league-bot/schedule"
	"github.com/jonboulle/clockwork"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

type CreateMatchInput struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Venue    string `json:"venue"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

type GenerateSeasonInput struct {
	Venue        string `json:"venue"`
	StartDate    string `json:"start_date"`
	Time         string `json:"time"`
	IntervalDays int    `json:"interval_days"`
	DoubleRound  bool   `json:"double_round"`
}

type MatchService interface {
	Create(ctx context.Context, actor Actor, input CreateMatchInput) (*models.Match, error)

	// GenerateSeason schedules a full round-robin slate for every
	// registered team, one round per interval starting at the given
	// kickoff.
	GenerateSeason(ctx context.Context, actor Actor, input GenerateSeasonInput) ([]*models.Match, error)
	Edit(ctx context.Context, actor Actor, matchID int, field, value string) (*models.Match, error)
	Cancel(ctx context.Context, actor Actor, matchID int, reason string) (*models.Match, error)
	Reschedule(ctx context.Context, actor Actor, matchID int, date, timeOfDay string) (*models.Match, error)
	ListUpcoming(ctx context.Context) ([]*models.Match, error)

	// Fixtures digest bookkeeping: the adapter keeps one pinned message
	// with the upcoming schedule and tells us its id so later edits can
	// update it in place.
	FixturesMessage(ctx context.Context) (string, error)
	TrackFixturesMessage(ctx context.Context, actor Actor, messageID string) error
	ClearFixturesMessage(ctx context.Context, actor Actor) error
}

type matchService struct {
	matchRepo   repositories.MatchRepository
	teamRepo    repositories.TeamRepository
	settingRepo repositories.SettingRepository
	permissions PermissionService
	clock       clockwork.Clock
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	settingRepo repositories.SettingRepository,
	permissions PermissionService,
	clock clockwork.Clock,
) MatchService {
	return &matchService{
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		settingRepo: settingRepo,
		permissions: permissions,
		clock:       clock,
	}
}

func (s *matchService) Create(ctx context.Context, actor Actor, input CreateMatchInput) (*models.Match, error) {
	if err := s.requireRefereeOrAdmin(ctx, actor); err != nil {
		return nil, err
	}

	input.Venue = strings.TrimSpace(input.Venue)
	if input.Venue == "" {
		return nil, fmt.Errorf("%w: venue is required", ErrValidationFailed)
	}
	kickoff, err := parseKickoff(input.Date, input.Time)
	if err != nil {
		return nil, err
	}

	home, err := s.teamByName(ctx, input.HomeTeam)
	if err != nil {
		return nil, err
	}
	away, err := s.teamByName(ctx, input.AwayTeam)
	if err != nil {
		return nil, err
	}
	if home.ID == away.ID {
		return nil, ErrMatchSameTeams
	}

	match := &models.Match{
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		Venue:      input.Venue,
		KickoffAt:  kickoff,
		Status:     models.MatchStatusScheduled,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	match.HomeTeam = home
	match.AwayTeam = away
	return match, nil
}

func (s *matchService) GenerateSeason(ctx context.Context, actor Actor, input GenerateSeasonInput) ([]*models.Match, error) {
	if err := s.requireRefereeOrAdmin(ctx, actor); err != nil {
		return nil, err
	}

	input.Venue = strings.TrimSpace(input.Venue)
	if input.Venue == "" {
		return nil, fmt.Errorf("%w: venue is required", ErrValidationFailed)
	}
	firstKickoff, err := parseKickoff(input.StartDate, input.Time)
	if err != nil {
		return nil, err
	}
	interval := input.IntervalDays
	if interval == 0 {
		interval = 7
	}
	if interval < 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrValidationFailed)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: at least two teams are required", ErrValidationFailed)
	}
	byID := make(map[int]*models.Team, len(teams))
	ids := make([]int, 0, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
		ids = append(ids, team.ID)
	}

	pairings := schedule.RoundRobin(ids, input.DoubleRound)
	matches := make([]*models.Match, 0, len(pairings))
	for _, pairing := range pairings {
		match := &models.Match{
			HomeTeamID: pairing.HomeTeamID,
			AwayTeamID: pairing.AwayTeamID,
			Venue:      input.Venue,
			KickoffAt:  firstKickoff.AddDate(0, 0, (pairing.Round-1)*interval),
			Status:     models.MatchStatusScheduled,
		}
		if err := s.matchRepo.Create(ctx, match); err != nil {
			return nil, fmt.Errorf("failed to create generated match: %w", err)
		}
		match.HomeTeam = byID[pairing.HomeTeamID]
		match.AwayTeam = byID[pairing.AwayTeamID]
		matches = append(matches, match)
	}
	return matches, nil
}

func (s *matchService) Edit(ctx context.Context, actor Actor, matchID int, field, value string) (*models.Match, error) {
	if err := s.requireRefereeOrAdmin(ctx, actor); err != nil {
		return nil, err
	}

	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCancelled {
		return nil, ErrMatchCancelled
	}

	value = strings.TrimSpace(value)
	switch field {
	case "home":
		team, err := s.teamByName(ctx, value)
		if err != nil {
			return nil, err
		}
		if team.ID == match.AwayTeamID {
			return nil, ErrMatchSameTeams
		}
		match.HomeTeamID = team.ID
	case "away":
		team, err := s.teamByName(ctx, value)
		if err != nil {
			return nil, err
		}
		if team.ID == match.HomeTeamID {
			return nil, ErrMatchSameTeams
		}
		match.AwayTeamID = team.ID
	case "venue":
		if value == "" {
			return nil, fmt.Errorf("%w: venue is required", ErrValidationFailed)
		}
		match.Venue = value
	case "date":
		if !datePattern.MatchString(value) {
			return nil, ErrInvalidDateFormat
		}
		day, err := time.ParseInLocation("2006-01-02", value, time.UTC)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		old := match.KickoffAt.UTC()
		match.KickoffAt = time.Date(day.Year(), day.Month(), day.Day(),
			old.Hour(), old.Minute(), 0, 0, time.UTC)
	case "time":
		if !timePattern.MatchString(value) {
			return nil, ErrInvalidTimeFormat
		}
		clockTime, err := time.ParseInLocation("15:04", value, time.UTC)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		old := match.KickoffAt.UTC()
		match.KickoffAt = time.Date(old.Year(), old.Month(), old.Day(),
			clockTime.Hour(), clockTime.Minute(), 0, 0, time.UTC)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMatchField, field)
	}

	if err := s.matchRepo.Update(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotScheduled) {
			return nil, ErrMatchCancelled
		}
		return nil, fmt.Errorf("failed to update match %d: %w", matchID, err)
	}
	return s.getMatch(ctx, matchID)
}

func (s *matchService) Cancel(ctx context.Context, actor Actor, matchID int, reason string) (*models.Match, error) {
	if err := s.requireRefereeOrAdmin(ctx, actor); err != nil {
		return nil, err
	}

	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCancelled {
		return nil, ErrMatchAlreadyCancelled
	}

	reason = strings.TrimSpace(reason)
	if err := s.matchRepo.Cancel(ctx, matchID, reason); err != nil {
		if errors.Is(err, repositories.ErrMatchNotScheduled) {
			return nil, ErrMatchAlreadyCancelled
		}
		return nil, fmt.Errorf("failed to cancel match %d: %w", matchID, err)
	}
	return s.getMatch(ctx, matchID)
}

func (s *matchService) Reschedule(ctx context.Context, actor Actor, matchID int, date, timeOfDay string) (*models.Match, error) {
	if err := s.requireRefereeOrAdmin(ctx, actor); err != nil {
		return nil, err
	}

	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCancelled {
		return nil, ErrMatchCancelled
	}

	kickoff, err := parseKickoff(date, timeOfDay)
	if err != nil {
		return nil, err
	}
	if err := s.matchRepo.UpdateKickoff(ctx, matchID, kickoff); err != nil {
		if errors.Is(err, repositories.ErrMatchNotScheduled) {
			return nil, ErrMatchCancelled
		}
		return nil, fmt.Errorf("failed to reschedule match %d: %w", matchID, err)
	}
	return s.getMatch(ctx, matchID)
}

func (s *matchService) ListUpcoming(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListUpcoming(ctx, s.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) FixturesMessage(ctx context.Context) (string, error) {
	setting, err := s.settingRepo.Get(ctx, models.SettingFixturesMessage)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return "", ErrFixturesNotPosted
		}
		return "", fmt.Errorf("failed to read fixtures message setting: %w", err)
	}
	return setting.Value, nil
}

func (s *matchService) TrackFixturesMessage(ctx context.Context, actor Actor, messageID string) error {
	if err := s.requireRefereeOrAdmin(ctx, actor); err != nil {
		return err
	}
	if messageID == "" {
		return fmt.Errorf("%w: message id is required", ErrValidationFailed)
	}
	setting := &models.Setting{Key: models.SettingFixturesMessage, Value: messageID}
	if err := s.settingRepo.Set(ctx, setting); err != nil {
		return fmt.Errorf("failed to store fixtures message id: %w", err)
	}
	return nil
}

func (s *matchService) ClearFixturesMessage(ctx context.Context, actor Actor) error {
	if err := s.requireRefereeOrAdmin(ctx, actor); err != nil {
		return err
	}
	if err := s.settingRepo.Delete(ctx, models.SettingFixturesMessage); err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return ErrFixturesNotPosted
		}
		return fmt.Errorf("failed to clear fixtures message id: %w", err)
	}
	return nil
}

func (s *matchService) requireRefereeOrAdmin(ctx context.Context, actor Actor) error {
	authority, err := s.permissions.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if !authority.RefereeOrAdmin() {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *matchService) getMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) teamByName(ctx context.Context, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	team, err := s.teamRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, name)
		}
		return nil, fmt.Errorf("failed to get team %q: %w", name, err)
	}
	return team, nil
}

// parseKickoff combines a calendar date and wall-clock time into one UTC
// kickoff instant. Both parts are validated strictly: the regexes reject
// loose layouts that time.Parse would otherwise accept.
func parseKickoff(date, timeOfDay string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeOfDay = strings.TrimSpace(timeOfDay)
	if !datePattern.MatchString(date) {
		return time.Time{}, ErrInvalidDateFormat
	}
	if !timePattern.MatchString(timeOfDay) {
		return time.Time{}, ErrInvalidTimeFormat
	}
	kickoff, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, time.UTC)
	if err != nil {
		// A well-formed string can still name an impossible instant,
		// e.g. hour 25.
		if strings.Contains(err.Error(), "hour") || strings.Contains(err.Error(), "minute") {
			return time.Time{}, ErrInvalidTimeFormat
		}
		return time.Time{}, ErrInvalidDateFormat
	}
	return kickoff, nil
}
