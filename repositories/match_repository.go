package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/league-bot/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchNotScheduled = errors.New("match is not in scheduled status")
	ErrMatchTeamInvalid  = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error

	// GetByID populates HomeTeam and AwayTeam with id, name and short name.
	GetByID(ctx context.Context, id int) (*models.Match, error)

	// Update rewrites the mutable fields (teams, venue, kickoff) of a
	// scheduled match. Returns ErrMatchNotScheduled if the row exists but
	// has been cancelled in the meantime.
	Update(ctx context.Context, match *models.Match) error

	UpdateKickoff(ctx context.Context, id int, kickoffAt time.Time) error
	Cancel(ctx context.Context, id int, reason string) error
	ListUpcoming(ctx context.Context, after time.Time) ([]*models.Match, error)
	CountScheduledByTeam(ctx context.Context, teamID int) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchTeamInvalid
	}
	return err
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (home_team_id, away_team_id, venue, kickoff_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.HomeTeamID,
		match.AwayTeamID,
		match.Venue,
		match.KickoffAt,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

const matchSelect = `
	SELECT
		m.id, m.home_team_id, m.away_team_id, m.venue, m.kickoff_at, m.status, m.cancel_reason, m.created_at,
		h.name, h.short_name, a.name, a.short_name
	FROM matches m
	JOIN teams h ON h.id = m.home_team_id
	JOIN teams a ON a.id = m.away_team_id`

func scanMatch(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Match, error) {
	match := &models.Match{
		HomeTeam: &models.Team{},
		AwayTeam: &models.Team{},
	}
	err := scanner.Scan(
		&match.ID,
		&match.HomeTeamID,
		&match.AwayTeamID,
		&match.Venue,
		&match.KickoffAt,
		&match.Status,
		&match.CancelReason,
		&match.CreatedAt,
		&match.HomeTeam.Name,
		&match.HomeTeam.ShortName,
		&match.AwayTeam.Name,
		&match.AwayTeam.ShortName,
	)
	if err != nil {
		return nil, err
	}
	match.HomeTeam.ID = match.HomeTeamID
	match.AwayTeam.ID = match.AwayTeamID
	match.KickoffAt = match.KickoffAt.UTC()
	return match, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := matchSelect + ` WHERE m.id = $1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET home_team_id = $1, away_team_id = $2, venue = $3, kickoff_at = $4
		WHERE id = $5 AND status = $6`

	result, err := r.db.ExecContext(ctx, query,
		match.HomeTeamID,
		match.AwayTeamID,
		match.Venue,
		match.KickoffAt,
		match.ID,
		models.MatchStatusScheduled,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotScheduled)
}

func (r *postgresMatchRepository) UpdateKickoff(ctx context.Context, id int, kickoffAt time.Time) error {
	query := `UPDATE matches SET kickoff_at = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, kickoffAt, id, models.MatchStatusScheduled)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotScheduled)
}

func (r *postgresMatchRepository) Cancel(ctx context.Context, id int, reason string) error {
	query := `UPDATE matches SET status = $1, cancel_reason = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query,
		models.MatchStatusCancelled,
		reason,
		id,
		models.MatchStatusScheduled,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotScheduled)
}

func (r *postgresMatchRepository) ListUpcoming(ctx context.Context, after time.Time) ([]*models.Match, error) {
	query := matchSelect + ` WHERE m.status = $1 AND m.kickoff_at >= $2 ORDER BY m.kickoff_at`
	rows, err := r.db.QueryContext(ctx, query, models.MatchStatusScheduled, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []*models.Match{}
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) CountScheduledByTeam(ctx context.Context, teamID int) (int, error) {
	query := `
		SELECT COUNT(*) FROM matches
		WHERE status = $1 AND (home_team_id = $2 OR away_team_id = $2)`

	var count int
	err := r.db.QueryRowContext(ctx, query, models.MatchStatusScheduled, teamID).Scan(&count)
	return count, err
}
