package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-bot/models"
	"github.com/lib/pq"
)

var (
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrMembershipConflict      = errors.New("membership already exists")
	ErrMembershipPlayerInvalid = errors.New("membership player conflict or invalid")
	ErrMembershipTeamInvalid   = errors.New("membership team conflict or invalid")
)

type MembershipRepository interface {
	Create(ctx context.Context, exec SQLExecutor, membership *models.Membership) error
	Get(ctx context.Context, playerID, teamID int, role models.MembershipRole) (*models.Membership, error)
	Delete(ctx context.Context, exec SQLExecutor, playerID, teamID int, role models.MembershipRole) error
	DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error

	// ListByTeamID returns the team's memberships with players populated,
	// managers first.
	ListByTeamID(ctx context.Context, teamID int) ([]*models.Membership, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMembershipRepository) Create(ctx context.Context, exec SQLExecutor, membership *models.Membership) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO memberships (player_id, team_id, role, salary, duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		membership.PlayerID,
		membership.TeamID,
		membership.Role,
		membership.Salary,
		membership.Duration,
	).Scan(&membership.ID, &membership.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrMembershipConflict
			case "23503":
				switch pqErr.Constraint {
				case "memberships_player_id_fkey":
					return ErrMembershipPlayerInvalid
				case "memberships_team_id_fkey":
					return ErrMembershipTeamInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresMembershipRepository) Get(ctx context.Context, playerID, teamID int, role models.MembershipRole) (*models.Membership, error) {
	query := `
		SELECT id, player_id, team_id, role, salary, duration, created_at
		FROM memberships
		WHERE player_id = $1 AND team_id = $2 AND role = $3`

	membership := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, playerID, teamID, role).Scan(
		&membership.ID,
		&membership.PlayerID,
		&membership.TeamID,
		&membership.Role,
		&membership.Salary,
		&membership.Duration,
		&membership.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return membership, nil
}

func (r *postgresMembershipRepository) Delete(ctx context.Context, exec SQLExecutor, playerID, teamID int, role models.MembershipRole) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM memberships WHERE player_id = $1 AND team_id = $2 AND role = $3`
	result, err := executor.ExecContext(ctx, query, playerID, teamID, role)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}

func (r *postgresMembershipRepository) DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM memberships WHERE team_id = $1`, teamID)
	return err
}

func (r *postgresMembershipRepository) ListByTeamID(ctx context.Context, teamID int) ([]*models.Membership, error) {
	query := `
		SELECT
			m.id, m.player_id, m.team_id, m.role, m.salary, m.duration, m.created_at,
			p.id, p.user_id, p.name, p.goals, p.assists, p.mentions, p.motm, p.created_at
		FROM memberships m
		JOIN players p ON p.id = m.player_id
		WHERE m.team_id = $1
		ORDER BY m.role, m.created_at`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := []*models.Membership{}
	for rows.Next() {
		membership := &models.Membership{Player: &models.Player{}}
		err := rows.Scan(
			&membership.ID,
			&membership.PlayerID,
			&membership.TeamID,
			&membership.Role,
			&membership.Salary,
			&membership.Duration,
			&membership.CreatedAt,
			&membership.Player.ID,
			&membership.Player.UserID,
			&membership.Player.Name,
			&membership.Player.Goals,
			&membership.Player.Assists,
			&membership.Player.Mentions,
			&membership.Player.MOTM,
			&membership.Player.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}
	return memberships, rows.Err()
}
