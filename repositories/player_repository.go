package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-bot/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	// Upsert creates the player on first reference or refreshes the display
	// name on conflict. Fills ID, counters and CreatedAt from the row.
	Upsert(ctx context.Context, exec SQLExecutor, player *models.Player) error

	GetByUserID(ctx context.Context, userID string) (*models.Player, error)

	// IncrementCounters adds the deltas to the player's cumulative stats.
	IncrementCounters(ctx context.Context, exec SQLExecutor, userID string, goals, assists, mentions, motm int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Upsert(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, goals, assists, mentions, motm, created_at`

	return executor.QueryRowContext(ctx, query,
		player.UserID,
		player.Name,
	).Scan(
		&player.ID,
		&player.Goals,
		&player.Assists,
		&player.Mentions,
		&player.MOTM,
		&player.CreatedAt,
	)
}

func (r *postgresPlayerRepository) GetByUserID(ctx context.Context, userID string) (*models.Player, error) {
	query := `
		SELECT id, user_id, name, goals, assists, mentions, motm, created_at
		FROM players
		WHERE user_id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&player.ID,
		&player.UserID,
		&player.Name,
		&player.Goals,
		&player.Assists,
		&player.Mentions,
		&player.MOTM,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *postgresPlayerRepository) IncrementCounters(ctx context.Context, exec SQLExecutor, userID string, goals, assists, mentions, motm int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE players
		SET goals = goals + $1, assists = assists + $2, mentions = mentions + $3, motm = motm + $4
		WHERE user_id = $5`

	result, err := executor.ExecContext(ctx, query, goals, assists, mentions, motm, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
