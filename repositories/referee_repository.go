package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-bot/models"
	"github.com/lib/pq"
)

var (
	ErrRefereeNotFound = errors.New("referee not found")
	ErrRefereeConflict = errors.New("referee already exists")
)

type RefereeRepository interface {
	Add(ctx context.Context, referee *models.Referee) error
	Get(ctx context.Context, userID string) (*models.Referee, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]*models.Referee, error)
}

type postgresRefereeRepository struct {
	db *sql.DB
}

func NewPostgresRefereeRepository(db *sql.DB) RefereeRepository {
	return &postgresRefereeRepository{db: db}
}

func (r *postgresRefereeRepository) Add(ctx context.Context, referee *models.Referee) error {
	query := `INSERT INTO referees (user_id) VALUES ($1) RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, referee.UserID).Scan(&referee.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrRefereeConflict
		}
		return err
	}
	return nil
}

func (r *postgresRefereeRepository) Get(ctx context.Context, userID string) (*models.Referee, error) {
	query := `SELECT user_id, created_at FROM referees WHERE user_id = $1`

	referee := &models.Referee{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&referee.UserID, &referee.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefereeNotFound
		}
		return nil, err
	}
	return referee, nil
}

func (r *postgresRefereeRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM referees WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRefereeNotFound)
}

func (r *postgresRefereeRepository) List(ctx context.Context) ([]*models.Referee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, created_at FROM referees ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referees := []*models.Referee{}
	for rows.Next() {
		referee := &models.Referee{}
		if err := rows.Scan(&referee.UserID, &referee.CreatedAt); err != nil {
			return nil, err
		}
		referees = append(referees, referee)
	}
	return referees, rows.Err()
}
