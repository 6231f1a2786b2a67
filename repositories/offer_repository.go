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
	ErrOfferNotFound        = errors.New("contract offer not found")
	ErrOfferMessageConflict = errors.New("contract offer message conflict")
	ErrOfferTeamInvalid     = errors.New("contract offer team conflict or invalid")
)

type OfferRepository interface {
	Create(ctx context.Context, offer *models.ContractOffer) error
	GetByID(ctx context.Context, id int) (*models.ContractOffer, error)

	// GetByMessageID correlates a recipient's response back to the offer
	// via the delivery message recorded at finalization.
	GetByMessageID(ctx context.Context, messageID string) (*models.ContractOffer, error)

	// TakeByID deletes the offer and returns the deleted row. Two
	// concurrent resolutions of the same id cannot both succeed: the loser
	// gets ErrOfferNotFound.
	TakeByID(ctx context.Context, exec SQLExecutor, id int) (*models.ContractOffer, error)

	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	CountPendingByTeam(ctx context.Context, teamID int) (int, error)
}

type postgresOfferRepository struct {
	db *sql.DB
}

func NewPostgresOfferRepository(db *sql.DB) OfferRepository {
	return &postgresOfferRepository{db: db}
}

func (r *postgresOfferRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const offerColumns = `id, user_id, team_id, salary, duration, position, message_id, expires_at, created_at`

func scanOffer(row *sql.Row) (*models.ContractOffer, error) {
	offer := &models.ContractOffer{}
	err := row.Scan(
		&offer.ID,
		&offer.UserID,
		&offer.TeamID,
		&offer.Salary,
		&offer.Duration,
		&offer.Position,
		&offer.MessageID,
		&offer.ExpiresAt,
		&offer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	offer.ExpiresAt = offer.ExpiresAt.UTC()
	return offer, nil
}

func (r *postgresOfferRepository) Create(ctx context.Context, offer *models.ContractOffer) error {
	query := `
		INSERT INTO contract_offers (user_id, team_id, salary, duration, position, message_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		offer.UserID,
		offer.TeamID,
		offer.Salary,
		offer.Duration,
		offer.Position,
		offer.MessageID,
		offer.ExpiresAt,
	).Scan(&offer.ID, &offer.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "contract_offers_message_id_key" {
					return ErrOfferMessageConflict
				}
			case "23503":
				return ErrOfferTeamInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresOfferRepository) GetByID(ctx context.Context, id int) (*models.ContractOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM contract_offers WHERE id = $1`
	return scanOffer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresOfferRepository) GetByMessageID(ctx context.Context, messageID string) (*models.ContractOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM contract_offers WHERE message_id = $1`
	return scanOffer(r.db.QueryRowContext(ctx, query, messageID))
}

func (r *postgresOfferRepository) TakeByID(ctx context.Context, exec SQLExecutor, id int) (*models.ContractOffer, error) {
	executor := r.getExecutor(exec)
	query := `DELETE FROM contract_offers WHERE id = $1 RETURNING ` + offerColumns
	return scanOffer(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresOfferRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contract_offers WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresOfferRepository) CountPendingByTeam(ctx context.Context, teamID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contract_offers WHERE team_id = $1`, teamID).Scan(&count)
	return count, err
}
