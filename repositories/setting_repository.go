package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-bot/models"
)

// ErrSettingNotFound marks an unconfigured key. Callers treat it as a
// first-class state, not a failure.
var ErrSettingNotFound = errors.New("setting not configured")

type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, setting *models.Setting) error
	Delete(ctx context.Context, key string) error
}

type postgresSettingRepository struct {
	db *sql.DB
}

func NewPostgresSettingRepository(db *sql.DB) SettingRepository {
	return &postgresSettingRepository{db: db}
}

func (r *postgresSettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	setting := &models.Setting{}
	err := r.db.QueryRowContext(ctx, `SELECT key, value FROM settings WHERE key = $1`, key).
		Scan(&setting.Key, &setting.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return setting, nil
}

func (r *postgresSettingRepository) Set(ctx context.Context, setting *models.Setting) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	_, err := r.db.ExecContext(ctx, query, setting.Key, setting.Value)
	return err
}

func (r *postgresSettingRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSettingNotFound)
}
