package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-bot/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameConflict    = errors.New("team name conflict")
	ErrTeamRoleConflict    = errors.New("team role conflict")
	ErrTeamManagedConflict = errors.New("team already has a manager")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByName(ctx context.Context, name string) (*models.Team, error)
	GetByRoleID(ctx context.Context, roleID string) (*models.Team, error)

	// GetByManagerID reports which team a user manages, if any. Takes an
	// executor so the one-manager-one-team check can run inside the same
	// transaction as the assignment.
	GetByManagerID(ctx context.Context, exec SQLExecutor, managerID string) (*models.Team, error)

	// ListByRoleIDs returns every team whose role id is in the given set.
	// Used for affiliation resolution from a member's held roles.
	ListByRoleIDs(ctx context.Context, roleIDs []string) ([]*models.Team, error)

	List(ctx context.Context) ([]*models.Team, error)

	// AssignManager sets the manager only if the slot is empty, so two
	// concurrent assignments cannot both win. Returns ErrTeamManagedConflict
	// when the slot is already taken.
	AssignManager(ctx context.Context, exec SQLExecutor, teamID int, managerID string) error
	ClearManager(ctx context.Context, exec SQLExecutor, teamID int) error
	UpdateCrestKey(ctx context.Context, teamID int, crestKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, teamID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, name, short_name, role_id, manager_id, crest_key, created_at`

func scanTeam(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.ShortName,
		&team.RoleID,
		&team.ManagerID,
		&team.CrestKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, short_name, role_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.ShortName,
		team.RoleID,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "teams_name_key":
				return ErrTeamNameConflict
			case "teams_role_id_key":
				return ErrTeamRoleConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name = $1`
	return scanTeam(r.db.QueryRowContext(ctx, query, name))
}

func (r *postgresTeamRepository) GetByRoleID(ctx context.Context, roleID string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE role_id = $1`
	return scanTeam(r.db.QueryRowContext(ctx, query, roleID))
}

func (r *postgresTeamRepository) GetByManagerID(ctx context.Context, exec SQLExecutor, managerID string) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE manager_id = $1`
	return scanTeam(executor.QueryRowContext(ctx, query, managerID))
}

func (r *postgresTeamRepository) ListByRoleIDs(ctx context.Context, roleIDs []string) ([]*models.Team, error) {
	if len(roleIDs) == 0 {
		return []*models.Team{}, nil
	}

	query := `SELECT ` + teamColumns + ` FROM teams WHERE role_id = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(roleIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []*models.Team{}
	for rows.Next() {
		team := &models.Team{}
		err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.ShortName,
			&team.RoleID,
			&team.ManagerID,
			&team.CrestKey,
			&team.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []*models.Team{}
	for rows.Next() {
		team := &models.Team{}
		err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.ShortName,
			&team.RoleID,
			&team.ManagerID,
			&team.CrestKey,
			&team.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) AssignManager(ctx context.Context, exec SQLExecutor, teamID int, managerID string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE teams SET manager_id = $1 WHERE id = $2 AND manager_id IS NULL`
	result, err := executor.ExecContext(ctx, query, managerID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamManagedConflict)
}

func (r *postgresTeamRepository) ClearManager(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE teams SET manager_id = NULL WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateCrestKey(ctx context.Context, teamID int, crestKey *string) error {
	query := `UPDATE teams SET crest_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, crestKey, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
