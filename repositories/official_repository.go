package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/marasteiner/flag-ding/models"
)

var ErrOfficialAssignmentNotFound = errors.New("official assignment not found")

type OfficialRepository interface {
	// ReplaceForGame swaps the game's entire crew in one shot; the caller
	// is expected to run it inside a transaction.
	ReplaceForGame(ctx context.Context, exec SQLExecutor, gameID int, assignments []*models.OfficialAssignment) error
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.OfficialAssignment, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.OfficialAssignment, error)
}

type postgresOfficialRepository struct {
	db *sql.DB
}

func NewPostgresOfficialRepository(db *sql.DB) OfficialRepository {
	return &postgresOfficialRepository{db: db}
}

func (r *postgresOfficialRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresOfficialRepository) ReplaceForGame(ctx context.Context, exec SQLExecutor, gameID int, assignments []*models.OfficialAssignment) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM official_assignments WHERE game_id = $1`, gameID); err != nil {
		return err
	}

	query := `
		INSERT INTO official_assignments (game_id, role, name, license_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	for _, a := range assignments {
		a.GameID = gameID
		if err := executor.QueryRowContext(ctx, query, gameID, a.Role, a.Name, a.LicenseNumber).Scan(&a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresOfficialRepository) listQuery(ctx context.Context, executor SQLExecutor, where string, args ...interface{}) ([]*models.OfficialAssignment, error) {
	query := `
		SELECT id, game_id, role, name, license_number
		FROM official_assignments ` + where

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*models.OfficialAssignment, 0)
	for rows.Next() {
		var a models.OfficialAssignment
		if scanErr := rows.Scan(&a.ID, &a.GameID, &a.Role, &a.Name, &a.LicenseNumber); scanErr != nil {
			return nil, scanErr
		}
		assignments = append(assignments, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *postgresOfficialRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.OfficialAssignment, error) {
	executor := r.getExecutor(exec)
	return r.listQuery(ctx, executor, `WHERE game_id = $1 ORDER BY id ASC`, gameID)
}

func (r *postgresOfficialRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.OfficialAssignment, error) {
	executor := r.getExecutor(exec)
	return r.listQuery(ctx, executor, `ORDER BY license_number ASC`)
}
