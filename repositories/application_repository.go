package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/marasteiner/flag-ding/models"
)

var (
	ErrApplicationNotFound   = errors.New("tournament application not found")
	ErrApplicationConflict   = errors.New("team has already applied for this tournament")
	ErrApplicationRefInvalid = errors.New("application team or tournament invalid")
)

type ApplicationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, app *models.TournamentApplication) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentApplication, error)
	GetByTeamAndTournament(ctx context.Context, exec SQLExecutor, teamID, tournamentID int) (*models.TournamentApplication, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, approvedOnly bool) ([]*models.TournamentApplication, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int, approvedOnly bool) ([]*models.TournamentApplication, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.TournamentApplication, error)
	Approve(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByTeamAndTournament(ctx context.Context, exec SQLExecutor, teamID, tournamentID int) error
}

type postgresApplicationRepository struct {
	db *sql.DB
}

func NewPostgresApplicationRepository(db *sql.DB) ApplicationRepository {
	return &postgresApplicationRepository{db: db}
}

func (r *postgresApplicationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresApplicationRepository) Create(ctx context.Context, exec SQLExecutor, app *models.TournamentApplication) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_applications (team_id, tournament_id, approved)
		VALUES ($1, $2, $3)
		RETURNING id, applied_at`

	err := executor.QueryRowContext(ctx, query,
		app.TeamID, app.TournamentID, app.Approved,
	).Scan(&app.ID, &app.AppliedAt)

	return r.handleApplicationError(err)
}

func (r *postgresApplicationRepository) scanApplication(rowScanner interface{ Scan(...interface{}) error }) (*models.TournamentApplication, error) {
	var a models.TournamentApplication
	err := rowScanner.Scan(&a.ID, &a.TeamID, &a.TournamentID, &a.Approved, &a.AppliedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresApplicationRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentApplication, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, team_id, tournament_id, approved, applied_at
		FROM tournament_applications
		WHERE id = $1`
	return r.scanApplication(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresApplicationRepository) GetByTeamAndTournament(ctx context.Context, exec SQLExecutor, teamID, tournamentID int) (*models.TournamentApplication, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, team_id, tournament_id, approved, applied_at
		FROM tournament_applications
		WHERE team_id = $1 AND tournament_id = $2`
	return r.scanApplication(executor.QueryRowContext(ctx, query, teamID, tournamentID))
}

func (r *postgresApplicationRepository) listWhere(ctx context.Context, executor SQLExecutor, where string, args ...interface{}) ([]*models.TournamentApplication, error) {
	query := `
		SELECT id, team_id, tournament_id, approved, applied_at
		FROM tournament_applications ` + where

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*models.TournamentApplication, 0)
	for rows.Next() {
		a, errScan := r.scanApplication(rows)
		if errScan != nil {
			return nil, errScan
		}
		apps = append(apps, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *postgresApplicationRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, approvedOnly bool) ([]*models.TournamentApplication, error) {
	executor := r.getExecutor(exec)
	where := `WHERE tournament_id = $1`
	if approvedOnly {
		where += ` AND approved = TRUE`
	}
	where += ` ORDER BY applied_at ASC`
	return r.listWhere(ctx, executor, where, tournamentID)
}

func (r *postgresApplicationRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int, approvedOnly bool) ([]*models.TournamentApplication, error) {
	executor := r.getExecutor(exec)
	where := `WHERE team_id = $1`
	if approvedOnly {
		where += ` AND approved = TRUE`
	}
	where += ` ORDER BY applied_at ASC`
	return r.listWhere(ctx, executor, where, teamID)
}

func (r *postgresApplicationRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.TournamentApplication, error) {
	executor := r.getExecutor(exec)
	return r.listWhere(ctx, executor, `ORDER BY applied_at DESC`)
}

func (r *postgresApplicationRepository) Approve(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE tournament_applications SET approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrApplicationNotFound)
}

func (r *postgresApplicationRepository) DeleteByTeamAndTournament(ctx context.Context, exec SQLExecutor, teamID, tournamentID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM tournament_applications WHERE team_id = $1 AND tournament_id = $2`, teamID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrApplicationNotFound)
}

func (r *postgresApplicationRepository) handleApplicationError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrApplicationConflict
		case "23503": // foreign_key_violation
			return ErrApplicationRefInvalid
		}
	}
	return err
}
