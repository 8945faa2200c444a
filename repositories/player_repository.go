package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/marasteiner/flag-ding/models"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerTeamInvalid = errors.New("player team conflict or invalid")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Player, error)
	Update(ctx context.Context, exec SQLExecutor, player *models.Player) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
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

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (team_id, trikot, first_name, last_name, pass_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		player.TeamID, player.Trikot, player.FirstName, player.LastName, player.PassNumber,
	).Scan(&player.ID)

	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, team_id, trikot, first_name, last_name, pass_number
		FROM players
		WHERE id = $1`

	player := &models.Player{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&player.ID, &player.TeamID, &player.Trikot, &player.FirstName, &player.LastName, &player.PassNumber,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, team_id, trikot, first_name, last_name, pass_number
		FROM players
		WHERE team_id = $1
		ORDER BY trikot ASC`

	rows, err := executor.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.TeamID, &p.Trikot, &p.FirstName, &p.LastName, &p.PassNumber); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE players
		SET trikot = $1, first_name = $2, last_name = $3, pass_number = $4
		WHERE id = $5`

	result, err := executor.ExecContext(ctx, query,
		player.Trikot, player.FirstName, player.LastName, player.PassNumber, player.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			if pqErr.Constraint == "players_team_id_fkey" {
				return ErrPlayerTeamInvalid
			}
		}
	}
	return err
}
