package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/marasteiner/flag-ding/models"
)

var (
	ErrGameNotFound          = errors.New("game not found")
	ErrGameTournamentInvalid = errors.New("game tournament conflict or invalid")
	ErrGameTeamInvalid       = errors.New("game team or referee conflict or invalid")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	// GetByIDForUpdate locks the game row until the surrounding transaction
	// commits. Score recomputation serializes on this lock.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Game, error)
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	UpdateScores(ctx context.Context, exec SQLExecutor, id int, team1Score, team2Score *int) error
	UpdateOffense(ctx context.Context, exec SQLExecutor, id int, offenseIsTeam1 bool) error
	UpdateCoinToss(ctx context.Context, exec SQLExecutor, id int, winnerIsTeam1, offenseIsTeam1 bool) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `id, tournament_id, team1_id, team2_id, referee_id, start_time,
	team1_score, team2_score, field_number, coin_toss_winner_is_team1, offense_is_team1, created_at`

func (r *postgresGameRepository) scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(
		&g.ID, &g.TournamentID, &g.Team1ID, &g.Team2ID, &g.RefereeID, &g.StartTime,
		&g.Team1Score, &g.Team2Score, &g.FieldNumber, &g.CoinTossWinnerIsTeam1, &g.OffenseIsTeam1, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games
			(tournament_id, team1_id, team2_id, referee_id, start_time, team1_score, team2_score,
			 field_number, coin_toss_winner_is_team1, offense_is_team1)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		game.TournamentID, game.Team1ID, game.Team2ID, game.RefereeID, game.StartTime,
		game.Team1Score, game.Team2Score, game.FieldNumber,
		game.CoinTossWinnerIsTeam1, game.OffenseIsTeam1,
	).Scan(&game.ID, &game.CreatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	return r.scanGame(row)
}

func (r *postgresGameRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1 FOR UPDATE`, id)
	return r.scanGame(row)
}

func (r *postgresGameRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gameColumns + ` FROM games WHERE tournament_id = $1 ORDER BY start_time ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, errScan := r.scanGame(rows)
		if errScan != nil {
			return nil, errScan
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games
		SET team1_id = $1, team2_id = $2, referee_id = $3, start_time = $4,
		    team1_score = $5, team2_score = $6
		WHERE id = $7`

	result, err := executor.ExecContext(ctx, query,
		game.Team1ID, game.Team2ID, game.RefereeID, game.StartTime,
		game.Team1Score, game.Team2Score, game.ID,
	)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateScores(ctx context.Context, exec SQLExecutor, id int, team1Score, team2Score *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE games SET team1_score = $1, team2_score = $2 WHERE id = $3`, team1Score, team2Score, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateOffense(ctx context.Context, exec SQLExecutor, id int, offenseIsTeam1 bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE games SET offense_is_team1 = $1 WHERE id = $2`, offenseIsTeam1, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateCoinToss(ctx context.Context, exec SQLExecutor, id int, winnerIsTeam1, offenseIsTeam1 bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE games SET coin_toss_winner_is_team1 = $1, offense_is_team1 = $2 WHERE id = $3`,
		winnerIsTeam1, offenseIsTeam1, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM games WHERE tournament_id = $1`, tournamentID)
	return err
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "games_tournament_id_fkey":
				return ErrGameTournamentInvalid
			case "games_team1_id_fkey", "games_team2_id_fkey", "games_referee_id_fkey":
				return ErrGameTeamInvalid
			}
		}
	}
	return err
}
