package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/marasteiner/flag-ding/models"
)

var (
	ErrScoreEventNotFound    = errors.New("score event not found")
	ErrScoreEventGameInvalid = errors.New("score event game conflict or invalid")
)

type ScoreEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.ScoreEvent) error
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.ScoreEvent, error)
	// Delete removes the event only if it belongs to the given game.
	Delete(ctx context.Context, exec SQLExecutor, gameID, eventID int) error
	// SumPointsByGame totals points_awarded per side over the game's
	// surviving events. Games without events sum to 0/0.
	SumPointsByGame(ctx context.Context, exec SQLExecutor, gameID int) (team1, team2 int, err error)
}

type postgresScoreEventRepository struct {
	db *sql.DB
}

func NewPostgresScoreEventRepository(db *sql.DB) ScoreEventRepository {
	return &postgresScoreEventRepository{db: db}
}

func (r *postgresScoreEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresScoreEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.ScoreEvent) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO score_events (game_id, event_type, trikot, points_awarded, awarded_to_team1)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		event.GameID, event.EventType, event.Trikot, event.PointsAwarded, event.AwardedToTeam1,
	).Scan(&event.ID, &event.CreatedAt)

	return r.handleScoreEventError(err)
}

func (r *postgresScoreEventRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.ScoreEvent, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, game_id, event_type, trikot, points_awarded, awarded_to_team1, created_at
		FROM score_events
		WHERE game_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.ScoreEvent, 0)
	for rows.Next() {
		var ev models.ScoreEvent
		if scanErr := rows.Scan(
			&ev.ID, &ev.GameID, &ev.EventType, &ev.Trikot, &ev.PointsAwarded, &ev.AwardedToTeam1, &ev.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, &ev)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresScoreEventRepository) Delete(ctx context.Context, exec SQLExecutor, gameID, eventID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM score_events WHERE id = $1 AND game_id = $2`, eventID, gameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScoreEventNotFound)
}

func (r *postgresScoreEventRepository) SumPointsByGame(ctx context.Context, exec SQLExecutor, gameID int) (int, int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT
			COALESCE(SUM(points_awarded) FILTER (WHERE awarded_to_team1), 0),
			COALESCE(SUM(points_awarded) FILTER (WHERE NOT awarded_to_team1), 0)
		FROM score_events
		WHERE game_id = $1`

	var team1, team2 int
	if err := executor.QueryRowContext(ctx, query, gameID).Scan(&team1, &team2); err != nil {
		return 0, 0, err
	}
	return team1, team2, nil
}

func (r *postgresScoreEventRepository) handleScoreEventError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			if pqErr.Constraint == "score_events_game_id_fkey" {
				return ErrScoreEventGameInvalid
			}
		}
	}
	return err
}
