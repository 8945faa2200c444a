package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
)

type GameInput struct {
	TournamentID int       `json:"tournament_id"`
	Team1ID      int       `json:"team1_id"`
	Team2ID      int       `json:"team2_id"`
	RefereeID    int       `json:"referee_id"`
	StartTime    time.Time `json:"start_time"`
	FieldNumber  *int      `json:"field_number"`
}

type GameService interface {
	Create(ctx context.Context, input GameInput) (*models.Game, error)
	GetByID(ctx context.Context, id int) (*models.Game, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Game, error)
	Update(ctx context.Context, id int, input GameInput) (*models.Game, error)
	// OverrideScore writes the score columns directly, bypassing the event
	// ledger. The override stands until the next ledger mutation recomputes
	// the columns from the events.
	OverrideScore(ctx context.Context, id int, team1Score, team2Score int) (*models.Game, error)
}

type gameService struct {
	gameRepo  repositories.GameRepository
	teamRepo  repositories.TeamRepository
	publisher ScoreboardPublisher
}

func NewGameService(
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	publisher ScoreboardPublisher,
) GameService {
	return &gameService{
		gameRepo:  gameRepo,
		teamRepo:  teamRepo,
		publisher: publisher,
	}
}

func validateGameInput(input GameInput) error {
	if input.Team1ID == input.Team2ID {
		return fmt.Errorf("%w: a team cannot play itself", ErrValidationFailed)
	}
	if input.RefereeID == input.Team1ID || input.RefereeID == input.Team2ID {
		return fmt.Errorf("%w: the referee cannot play in the game", ErrValidationFailed)
	}
	if input.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrValidationFailed)
	}
	return nil
}

func (s *gameService) Create(ctx context.Context, input GameInput) (*models.Game, error) {
	if err := validateGameInput(input); err != nil {
		return nil, err
	}

	game := &models.Game{
		TournamentID: input.TournamentID,
		Team1ID:      input.Team1ID,
		Team2ID:      input.Team2ID,
		RefereeID:    input.RefereeID,
		StartTime:    input.StartTime,
		FieldNumber:  input.FieldNumber,
	}
	if err := s.gameRepo.Create(ctx, nil, game); err != nil {
		return nil, mapGameRepoError(err)
	}
	s.enrich(ctx, game)
	return game, nil
}

func (s *gameService) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapGameRepoError(err)
	}
	s.enrich(ctx, game)
	return game, nil
}

func (s *gameService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Game, error) {
	games, err := s.gameRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games of tournament %d: %w", tournamentID, err)
	}
	for _, game := range games {
		s.enrich(ctx, game)
	}
	return games, nil
}

func (s *gameService) Update(ctx context.Context, id int, input GameInput) (*models.Game, error) {
	if err := validateGameInput(input); err != nil {
		return nil, err
	}

	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapGameRepoError(err)
	}

	game.Team1ID = input.Team1ID
	game.Team2ID = input.Team2ID
	game.RefereeID = input.RefereeID
	game.StartTime = input.StartTime
	game.FieldNumber = input.FieldNumber

	if err := s.gameRepo.Update(ctx, nil, game); err != nil {
		return nil, mapGameRepoError(err)
	}
	s.enrich(ctx, game)
	return game, nil
}

func (s *gameService) OverrideScore(ctx context.Context, id int, team1Score, team2Score int) (*models.Game, error) {
	if team1Score < 0 || team2Score < 0 {
		return nil, ErrNegativeScore
	}

	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapGameRepoError(err)
	}

	if err := s.gameRepo.UpdateScores(ctx, nil, id, &team1Score, &team2Score); err != nil {
		return nil, mapGameRepoError(err)
	}
	game.Team1Score = &team1Score
	game.Team2Score = &team2Score

	s.publisher.Publish(ctx, game.TournamentID)
	s.enrich(ctx, game)
	return game, nil
}

// enrich attaches the team records for rendering. Lookup failures leave
// the link nil rather than failing the whole request.
func (s *gameService) enrich(ctx context.Context, game *models.Game) {
	game.Team1, _ = s.teamRepo.GetByID(ctx, nil, game.Team1ID)
	game.Team2, _ = s.teamRepo.GetByID(ctx, nil, game.Team2ID)
	game.Referee, _ = s.teamRepo.GetByID(ctx, nil, game.RefereeID)
}

func mapGameRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrGameTournamentInvalid):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrGameTeamInvalid):
		return ErrTeamNotFound
	}
	return fmt.Errorf("game repository: %w", err)
}
