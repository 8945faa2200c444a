package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
)

type OfficialInput struct {
	Role          models.OfficialRole `json:"role"`
	Name          string              `json:"name"`
	LicenseNumber string              `json:"license_number"`
}

type SetupScorecardInput struct {
	Officials             []OfficialInput `json:"officials"`
	CoinTossWinnerIsTeam1 bool            `json:"coin_toss_winner_is_team1"`
	OffenseIsTeam1        bool            `json:"offense_is_team1"`
}

type RecordEventInput struct {
	EventType models.ScoreEventType `json:"event_type"`
	Trikot    *int                  `json:"trikot"`
}

// Scorecard bundles everything the referee view renders for one game.
type Scorecard struct {
	Game      *models.Game                 `json:"game"`
	Events    []*models.ScoreEvent         `json:"events"`
	Officials []*models.OfficialAssignment `json:"officials"`
}

// ScorecardService drives a game's scoring ledger. Every mutation
// recomputes the game's score columns from the surviving events inside one
// transaction, holding a row lock on the game.
type ScorecardService interface {
	Get(ctx context.Context, gameID int) (*Scorecard, error)
	Setup(ctx context.Context, actor *models.Team, gameID int, input SetupScorecardInput) (*models.Game, error)
	RecordEvent(ctx context.Context, actor *models.Team, gameID int, input RecordEventInput) (*models.ScoreEvent, error)
	DeleteEvent(ctx context.Context, actor *models.Team, gameID, eventID int) error
	SwitchOffense(ctx context.Context, actor *models.Team, gameID int) (*models.Game, error)
	ListOfficials(ctx context.Context) ([]*models.OfficialAssignment, error)
}

type scorecardService struct {
	gameRepo     repositories.GameRepository
	eventRepo    repositories.ScoreEventRepository
	officialRepo repositories.OfficialRepository
	publisher    ScoreboardPublisher
	runTx        txRunner
}

func NewScorecardService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	eventRepo repositories.ScoreEventRepository,
	officialRepo repositories.OfficialRepository,
	publisher ScoreboardPublisher,
) ScorecardService {
	return &scorecardService{
		gameRepo:     gameRepo,
		eventRepo:    eventRepo,
		officialRepo: officialRepo,
		publisher:    publisher,
		runTx:        newTxRunner(db),
	}
}

func canRunScorecard(actor *models.Team, game *models.Game) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.RoleAdmin || actor.ID == game.RefereeID
}

func (s *scorecardService) Get(ctx context.Context, gameID int) (*Scorecard, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		return nil, mapGameRepoError(err)
	}
	events, err := s.eventRepo.ListByGame(ctx, nil, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events of game %d: %w", gameID, err)
	}
	officials, err := s.officialRepo.ListByGame(ctx, nil, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list officials of game %d: %w", gameID, err)
	}
	return &Scorecard{Game: game, Events: events, Officials: officials}, nil
}

// ListOfficials returns every recorded crew assignment, ordered by license
// number, for the license registry view.
func (s *scorecardService) ListOfficials(ctx context.Context) ([]*models.OfficialAssignment, error) {
	officials, err := s.officialRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list officials: %w", err)
	}
	return officials, nil
}

// Setup records the crew and the coin toss result. The full crew replaces
// whatever was stored before, so a re-opened scorecard starts clean.
func (s *scorecardService) Setup(ctx context.Context, actor *models.Team, gameID int, input SetupScorecardInput) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		return nil, mapGameRepoError(err)
	}
	if !canRunScorecard(actor, game) {
		return nil, ErrNotReferee
	}

	assignments := make([]*models.OfficialAssignment, 0, len(input.Officials))
	for _, o := range input.Officials {
		switch o.Role {
		case models.OfficialReferee, models.OfficialDownJudge, models.OfficialFieldJudge, models.OfficialSideJudge:
		default:
			return nil, fmt.Errorf("%w: unknown official role %q", ErrValidationFailed, o.Role)
		}
		if strings.TrimSpace(o.Name) == "" {
			return nil, fmt.Errorf("%w: official name is required", ErrValidationFailed)
		}
		assignments = append(assignments, &models.OfficialAssignment{
			GameID:        gameID,
			Role:          o.Role,
			Name:          strings.TrimSpace(o.Name),
			LicenseNumber: strings.TrimSpace(o.LicenseNumber),
		})
	}

	err = s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.gameRepo.GetByIDForUpdate(ctx, exec, gameID); err != nil {
			return mapGameRepoError(err)
		}
		if err := s.officialRepo.ReplaceForGame(ctx, exec, gameID, assignments); err != nil {
			return fmt.Errorf("failed to store officials: %w", err)
		}
		if err := s.gameRepo.UpdateCoinToss(ctx, exec, gameID, input.CoinTossWinnerIsTeam1, input.OffenseIsTeam1); err != nil {
			return mapGameRepoError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	game.CoinTossWinnerIsTeam1 = input.CoinTossWinnerIsTeam1
	game.OffenseIsTeam1 = input.OffenseIsTeam1
	return game, nil
}

// RecordEvent appends one ledger entry and recomputes both score columns
// from the ledger. A safety is credited to the defending side, everything
// else to the offense.
func (s *scorecardService) RecordEvent(ctx context.Context, actor *models.Team, gameID int, input RecordEventInput) (*models.ScoreEvent, error) {
	if !input.EventType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEventType, input.EventType)
	}

	var event *models.ScoreEvent
	var tournamentID int

	err := s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		game, err := s.gameRepo.GetByIDForUpdate(ctx, exec, gameID)
		if err != nil {
			return mapGameRepoError(err)
		}
		if !canRunScorecard(actor, game) {
			return ErrNotReferee
		}
		tournamentID = game.TournamentID

		awardedToTeam1 := game.OffenseIsTeam1
		if input.EventType.CreditsDefense() {
			awardedToTeam1 = !awardedToTeam1
		}

		event = &models.ScoreEvent{
			GameID:         gameID,
			EventType:      input.EventType,
			Trikot:         input.Trikot,
			PointsAwarded:  input.EventType.Points(),
			AwardedToTeam1: awardedToTeam1,
		}
		if err := s.eventRepo.Create(ctx, exec, event); err != nil {
			return mapScoreEventRepoError(err)
		}
		return s.recomputeScore(ctx, exec, gameID)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, tournamentID)
	return event, nil
}

// DeleteEvent removes one ledger entry and recomputes. Deleting the last
// event leaves the game at 0:0, not unscored.
func (s *scorecardService) DeleteEvent(ctx context.Context, actor *models.Team, gameID, eventID int) error {
	var tournamentID int

	err := s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		game, err := s.gameRepo.GetByIDForUpdate(ctx, exec, gameID)
		if err != nil {
			return mapGameRepoError(err)
		}
		if !canRunScorecard(actor, game) {
			return ErrNotReferee
		}
		tournamentID = game.TournamentID

		if err := s.eventRepo.Delete(ctx, exec, gameID, eventID); err != nil {
			return mapScoreEventRepoError(err)
		}
		return s.recomputeScore(ctx, exec, gameID)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, tournamentID)
	return nil
}

// SwitchOffense flips possession, typically at halftime. Flipping twice
// restores the original side.
func (s *scorecardService) SwitchOffense(ctx context.Context, actor *models.Team, gameID int) (*models.Game, error) {
	var game *models.Game

	err := s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		game, err = s.gameRepo.GetByIDForUpdate(ctx, exec, gameID)
		if err != nil {
			return mapGameRepoError(err)
		}
		if !canRunScorecard(actor, game) {
			return ErrNotReferee
		}
		game.OffenseIsTeam1 = !game.OffenseIsTeam1
		if err := s.gameRepo.UpdateOffense(ctx, exec, gameID, game.OffenseIsTeam1); err != nil {
			return mapGameRepoError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, game.TournamentID)
	return game, nil
}

// recomputeScore writes the ledger sums into the score columns. Runs on
// the caller's transaction while the game row lock is held.
func (s *scorecardService) recomputeScore(ctx context.Context, exec repositories.SQLExecutor, gameID int) error {
	team1, team2, err := s.eventRepo.SumPointsByGame(ctx, exec, gameID)
	if err != nil {
		return fmt.Errorf("failed to sum events of game %d: %w", gameID, err)
	}
	if err := s.gameRepo.UpdateScores(ctx, exec, gameID, &team1, &team2); err != nil {
		return mapGameRepoError(err)
	}
	return nil
}

func mapScoreEventRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrScoreEventNotFound):
		return ErrScoreEventNotFound
	case errors.Is(err, repositories.ErrScoreEventGameInvalid):
		return ErrGameNotFound
	}
	return fmt.Errorf("score event repository: %w", err)
}
