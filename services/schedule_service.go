package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
	"github.com/marasteiner/flag-ding/schedule"
)

// ScheduleService builds the game plan for a tournament day from the fixed
// slates. Regenerating replaces any previously generated games.
type ScheduleService interface {
	Generate(ctx context.Context, tournamentID int) ([]*models.Game, error)
}

type scheduleService struct {
	tournamentRepo repositories.TournamentRepository
	appRepo        repositories.ApplicationRepository
	gameRepo       repositories.GameRepository
	publisher      ScoreboardPublisher
	shuffle        func(n int, swap func(i, j int))
	runTx          txRunner
}

func NewScheduleService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	appRepo repositories.ApplicationRepository,
	gameRepo repositories.GameRepository,
	publisher ScoreboardPublisher,
) ScheduleService {
	return &scheduleService{
		tournamentRepo: tournamentRepo,
		appRepo:        appRepo,
		gameRepo:       gameRepo,
		publisher:      publisher,
		shuffle:        rand.Shuffle,
		runTx:          newTxRunner(db),
	}
}

func (s *scheduleService) Generate(ctx context.Context, tournamentID int) ([]*models.Game, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}

	apps, err := s.appRepo.ListByTournament(ctx, nil, tournamentID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list entered teams: %w", err)
	}

	teamIDs := make([]int, 0, len(apps))
	for _, app := range apps {
		teamIDs = append(teamIDs, app.TeamID)
	}

	generator, err := schedule.ForTeamCount(len(teamIDs))
	if err != nil {
		if errors.Is(err, schedule.ErrUnsupportedTeamCount) {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidTeamCount, len(teamIDs))
		}
		return nil, err
	}

	// Slot assignments index into the shuffled list, so each generation
	// deals a fresh pairing order.
	s.shuffle(len(teamIDs), func(i, j int) {
		teamIDs[i], teamIDs[j] = teamIDs[j], teamIDs[i]
	})

	games := make([]*models.Game, 0, len(generator.Slate()))
	for _, slot := range generator.Slate() {
		startTime, err := kickoffOnDay(tournament.Date, slot.Kickoff)
		if err != nil {
			return nil, err
		}
		games = append(games, &models.Game{
			TournamentID: tournamentID,
			Team1ID:      teamIDs[slot.Team1],
			Team2ID:      teamIDs[slot.Team2],
			RefereeID:    teamIDs[slot.Referee],
			StartTime:    startTime,
			FieldNumber:  slot.Field,
		})
	}

	err = s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.gameRepo.DeleteByTournament(ctx, exec, tournamentID); err != nil {
			return fmt.Errorf("failed to clear previous schedule: %w", err)
		}
		for _, game := range games {
			if err := s.gameRepo.Create(ctx, exec, game); err != nil {
				return mapGameRepoError(err)
			}
		}
		tournament.NumberOfTeams = len(teamIDs)
		if err := s.tournamentRepo.Update(ctx, exec, tournament); err != nil {
			return mapTournamentRepoError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, tournamentID)
	return games, nil
}

// kickoffOnDay combines the tournament date with a wall-clock kickoff like
// "11:10".
func kickoffOnDay(day time.Time, kickoff string) (time.Time, error) {
	t, err := time.Parse("15:04", kickoff)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid kickoff %q: %w", kickoff, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
