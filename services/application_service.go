package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
)

// ApplicationService handles the entry paperwork: teams apply, admins
// approve, and admins can also enter or remove a team directly.
type ApplicationService interface {
	Apply(ctx context.Context, teamID, tournamentID int) (*models.TournamentApplication, error)
	Withdraw(ctx context.Context, teamID, tournamentID int) error
	Approve(ctx context.Context, applicationID int) (*models.TournamentApplication, error)
	// AddTeam enters a team directly with a pre-approved application.
	AddTeam(ctx context.Context, teamID, tournamentID int) (*models.TournamentApplication, error)
	RemoveTeam(ctx context.Context, teamID, tournamentID int) error
	ListByTournament(ctx context.Context, tournamentID int, approvedOnly bool) ([]*models.TournamentApplication, error)
	ListByTeam(ctx context.Context, teamID int, approvedOnly bool) ([]*models.TournamentApplication, error)
	ListAll(ctx context.Context) ([]*models.TournamentApplication, error)
}

type applicationService struct {
	appRepo        repositories.ApplicationRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
) ApplicationService {
	return &applicationService{
		appRepo:        appRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
	}
}

func (s *applicationService) Apply(ctx context.Context, teamID, tournamentID int) (*models.TournamentApplication, error) {
	return s.create(ctx, teamID, tournamentID, false)
}

func (s *applicationService) AddTeam(ctx context.Context, teamID, tournamentID int) (*models.TournamentApplication, error) {
	return s.create(ctx, teamID, tournamentID, true)
}

func (s *applicationService) create(ctx context.Context, teamID, tournamentID int, approved bool) (*models.TournamentApplication, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if _, err := s.teamRepo.GetByID(ctx, nil, teamID); err != nil {
		return nil, mapTeamRepoError(err)
	}

	if approved {
		entered, err := s.appRepo.ListByTournament(ctx, nil, tournamentID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to count entered teams: %w", err)
		}
		if len(entered) >= tournament.MaxTeams {
			return nil, ErrTournamentFull
		}
	}

	app := &models.TournamentApplication{
		TeamID:       teamID,
		TournamentID: tournamentID,
		Approved:     approved,
	}
	if err := s.appRepo.Create(ctx, nil, app); err != nil {
		return nil, mapApplicationRepoError(err)
	}
	return app, nil
}

func (s *applicationService) Withdraw(ctx context.Context, teamID, tournamentID int) error {
	err := s.appRepo.DeleteByTeamAndTournament(ctx, nil, teamID, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return ErrNotApplied
		}
		return fmt.Errorf("failed to withdraw application: %w", err)
	}
	return nil
}

func (s *applicationService) Approve(ctx context.Context, applicationID int) (*models.TournamentApplication, error) {
	app, err := s.appRepo.GetByID(ctx, nil, applicationID)
	if err != nil {
		return nil, mapApplicationRepoError(err)
	}
	if app.Approved {
		return app, nil
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, app.TournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	entered, err := s.appRepo.ListByTournament(ctx, nil, app.TournamentID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count entered teams: %w", err)
	}
	if len(entered) >= tournament.MaxTeams {
		return nil, ErrTournamentFull
	}

	if err := s.appRepo.Approve(ctx, nil, applicationID); err != nil {
		return nil, mapApplicationRepoError(err)
	}
	app.Approved = true
	return app, nil
}

func (s *applicationService) RemoveTeam(ctx context.Context, teamID, tournamentID int) error {
	return s.Withdraw(ctx, teamID, tournamentID)
}

func (s *applicationService) ListByTournament(ctx context.Context, tournamentID int, approvedOnly bool) ([]*models.TournamentApplication, error) {
	apps, err := s.appRepo.ListByTournament(ctx, nil, tournamentID, approvedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications of tournament %d: %w", tournamentID, err)
	}
	return apps, nil
}

func (s *applicationService) ListByTeam(ctx context.Context, teamID int, approvedOnly bool) ([]*models.TournamentApplication, error) {
	apps, err := s.appRepo.ListByTeam(ctx, nil, teamID, approvedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications of team %d: %w", teamID, err)
	}
	return apps, nil
}

func (s *applicationService) ListAll(ctx context.Context) ([]*models.TournamentApplication, error) {
	apps, err := s.appRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func mapApplicationRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return ErrApplicationNotFound
	case errors.Is(err, repositories.ErrApplicationConflict):
		return ErrAlreadyApplied
	case errors.Is(err, repositories.ErrApplicationRefInvalid):
		return ErrNotFound
	}
	return fmt.Errorf("application repository: %w", err)
}
