package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
)

type TournamentInput struct {
	Date     time.Time `json:"date"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	MaxTeams int       `json:"max_teams"`
}

type TournamentService interface {
	Create(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo}
}

func validateTournamentInput(input TournamentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: tournament date is required", ErrValidationFailed)
	}
	if input.MaxTeams < 3 || input.MaxTeams > 5 {
		return fmt.Errorf("%w: max_teams must be 3, 4 or 5", ErrValidationFailed)
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Date:     input.Date,
		Name:     strings.TrimSpace(input.Name),
		Location: strings.TrimSpace(input.Location),
		MaxTeams: input.MaxTeams,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}

	tournament.Date = input.Date
	tournament.Name = strings.TrimSpace(input.Name)
	tournament.Location = strings.TrimSpace(input.Location)
	tournament.MaxTeams = input.MaxTeams

	if err := s.tournamentRepo.Update(ctx, nil, tournament); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, nil, id); err != nil {
		return mapTournamentRepoError(err)
	}
	return nil
}

func mapTournamentRepoError(err error) error {
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return fmt.Errorf("tournament repository: %w", err)
}
