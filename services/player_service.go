package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
)

type PlayerInput struct {
	Trikot     int    `json:"trikot"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	PassNumber string `json:"pass_number"`
}

// PlayerService manages team rosters. Team accounts may only touch their
// own players; admins may touch any roster.
type PlayerService interface {
	Create(ctx context.Context, actor *models.Team, teamID int, input PlayerInput) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	Update(ctx context.Context, actor *models.Team, playerID int, input PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, actor *models.Team, playerID int) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
	}
}

func validatePlayerInput(input PlayerInput) error {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrValidationFailed)
	}
	if input.Trikot < 0 || input.Trikot > 99 {
		return fmt.Errorf("%w: trikot must be between 0 and 99", ErrValidationFailed)
	}
	return nil
}

func canManageRoster(actor *models.Team, teamID int) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.RoleAdmin || actor.ID == teamID
}

func (s *playerService) Create(ctx context.Context, actor *models.Team, teamID int, input PlayerInput) (*models.Player, error) {
	if !canManageRoster(actor, teamID) {
		return nil, ErrForbiddenOperation
	}
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}
	if _, err := s.teamRepo.GetByID(ctx, nil, teamID); err != nil {
		return nil, mapTeamRepoError(err)
	}

	player := &models.Player{
		TeamID:     teamID,
		Trikot:     input.Trikot,
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		PassNumber: strings.TrimSpace(input.PassNumber),
	}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		return nil, mapPlayerRepoError(err)
	}
	return player, nil
}

func (s *playerService) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	players, err := s.playerRepo.ListByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of team %d: %w", teamID, err)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, actor *models.Team, playerID int, input PlayerInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, nil, playerID)
	if err != nil {
		return nil, mapPlayerRepoError(err)
	}
	if !canManageRoster(actor, player.TeamID) {
		return nil, ErrForbiddenOperation
	}
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}

	player.Trikot = input.Trikot
	player.FirstName = strings.TrimSpace(input.FirstName)
	player.LastName = strings.TrimSpace(input.LastName)
	player.PassNumber = strings.TrimSpace(input.PassNumber)

	if err := s.playerRepo.Update(ctx, nil, player); err != nil {
		return nil, mapPlayerRepoError(err)
	}
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, actor *models.Team, playerID int) error {
	player, err := s.playerRepo.GetByID(ctx, nil, playerID)
	if err != nil {
		return mapPlayerRepoError(err)
	}
	if !canManageRoster(actor, player.TeamID) {
		return ErrForbiddenOperation
	}
	if err := s.playerRepo.Delete(ctx, nil, playerID); err != nil {
		return mapPlayerRepoError(err)
	}
	return nil
}

func mapPlayerRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerTeamInvalid):
		return ErrTeamNotFound
	}
	return fmt.Errorf("player repository: %w", err)
}
