package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.Team, error)
}

type authService struct {
	teamRepo repositories.TeamRepository
}

func NewAuthService(teamRepo repositories.TeamRepository) AuthService {
	return &authService{teamRepo: teamRepo}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Team, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	team, err := s.teamRepo.GetByUsername(ctx, nil, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account %q: %w", input.Username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return team, nil
}
