package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
	"github.com/marasteiner/flag-ding/storage"
	"golang.org/x/crypto/bcrypt"
)

type CreateTeamInput struct {
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type UpdateTeamInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, role *models.Role) ([]*models.Team, error)
	Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	UpdatePassword(ctx context.Context, id int, currentPassword, newPassword string) error
	UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error)
	Delete(ctx context.Context, id int) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	if input.Username == "" || input.Name == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: username, name and email are required", ErrValidationFailed)
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	role := input.Role
	if role == "" {
		role = models.RoleTeam
	}
	if role != models.RoleTeam && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidationFailed, input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	team := &models.Team{
		Username:     input.Username,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		return nil, mapTeamRepoError(err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context, role *models.Role) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, team := range teams {
		s.populateLogoURL(team)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidationFailed)
		}
		team.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", ErrValidationFailed)
		}
		team.Email = email
	}

	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		return nil, mapTeamRepoError(err)
	}
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) UpdatePassword(ctx context.Context, id int, currentPassword, newPassword string) error {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return mapTeamRepoError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	team.PasswordHash = string(hash)

	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		return mapTeamRepoError(err)
	}
	return nil
}

var allowedLogoTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	ext, ok := allowedLogoTypes[contentType]
	if !ok {
		return nil, ErrInvalidLogoFormat
	}

	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	key := fmt.Sprintf("logos/team_%d.%s", teamID, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLogoUploadFailed, err)
	}

	if team.LogoKey != nil && *team.LogoKey != result.Key {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.Int("team_id", teamID), slog.String("key", *team.LogoKey), slog.Any("error", delErr))
		}
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, nil, teamID, &result.Key); err != nil {
		return nil, mapTeamRepoError(err)
	}

	team.LogoKey = &result.Key
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return mapTeamRepoError(err)
	}

	if err := s.teamRepo.Delete(ctx, nil, id); err != nil {
		return mapTeamRepoError(err)
	}

	if team.LogoKey != nil {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			s.logger.Warn("failed to delete logo of removed team",
				slog.Int("team_id", id), slog.Any("error", delErr))
		}
	}
	return nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	if url != "" {
		team.LogoURL = &url
	}
}

func mapTeamRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamUsernameConflict):
		return ErrUsernameConflict
	case errors.Is(err, repositories.ErrTeamEmailConflict):
		return ErrEmailConflict
	}
	return fmt.Errorf("team repository: %w", err)
}
