package services

import (
	"context"
	"errors"
	"testing"

	"github.com/marasteiner/flag-ding/models"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	teams := newFakeTeamRepo(&models.Team{
		ID:           1,
		Username:     "alpha",
		PasswordHash: string(hash),
		Role:         models.RoleTeam,
	})
	svc := NewAuthService(teams)

	team, err := svc.Login(ctx, LoginInput{Username: "alpha", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if team.ID != 1 {
		t.Fatalf("team id = %d, want 1", team.ID)
	}

	if _, err := svc.Login(ctx, LoginInput{Username: "alpha", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Username: "ghost", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginInput{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty input err = %v, want ErrInvalidCredentials", err)
	}
}
