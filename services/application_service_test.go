package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marasteiner/flag-ding/models"
)

func newApplicationFixture(maxTeams int) (ApplicationService, *fakeApplicationRepo) {
	apps := newFakeApplicationRepo()
	teams := newFakeTeamRepo(
		&models.Team{ID: 1, Username: "alpha"},
		&models.Team{ID: 2, Username: "bravo"},
		&models.Team{ID: 3, Username: "charlie"},
		&models.Team{ID: 4, Username: "delta"},
	)
	tournaments := newFakeTournamentRepo(&models.Tournament{ID: 1, Date: time.Now(), MaxTeams: maxTeams})
	return NewApplicationService(apps, teams, tournaments), apps
}

func TestApply_SecondApplicationConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newApplicationFixture(4)

	app, err := svc.Apply(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if app.Approved {
		t.Fatal("fresh application should not be approved")
	}

	if _, err := svc.Apply(ctx, 1, 1); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}
}

func TestApprove_RespectsTeamLimit(t *testing.T) {
	ctx := context.Background()
	svc, apps := newApplicationFixture(3)

	apps.approvedFor(1, 1)
	apps.approvedFor(2, 1)
	apps.approvedFor(3, 1)

	pending, err := svc.Apply(ctx, 4, 1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if _, err := svc.Approve(ctx, pending.ID); !errors.Is(err, ErrTournamentFull) {
		t.Fatalf("err = %v, want ErrTournamentFull", err)
	}
}

func TestAddTeam_EntersPreApproved(t *testing.T) {
	ctx := context.Background()
	svc, _ := newApplicationFixture(4)

	app, err := svc.AddTeam(ctx, 2, 1)
	if err != nil {
		t.Fatalf("AddTeam returned error: %v", err)
	}
	if !app.Approved {
		t.Fatal("directly entered team should be approved")
	}

	entered, err := svc.ListByTournament(ctx, 1, true)
	if err != nil {
		t.Fatalf("ListByTournament returned error: %v", err)
	}
	if len(entered) != 1 {
		t.Fatalf("entered teams = %d, want 1", len(entered))
	}
}

func TestWithdraw_UnknownApplication(t *testing.T) {
	ctx := context.Background()
	svc, _ := newApplicationFixture(4)

	if err := svc.Withdraw(ctx, 1, 1); !errors.Is(err, ErrNotApplied) {
		t.Fatalf("err = %v, want ErrNotApplied", err)
	}
}

func TestApply_UnknownTournament(t *testing.T) {
	ctx := context.Background()
	svc, _ := newApplicationFixture(4)

	if _, err := svc.Apply(ctx, 1, 99); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("err = %v, want ErrTournamentNotFound", err)
	}
}
