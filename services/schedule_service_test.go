package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marasteiner/flag-ding/models"
)

func newScheduleFixture(teamCount int) (*scheduleService, *fakeGameRepo, *fakeTournamentRepo) {
	date := time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC)
	tournaments := newFakeTournamentRepo(&models.Tournament{ID: 1, Date: date, Name: "Spieltag 1", MaxTeams: 5})
	apps := newFakeApplicationRepo()
	for teamID := 1; teamID <= teamCount; teamID++ {
		apps.approvedFor(teamID, 1)
	}
	games := newFakeGameRepo()
	svc := &scheduleService{
		tournamentRepo: tournaments,
		appRepo:        apps,
		gameRepo:       games,
		publisher:      &recordingPublisher{},
		shuffle:        func(n int, swap func(i, j int)) {},
		runTx:          passthroughTx,
	}
	return svc, games, tournaments
}

func TestGenerate_FourTeams(t *testing.T) {
	ctx := context.Background()
	svc, games, tournaments := newScheduleFixture(4)

	created, err := svc.Generate(ctx, 1)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(created) != 6 {
		t.Fatalf("games = %d, want 6", len(created))
	}

	for _, game := range created {
		if game.RefereeID == game.Team1ID || game.RefereeID == game.Team2ID {
			t.Fatalf("game %d refereed by a playing team", game.ID)
		}
		if game.FieldNumber != nil {
			t.Fatalf("single-field slate assigned field %d", *game.FieldNumber)
		}
	}

	if created[0].StartTime.Format("15:04") != "10:00" {
		t.Fatalf("first kickoff = %s, want 10:00", created[0].StartTime.Format("15:04"))
	}
	if created[5].StartTime.Format("15:04") != "15:50" {
		t.Fatalf("last kickoff = %s, want 15:50", created[5].StartTime.Format("15:04"))
	}

	tournament, _ := tournaments.GetByID(ctx, nil, 1)
	if tournament.NumberOfTeams != 4 {
		t.Fatalf("number_of_teams = %d, want 4", tournament.NumberOfTeams)
	}

	stored, _ := games.ListByTournament(ctx, nil, 1)
	if len(stored) != 6 {
		t.Fatalf("stored games = %d, want 6", len(stored))
	}
}

func TestGenerate_FiveTeamsUsesTwoFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newScheduleFixture(5)

	created, err := svc.Generate(ctx, 1)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(created) != 10 {
		t.Fatalf("games = %d, want 10", len(created))
	}

	fields := map[int]int{}
	for _, game := range created {
		if game.FieldNumber == nil {
			t.Fatal("five-team slate requires a field number on every game")
		}
		fields[*game.FieldNumber]++
	}
	if fields[1] != 5 || fields[2] != 5 {
		t.Fatalf("field split = %v, want 5 games on each of two fields", fields)
	}

	// Every pairing exactly once.
	pairings := map[[2]int]int{}
	for _, game := range created {
		key := [2]int{game.Team1ID, game.Team2ID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		pairings[key]++
	}
	if len(pairings) != 10 {
		t.Fatalf("distinct pairings = %d, want 10", len(pairings))
	}
	for pairing, count := range pairings {
		if count != 1 {
			t.Fatalf("pairing %v scheduled %d times", pairing, count)
		}
	}
}

func TestGenerate_ReplacesExistingSchedule(t *testing.T) {
	ctx := context.Background()
	svc, games, _ := newScheduleFixture(3)

	if _, err := svc.Generate(ctx, 1); err != nil {
		t.Fatalf("first Generate returned error: %v", err)
	}
	if _, err := svc.Generate(ctx, 1); err != nil {
		t.Fatalf("second Generate returned error: %v", err)
	}

	stored, _ := games.ListByTournament(ctx, nil, 1)
	if len(stored) != 6 {
		t.Fatalf("stored games after regenerate = %d, want 6", len(stored))
	}
}

func TestGenerate_BroadcastsNewSlate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newScheduleFixture(4)
	publisher := &recordingPublisher{}
	svc.publisher = publisher

	if _, err := svc.Generate(ctx, 1); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(publisher.published) != 1 || publisher.published[0] != 1 {
		t.Fatalf("published = %v, want [1]", publisher.published)
	}
}

func TestGenerate_RejectsUnsupportedTeamCount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newScheduleFixture(2)

	if _, err := svc.Generate(ctx, 1); !errors.Is(err, ErrInvalidTeamCount) {
		t.Fatalf("err = %v, want ErrInvalidTeamCount", err)
	}
}
