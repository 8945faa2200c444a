package services

import (
	"context"
	"errors"
	"testing"

	"github.com/marasteiner/flag-ding/models"
)

func newScorecardFixture() (*scorecardService, *fakeGameRepo, *fakeScoreEventRepo, *recordingPublisher) {
	games := newFakeGameRepo()
	events := newFakeScoreEventRepo()
	officials := newFakeOfficialRepo()
	publisher := &recordingPublisher{}
	svc := &scorecardService{
		gameRepo:     games,
		eventRepo:    events,
		officialRepo: officials,
		publisher:    publisher,
		runTx:        passthroughTx,
	}
	return svc, games, events, publisher
}

func referee() *models.Team {
	return &models.Team{ID: 30, Role: models.RoleTeam}
}

func newGame(games *fakeGameRepo) *models.Game {
	return games.add(&models.Game{
		TournamentID:   1,
		Team1ID:        10,
		Team2ID:        20,
		RefereeID:      30,
		OffenseIsTeam1: true,
	})
}

func TestRecordEvent_ScoresAccumulate(t *testing.T) {
	ctx := context.Background()
	svc, games, _, publisher := newScorecardFixture()
	game := newGame(games)

	plays := []models.ScoreEventType{models.EventTouchdown, models.EventTwoPointTry}
	for _, play := range plays {
		if _, err := svc.RecordEvent(ctx, referee(), game.ID, RecordEventInput{EventType: play}); err != nil {
			t.Fatalf("RecordEvent(%s) returned error: %v", play, err)
		}
	}

	stored, err := games.GetByID(ctx, nil, game.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.Team1Score == nil || *stored.Team1Score != 8 {
		t.Fatalf("team1 score = %v, want 8", stored.Team1Score)
	}
	if stored.Team2Score == nil || *stored.Team2Score != 0 {
		t.Fatalf("team2 score = %v, want 0", stored.Team2Score)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("publish count = %d, want 2", len(publisher.published))
	}
}

func TestRecordEvent_SafetyCreditsDefense(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	event, err := svc.RecordEvent(ctx, referee(), game.ID, RecordEventInput{EventType: models.EventSafety})
	if err != nil {
		t.Fatalf("RecordEvent returned error: %v", err)
	}
	if event.AwardedToTeam1 {
		t.Fatal("safety awarded to the offense, want defense")
	}

	stored, _ := games.GetByID(ctx, nil, game.ID)
	if stored.Team2Score == nil || *stored.Team2Score != 2 {
		t.Fatalf("team2 score = %v, want 2", stored.Team2Score)
	}
	if stored.Team1Score == nil || *stored.Team1Score != 0 {
		t.Fatalf("team1 score = %v, want 0", stored.Team1Score)
	}
}

func TestRecordEvent_RejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	_, err := svc.RecordEvent(ctx, referee(), game.ID, RecordEventInput{EventType: "FG"})
	if !errors.Is(err, ErrInvalidEventType) {
		t.Fatalf("err = %v, want ErrInvalidEventType", err)
	}
}

func TestRecordEvent_RequiresReferee(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	stranger := &models.Team{ID: 99, Role: models.RoleTeam}
	if _, err := svc.RecordEvent(ctx, stranger, game.ID, RecordEventInput{EventType: models.EventTouchdown}); !errors.Is(err, ErrNotReferee) {
		t.Fatalf("err = %v, want ErrNotReferee", err)
	}

	admin := &models.Team{ID: 99, Role: models.RoleAdmin}
	if _, err := svc.RecordEvent(ctx, admin, game.ID, RecordEventInput{EventType: models.EventTouchdown}); err != nil {
		t.Fatalf("admin RecordEvent returned error: %v", err)
	}
}

func TestDeleteEvent_RecomputesScore(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	td, err := svc.RecordEvent(ctx, referee(), game.ID, RecordEventInput{EventType: models.EventTouchdown})
	if err != nil {
		t.Fatalf("RecordEvent returned error: %v", err)
	}
	if _, err := svc.RecordEvent(ctx, referee(), game.ID, RecordEventInput{EventType: models.EventOnePointTry}); err != nil {
		t.Fatalf("RecordEvent returned error: %v", err)
	}

	if err := svc.DeleteEvent(ctx, referee(), game.ID, td.ID); err != nil {
		t.Fatalf("DeleteEvent returned error: %v", err)
	}

	stored, _ := games.GetByID(ctx, nil, game.ID)
	if stored.Team1Score == nil || *stored.Team1Score != 1 {
		t.Fatalf("team1 score = %v, want 1", stored.Team1Score)
	}
}

func TestDeleteEvent_LastEventLeavesZeroZero(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	event, err := svc.RecordEvent(ctx, referee(), game.ID, RecordEventInput{EventType: models.EventTouchdown})
	if err != nil {
		t.Fatalf("RecordEvent returned error: %v", err)
	}
	if err := svc.DeleteEvent(ctx, referee(), game.ID, event.ID); err != nil {
		t.Fatalf("DeleteEvent returned error: %v", err)
	}

	stored, _ := games.GetByID(ctx, nil, game.ID)
	if stored.Team1Score == nil || stored.Team2Score == nil {
		t.Fatal("scores reset to NULL, want 0:0")
	}
	if *stored.Team1Score != 0 || *stored.Team2Score != 0 {
		t.Fatalf("score = %d:%d, want 0:0", *stored.Team1Score, *stored.Team2Score)
	}
	if !stored.Finished() {
		t.Fatal("game with emptied ledger should still count as finished")
	}
}

func TestDeleteEvent_UnknownEvent(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	if err := svc.DeleteEvent(ctx, referee(), game.ID, 42); !errors.Is(err, ErrScoreEventNotFound) {
		t.Fatalf("err = %v, want ErrScoreEventNotFound", err)
	}
}

func TestRecordEvent_OverridesManualScore(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	// Manual override sits in the columns until the ledger moves again.
	twelve, seven := 12, 7
	if err := games.UpdateScores(ctx, nil, game.ID, &twelve, &seven); err != nil {
		t.Fatalf("UpdateScores returned error: %v", err)
	}

	if _, err := svc.RecordEvent(ctx, referee(), game.ID, RecordEventInput{EventType: models.EventTouchdown}); err != nil {
		t.Fatalf("RecordEvent returned error: %v", err)
	}

	stored, _ := games.GetByID(ctx, nil, game.ID)
	if *stored.Team1Score != 6 || *stored.Team2Score != 0 {
		t.Fatalf("score = %d:%d, want ledger recompute 6:0", *stored.Team1Score, *stored.Team2Score)
	}
}

func TestSwitchOffense_TwiceRestoresOriginal(t *testing.T) {
	ctx := context.Background()
	svc, games, _, publisher := newScorecardFixture()
	game := newGame(games)

	first, err := svc.SwitchOffense(ctx, referee(), game.ID)
	if err != nil {
		t.Fatalf("SwitchOffense returned error: %v", err)
	}
	if first.OffenseIsTeam1 {
		t.Fatal("offense did not flip")
	}

	second, err := svc.SwitchOffense(ctx, referee(), game.ID)
	if err != nil {
		t.Fatalf("SwitchOffense returned error: %v", err)
	}
	if !second.OffenseIsTeam1 {
		t.Fatal("double flip did not restore the original offense")
	}
	if len(publisher.published) != 2 {
		t.Fatalf("publishes = %d, want 2", len(publisher.published))
	}
}

func TestSetup_StoresCrewAndCoinToss(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	input := SetupScorecardInput{
		Officials: []OfficialInput{
			{Role: models.OfficialReferee, Name: "A. Whistle", LicenseNumber: "L-100"},
			{Role: models.OfficialDownJudge, Name: "B. Marker"},
		},
		CoinTossWinnerIsTeam1: true,
		OffenseIsTeam1:        false,
	}

	updated, err := svc.Setup(ctx, referee(), game.ID, input)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if !updated.CoinTossWinnerIsTeam1 || updated.OffenseIsTeam1 {
		t.Fatalf("coin toss state = winner1 %v offense1 %v, want winner1 true offense1 false",
			updated.CoinTossWinnerIsTeam1, updated.OffenseIsTeam1)
	}

	card, err := svc.Get(ctx, game.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(card.Officials) != 2 {
		t.Fatalf("officials = %d, want 2", len(card.Officials))
	}

	registry, err := svc.ListOfficials(ctx)
	if err != nil {
		t.Fatalf("ListOfficials returned error: %v", err)
	}
	if len(registry) != 2 {
		t.Fatalf("registry = %d, want 2", len(registry))
	}
}

func TestSetup_RejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	svc, games, _, _ := newScorecardFixture()
	game := newGame(games)

	input := SetupScorecardInput{
		Officials: []OfficialInput{{Role: "LINESMAN", Name: "X"}},
	}
	if _, err := svc.Setup(ctx, referee(), game.ID, input); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}

func TestRecordEvent_UnknownGame(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newScorecardFixture()

	_, err := svc.RecordEvent(ctx, referee(), 404, RecordEventInput{EventType: models.EventTouchdown})
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}
