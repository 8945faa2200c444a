package models

import "testing"

func TestScoreEventTypePoints(t *testing.T) {
	cases := []struct {
		eventType ScoreEventType
		points    int
		defense   bool
	}{
		{EventTouchdown, 6, false},
		{EventOnePointTry, 1, false},
		{EventTwoPointTry, 2, false},
		{EventSafety, 2, true},
	}
	for _, tc := range cases {
		if !tc.eventType.Valid() {
			t.Fatalf("%s should be valid", tc.eventType)
		}
		if got := tc.eventType.Points(); got != tc.points {
			t.Fatalf("%s points = %d, want %d", tc.eventType, got, tc.points)
		}
		if got := tc.eventType.CreditsDefense(); got != tc.defense {
			t.Fatalf("%s credits defense = %v, want %v", tc.eventType, got, tc.defense)
		}
	}

	if ScoreEventType("FG").Valid() {
		t.Fatal("FG should not be a valid event type")
	}
	if ScoreEventType("FG").Points() != 0 {
		t.Fatal("unknown event type should score 0")
	}
}

func TestGameFinished(t *testing.T) {
	score := 6
	game := &Game{}
	if game.Finished() {
		t.Fatal("game without scores reported finished")
	}
	game.Team1Score = &score
	if game.Finished() {
		t.Fatal("game with one score reported finished")
	}
	game.Team2Score = &score
	if !game.Finished() {
		t.Fatal("game with both scores reported unfinished")
	}
}
