package models

import "time"

// ScoreEventType enumerates the scoring plays of flag football.
type ScoreEventType string

const (
	EventTouchdown   ScoreEventType = "TD"
	EventOnePointTry ScoreEventType = "PAT1"
	EventTwoPointTry ScoreEventType = "PAT2"
	EventSafety      ScoreEventType = "SAFETY"
)

// Valid reports whether t is one of the four known event types.
func (t ScoreEventType) Valid() bool {
	switch t {
	case EventTouchdown, EventOnePointTry, EventTwoPointTry, EventSafety:
		return true
	}
	return false
}

// Points returns the fixed point value of the event type, 0 for unknown
// types.
func (t ScoreEventType) Points() int {
	switch t {
	case EventTouchdown:
		return 6
	case EventOnePointTry:
		return 1
	case EventTwoPointTry:
		return 2
	case EventSafety:
		return 2
	}
	return 0
}

// CreditsDefense reports whether the event is awarded to the team currently
// on defense. Everything except a safety credits the offense.
func (t ScoreEventType) CreditsDefense() bool {
	return t == EventSafety
}

// ScoreEvent is one entry of a game's scoring ledger. Events are appended
// and deleted, never updated in place; the game's score columns are always
// recomputed from the surviving events.
type ScoreEvent struct {
	ID             int            `json:"id" db:"id"`
	GameID         int            `json:"game_id" db:"game_id"`
	EventType      ScoreEventType `json:"event_type" db:"event_type"`
	Trikot         *int           `json:"trikot,omitempty" db:"trikot"`
	PointsAwarded  int            `json:"points_awarded" db:"points_awarded"`
	AwardedToTeam1 bool           `json:"awarded_to_team1" db:"awarded_to_team1"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}
