package models

import "time"

// TournamentApplication links a team to a tournament. A team plays in a
// tournament only once its application is approved.
type TournamentApplication struct {
	ID           int       `json:"id" db:"id"`
	TeamID       int       `json:"team_id" db:"team_id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Approved     bool      `json:"approved" db:"approved"`
	AppliedAt    time.Time `json:"applied_at" db:"applied_at"`

	Team       *Team       `json:"team,omitempty" db:"-"`
	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}
