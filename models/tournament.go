package models

import "time"

// Tournament is a single-day event hosted at one location.
type Tournament struct {
	ID            int       `json:"id" db:"id"`
	Date          time.Time `json:"date" db:"date"`
	Name          string    `json:"name" db:"name"`
	Location      string    `json:"location" db:"location"`
	MaxTeams      int       `json:"max_teams" db:"max_teams"`
	NumberOfTeams int       `json:"number_of_teams" db:"number_of_teams"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
