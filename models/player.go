package models

type Player struct {
	ID         int    `json:"id" db:"id"`
	TeamID     int    `json:"team_id" db:"team_id"`
	Trikot     int    `json:"trikot" db:"trikot"`
	FirstName  string `json:"first_name" db:"first_name"`
	LastName   string `json:"last_name" db:"last_name"`
	PassNumber string `json:"pass_number" db:"pass_number"`
}
