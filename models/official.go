package models

// OfficialRole identifies a crew position on a game.
type OfficialRole string

const (
	OfficialReferee    OfficialRole = "REF"
	OfficialDownJudge  OfficialRole = "DJ"
	OfficialFieldJudge OfficialRole = "FJ"
	OfficialSideJudge  OfficialRole = "SJ"
)

// OfficialAssignment records who filled a crew position for one game. The
// whole crew is replaced when the scorecard for the game is opened.
type OfficialAssignment struct {
	ID            int          `json:"id" db:"id"`
	GameID        int          `json:"game_id" db:"game_id"`
	Role          OfficialRole `json:"role" db:"role"`
	Name          string       `json:"name" db:"name"`
	LicenseNumber string       `json:"license_number" db:"license_number"`

	Game *Game `json:"game,omitempty" db:"-"`
}
