package models

import "time"

// Game is one fixture of a tournament. Scores stay NULL until the first
// scoring event (or a manual override) lands; after that they always hold
// the summed event points per side.
type Game struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Team1ID      int       `json:"team1_id" db:"team1_id"`
	Team2ID      int       `json:"team2_id" db:"team2_id"`
	RefereeID    int       `json:"referee_id" db:"referee_id"`
	StartTime    time.Time `json:"start_time" db:"start_time"`
	Team1Score   *int      `json:"team1_score" db:"team1_score"`
	Team2Score   *int      `json:"team2_score" db:"team2_score"`
	FieldNumber  *int      `json:"field_number,omitempty" db:"field_number"` // only set for 5-team slates

	CoinTossWinnerIsTeam1 bool `json:"coin_toss_winner_is_team1" db:"coin_toss_winner_is_team1"`
	OffenseIsTeam1        bool `json:"offense_is_team1" db:"offense_is_team1"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Team1   *Team `json:"team1,omitempty" db:"-"`
	Team2   *Team `json:"team2,omitempty" db:"-"`
	Referee *Team `json:"referee,omitempty" db:"-"`
}

// Finished reports whether both score columns are set. Standings only ever
// aggregate finished games.
func (g *Game) Finished() bool {
	return g.Team1Score != nil && g.Team2Score != nil
}
