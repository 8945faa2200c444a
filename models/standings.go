package models

// StandingRow is one line of a tournament table. Derived on demand from the
// tournament's finished games, never persisted.
type StandingRow struct {
	Rank          int   `json:"rank"`
	TeamID        int   `json:"team_id"`
	Team          *Team `json:"team,omitempty"`
	GamesPlayed   int   `json:"games_played"`
	Wins          int   `json:"wins"`
	Ties          int   `json:"ties"`
	Losses        int   `json:"losses"`
	Points        int   `json:"points"`
	PointsFor     int   `json:"pf"`
	PointsAgainst int   `json:"pa"`
	PointDiff     int   `json:"pd"`
}

// TournamentStandings carries the table plus the all-finished flag the
// admin views key their rendering on.
type TournamentStandings struct {
	TournamentID int           `json:"tournament_id"`
	AllFinished  bool          `json:"all_finished"`
	Rows         []StandingRow `json:"rows"`
}

// OverallStandingRow aggregates a team's best tournament results of the
// season (at most five count).
type OverallStandingRow struct {
	Rank            int   `json:"rank"`
	TeamID          int   `json:"team_id"`
	Team            *Team `json:"team,omitempty"`
	UsedTournaments int   `json:"used_tournaments"`
	TotalPoints     int   `json:"total_points"`
	Wins            int   `json:"wins"`
	Ties            int   `json:"ties"`
	Losses          int   `json:"losses"`
	PointsFor       int   `json:"pf"`
	PointsAgainst   int   `json:"pa"`
	PointDiff       int   `json:"pd"`
}
