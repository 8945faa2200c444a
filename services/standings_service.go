package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
	"golang.org/x/sync/errgroup"
)

// Standings points per game result.
const (
	pointsWin  = 2
	pointsTie  = 1
	pointsLoss = 0
)

// maxCountedTournaments caps how many tournament results count towards a
// team's season total.
const maxCountedTournaments = 5

// StandingsService derives tables from finished games. Nothing here is
// persisted; every call recomputes from the current game rows.
type StandingsService interface {
	// ComputeTournament builds the table over the tournament's finished
	// games. Unfinished games are skipped and flagged via AllFinished.
	ComputeTournament(ctx context.Context, tournamentID int) (*models.TournamentStandings, error)
	// FinalStandings refuses to publish a table while games are still open.
	FinalStandings(ctx context.Context, tournamentID int) (*models.TournamentStandings, error)
	// ComputeOverall aggregates the season: each team's best results count,
	// at most five tournaments.
	ComputeOverall(ctx context.Context) ([]models.OverallStandingRow, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	appRepo        repositories.ApplicationRepository
	gameRepo       repositories.GameRepository
	teamRepo       repositories.TeamRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	appRepo repositories.ApplicationRepository,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		appRepo:        appRepo,
		gameRepo:       gameRepo,
		teamRepo:       teamRepo,
	}
}

func (s *standingsService) ComputeTournament(ctx context.Context, tournamentID int) (*models.TournamentStandings, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	apps, err := s.appRepo.ListByTournament(ctx, nil, tournamentID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list entered teams: %w", err)
	}
	games, err := s.gameRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	teamIDs := make([]int, 0, len(apps))
	for _, app := range apps {
		teamIDs = append(teamIDs, app.TeamID)
	}

	rows, allFinished := BuildStandingRows(teamIDs, games)
	SortStandingRows(rows, games, s.teamNameResolver(ctx))
	for i := range rows {
		rows[i].Rank = i + 1
		if team, err := s.teamRepo.GetByID(ctx, nil, rows[i].TeamID); err == nil {
			rows[i].Team = team
		}
	}

	return &models.TournamentStandings{
		TournamentID: tournamentID,
		AllFinished:  allFinished,
		Rows:         rows,
	}, nil
}

func (s *standingsService) FinalStandings(ctx context.Context, tournamentID int) (*models.TournamentStandings, error) {
	standings, err := s.ComputeTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !standings.AllFinished {
		return nil, ErrStandingsIncomplete
	}
	return standings, nil
}

func (s *standingsService) ComputeOverall(ctx context.Context) ([]models.OverallStandingRow, error) {
	teamRole := models.RoleTeam
	teams, err := s.teamRepo.List(ctx, nil, &teamRole)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	tournaments, err := s.tournamentRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	var mu sync.Mutex
	perTournament := make(map[int]*models.TournamentStandings, len(tournaments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, tournament := range tournaments {
		id := tournament.ID
		g.Go(func() error {
			standings, err := s.ComputeTournament(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			perTournament[id] = standings
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Tournaments where a team never completed a game contribute nothing;
	// teams without any results still get a zeroed season row below.
	resultsByTeam := make(map[int][]models.StandingRow)
	for _, standings := range perTournament {
		for _, row := range standings.Rows {
			if row.GamesPlayed == 0 {
				continue
			}
			resultsByTeam[row.TeamID] = append(resultsByTeam[row.TeamID], row)
		}
	}

	overall := make([]models.OverallStandingRow, 0, len(teams))
	for _, team := range teams {
		results := resultsByTeam[team.ID]
		// A team's best results are the tournaments with the most points,
		// then point diff, then points scored.
		sort.Slice(results, func(i, j int) bool {
			if results[i].Points != results[j].Points {
				return results[i].Points > results[j].Points
			}
			if results[i].PointDiff != results[j].PointDiff {
				return results[i].PointDiff > results[j].PointDiff
			}
			return results[i].PointsFor > results[j].PointsFor
		})
		if len(results) > maxCountedTournaments {
			results = results[:maxCountedTournaments]
		}

		row := models.OverallStandingRow{
			TeamID:          team.ID,
			Team:            team,
			UsedTournaments: len(results),
		}
		for _, result := range results {
			row.TotalPoints += result.Points
			row.Wins += result.Wins
			row.Ties += result.Ties
			row.Losses += result.Losses
			row.PointsFor += result.PointsFor
			row.PointsAgainst += result.PointsAgainst
		}
		row.PointDiff = row.PointsFor - row.PointsAgainst
		overall = append(overall, row)
	}

	sort.Slice(overall, func(i, j int) bool {
		return overallLess(overall[i], overall[j])
	})
	for i := range overall {
		overall[i].Rank = i + 1
	}
	return overall, nil
}

// overallLess ranks season rows: more total points first. Ties go to the
// team that needed fewer tournaments, then to the better per-game win,
// point-diff, scored and conceded rates, then the name.
func overallLess(a, b models.OverallStandingRow) bool {
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}
	if a.UsedTournaments != b.UsedTournaments {
		return a.UsedTournaments < b.UsedTournaments
	}
	aGames := a.Wins + a.Ties + a.Losses
	bGames := b.Wins + b.Ties + b.Losses
	if aRate, bRate := perGame(a.Wins, aGames), perGame(b.Wins, bGames); aRate != bRate {
		return aRate > bRate
	}
	if aRate, bRate := perGame(a.PointDiff, aGames), perGame(b.PointDiff, bGames); aRate != bRate {
		return aRate > bRate
	}
	if aRate, bRate := perGame(a.PointsFor, aGames), perGame(b.PointsFor, bGames); aRate != bRate {
		return aRate > bRate
	}
	if aRate, bRate := perGame(a.PointsAgainst, aGames), perGame(b.PointsAgainst, bGames); aRate != bRate {
		return aRate > bRate
	}
	return teamDisplayName(a.Team, a.TeamID) < teamDisplayName(b.Team, b.TeamID)
}

func perGame(total, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(total) / float64(games)
}

func (s *standingsService) teamNameResolver(ctx context.Context) func(teamID int) string {
	cache := make(map[int]string)
	return func(teamID int) string {
		if name, ok := cache[teamID]; ok {
			return name
		}
		name := fmt.Sprintf("%08d", teamID)
		if team, err := s.teamRepo.GetByID(ctx, nil, teamID); err == nil {
			name = team.Username
		}
		cache[teamID] = name
		return name
	}
}

// BuildStandingRows aggregates every finished game into one unsorted row
// per entered team. The second return reports whether all games finished.
func BuildStandingRows(teamIDs []int, games []*models.Game) ([]models.StandingRow, bool) {
	rowsByTeam := make(map[int]*models.StandingRow, len(teamIDs))
	for _, id := range teamIDs {
		rowsByTeam[id] = &models.StandingRow{TeamID: id}
	}

	allFinished := true
	for _, game := range games {
		if !game.Finished() {
			allFinished = false
			continue
		}
		applyGame(rowsByTeam, game)
	}

	rows := make([]models.StandingRow, 0, len(rowsByTeam))
	for _, id := range teamIDs {
		rows = append(rows, *rowsByTeam[id])
	}
	return rows, allFinished
}

func applyGame(rowsByTeam map[int]*models.StandingRow, game *models.Game) {
	team1, ok1 := rowsByTeam[game.Team1ID]
	team2, ok2 := rowsByTeam[game.Team2ID]
	if !ok1 || !ok2 {
		return
	}

	score1, score2 := *game.Team1Score, *game.Team2Score

	team1.GamesPlayed++
	team2.GamesPlayed++
	team1.PointsFor += score1
	team1.PointsAgainst += score2
	team2.PointsFor += score2
	team2.PointsAgainst += score1
	team1.PointDiff = team1.PointsFor - team1.PointsAgainst
	team2.PointDiff = team2.PointsFor - team2.PointsAgainst

	switch {
	case score1 > score2:
		team1.Wins++
		team1.Points += pointsWin
		team2.Losses++
	case score2 > score1:
		team2.Wins++
		team2.Points += pointsWin
		team1.Losses++
	default:
		team1.Ties++
		team2.Ties++
		team1.Points += pointsTie
		team2.Points += pointsTie
	}
}

// SortStandingRows orders rows by points, breaking ties head to head: the
// mini-table over the games between the tied teams decides first (points,
// then diff, then scored), then the overall diff and points scored, then
// the team name.
func SortStandingRows(rows []models.StandingRow, games []*models.Game, nameOf func(teamID int) string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Points > rows[j].Points
	})

	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].Points == rows[start].Points {
			end++
		}
		if end-start > 1 {
			sortTiedGroup(rows[start:end], games, nameOf)
		}
		start = end
	}
}

func sortTiedGroup(group []models.StandingRow, games []*models.Game, nameOf func(teamID int) string) {
	tied := make(map[int]bool, len(group))
	for _, row := range group {
		tied[row.TeamID] = true
	}

	mini := make(map[int]*models.StandingRow, len(group))
	for _, row := range group {
		mini[row.TeamID] = &models.StandingRow{TeamID: row.TeamID}
	}
	for _, game := range games {
		if !game.Finished() || !tied[game.Team1ID] || !tied[game.Team2ID] {
			continue
		}
		applyGame(mini, game)
	}

	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		h2hA, h2hB := mini[a.TeamID], mini[b.TeamID]
		if h2hA.Points != h2hB.Points {
			return h2hA.Points > h2hB.Points
		}
		if h2hA.PointDiff != h2hB.PointDiff {
			return h2hA.PointDiff > h2hB.PointDiff
		}
		if h2hA.PointsFor != h2hB.PointsFor {
			return h2hA.PointsFor > h2hB.PointsFor
		}
		if a.PointDiff != b.PointDiff {
			return a.PointDiff > b.PointDiff
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		return nameOf(a.TeamID) < nameOf(b.TeamID)
	})
}

func teamDisplayName(team *models.Team, teamID int) string {
	if team != nil {
		return team.Username
	}
	return fmt.Sprintf("%08d", teamID)
}
