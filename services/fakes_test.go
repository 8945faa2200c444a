package services

import (
	"context"
	"sort"

	"github.com/marasteiner/flag-ding/models"
	"github.com/marasteiner/flag-ding/repositories"
)

// passthroughTx runs the callback without a real transaction so service
// logic can be exercised against the in-memory fakes.
func passthroughTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeGameRepo struct {
	games  map[int]*models.Game
	nextID int
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[int]*models.Game), nextID: 1}
}

func (r *fakeGameRepo) add(game *models.Game) *models.Game {
	if game.ID == 0 {
		game.ID = r.nextID
		r.nextID++
	} else if game.ID >= r.nextID {
		r.nextID = game.ID + 1
	}
	r.games[game.ID] = game
	return game
}

func (r *fakeGameRepo) Create(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	r.add(game)
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	game, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (r *fakeGameRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeGameRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Game, error) {
	var games []*models.Game
	for _, game := range r.games {
		if game.TournamentID == tournamentID {
			copied := *game
			games = append(games, &copied)
		}
	}
	sort.Slice(games, func(i, j int) bool { return games[i].StartTime.Before(games[j].StartTime) })
	return games, nil
}

func (r *fakeGameRepo) Update(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	if _, ok := r.games[game.ID]; !ok {
		return repositories.ErrGameNotFound
	}
	copied := *game
	r.games[game.ID] = &copied
	return nil
}

func (r *fakeGameRepo) UpdateScores(ctx context.Context, exec repositories.SQLExecutor, id int, team1Score, team2Score *int) error {
	game, ok := r.games[id]
	if !ok {
		return repositories.ErrGameNotFound
	}
	game.Team1Score = team1Score
	game.Team2Score = team2Score
	return nil
}

func (r *fakeGameRepo) UpdateOffense(ctx context.Context, exec repositories.SQLExecutor, id int, offenseIsTeam1 bool) error {
	game, ok := r.games[id]
	if !ok {
		return repositories.ErrGameNotFound
	}
	game.OffenseIsTeam1 = offenseIsTeam1
	return nil
}

func (r *fakeGameRepo) UpdateCoinToss(ctx context.Context, exec repositories.SQLExecutor, id int, winnerIsTeam1, offenseIsTeam1 bool) error {
	game, ok := r.games[id]
	if !ok {
		return repositories.ErrGameNotFound
	}
	game.CoinTossWinnerIsTeam1 = winnerIsTeam1
	game.OffenseIsTeam1 = offenseIsTeam1
	return nil
}

func (r *fakeGameRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, game := range r.games {
		if game.TournamentID == tournamentID {
			delete(r.games, id)
		}
	}
	return nil
}

type fakeScoreEventRepo struct {
	events map[int]*models.ScoreEvent
	nextID int
}

func newFakeScoreEventRepo() *fakeScoreEventRepo {
	return &fakeScoreEventRepo{events: make(map[int]*models.ScoreEvent), nextID: 1}
}

func (r *fakeScoreEventRepo) Create(ctx context.Context, exec repositories.SQLExecutor, event *models.ScoreEvent) error {
	event.ID = r.nextID
	r.nextID++
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeScoreEventRepo) ListByGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) ([]*models.ScoreEvent, error) {
	var events []*models.ScoreEvent
	for _, event := range r.events {
		if event.GameID == gameID {
			copied := *event
			events = append(events, &copied)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (r *fakeScoreEventRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, gameID, eventID int) error {
	event, ok := r.events[eventID]
	if !ok || event.GameID != gameID {
		return repositories.ErrScoreEventNotFound
	}
	delete(r.events, eventID)
	return nil
}

func (r *fakeScoreEventRepo) SumPointsByGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) (int, int, error) {
	var team1, team2 int
	for _, event := range r.events {
		if event.GameID != gameID {
			continue
		}
		if event.AwardedToTeam1 {
			team1 += event.PointsAwarded
		} else {
			team2 += event.PointsAwarded
		}
	}
	return team1, team2, nil
}

type fakeOfficialRepo struct {
	byGame map[int][]*models.OfficialAssignment
}

func newFakeOfficialRepo() *fakeOfficialRepo {
	return &fakeOfficialRepo{byGame: make(map[int][]*models.OfficialAssignment)}
}

func (r *fakeOfficialRepo) ReplaceForGame(ctx context.Context, exec repositories.SQLExecutor, gameID int, assignments []*models.OfficialAssignment) error {
	r.byGame[gameID] = assignments
	return nil
}

func (r *fakeOfficialRepo) ListByGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) ([]*models.OfficialAssignment, error) {
	return r.byGame[gameID], nil
}

func (r *fakeOfficialRepo) ListAll(ctx context.Context, exec repositories.SQLExecutor) ([]*models.OfficialAssignment, error) {
	var all []*models.OfficialAssignment
	for _, assignments := range r.byGame {
		all = append(all, assignments...)
	}
	return all, nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, team := range teams {
		repo.teams[team.ID] = team
	}
	return repo
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	team.ID = len(r.teams) + 1
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) GetByUsername(ctx context.Context, exec repositories.SQLExecutor, username string) (*models.Team, error) {
	for _, team := range r.teams {
		if team.Username == username {
			copied := *team
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) List(ctx context.Context, exec repositories.SQLExecutor, role *models.Role) ([]*models.Team, error) {
	var teams []*models.Team
	for _, team := range r.teams {
		if role == nil || team.Role == *role {
			copied := *team
			teams = append(teams, &copied)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(ctx context.Context, exec repositories.SQLExecutor, teamID int, logoKey *string) error {
	team, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, tournament := range tournaments {
		repo.tournaments[tournament.ID] = tournament
	}
	return repo
}

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) error {
	tournament.ID = len(r.tournaments) + 1
	r.tournaments[tournament.ID] = tournament
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *tournament
	return &copied, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Tournament, error) {
	var tournaments []*models.Tournament
	for _, tournament := range r.tournaments {
		copied := *tournament
		tournaments = append(tournaments, &copied)
	}
	sort.Slice(tournaments, func(i, j int) bool { return tournaments[i].ID < tournaments[j].ID })
	return tournaments, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) error {
	if _, ok := r.tournaments[tournament.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	copied := *tournament
	r.tournaments[tournament.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

type fakeApplicationRepo struct {
	apps   map[int]*models.TournamentApplication
	nextID int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[int]*models.TournamentApplication), nextID: 1}
}

func (r *fakeApplicationRepo) approvedFor(teamID, tournamentID int) {
	r.apps[r.nextID] = &models.TournamentApplication{
		ID:           r.nextID,
		TeamID:       teamID,
		TournamentID: tournamentID,
		Approved:     true,
	}
	r.nextID++
}

func (r *fakeApplicationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, app *models.TournamentApplication) error {
	for _, existing := range r.apps {
		if existing.TeamID == app.TeamID && existing.TournamentID == app.TournamentID {
			return repositories.ErrApplicationConflict
		}
	}
	app.ID = r.nextID
	r.nextID++
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.TournamentApplication, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) GetByTeamAndTournament(ctx context.Context, exec repositories.SQLExecutor, teamID, tournamentID int) (*models.TournamentApplication, error) {
	for _, app := range r.apps {
		if app.TeamID == teamID && app.TournamentID == tournamentID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, approvedOnly bool) ([]*models.TournamentApplication, error) {
	var apps []*models.TournamentApplication
	for _, app := range r.apps {
		if app.TournamentID != tournamentID {
			continue
		}
		if approvedOnly && !app.Approved {
			continue
		}
		copied := *app
		apps = append(apps, &copied)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

func (r *fakeApplicationRepo) ListByTeam(ctx context.Context, exec repositories.SQLExecutor, teamID int, approvedOnly bool) ([]*models.TournamentApplication, error) {
	var apps []*models.TournamentApplication
	for _, app := range r.apps {
		if app.TeamID != teamID {
			continue
		}
		if approvedOnly && !app.Approved {
			continue
		}
		copied := *app
		apps = append(apps, &copied)
	}
	return apps, nil
}

func (r *fakeApplicationRepo) ListAll(ctx context.Context, exec repositories.SQLExecutor) ([]*models.TournamentApplication, error) {
	var apps []*models.TournamentApplication
	for _, app := range r.apps {
		copied := *app
		apps = append(apps, &copied)
	}
	return apps, nil
}

func (r *fakeApplicationRepo) Approve(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	app, ok := r.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	app.Approved = true
	return nil
}

func (r *fakeApplicationRepo) DeleteByTeamAndTournament(ctx context.Context, exec repositories.SQLExecutor, teamID, tournamentID int) error {
	for id, app := range r.apps {
		if app.TeamID == teamID && app.TournamentID == tournamentID {
			delete(r.apps, id)
			return nil
		}
	}
	return repositories.ErrApplicationNotFound
}

// recordingPublisher counts Publish calls per tournament.
type recordingPublisher struct {
	published []int
}

func (p *recordingPublisher) Publish(ctx context.Context, tournamentID int) {
	p.published = append(p.published, tournamentID)
}
