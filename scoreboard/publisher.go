package scoreboard

import (
	"context"
	"log/slog"

	"github.com/marasteiner/flag-ding/repositories"
)

// GameScore mirrors the scoreboard feed the frontend polls: unscored games
// render as 0:0.
type GameScore struct {
	ID        int    `json:"id"`
	Team1     string `json:"team1"`
	Team2     string `json:"team2"`
	Score1    int    `json:"score1"`
	Score2    int    `json:"score2"`
	StartTime string `json:"start_time"`
	Field     *int   `json:"field,omitempty"`
}

type Snapshot struct {
	TournamentID int         `json:"tournament_id"`
	Games        []GameScore `json:"games"`
}

// Publisher builds scoreboard snapshots and distributes them to the
// websocket hub and the Redis cache. The cache is best effort; failures
// are logged and the database remains the source of truth.
type Publisher struct {
	hub    *Hub
	cache  *Cache
	games  repositories.GameRepository
	teams  repositories.TeamRepository
	logger *slog.Logger
}

func NewPublisher(
	hub *Hub,
	cache *Cache,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) *Publisher {
	return &Publisher{
		hub:    hub,
		cache:  cache,
		games:  gameRepo,
		teams:  teamRepo,
		logger: logger,
	}
}

// Publish recomputes the tournament's snapshot and pushes it out. Called
// after every score mutation.
func (p *Publisher) Publish(ctx context.Context, tournamentID int) {
	snapshot, err := p.build(ctx, tournamentID)
	if err != nil {
		p.logger.Error("failed to build scoreboard snapshot",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, snapshot); err != nil {
			p.logger.Warn("failed to cache scoreboard snapshot",
				slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
	}

	p.hub.BroadcastToRoom(RoomID(tournamentID), Message{
		Type:    TypeScoreboardUpdated,
		Payload: snapshot,
		RoomID:  RoomID(tournamentID),
	})
}

// Snapshot serves the cached snapshot when present and falls back to the
// database, backfilling the cache on a miss.
func (p *Publisher) Snapshot(ctx context.Context, tournamentID int) (*Snapshot, error) {
	if p.cache != nil {
		snapshot, err := p.cache.Get(ctx, tournamentID)
		if err == nil {
			return snapshot, nil
		}
		if err != ErrSnapshotMiss {
			p.logger.Warn("scoreboard cache read failed",
				slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
	}

	snapshot, err := p.build(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		if cacheErr := p.cache.Set(ctx, snapshot); cacheErr != nil {
			p.logger.Warn("failed to backfill scoreboard snapshot",
				slog.Int("tournament_id", tournamentID), slog.Any("error", cacheErr))
		}
	}
	return snapshot, nil
}

func (p *Publisher) build(ctx context.Context, tournamentID int) (*Snapshot, error) {
	games, err := p.games.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string)
	teamName := func(teamID int) (string, error) {
		if name, ok := names[teamID]; ok {
			return name, nil
		}
		team, err := p.teams.GetByID(ctx, nil, teamID)
		if err != nil {
			return "", err
		}
		names[teamID] = team.Username
		return team.Username, nil
	}

	snapshot := &Snapshot{TournamentID: tournamentID, Games: make([]GameScore, 0, len(games))}
	for _, g := range games {
		team1, err := teamName(g.Team1ID)
		if err != nil {
			return nil, err
		}
		team2, err := teamName(g.Team2ID)
		if err != nil {
			return nil, err
		}
		snapshot.Games = append(snapshot.Games, GameScore{
			ID:        g.ID,
			Team1:     team1,
			Team2:     team2,
			Score1:    scoreOrZero(g.Team1Score),
			Score2:    scoreOrZero(g.Team2Score),
			StartTime: g.StartTime.Format("15:04"),
			Field:     g.FieldNumber,
		})
	}
	return snapshot, nil
}

func scoreOrZero(score *int) int {
	if score == nil {
		return 0
	}
	return *score
}
