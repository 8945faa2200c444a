package services

import "context"

// ScoreboardPublisher pushes fresh scoreboard snapshots out after score
// mutations. Implemented by the scoreboard package; best effort, never
// returns an error into the mutation path.
type ScoreboardPublisher interface {
	Publish(ctx context.Context, tournamentID int)
}

// NopPublisher satisfies ScoreboardPublisher without doing anything.
// Used in tests and when the websocket hub is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, tournamentID int) {}
