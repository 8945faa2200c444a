package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrSnapshotMiss is returned when no cached snapshot exists for the
// tournament.
var ErrSnapshotMiss = errors.New("no cached scoreboard snapshot")

const snapshotTTL = 6 * time.Hour

// Cache keeps the latest scoreboard snapshot per tournament in Redis so
// the polling endpoint does not hit Postgres on every request.
type Cache struct {
	client *redis.Client
}

func NewCache(redisAddr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: "",
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

func snapshotKey(tournamentID int) string {
	return fmt.Sprintf("scoreboard:%d", tournamentID)
}

func (c *Cache) Set(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal scoreboard snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(snapshot.TournamentID), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store scoreboard snapshot: %w", err)
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, tournamentID int) (*Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey(tournamentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotMiss
		}
		return nil, fmt.Errorf("failed to read scoreboard snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoreboard snapshot: %w", err)
	}
	return &snapshot, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
