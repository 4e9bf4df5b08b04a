// Package cache keeps best-effort game data in redis. Nothing here is the
// store of record: the Postgres repository stays authoritative, and callers
// treat every cache failure as non-fatal.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const highScoreKey = "albumchain:highscores"

// Leaderboard mirrors channel high scores into a redis sorted set.
type Leaderboard struct {
	rdb *redis.Client
}

// NewLeaderboard connects a leaderboard to the redis instance at addr.
func NewLeaderboard(addr, password string, db int) *Leaderboard {
	return &Leaderboard{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping verifies the redis connection.
func (l *Leaderboard) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// Close releases the redis client.
func (l *Leaderboard) Close() error {
	return l.rdb.Close()
}

// SetHighScore records a channel's new high score.
func (l *Leaderboard) SetHighScore(ctx context.Context, channelID string, score int) error {
	return l.rdb.ZAdd(ctx, highScoreKey, redis.Z{
		Score:  float64(score),
		Member: channelID,
	}).Err()
}

// Entry is one leaderboard row.
type Entry struct {
	ChannelID string
	Score     int
}

// Top returns the best channels, highest score first.
func (l *Leaderboard) Top(ctx context.Context, n int64) ([]Entry, error) {
	zs, err := l.rdb.ZRevRangeWithScores(ctx, highScoreKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{ChannelID: id, Score: int(z.Score)})
	}
	return entries, nil
}
