package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production repository, backed by a pgx connection pool.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres opens a connection pool against dsn.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &Postgres{db: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.db.Close()
}

// Ping verifies the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// InitSchema creates the game tables when they do not exist yet.
func (p *Postgres) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS channels (
			channel_id TEXT PRIMARY KEY,
			guild_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			high_score INTEGER NOT NULL DEFAULT 0,
			stage INTEGER NOT NULL DEFAULT 1,
			subsection INTEGER NOT NULL DEFAULT 0,
			subsection_entries INTEGER NOT NULL DEFAULT 0,
			last_player_id TEXT,
			highest_album TEXT NOT NULL DEFAULT '',
			rounds_completed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			channel_id TEXT NOT NULL REFERENCES channels(channel_id) ON DELETE CASCADE,
			song_name TEXT NOT NULL,
			PRIMARY KEY (channel_id, song_name)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			correct_answers INTEGER NOT NULL DEFAULT 0,
			times_failed INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

const channelColumns = `channel_id, guild_id, score, high_score, stage, subsection, subsection_entries, last_player_id, highest_album, rounds_completed`

func scanChannel(row pgx.Row) (ChannelState, error) {
	var st ChannelState
	var subsection int
	var lastPlayer *string
	err := row.Scan(&st.ChannelID, &st.GuildID, &st.Score, &st.HighScore, &st.Stage,
		&subsection, &st.SubsectionEntriesSoFar, &lastPlayer, &st.HighestAlbum, &st.RoundsCompleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return ChannelState{}, ErrChannelNotRegistered
	}
	if err != nil {
		return ChannelState{}, err
	}
	st.Subsection = Subsection(subsection)
	if lastPlayer != nil {
		st.LastPlayerID = *lastPlayer
	}
	return st, nil
}

// ChannelState loads the game state for one channel.
func (p *Postgres) ChannelState(ctx context.Context, channelID string) (ChannelState, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE channel_id = $1`, channelID)
	return scanChannel(row)
}

// ChannelForGuild loads the state of the guild's registered channel.
func (p *Postgres) ChannelForGuild(ctx context.Context, guildID string) (ChannelState, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE guild_id = $1`, guildID)
	return scanChannel(row)
}

// SongUsed reports whether the canonical song name was already accepted in
// the channel's current run.
func (p *Postgres) SongUsed(ctx context.Context, channelID, name string) (bool, error) {
	var used bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM songs WHERE channel_id = $1 AND song_name = $2)`,
		channelID, name).Scan(&used)
	return used, err
}

// Apply writes one answer's full effect in a single transaction: the new
// channel state, the optional used-song insert or wipe, and the user-stat
// increment. A failure rolls everything back.
func (p *Postgres) Apply(ctx context.Context, upd AnswerUpdate) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin answer tx: %w", err)
	}
	defer tx.Rollback(ctx)

	st := upd.State
	var lastPlayer *string
	if st.LastPlayerID != "" {
		lastPlayer = &st.LastPlayerID
	}
	if _, err := tx.Exec(ctx,
		`UPDATE channels
		 SET score = $2, high_score = $3, stage = $4, subsection = $5,
		     subsection_entries = $6, last_player_id = $7, highest_album = $8, rounds_completed = $9
		 WHERE channel_id = $1`,
		st.ChannelID, st.Score, st.HighScore, st.Stage, int(st.Subsection),
		st.SubsectionEntriesSoFar, lastPlayer, st.HighestAlbum, st.RoundsCompleted); err != nil {
		return fmt.Errorf("update channel state: %w", err)
	}

	if upd.ClearSongs {
		if _, err := tx.Exec(ctx, `DELETE FROM songs WHERE channel_id = $1`, st.ChannelID); err != nil {
			return fmt.Errorf("clear used songs: %w", err)
		}
	}
	if upd.AddSong != "" {
		if _, err := tx.Exec(ctx,
			`INSERT INTO songs (channel_id, song_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			st.ChannelID, upd.AddSong); err != nil {
			return fmt.Errorf("record used song: %w", err)
		}
	}
	if upd.UserID != "" {
		correct, failed := 0, 1
		if upd.Correct {
			correct, failed = 1, 0
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (user_id, correct_answers, times_failed) VALUES ($1, $2, $3)
			 ON CONFLICT (user_id) DO UPDATE
			 SET correct_answers = users.correct_answers + $2, times_failed = users.times_failed + $3`,
			upd.UserID, correct, failed); err != nil {
			return fmt.Errorf("update user stats: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// RegisterChannelForGuild points the game at a channel, dropping whatever
// channel the guild used before along with its used-song records.
func (p *Postgres) RegisterChannelForGuild(ctx context.Context, guildID, channelID string) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin registration tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Songs go with the channel rows via ON DELETE CASCADE.
	if _, err := tx.Exec(ctx,
		`DELETE FROM channels WHERE guild_id = $1 OR channel_id = $2`, guildID, channelID); err != nil {
		return fmt.Errorf("clear previous registration: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO channels (channel_id, guild_id, score, high_score, stage, subsection, subsection_entries, last_player_id, highest_album, rounds_completed)
		 VALUES ($1, $2, 0, 0, 1, 0, 0, NULL, '', 0)`,
		channelID, guildID); err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}

	return tx.Commit(ctx)
}

// UserStats loads a user's lifetime counters. Unknown users get zeroes.
func (p *Postgres) UserStats(ctx context.Context, userID string) (UserStats, error) {
	stats := UserStats{UserID: userID}
	err := p.db.QueryRow(ctx,
		`SELECT correct_answers, times_failed FROM users WHERE user_id = $1`, userID).
		Scan(&stats.CorrectAnswers, &stats.TimesFailed)
	if errors.Is(err, pgx.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return UserStats{}, err
	}
	return stats, nil
}
