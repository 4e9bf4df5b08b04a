package storage

import (
	"context"
	"sync"
)

// Memory is an in-process repository used by tests and the no-database dev
// mode. A single mutex guards every map; Apply holds it for the whole
// update, which gives it the same all-or-nothing behavior as the Postgres
// adapter's transaction.
type Memory struct {
	mu       sync.RWMutex
	channels map[string]ChannelState
	songs    map[string]map[string]struct{} // channel id → used canonical names
	users    map[string]UserStats
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		channels: make(map[string]ChannelState),
		songs:    make(map[string]map[string]struct{}),
		users:    make(map[string]UserStats),
	}
}

// ChannelState loads the game state for one channel.
func (m *Memory) ChannelState(_ context.Context, channelID string) (ChannelState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.channels[channelID]
	if !ok {
		return ChannelState{}, ErrChannelNotRegistered
	}
	return st, nil
}

// ChannelForGuild loads the state of the guild's registered channel.
func (m *Memory) ChannelForGuild(_ context.Context, guildID string) (ChannelState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, st := range m.channels {
		if st.GuildID == guildID {
			return st, nil
		}
	}
	return ChannelState{}, ErrChannelNotRegistered
}

// SongUsed reports whether the canonical song name was already accepted in
// the channel's current run.
func (m *Memory) SongUsed(_ context.Context, channelID, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, used := m.songs[channelID][name]
	return used, nil
}

// Apply writes one answer's full effect atomically.
func (m *Memory) Apply(_ context.Context, upd AnswerUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.channels[upd.State.ChannelID] = upd.State

	if upd.ClearSongs {
		delete(m.songs, upd.State.ChannelID)
	}
	if upd.AddSong != "" {
		set, ok := m.songs[upd.State.ChannelID]
		if !ok {
			set = make(map[string]struct{})
			m.songs[upd.State.ChannelID] = set
		}
		set[upd.AddSong] = struct{}{}
	}
	if upd.UserID != "" {
		stats := m.users[upd.UserID]
		stats.UserID = upd.UserID
		if upd.Correct {
			stats.CorrectAnswers++
		} else {
			stats.TimesFailed++
		}
		m.users[upd.UserID] = stats
	}
	return nil
}

// RegisterChannelForGuild points the game at a channel, dropping whatever
// channel the guild used before along with its used-song records.
func (m *Memory) RegisterChannelForGuild(_ context.Context, guildID, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, st := range m.channels {
		if st.GuildID == guildID || id == channelID {
			delete(m.channels, id)
			delete(m.songs, id)
		}
	}
	m.channels[channelID] = ChannelState{
		ChannelID:  channelID,
		GuildID:    guildID,
		Stage:      1,
		Subsection: SubsectionNumber,
	}
	return nil
}

// UserStats loads a user's lifetime counters. Unknown users get zeroes.
func (m *Memory) UserStats(_ context.Context, userID string) (UserStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats, ok := m.users[userID]
	if !ok {
		return UserStats{UserID: userID}, nil
	}
	return stats, nil
}
