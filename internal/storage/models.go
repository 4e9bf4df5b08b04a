// Package storage defines the persisted game records and the two
// repository adapters (Postgres and in-memory) behind the engine.
package storage

import (
	"errors"
	"math"
)

// ErrChannelNotRegistered is returned when a channel has no game state row.
// The chat layer treats answers in such channels as ordinary messages.
var ErrChannelNotRegistered = errors.New("channel is not registered")

// Subsection identifies which answer category a channel currently expects.
type Subsection int

const (
	SubsectionNumber Subsection = iota
	SubsectionAlbum
	SubsectionSong
)

func (s Subsection) String() string {
	switch s {
	case SubsectionNumber:
		return "number"
	case SubsectionAlbum:
		return "album"
	case SubsectionSong:
		return "song"
	}
	return "unknown"
}

// ChannelState is the per-channel game record. Stage is 1-based and
// unbounded: only its logical position within the catalog wraps, so
// (stage-1)/N encodes how many full cycles the channel has completed.
type ChannelState struct {
	ChannelID              string
	GuildID                string
	Score                  int
	HighScore              int
	Stage                  int
	Subsection             Subsection
	SubsectionEntriesSoFar int
	LastPlayerID           string // empty when nobody has answered since the last reset
	HighestAlbum           string
	RoundsCompleted        int
}

// UserStats tracks one user's lifetime answer record across all channels.
type UserStats struct {
	UserID         string
	CorrectAnswers int
	TimesFailed    int
}

// PercentageCorrect returns the share of correct answers rounded to one
// decimal place. A user with no recorded answers is at 100.
func (u UserStats) PercentageCorrect() float64 {
	total := u.CorrectAnswers + u.TimesFailed
	if total == 0 {
		return 100
	}
	return math.Round(float64(u.CorrectAnswers)/float64(total)*1000) / 10
}

// AnswerUpdate is everything one processed answer changes. A repository
// applies it in a single transaction; either all of it lands or none of it.
type AnswerUpdate struct {
	State      ChannelState
	AddSong    string // canonical song name to record as used, if any
	ClearSongs bool   // wipe the channel's used-song set
	UserID     string // whose stats to bump; empty skips the stats write
	Correct    bool   // increments CorrectAnswers, otherwise TimesFailed
}
