// Package game implements the album-chain state machine. Each registered
// channel walks the catalog stage by stage: at stage k the players must
// supply the stage number k times, the album name k times, then k distinct
// songs from that album, alternating players on every answer. Any wrong
// answer resets the channel's run; finishing the last stage completes a
// cycle and reverses the catalog direction for the whole process.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/soren-hale/albumchain/internal/catalog"
	"github.com/soren-hale/albumchain/internal/match"
	"github.com/soren-hale/albumchain/internal/storage"
)

// Repository is the persistence contract the engine drives. Every call is
// scoped to one channel or one user. Apply must be all-or-nothing: a
// failure leaves the channel state, used songs and user stats untouched.
type Repository interface {
	ChannelState(ctx context.Context, channelID string) (storage.ChannelState, error)
	SongUsed(ctx context.Context, channelID, name string) (bool, error)
	Apply(ctx context.Context, upd storage.AnswerUpdate) error
}

// Outcome is what the chat layer needs to react to one answer.
type Outcome struct {
	Valid         bool
	Message       string // failure explanation; empty on success
	Silent        bool   // suppress the message (stage-1 number misses)
	CycleComplete bool   // the answer closed a full catalog cycle
	NewHighScore  bool
}

// OnHighScoreFunc runs after a channel sets a new high score, outside the
// per-answer transaction. Implementations must not block.
type OnHighScoreFunc func(channelID string, score int)

// Engine validates answers and advances per-channel game state. Answers
// for the same channel are serialized; distinct channels proceed
// concurrently.
type Engine struct {
	repo      Repository
	catalog   *catalog.Catalog
	threshold float64

	// OnHighScore, when set, is notified of every new channel high score.
	OnHighScore OnHighScoreFunc

	locks sync.Map // channel id → *sync.Mutex
}

// New creates an engine over the given repository and catalog. threshold
// is the fuzzy-match policy for album and song names; pass
// match.DefaultThreshold unless configured otherwise.
func New(repo Repository, cat *catalog.Catalog, threshold float64) *Engine {
	return &Engine{repo: repo, catalog: cat, threshold: threshold}
}

func (e *Engine) channelLock(channelID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(channelID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// SubmitAnswer runs one answer through the state machine. text must
// already be normalized by the caller: lower-cased, punctuation stripped.
//
// It returns storage.ErrChannelNotRegistered when the channel has no game,
// and a wrapped persistence error when the store fails; in both cases no
// state has changed and the catalog direction is untouched.
func (e *Engine) SubmitAnswer(ctx context.Context, channelID, userID, text string) (Outcome, error) {
	mu := e.channelLock(channelID)
	mu.Lock()
	defer mu.Unlock()

	st, err := e.repo.ChannelState(ctx, channelID)
	if err != nil {
		if errors.Is(err, storage.ErrChannelNotRegistered) {
			return Outcome{}, err
		}
		return Outcome{}, fmt.Errorf("load channel state: %w", err)
	}

	// Consecutive turns by one player end the run, they are not merely ignored.
	if st.LastPlayerID != "" && st.LastPlayerID == userID {
		if err := e.reset(ctx, st, userID); err != nil {
			return Outcome{}, err
		}
		return Outcome{Message: "You can't go twice in a row!"}, nil
	}

	v, err := e.judge(ctx, st, text)
	if err != nil {
		return Outcome{}, err
	}
	if !v.ok {
		if err := e.reset(ctx, st, userID); err != nil {
			return Outcome{}, err
		}
		return Outcome{Message: v.message, Silent: v.silent}, nil
	}
	return e.advance(ctx, st, userID, v.song)
}

// verdict is the validation half of an answer, before any state changes.
type verdict struct {
	ok      bool
	message string
	silent  bool
	song    string // canonical name when a song answer resolved
}

func (e *Engine) judge(ctx context.Context, st storage.ChannelState, text string) (verdict, error) {
	ls := e.catalog.LogicalStage(st.Stage)
	stage := e.catalog.StageAt(ls)

	switch st.Subsection {
	case storage.SubsectionNumber:
		tok := e.catalog.NumberAt(ls)
		if match.Exact(text, tok.AllowedNames) {
			return verdict{ok: true}, nil
		}
		return verdict{
			message: fmt.Sprintf("Pay attention! Pay attention! You should've said %s!", tok.Number),
			// Bootstrap forgiveness: a fresh game shouldn't scold every
			// message that isn't "1".
			silent: st.Stage == 1,
		}, nil

	case storage.SubsectionAlbum:
		if match.AnyVariant(text, stage.AllowedNames, e.threshold) {
			return verdict{ok: true}, nil
		}
		return verdict{
			message: fmt.Sprintf("Pay attention! Pay attention! You should've said %s!", stage.Name),
		}, nil

	default: // storage.SubsectionSong
		name := e.resolveSong(text, stage)
		if name == "" {
			return verdict{
				message: fmt.Sprintf("Pay attention! Pay attention! You should've given a song from %s!", stage.Name),
			}, nil
		}
		if name == stage.Name && st.SubsectionEntriesSoFar == 0 {
			return verdict{
				message: "NO! The title track is not allowed right after the album names!",
			}, nil
		}
		used, err := e.repo.SongUsed(ctx, st.ChannelID, name)
		if err != nil {
			return verdict{}, fmt.Errorf("check used song: %w", err)
		}
		if used {
			return verdict{
				message: fmt.Sprintf("No duplicate songs! %s has already been said!", name),
			}, nil
		}
		return verdict{ok: true, song: name}, nil
	}
}

// resolveSong maps free text to a canonical song name within the stage.
// First match wins; empty means no song was close enough.
func (e *Engine) resolveSong(text string, stage catalog.Stage) string {
	for _, s := range stage.Songs {
		if match.AnyVariant(text, s.AllowedNames, e.threshold) {
			return s.Name
		}
	}
	return ""
}

// advance applies the transition table for a valid answer and persists it.
// The catalog reversal on cycle completion happens only after the
// transaction commits, so a storage failure cannot flip the direction.
func (e *Engine) advance(ctx context.Context, st storage.ChannelState, userID, song string) (Outcome, error) {
	n := e.catalog.Len()
	ls := e.catalog.LogicalStage(st.Stage)
	oldStage := st.Stage

	upd := storage.AnswerUpdate{UserID: userID, Correct: true}

	if st.SubsectionEntriesSoFar+1 == ls {
		st.SubsectionEntriesSoFar = 0
		if st.Subsection == storage.SubsectionSong {
			st.Subsection = storage.SubsectionNumber
			st.Stage++
			upd.ClearSongs = true
		} else {
			st.Subsection++
		}
	} else {
		st.SubsectionEntriesSoFar++
		if st.Subsection == storage.SubsectionSong {
			upd.AddSong = song
		}
	}

	st.Score++
	out := Outcome{Valid: true}
	if st.Score > st.HighScore {
		st.HighScore = st.Score
		st.HighestAlbum = e.catalog.StageAt(ls).Name
		st.RoundsCompleted = (st.Stage - 1) / n
		out.NewHighScore = true
	}
	st.LastPlayerID = userID
	upd.State = st

	cycleComplete := oldStage%n == 0 && st.Stage%n == 1 && st.Stage != oldStage

	if err := e.repo.Apply(ctx, upd); err != nil {
		return Outcome{}, fmt.Errorf("persist answer: %w", err)
	}

	if cycleComplete {
		e.catalog.Reverse()
		out.CycleComplete = true
	}
	if out.NewHighScore && e.OnHighScore != nil {
		e.OnHighScore(st.ChannelID, st.HighScore)
	}
	return out, nil
}

// reset wipes the channel's run (score, position, used songs) while
// keeping high score and the historical fields, and charges the miss to
// userID.
func (e *Engine) reset(ctx context.Context, st storage.ChannelState, userID string) error {
	st.Score = 0
	st.Stage = 1
	st.Subsection = storage.SubsectionNumber
	st.SubsectionEntriesSoFar = 0
	st.LastPlayerID = ""
	if err := e.repo.Apply(ctx, storage.AnswerUpdate{
		State:      st,
		ClearSongs: true,
		UserID:     userID,
	}); err != nil {
		return fmt.Errorf("reset channel: %w", err)
	}
	return nil
}
