package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryUnregisteredChannel(t *testing.T) {
	m := NewMemory()
	_, err := m.ChannelState(context.Background(), "c1")
	if !errors.Is(err, ErrChannelNotRegistered) {
		t.Fatalf("expected ErrChannelNotRegistered, got %v", err)
	}
}

func TestMemoryRegisterCreatesFreshState(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.RegisterChannelForGuild(ctx, "g1", "c1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	st, err := m.ChannelState(ctx, "c1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Stage != 1 || st.Subsection != SubsectionNumber || st.Score != 0 || st.SubsectionEntriesSoFar != 0 {
		t.Errorf("fresh state is wrong: %+v", st)
	}
	if st.GuildID != "g1" {
		t.Errorf("GuildID = %q, want g1", st.GuildID)
	}
}

// TestMemoryReRegisterReplacesGuildChannel verifies re-registration drops
// the guild's previous channel and its used songs.
func TestMemoryReRegisterReplacesGuildChannel(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.RegisterChannelForGuild(ctx, "g1", "old"); err != nil {
		t.Fatal(err)
	}
	st, _ := m.ChannelState(ctx, "old")
	st.Score = 7
	if err := m.Apply(ctx, AnswerUpdate{State: st, AddSong: "Love Story"}); err != nil {
		t.Fatal(err)
	}

	if err := m.RegisterChannelForGuild(ctx, "g1", "new"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ChannelState(ctx, "old"); !errors.Is(err, ErrChannelNotRegistered) {
		t.Errorf("old channel should be gone, got %v", err)
	}
	used, _ := m.SongUsed(ctx, "old", "Love Story")
	if used {
		t.Error("old channel's songs should be gone")
	}
	if _, err := m.ChannelState(ctx, "new"); err != nil {
		t.Errorf("new channel should exist: %v", err)
	}
}

func TestMemoryApplySongsAndStats(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.RegisterChannelForGuild(ctx, "g1", "c1"); err != nil {
		t.Fatal(err)
	}
	st, _ := m.ChannelState(ctx, "c1")

	if err := m.Apply(ctx, AnswerUpdate{State: st, AddSong: "willow", UserID: "u1", Correct: true}); err != nil {
		t.Fatal(err)
	}
	used, _ := m.SongUsed(ctx, "c1", "willow")
	if !used {
		t.Error("willow should be marked used")
	}

	if err := m.Apply(ctx, AnswerUpdate{State: st, ClearSongs: true, UserID: "u1", Correct: false}); err != nil {
		t.Fatal(err)
	}
	used, _ = m.SongUsed(ctx, "c1", "willow")
	if used {
		t.Error("used songs should be cleared")
	}

	stats, _ := m.UserStats(ctx, "u1")
	if stats.CorrectAnswers != 1 || stats.TimesFailed != 1 {
		t.Errorf("stats = %+v, want 1 correct / 1 failed", stats)
	}
}

func TestPercentageCorrect(t *testing.T) {
	cases := []struct {
		correct, failed int
		want            float64
	}{
		{0, 0, 100},
		{1, 0, 100},
		{0, 1, 0},
		{1, 2, 33.3},
		{2, 1, 66.7},
		{7, 3, 70},
	}
	for _, tc := range cases {
		u := UserStats{CorrectAnswers: tc.correct, TimesFailed: tc.failed}
		if got := u.PercentageCorrect(); got != tc.want {
			t.Errorf("PercentageCorrect(%d, %d) = %v, want %v", tc.correct, tc.failed, got, tc.want)
		}
	}
}
