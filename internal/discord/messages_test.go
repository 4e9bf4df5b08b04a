package discord

import (
	"strings"
	"testing"

	"github.com/soren-hale/albumchain/internal/cache"
	"github.com/soren-hale/albumchain/internal/catalog"
	"github.com/soren-hale/albumchain/internal/storage"
)

func TestStatsMessage(t *testing.T) {
	msg := statsMessage(storage.UserStats{CorrectAnswers: 7, TimesFailed: 3})
	for _, want := range []string{"Correct answers: 7", "Times failed: 3", "70.0%"} {
		if !strings.Contains(msg, want) {
			t.Errorf("stats message missing %q:\n%s", want, msg)
		}
	}

	fresh := statsMessage(storage.UserStats{})
	if !strings.Contains(fresh, "100.0%") {
		t.Errorf("fresh user should read 100%%:\n%s", fresh)
	}
}

func TestServerStatsMessage(t *testing.T) {
	msg := serverStatsMessage(storage.ChannelState{
		ChannelID:       "123",
		Score:           4,
		HighScore:       9,
		Stage:           2,
		Subsection:      storage.SubsectionAlbum,
		HighestAlbum:    "Fearless",
		RoundsCompleted: 1,
	}, 11)
	for _, want := range []string{"<#123>", "Current score: 4", "High score: 9", "Fearless", "Rounds completed: 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("server stats missing %q:\n%s", want, msg)
		}
	}
}

func TestLeaderboardMessage(t *testing.T) {
	if msg := leaderboardMessage(nil); !strings.Contains(msg, "No high scores") {
		t.Errorf("empty leaderboard message wrong: %s", msg)
	}
	msg := leaderboardMessage([]cache.Entry{
		{ChannelID: "a", Score: 30},
		{ChannelID: "b", Score: 12},
	})
	if !strings.Contains(msg, "1. <#a>: 30") || !strings.Contains(msg, "2. <#b>: 12") {
		t.Errorf("leaderboard rows wrong:\n%s", msg)
	}
}

// TestCycleCompleteMessageSkipsTitleTrack pins the hint song: it must not
// suggest the title track, which would be an illegal first song.
func TestCycleCompleteMessageSkipsTitleTrack(t *testing.T) {
	stages := []catalog.Stage{
		{
			Name:         "Red",
			AllowedNames: []string{"red"},
			Songs: []catalog.Song{
				{Name: "Red", AllowedNames: []string{"red"}},
				{Name: "22", AllowedNames: []string{"22"}},
			},
		},
	}
	numbers := []catalog.NumberToken{{Number: "1", AllowedNames: []string{"1"}}}
	c, err := catalog.New(stages, numbers)
	if err != nil {
		t.Fatal(err)
	}

	msg := cycleCompleteMessage(c)
	if !strings.Contains(msg, "(1, Red, 22 etc)") {
		t.Errorf("cycle message hint wrong:\n%s", msg)
	}
}
