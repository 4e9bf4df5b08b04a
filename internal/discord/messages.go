package discord

import (
	"fmt"
	"strings"

	"github.com/soren-hale/albumchain/internal/cache"
	"github.com/soren-hale/albumchain/internal/catalog"
	"github.com/soren-hale/albumchain/internal/storage"
)

// cycleCompleteMessage congratulates a channel on finishing a cycle and
// hints at the first answers of the reversed direction.
func cycleCompleteMessage(c *catalog.Catalog) string {
	tok := c.NumberAt(1)
	stage := c.StageAt(1)
	song := firstPlayableSong(stage)
	return fmt.Sprintf(
		"🎉 CONGRATULATIONS 🎉!!! You reached the end of the round! Now we reverse the direction, keep going! (%s, %s, %s etc)",
		tok.Number, stage.Name, song)
}

// firstPlayableSong picks the hint song for a stage: the first track that
// is not the title track, since the title track can't open the song
// subsection.
func firstPlayableSong(stage catalog.Stage) string {
	for _, s := range stage.Songs {
		if s.Name != stage.Name {
			return s.Name
		}
	}
	return stage.Name
}

func statsMessage(stats storage.UserStats) string {
	return fmt.Sprintf("Correct answers: %d\nTimes failed: %d\nPercentage correct: %.1f%%",
		stats.CorrectAnswers, stats.TimesFailed, stats.PercentageCorrect())
}

func serverStatsMessage(st storage.ChannelState, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game channel: <#%s>\n", st.ChannelID)
	fmt.Fprintf(&b, "Current score: %d (stage %d, %s)\n", st.Score, st.Stage, st.Subsection)
	fmt.Fprintf(&b, "High score: %d\n", st.HighScore)
	if st.HighestAlbum != "" {
		fmt.Fprintf(&b, "Highest album reached: %s\n", st.HighestAlbum)
	}
	fmt.Fprintf(&b, "Rounds completed: %d (of %d stages per round)", st.RoundsCompleted, n)
	return b.String()
}

func leaderboardMessage(entries []cache.Entry) string {
	if len(entries) == 0 {
		return "No high scores yet. Get chaining!"
	}
	var b strings.Builder
	b.WriteString("Top channels by high score:\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. <#%s>: %d\n", i+1, e.ChannelID, e.Score)
	}
	return strings.TrimRight(b.String(), "\n")
}

func helpMessage(albums []string) string {
	var b strings.Builder
	b.WriteString("**The album chain**\n")
	b.WriteString("Work through the catalog together, one message per turn, never the same player twice in a row.\n")
	b.WriteString("At stage k: say the stage number k times, then the album name k times, then k different songs from it.\n")
	b.WriteString("The title track can't be the first song. No song repeats within a stage. Any mistake resets the chain.\n")
	b.WriteString("Finish every album and the direction reverses, so keep going!\n\n")
	b.WriteString("Current album order: ")
	b.WriteString(strings.Join(albums, ", "))
	return b.String()
}
