package catalog

import (
	"fmt"
	"testing"
)

// makeCatalog builds an n-stage catalog with predictable names.
func makeCatalog(t *testing.T, n int) *Catalog {
	t.Helper()
	stages := make([]Stage, n)
	numbers := make([]NumberToken, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Album %d", i+1)
		stages[i] = Stage{
			Name:         name,
			AllowedNames: []string{fmt.Sprintf("album %d", i+1)},
			Songs: []Song{
				{Name: fmt.Sprintf("Song %d-1", i+1), AllowedNames: []string{fmt.Sprintf("song %d 1", i+1)}},
			},
		}
		numbers[i] = NumberToken{
			Number:       fmt.Sprintf("%d", i+1),
			AllowedNames: []string{fmt.Sprintf("%d", i+1)},
		}
	}
	c, err := New(stages, numbers)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("expected error for empty catalog")
	}
	if _, err := New([]Stage{{Name: "A"}}, nil); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

// TestLogicalStageWraps verifies logical stage stays in [1, N] across cycles.
func TestLogicalStageWraps(t *testing.T) {
	c := makeCatalog(t, 10)
	cases := []struct{ stage, want int }{
		{1, 1}, {5, 5}, {10, 10}, {11, 1}, {20, 10}, {21, 1}, {105, 5},
	}
	for _, tc := range cases {
		if got := c.LogicalStage(tc.stage); got != tc.want {
			t.Errorf("LogicalStage(%d) = %d, want %d", tc.stage, got, tc.want)
		}
	}
	for stage := 1; stage <= 100; stage++ {
		ls := c.LogicalStage(stage)
		if ls < 1 || ls > c.Len() {
			t.Fatalf("LogicalStage(%d) = %d out of [1, %d]", stage, ls, c.Len())
		}
	}
}

// TestReverseFlipsBothSequences verifies the stage order and number-token
// order flip together, and that the synonym set inside a token is untouched.
func TestReverseFlipsBothSequences(t *testing.T) {
	c := makeCatalog(t, 5)

	c.Reverse()
	if !c.Reversed() {
		t.Error("Reversed() = false after one Reverse")
	}
	if got := c.StageAt(1).Name; got != "Album 5" {
		t.Errorf("StageAt(1).Name = %q after reverse, want %q", got, "Album 5")
	}
	if got := c.NumberAt(1).Number; got != "5" {
		t.Errorf("NumberAt(1).Number = %q after reverse, want %q", got, "5")
	}
	// Synonym ordering inside the token must not flip.
	if got := c.NumberAt(1).AllowedNames[0]; got != "5" {
		t.Errorf("token synonym order changed: got %q first", got)
	}

	c.Reverse()
	if c.Reversed() {
		t.Error("Reversed() = true after two Reverses")
	}
	if got := c.StageAt(1).Name; got != "Album 1" {
		t.Errorf("double reverse did not restore order, StageAt(1) = %q", got)
	}
}

// TestLoadEmbeddedData checks the shipped dataset is well-formed: parallel
// lengths, non-empty variant sets, and variants in normalized form.
func TestLoadEmbeddedData(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}
	for ls := 1; ls <= c.Len(); ls++ {
		st := c.StageAt(ls)
		if st.Name == "" || len(st.AllowedNames) == 0 {
			t.Errorf("stage %d: missing name or variants", ls)
		}
		if len(st.Songs) == 0 {
			t.Errorf("stage %d (%s): no songs", ls, st.Name)
		}
		for _, s := range st.Songs {
			if s.Name == "" || len(s.AllowedNames) == 0 {
				t.Errorf("stage %d (%s): song with missing name or variants", ls, st.Name)
			}
		}
		tok := c.NumberAt(ls)
		if tok.Number == "" || len(tok.AllowedNames) == 0 {
			t.Errorf("stage %d: bad number token", ls)
		}
	}
}

func TestNamesFollowDirection(t *testing.T) {
	c := makeCatalog(t, 3)
	want := []string{"Album 1", "Album 2", "Album 3"}
	for i, name := range c.Names() {
		if name != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, name, want[i])
		}
	}
	c.Reverse()
	if got := c.Names()[0]; got != "Album 3" {
		t.Errorf("Names()[0] = %q after reverse, want %q", got, "Album 3")
	}
}
