package discord

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Love Story", "love story"},
		{"LOVE STORY!!!", "love story"},
		{"Should've Said No", "shouldve said no"},
		{"...Ready for It?", "ready for it"},
		{"  spaced    out  ", "spaced out"},
		{"22", "22"},
		{"no body, no crime", "no body no crime"},
		{"🎉🎉🎉", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
