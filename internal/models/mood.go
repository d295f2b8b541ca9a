package models

import "strings"

// Mood represents the user's self-reported emotional state
type Mood string

const (
	MoodStressed  Mood = "stressed"
	MoodEnergized Mood = "energized"
	MoodTired     Mood = "tired"
	MoodHappy     Mood = "happy"
	MoodCalm      Mood = "calm"
	MoodAnxious   Mood = "anxious"
)

// Moods lists every recognized mood value
var Moods = []Mood{
	MoodStressed,
	MoodEnergized,
	MoodTired,
	MoodHappy,
	MoodCalm,
	MoodAnxious,
}

// IsValid reports whether the mood is one of the recognized values
func (m Mood) IsValid() bool {
	switch m {
	case MoodStressed, MoodEnergized, MoodTired, MoodHappy, MoodCalm, MoodAnxious:
		return true
	default:
		return false
	}
}

// ParseMood normalizes a string into a Mood. Unrecognized input returns
// MoodStressed and false so callers can fall back without failing.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if m.IsValid() {
		return m, true
	}
	return MoodStressed, false
}
