/*
Package mood provides the mood domain model and its persistence contract.

PURPOSE:
  This package owns everything between the calendar math and the storage
  backend: the closed Mood vocabulary, the per-user MoodMap, the
  DocumentStore contract a backend must satisfy, and the Controller that
  gates it all behind an established identity.

KEY CONCEPTS IN THIS FILE (types.go):
  - Mood: one enumerated feeling value from a fixed closed set
  - MoodMap: mapping from calendar DateKey to Mood

DESIGN PRINCIPLES:
  1. Closed vocabulary: only four moods exist; everything else is unknown
  2. Fail-soft rendering: unknown values render with no glyph rather than
     erroring - stale data from an older vocabulary must not break a page
  3. Single-key mutations: a MoodMap is only ever changed one entry at a
     time, in response to an explicit user selection

USAGE:
  m := mood.Happy
  m.Valid()        // true
  m.Emoji()        // "😊"
  mood.Mood("bored").Emoji() // ""

SEE ALSO:
  - controller.go: MoodMap ownership and the identity gate
  - document.go: DocumentStore persistence contract
*/
package mood

import "github.com/warp/mood-calendar/calendar"

// =============================================================================
// MOOD - Closed vocabulary
// =============================================================================

// Mood is one feeling value from the fixed set below. The type is a string
// so it serializes naturally, but only the four constants are ever written
// by the service surface.
type Mood string

const (
	Happy     Mood = "happy"
	Sad       Mood = "sad"
	Energetic Mood = "energetic"
	Calm      Mood = "calm"
)

// All lists the full vocabulary in display order.
func All() []Mood {
	return []Mood{Happy, Sad, Energetic, Calm}
}

var emojis = map[Mood]string{
	Happy:     "😊",
	Sad:       "😔",
	Energetic: "⚡",
	Calm:      "🧘",
}

// Valid reports whether m is a member of the closed set.
func (m Mood) Valid() bool {
	_, ok := emojis[m]
	return ok
}

// Emoji returns the rendering glyph for m, or "" for values outside the
// vocabulary. Unknown moods are shown as blank cells, never as errors.
func (m Mood) Emoji() string {
	return emojis[m]
}

// =============================================================================
// MOOD MAP
// =============================================================================

// MoodMap assigns at most one Mood to each calendar day.
type MoodMap map[calendar.DateKey]Mood

// Clone returns an independent copy of the map. Clone of a nil map is an
// empty, non-nil map.
func (mm MoodMap) Clone() MoodMap {
	out := make(MoodMap, len(mm))
	for k, v := range mm {
		out[k] = v
	}
	return out
}
