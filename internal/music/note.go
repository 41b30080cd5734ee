// SPDX-License-Identifier: MIT
// Package music converts frequencies to equal-tempered note names with
// deviation in cents. Pure functions, no state.
package music

import (
	"fmt"
	"math"
)

// NoNote is the display value used when no pitch is present.
const NoNote = "--"

// PitchClasses is the fixed chromatic sequence starting at C.
var PitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is a pitch class plus octave, derived from a frequency and
// never stored independently of it.
type Note struct {
	Class  string
	Octave int
}

// String renders the note the way tuners display it, e.g. "A4".
func (n Note) String() string {
	if n.Class == "" {
		return NoNote
	}
	return fmt.Sprintf("%s%d", n.Class, n.Octave)
}

// NoteFor maps a frequency to the nearest equal-tempered note and the
// signed deviation from it in cents. Non-positive frequencies map to
// the zero Note (rendered as "--") with zero cents.
//
// midi = 12*log2(f/440) + 69; cents are rounded to integers and lie in
// [-50, 50] by construction.
func NoteFor(freqHz float64) (Note, int) {
	if freqHz <= 0 {
		return Note{}, 0
	}

	midi := 12*math.Log2(freqHz/440) + 69
	rounded := math.Round(midi)
	cents := int(math.Round((midi - rounded) * 100))

	idx := int(rounded) % 12
	if idx < 0 {
		idx += 12
	}

	return Note{
		Class:  PitchClasses[idx],
		Octave: int(math.Floor(rounded/12)) - 1,
	}, cents
}
