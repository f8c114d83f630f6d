package difftastic

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AlignedLine pairs an old line number with a new line number. A nil side is a filler on that side.
//
// On the wire it is a two-element array whose elements are ints or null: [0, 0], [null, 2], [3, null].
type AlignedLine struct {
	Old *int
	New *int
}

// Aligned returns an AlignedLine with both sides present.
func Aligned(oldLine, newLine int) AlignedLine {
	return AlignedLine{Old: &oldLine, New: &newLine}
}

// OldOnly returns an AlignedLine whose new side is a filler.
func OldOnly(oldLine int) AlignedLine {
	return AlignedLine{Old: &oldLine}
}

// NewOnly returns an AlignedLine whose old side is a filler.
func NewOnly(newLine int) AlignedLine {
	return AlignedLine{New: &newLine}
}

// MarshalJSON encodes a as a two-element array.
func (a AlignedLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]*int{a.Old, a.New})
}

// UnmarshalJSON decodes a two-element array of ints or nulls.
func (a *AlignedLine) UnmarshalJSON(b []byte) error {
	var pair []*int
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("aligned_lines entry %s: %w", bytes.TrimSpace(b), err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("aligned_lines entry %s: want 2 elements, got %d", bytes.TrimSpace(b), len(pair))
	}
	a.Old = pair[0]
	a.New = pair[1]
	return nil
}
