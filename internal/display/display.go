package display

import "github.com/codalotl/difftview/internal/difftastic"

// FullLineEnd is the HighlightRegion.End sentinel meaning "highlight to the end of the line".
const FullLineEnd = -1

// HighlightRegion is a highlighted byte range [Start, End) of one line. If End == FullLineEnd, the region covers the whole line regardless of its length.
//
// Invariant: End == FullLineEnd || End > Start.
type HighlightRegion struct {
	Start int
	End   int
}

// FullLine returns the full-line region {0, FullLineEnd}.
func FullLine() HighlightRegion {
	return HighlightRegion{Start: 0, End: FullLineEnd}
}

// IsFullLine reports whether r is the full-line sentinel.
func (r HighlightRegion) IsFullLine() bool {
	return r.End == FullLineEnd
}

// Side is one half (left=old, right=new) of a Row.
//
// Invariant: if IsFiller, Content == "" and Highlights is empty.
type Side struct {
	Content    string            // Line text without its newline. Empty for fillers.
	IsFiller   bool              // True if this side has no real line and exists only to keep the two sides aligned.
	Highlights []HighlightRegion // Changed regions, ordered and disjoint. Empty for unchanged and filler lines.
}

// filler returns a filler Side.
func filler() Side {
	return Side{IsFiller: true}
}

// fullyHighlighted returns a non-filler Side whose whole line is highlighted.
func fullyHighlighted(content string) Side {
	return Side{Content: content, Highlights: []HighlightRegion{FullLine()}}
}

// Row is one display row. Invariant: at most one of Left/Right is a filler.
type Row struct {
	Left  Side
	Right Side
}

// Stats are line addition/deletion counts for a file, typically from an authoritative source such as `git diff --numstat`.
type Stats struct {
	Additions int
	Deletions int
}

// DisplayFile is a processed file, ready for a presentation layer.
type DisplayFile struct {
	Path     string
	Language string
	Status   difftastic.Status

	Additions int
	Deletions int

	Rows []Row

	// HunkStarts are the indices into Rows where each maximal run of changed rows begins. Strictly increasing.
	HunkStarts []int
}

// NextHunk returns the first hunk start strictly after row. ok is false if there is none.
func (f DisplayFile) NextHunk(row int) (int, bool) {
	for _, h := range f.HunkStarts {
		if h > row {
			return h, true
		}
	}
	return 0, false
}
