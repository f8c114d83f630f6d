package display

import "github.com/codalotl/difftview/internal/difftastic"

// ChangeIndex maps a 0-indexed line number of one side to the changes on that line.
type ChangeIndex map[int][]difftastic.Change

// BuildChangeIndex builds the old-side and new-side indexes from chunks. A line number seen twice on the same side keeps the last entry; difftastic emits at most one
// entry per line per side.
func BuildChangeIndex(chunks []difftastic.Chunk) (oldIndex ChangeIndex, newIndex ChangeIndex) {
	capacity := 0
	for _, c := range chunks {
		capacity += len(c)
	}
	oldIndex = make(ChangeIndex, capacity)
	newIndex = make(ChangeIndex, capacity)

	for _, chunk := range chunks {
		for _, dl := range chunk {
			if dl.Lhs != nil {
				oldIndex[dl.Lhs.LineNumber] = dl.Lhs.Changes
			}
			if dl.Rhs != nil {
				newIndex[dl.Rhs.LineNumber] = dl.Rhs.Changes
			}
		}
	}
	return oldIndex, newIndex
}
