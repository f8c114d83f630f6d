package display

import "github.com/codalotl/difftview/internal/difftastic"

// hunkTracker records the first row of each maximal run of changed rows.
type hunkTracker struct {
	inHunk bool
	starts []int
}

// observe records row i. A changed row that follows an unchanged row (or is the first row) starts a hunk.
func (h *hunkTracker) observe(i int, changed bool) {
	if !changed {
		h.inHunk = false
		return
	}
	if !h.inHunk {
		h.starts = append(h.starts, i)
		h.inHunk = true
	}
}

// lineAt returns lines[*ln], or "" if ln is nil or out of range.
func lineAt(lines []string, ln *int) string {
	if ln == nil || *ln < 0 || *ln >= len(lines) {
		return ""
	}
	return lines[*ln]
}

// buildSide resolves one side of an alignment entry.
func buildSide(lines []string, index ChangeIndex, ln *int) Side {
	if ln == nil {
		return filler()
	}
	content := lineAt(lines, ln)
	return Side{
		Content:    content,
		Highlights: ComputeHighlights(content, index[*ln]),
	}
}

// BuildRows builds one Row per entry of aligned, in order, and returns the rows along with the hunk start indices.
//
// A row is changed if either side is a filler or either side has highlights. Line numbers beyond oldLines/newLines resolve to empty content.
func BuildRows(aligned []difftastic.AlignedLine, oldLines, newLines []string, oldIndex, newIndex ChangeIndex) ([]Row, []int) {
	rows := make([]Row, 0, len(aligned))
	var hunks hunkTracker

	for i, al := range aligned {
		row := Row{
			Left:  buildSide(oldLines, oldIndex, al.Old),
			Right: buildSide(newLines, newIndex, al.New),
		}

		changed := al.Old == nil || al.New == nil || len(row.Left.Highlights) > 0 || len(row.Right.Highlights) > 0
		hunks.observe(i, changed)

		rows = append(rows, row)
	}

	return rows, hunks.starts
}
