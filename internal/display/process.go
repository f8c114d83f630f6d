package display

import "github.com/codalotl/difftview/internal/difftastic"

// ProcessFile converts f into a DisplayFile using the full line arrays of the old and new revisions. Absent content should be passed as an empty slice.
//
// Counts: if stats is non-nil it supplies both Additions and Deletions for every status. Otherwise created/deleted files count their lines, and changed files count
// the distinct line numbers touched on each side (a proxy, not a true added/removed count).
func ProcessFile(f difftastic.File, oldLines, newLines []string, stats *Stats) DisplayFile {
	var out DisplayFile
	switch f.Status {
	case difftastic.StatusCreated:
		out = processCreated(f, newLines)
	case difftastic.StatusDeleted:
		out = processDeleted(f, oldLines)
	default:
		out = processChanged(f, oldLines, newLines)
	}

	if stats != nil {
		out.Additions = stats.Additions
		out.Deletions = stats.Deletions
	}
	return out
}

func processCreated(f difftastic.File, newLines []string) DisplayFile {
	rows := make([]Row, 0, len(newLines))
	for _, line := range newLines {
		rows = append(rows, Row{Left: filler(), Right: fullyHighlighted(line)})
	}
	return DisplayFile{
		Path:       f.Path,
		Language:   f.Language,
		Status:     f.Status,
		Additions:  len(rows),
		Rows:       rows,
		HunkStarts: wholeFileHunk(rows),
	}
}

func processDeleted(f difftastic.File, oldLines []string) DisplayFile {
	rows := make([]Row, 0, len(oldLines))
	for _, line := range oldLines {
		rows = append(rows, Row{Left: fullyHighlighted(line), Right: filler()})
	}
	return DisplayFile{
		Path:       f.Path,
		Language:   f.Language,
		Status:     f.Status,
		Deletions:  len(rows),
		Rows:       rows,
		HunkStarts: wholeFileHunk(rows),
	}
}

func processChanged(f difftastic.File, oldLines, newLines []string) DisplayFile {
	oldIndex, newIndex := BuildChangeIndex(f.Chunks)
	rows, hunkStarts := BuildRows(f.AlignedLines, oldLines, newLines, oldIndex, newIndex)
	return DisplayFile{
		Path:       f.Path,
		Language:   f.Language,
		Status:     f.Status,
		Additions:  len(newIndex),
		Deletions:  len(oldIndex),
		Rows:       rows,
		HunkStarts: hunkStarts,
	}
}

// wholeFileHunk returns [0] if there are rows, since a created or deleted file is a single hunk.
func wholeFileHunk(rows []Row) []int {
	if len(rows) == 0 {
		return nil
	}
	return []int{0}
}
