// Package linediff produces difftastic-shaped diffs (alignment plan plus change chunks) from two texts, without difftastic.
//
// Lines are diffed first; within each run of removed/inserted lines, old and new lines are paired in order and diffed character by character to find the changed
// byte ranges. Unpaired leftovers are pure deletions or insertions and are changed in full.
//
// The result is line-based, not structural: it is a fallback for when difft is not installed, and for tests.
package linediff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/codalotl/difftview/internal/detectlang"
	"github.com/codalotl/difftview/internal/difftastic"
)

// defaultEOL is the line separator. A trailing "\r" is also trimmed from each line, matching how line content is split for display.
const defaultEOL = "\n"

// Compute diffs oldText against newText and returns a difftastic.File for path.
//
// Status: if oldText is empty and newText is not, StatusCreated; if newText is empty and oldText is not, StatusDeleted; otherwise StatusChanged. Created and deleted
// files have no alignment or chunks, as with difftastic.
func Compute(path string, oldText, newText string) difftastic.File {
	f := difftastic.File{
		Path:     path,
		Language: string(detectlang.FromPath(path)),
	}

	switch {
	case oldText == "" && newText != "":
		f.Status = difftastic.StatusCreated
		return f
	case newText == "" && oldText != "":
		f.Status = difftastic.StatusDeleted
		return f
	}
	f.Status = difftastic.StatusChanged

	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	lineDiffs := dmp.DiffMainRunes(rOld, rNew, false)
	lineDiffs = dmp.DiffCleanupMerge(lineDiffs)

	// Decode rune-string back to slice of original lines using the lineArray mapping.
	decode := func(s string) []string {
		if s == "" {
			return nil
		}
		out := make([]string, 0, len(s))
		for _, r := range s {
			idx := int(r)
			if idx >= 0 && idx < len(lineArray) {
				out = append(out, trimEOL(lineArray[idx]))
			}
		}
		return out
	}

	b := builder{dmp: dmp}
	for _, d := range lineDiffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.flush()
			for range decode(d.Text) {
				b.aligned = append(b.aligned, difftastic.Aligned(b.oldLine, b.newLine))
				b.oldLine++
				b.newLine++
			}
		case diffmatchpatch.DiffDelete:
			b.dels = append(b.dels, decode(d.Text)...)
		case diffmatchpatch.DiffInsert:
			b.ins = append(b.ins, decode(d.Text)...)
		}
	}
	b.flush()

	f.AlignedLines = b.aligned
	f.Chunks = b.chunks
	return f
}

// builder accumulates the alignment plan and chunks while walking line diffs.
type builder struct {
	dmp *diffmatchpatch.DiffMatchPatch

	oldLine int // 0-indexed line number of the next old line
	newLine int // 0-indexed line number of the next new line

	dels []string // pending removed lines
	ins  []string // pending inserted lines

	aligned []difftastic.AlignedLine
	chunks  []difftastic.Chunk
}

// flush turns the pending removed/inserted lines into one chunk. Removed and inserted lines are paired in order for min(len(dels), len(ins)); leftovers are pure
// deletions/insertions.
func (b *builder) flush() {
	if len(b.dels) == 0 && len(b.ins) == 0 {
		return
	}

	n := min(len(b.dels), len(b.ins))
	var chunk difftastic.Chunk

	for i := 0; i < n; i++ {
		oldChanges, newChanges := b.intraLine(b.dels[i], b.ins[i])
		b.aligned = append(b.aligned, difftastic.Aligned(b.oldLine, b.newLine))
		chunk = append(chunk, difftastic.DiffLine{
			Lhs: &difftastic.LineSide{LineNumber: b.oldLine, Changes: oldChanges},
			Rhs: &difftastic.LineSide{LineNumber: b.newLine, Changes: newChanges},
		})
		b.oldLine++
		b.newLine++
	}
	for i := n; i < len(b.dels); i++ {
		b.aligned = append(b.aligned, difftastic.OldOnly(b.oldLine))
		chunk = append(chunk, difftastic.DiffLine{
			Lhs: &difftastic.LineSide{LineNumber: b.oldLine, Changes: wholeLine(b.dels[i])},
		})
		b.oldLine++
	}
	for i := n; i < len(b.ins); i++ {
		b.aligned = append(b.aligned, difftastic.NewOnly(b.newLine))
		chunk = append(chunk, difftastic.DiffLine{
			Rhs: &difftastic.LineSide{LineNumber: b.newLine, Changes: wholeLine(b.ins[i])},
		})
		b.newLine++
	}

	b.chunks = append(b.chunks, chunk)
	b.dels = nil
	b.ins = nil
}

// intraLine returns the changed byte ranges of oldLine and newLine. Deleted text is a change on the old side, inserted text on the new side; equal text advances
// both offsets.
func (b *builder) intraLine(oldLine, newLine string) (oldChanges, newChanges []difftastic.Change) {
	if oldLine == newLine {
		return nil, nil
	}

	diffs := b.dmp.DiffMain(oldLine, newLine, false)
	diffs = b.dmp.DiffCleanupSemantic(diffs)

	oldOff, newOff := 0, 0
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldOff += len(d.Text)
			newOff += len(d.Text)
		case diffmatchpatch.DiffDelete:
			oldChanges = append(oldChanges, difftastic.Change{Start: oldOff, End: oldOff + len(d.Text), Content: d.Text})
			oldOff += len(d.Text)
		case diffmatchpatch.DiffInsert:
			newChanges = append(newChanges, difftastic.Change{Start: newOff, End: newOff + len(d.Text), Content: d.Text})
			newOff += len(d.Text)
		}
	}
	return oldChanges, newChanges
}

// wholeLine returns a single change covering all of line.
func wholeLine(line string) []difftastic.Change {
	return []difftastic.Change{{Start: 0, End: len(line), Content: line}}
}

// trimEOL removes a trailing "\n" and then a trailing "\r" from line.
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, defaultEOL)
	return strings.TrimSuffix(line, "\r")
}
