package display

import (
	"slices"
	"unicode"

	"github.com/codalotl/difftview/internal/difftastic"
)

// byteRange is a half-open byte range used while merging.
type byteRange struct {
	start int
	end   int
}

// ComputeHighlights returns the highlight regions for line given its changes:
//   - no changes: nil.
//   - a single change starting at 0 and reaching the end of line: [FullLine()].
//   - otherwise ranges are sorted by start and merged when they touch, overlap, or are separated only by ASCII whitespace. If the merged ranges cover every non-whitespace
//     character of line (and there is at least one), the result is [FullLine()]; otherwise it is the merged ranges.
//
// Ranges are byte offsets and are not validated. Merged ranges that end up empty or inverted are dropped from the result.
func ComputeHighlights(line string, changes []difftastic.Change) []HighlightRegion {
	if len(changes) == 0 {
		return nil
	}

	if len(changes) == 1 && changes[0].Start == 0 && changes[0].End >= len(line) {
		return []HighlightRegion{FullLine()}
	}

	ranges := make([]byteRange, len(changes))
	for i, c := range changes {
		ranges[i] = byteRange{start: c.Start, end: c.End}
	}
	slices.SortStableFunc(ranges, func(a, b byteRange) int {
		return a.start - b.start
	})
	merged := mergeRanges(ranges, line)

	if coversAllNonWhitespace(line, merged) {
		return []HighlightRegion{FullLine()}
	}

	regions := make([]HighlightRegion, 0, len(merged))
	for _, r := range merged {
		if r.end <= r.start {
			continue
		}
		regions = append(regions, HighlightRegion{Start: r.start, End: r.end})
	}
	if len(regions) == 0 {
		return nil
	}
	return regions
}

// mergeRanges merges sorted ranges that overlap, touch, or are separated only by ASCII whitespace in line. For example, in "foo bar", [0,3) and [4,7) merge into [0,7).
func mergeRanges(sorted []byteRange, line string) []byteRange {
	merged := make([]byteRange, 0, len(sorted))
	for _, r := range sorted {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			gapStart, gapEnd := last.end, r.start
			if gapStart >= gapEnd || isASCIIWhitespaceOnly(line, gapStart, gapEnd) {
				last.end = max(last.end, r.end)
				continue
			}
		}
		merged = append(merged, r)
	}
	return merged
}

// isASCIIWhitespaceOnly reports whether line[start:end] is in bounds and consists only of ASCII whitespace. Out-of-bounds gaps are not whitespace.
func isASCIIWhitespaceOnly(line string, start, end int) bool {
	if start < 0 || end > len(line) || start > end {
		return false
	}
	for i := start; i < end; i++ {
		switch line[i] {
		case ' ', '\t', '\n', '\f', '\r':
		default:
			return false
		}
	}
	return true
}

// coversAllNonWhitespace reports whether every non-whitespace character of line starts at a byte offset inside some range, and line has at least one non-whitespace
// character. Characters are visited as runes so a multi-byte character counts once, by its first byte.
func coversAllNonWhitespace(line string, ranges []byteRange) bool {
	hasNonWhitespace := false
	for i, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		hasNonWhitespace = true
		if !containsOffset(ranges, i) {
			return false
		}
	}
	return hasNonWhitespace
}

func containsOffset(ranges []byteRange, off int) bool {
	for _, r := range ranges {
		if off >= r.start && off < r.end {
			return true
		}
	}
	return false
}
