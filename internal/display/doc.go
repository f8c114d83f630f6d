// Package display turns a pre-computed structural diff of one file into a side-by-side, row-aligned display model.
//
// Inputs: a difftastic.File (status, alignment plan, change chunks) plus the full old and new line arrays of the file. Output: a DisplayFile holding one Row per
// display row, each Row holding a left (old) and right (new) Side with that side's content, filler flag, and highlight regions; plus the indices of rows where
// hunks start.
//
// Processing by status:
//   - StatusCreated: one row per new line. Left is filler; right is fully highlighted.
//   - StatusDeleted: one row per old line. Right is filler; left is fully highlighted.
//   - StatusChanged: one row per alignment entry, highlights derived from the chunks.
//
// Highlights: each line's changes are reduced to the smallest set of regions a reader perceives as "the change":
//   - No changes: no regions.
//   - One change spanning the whole line: a single full-line region.
//   - Otherwise ranges are sorted and merged when they touch, overlap, or are separated only by ASCII whitespace.
//   - If the merged ranges cover every non-whitespace character of the line, they collapse to a single full-line region.
//
// A full-line region has End == FullLineEnd (-1) and means "to the end of the line, whatever its length".
//
// Robustness: inputs are trusted but not validated. Out-of-range line numbers yield empty content, missing change data yields no highlights, and malformed byte ranges
// never panic. Nothing in this package performs I/O or logs, so independent files may be processed concurrently without synchronization.
package display
