package vcs

import (
	"strconv"
	"strings"

	"github.com/codalotl/difftview/internal/display"
)

// IntoLines splits content into lines without their terminators. Lines end at "\n" or "\r\n"; a "\r" not followed by "\n" is content. A final newline does
// not start an extra empty line. If ok is false (content unavailable), the result is empty.
func IntoLines(content string, ok bool) []string {
	if !ok || content == "" {
		return []string{}
	}
	terminated := strings.HasSuffix(content, "\n")
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		if i < len(lines)-1 || terminated {
			lines[i] = strings.TrimSuffix(l, "\r")
		}
	}
	return lines
}

// parseNumstat parses `git diff --numstat` output: one "additions\tdeletions\tpath" per line. Binary files ("-\t-\tpath") and malformed lines are skipped.
func parseNumstat(out string) map[string]display.Stats {
	stats := make(map[string]display.Stats)
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		add, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		del, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		path := strings.TrimSpace(parts[2])
		if path == "" {
			continue
		}
		stats[path] = display.Stats{Additions: add, Deletions: del}
	}
	return stats
}

// nonEmptyLines returns the trimmed, non-blank lines of s.
func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
