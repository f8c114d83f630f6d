// Package uni measures text in terminal cells. It segments strings into grapheme clusters (uax29) and sizes each cluster with go-runewidth, so that a line can be
// cut at a column without splitting a character.
package uni

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation.
//
// Currently only relevant for East Asian code points and their locale.
type Options struct {
	EastAsianWidth   bool // if true, treats certain East Asian code points as 2 wide (e.g., Chinese, Japanese, Korean). Use if the locale is one of CJK.
	TreatEmojiAsWide bool // Only considered if EastAsianWidth. If true, treats emoji as wide (2 columns).
}

// Cluster is one grapheme cluster of a string.
type Cluster struct {
	Text  string
	Start int // byte offset of Text in the original string
	End   int // byte offset after Text; the cluster covers bytes [Start, End)
	Width int // terminal cells
}

// Clusters splits s into grapheme clusters with their byte offsets and widths. If opts is nil, locale is assumed to be non-East Asian.
func Clusters(s string, opts *Options) []Cluster {
	cond := conditionFromOptions(opts)
	iter := graphemes.FromString(s)
	var out []Cluster
	for iter.Next() {
		v := iter.Value()
		out = append(out, Cluster{Text: v, Start: iter.Start(), End: iter.End(), Width: cond.StringWidth(v)})
	}
	return out
}

// TextWidth returns the width of s in terminal cells. If opts is nil, locale is assumed to be non-East Asian.
func TextWidth(s string, opts *Options) int {
	return conditionFromOptions(opts).StringWidth(s)
}

// Fit truncates s to at most width cells without splitting a cluster, then pads with spaces to exactly width cells. A wide cluster that would straddle the limit is
// replaced by padding.
func Fit(s string, width int, opts *Options) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for _, c := range Clusters(s, opts) {
		if used+c.Width > width {
			break
		}
		b.WriteString(c.Text)
		used += c.Width
	}
	b.WriteString(strings.Repeat(" ", width-used))
	return b.String()
}

func conditionFromOptions(opts *Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	if opts == nil {
		return cond
	}

	cond.EastAsianWidth = opts.EastAsianWidth
	if opts.EastAsianWidth && opts.TreatEmojiAsWide {
		cond.StrictEmojiNeutral = false
	}

	return cond
}
