// Package render presents display files: as a JSON document for other programs, and as a side-by-side view for terminals.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/codalotl/difftview/internal/display"
	"github.com/codalotl/difftview/internal/q/uni"
)

const (
	defaultWidth    = 120
	defaultTabWidth = 4
	separator       = " │ "
)

// TerminalOptions configure Terminal.
type TerminalOptions struct {
	Width    int // total columns; <= 0 means 120
	TabWidth int // <= 0 means 4

	// Context is the number of unchanged rows shown before and after each hunk. Longer unchanged runs are folded into one line. < 0 shows every row.
	Context int

	Theme   Theme           // resolved with Theme.Resolve; invalid colors fall back to DefaultTheme
	Profile termenv.Profile // color profile; termenv.Ascii disables styling. The zero value is TrueColor.
	Uni     *uni.Options    // width rules for East Asian text; may be nil
}

// Terminal writes f side by side to w: old lines on the left, new lines on the right, with changed regions highlighted.
func Terminal(w io.Writer, f display.DisplayFile, opts TerminalOptions) error {
	t := newTerminal(w, opts)

	var b strings.Builder
	b.WriteString(t.header(f))
	b.WriteByte('\n')

	visible := visibleRows(f, opts.Context)
	hunk := 0
	next, hasNext := f.NextHunk(-1)
	for i := 0; i < len(f.Rows); {
		if !visible[i] {
			j := i
			for j < len(f.Rows) && !visible[j] {
				j++
			}
			b.WriteString(t.fold(j - i))
			b.WriteByte('\n')
			i = j
			continue
		}
		for hasNext && next <= i {
			hunk++
			if next == i {
				b.WriteString(t.hunkLabel(hunk, len(f.HunkStarts)))
				b.WriteByte('\n')
			}
			next, hasNext = f.NextHunk(next)
		}
		b.WriteString(t.row(f.Rows[i]))
		b.WriteByte('\n')
		i++
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type terminal struct {
	width    int
	colWidth int
	tabWidth int
	uni      *uni.Options

	title       lipgloss.Style
	dim         lipgloss.Style
	plain       lipgloss.Style
	added       lipgloss.Style
	removed     lipgloss.Style
	addedEmph   lipgloss.Style
	removedEmph lipgloss.Style
}

func newTerminal(w io.Writer, opts TerminalOptions) *terminal {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	tabWidth := opts.TabWidth
	if tabWidth <= 0 {
		tabWidth = defaultTabWidth
	}
	theme, err := opts.Theme.Resolve()
	if err != nil {
		theme, _ = DefaultTheme.Resolve()
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(opts.Profile)

	// Each side is a 1-cell marker plus content.
	colWidth := (width-uni.TextWidth(separator, nil))/2 - 1
	if colWidth < 1 {
		colWidth = 1
	}

	return &terminal{
		width:       width,
		colWidth:    colWidth,
		tabWidth:    tabWidth,
		uni:         opts.Uni,
		title:       r.NewStyle().Bold(true),
		dim:         r.NewStyle().Faint(true),
		plain:       r.NewStyle(),
		added:       r.NewStyle().Background(lipgloss.Color(theme.Added)),
		removed:     r.NewStyle().Background(lipgloss.Color(theme.Removed)),
		addedEmph:   r.NewStyle().Background(lipgloss.Color(theme.AddedEmph)),
		removedEmph: r.NewStyle().Background(lipgloss.Color(theme.RemovedEmph)),
	}
}

// header is "path (Language) status +A -D".
func (t *terminal) header(f display.DisplayFile) string {
	lang := f.Language
	if lang == "" {
		lang = "Text"
	}
	return t.title.Render(fmt.Sprintf("%s (%s) %s +%d -%d", f.Path, lang, f.Status, f.Additions, f.Deletions))
}

// fold is the line shown in place of n hidden unchanged rows.
func (t *terminal) fold(n int) string {
	noun := "lines"
	if n == 1 {
		noun = "line"
	}
	return t.dim.Render(t.fit(fmt.Sprintf("⋯ %d unchanged %s", n, noun)))
}

// hunkLabel is the line drawn above the first row of hunk n (1-based) of total.
func (t *terminal) hunkLabel(n, total int) string {
	return t.dim.Render(t.fit(fmt.Sprintf("@@ hunk %d/%d @@", n, total)))
}

// fit truncates a full-width line to the view width.
func (t *terminal) fit(s string) string {
	return strings.TrimRight(uni.Fit(s, t.width, t.uni), " ")
}

func (t *terminal) row(r display.Row) string {
	left := t.side(r.Left, "-", t.removed, t.removedEmph)
	right := t.side(r.Right, "+", t.added, t.addedEmph)
	return strings.TrimRight(left+t.dim.Render(separator)+right, " ")
}

// side renders one half of a row, exactly 1+colWidth cells wide. Changed lines get marker and base; their highlighted bytes get emph.
func (t *terminal) side(s display.Side, marker string, base, emph lipgloss.Style) string {
	if s.IsFiller {
		return strings.Repeat(" ", 1+t.colWidth)
	}
	changed := len(s.Highlights) > 0
	if !changed {
		marker = " "
		base = t.plain
		emph = t.plain
	}

	var b strings.Builder
	b.WriteString(base.Render(marker))

	var seg strings.Builder
	segEmph := false
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		style := base
		if segEmph {
			style = emph
		}
		b.WriteString(style.Render(seg.String()))
		seg.Reset()
	}

	col := 0
	for _, c := range uni.Clusters(s.Content, t.uni) {
		text, width := t.cell(c, col)
		if col+width > t.colWidth {
			break
		}
		isEmph := inRegions(c.Start, s.Highlights)
		if isEmph != segEmph {
			flush()
			segEmph = isEmph
		}
		seg.WriteString(text)
		col += width
	}
	flush()

	if pad := t.colWidth - col; pad > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", pad)))
	}
	return b.String()
}

// cell returns the text drawn for cluster c starting at column col, and its width. Tabs expand to the next tab stop; other control characters are shown as \xXX.
func (t *terminal) cell(c uni.Cluster, col int) (string, int) {
	r, _ := utf8.DecodeRuneInString(c.Text)
	switch {
	case c.Text == "\t":
		n := t.tabWidth - col%t.tabWidth
		return strings.Repeat(" ", n), n
	case r == utf8.RuneError && len(c.Text) == 1:
		return "�", 1
	case len(c.Text) == 1 && (r < 0x20 || r == 0x7f):
		s := fmt.Sprintf("\\x%02X", r)
		return s, len(s)
	default:
		return c.Text, c.Width
	}
}

// inRegions reports whether byte offset off is inside any of regions.
func inRegions(off int, regions []display.HighlightRegion) bool {
	for _, r := range regions {
		if r.IsFullLine() || (off >= r.Start && off < r.End) {
			return true
		}
	}
	return false
}

// visibleRows marks the rows to draw: every changed row and up to context unchanged rows on either side of one.
func visibleRows(f display.DisplayFile, context int) []bool {
	visible := make([]bool, len(f.Rows))
	if context < 0 {
		for i := range visible {
			visible[i] = true
		}
		return visible
	}
	for i, r := range f.Rows {
		if !rowChanged(r) {
			continue
		}
		lo := max(0, i-context)
		hi := min(len(f.Rows)-1, i+context)
		for j := lo; j <= hi; j++ {
			visible[j] = true
		}
	}
	return visible
}

// rowChanged matches the row builder's notion of a changed row.
func rowChanged(r display.Row) bool {
	return r.Left.IsFiller || r.Right.IsFiller || len(r.Left.Highlights) > 0 || len(r.Right.Highlights) > 0
}
