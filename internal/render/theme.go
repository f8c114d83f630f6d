package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the background colors of changed lines as hex strings ("#rrggbb").
type Theme struct {
	Added       string // background of an added/changed line on the right
	Removed     string // background of a removed/changed line on the left
	AddedEmph   string // background of the changed bytes within an added line; "" derives it from Added
	RemovedEmph string // background of the changed bytes within a removed line; "" derives it from Removed
}

// DefaultTheme is a dark-terminal theme.
var DefaultTheme = Theme{
	Added:       "#12361f",
	Removed:     "#3f1518",
	AddedEmph:   "#1f7a3a",
	RemovedEmph: "#8f2a2f",
}

// emphBlend is how far a derived emphasis color moves from its base toward white.
const emphBlend = 0.3

// Resolve validates every color in t and returns the theme with normalized hex strings. Empty Added or Removed take DefaultTheme's; empty emphasis colors are derived
// from their base by lightening it.
func (t Theme) Resolve() (Theme, error) {
	var out Theme
	var err error
	if out.Added, err = normalizeHex("added", t.Added, DefaultTheme.Added); err != nil {
		return Theme{}, err
	}
	if out.Removed, err = normalizeHex("removed", t.Removed, DefaultTheme.Removed); err != nil {
		return Theme{}, err
	}
	if out.AddedEmph, err = normalizeEmph("added_emph", t.AddedEmph, out.Added); err != nil {
		return Theme{}, err
	}
	if out.RemovedEmph, err = normalizeEmph("removed_emph", t.RemovedEmph, out.Removed); err != nil {
		return Theme{}, err
	}
	return out, nil
}

func normalizeHex(name, hex, fallback string) (string, error) {
	if hex == "" {
		hex = fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("color %s: invalid hex %q: %w", name, hex, err)
	}
	return c.Hex(), nil
}

func normalizeEmph(name, hex, base string) (string, error) {
	if hex != "" {
		return normalizeHex(name, hex, "")
	}
	b, err := colorful.Hex(base)
	if err != nil {
		return "", fmt.Errorf("color %s: invalid base %q: %w", name, base, err)
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	return b.BlendLab(white, emphBlend).Clamped().Hex(), nil
}
