// Package vcs runs git or jj to obtain everything a side-by-side diff needs: difftastic's JSON for the changed files, the full content of each file at the old
// and new revisions, and authoritative added/deleted line counts.
//
// Every command runs through a Runner, so tests can substitute canned output. Failures of the diff command itself are returned as *CommandErr. Content and stats
// lookups never fail: missing history (a file that did not exist at a revision, an unreadable index entry) yields absent content, and an unavailable stats command
// yields no stats.
package vcs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codalotl/difftview/internal/difftastic"
	"github.com/codalotl/difftview/internal/display"
)

// Mode selects which two states of the repository are compared.
type Mode int

// Diff modes.
const (
	ModeRange    Mode = iota // a revision or range (git: "HEAD", "main..feature", "a...b"; jj: any revset)
	ModeUnstaged             // working tree vs index (git) or working copy vs @ (jj)
	ModeStaged               // index vs HEAD (git); jj has no index, so @- vs @
)

// String returns "range", "unstaged", or "staged".
func (m Mode) String() string {
	switch m {
	case ModeUnstaged:
		return "unstaged"
	case ModeStaged:
		return "staged"
	default:
		return "range"
	}
}

// Request is what to diff.
type Request struct {
	Mode  Mode
	Range string // only used when Mode == ModeRange
}

// Side selects the old (left) or new (right) revision of a Request.
type Side int

// Sides.
const (
	SideOld Side = iota
	SideNew
)

// difftEnv enables difftastic's JSON output.
var difftEnv = []string{"DFT_DISPLAY=json", "DFT_UNSTABLE=yes"}

// VCS is a version control backend.
type VCS interface {
	// Name is "git" or "jj".
	Name() string

	// Diff runs difftastic through the VCS and parses its JSON output.
	Diff(ctx context.Context, req Request) ([]difftastic.File, error)

	// ChangedPaths lists paths changed by req without running difftastic.
	ChangedPaths(ctx context.Context, req Request) ([]string, error)

	// Stats returns authoritative (additions, deletions) per path. It returns an empty map if stats are unavailable.
	Stats(ctx context.Context, req Request) map[string]display.Stats

	// Content returns path's content at side of req. ok is false if the content is unavailable.
	Content(ctx context.Context, req Request, side Side, path string) (content string, ok bool)
}

// Options configure a backend.
type Options struct {
	Dir    string       // directory commands run in; "" means the current directory
	Difft  string       // difftastic program; "" means "difft"
	Runner Runner       // nil means ExecRunner{Logger: Logger}
	Logger *slog.Logger // optional
}

func (o Options) withDefaults() Options {
	if o.Difft == "" {
		o.Difft = "difft"
	}
	if o.Runner == nil {
		o.Runner = ExecRunner{Logger: o.Logger}
	}
	return o
}

// New returns the backend named name ("git" or "jj").
func New(name string, opts Options) (VCS, error) {
	switch name {
	case "git":
		return NewGit(opts), nil
	case "jj":
		return NewJJ(opts), nil
	default:
		return nil, fmt.Errorf("vcs: unknown backend %q (want git or jj)", name)
	}
}

// parseDifftOutput parses difftastic output from the command name.
func parseDifftOutput(name string, out []byte) ([]difftastic.File, error) {
	files, err := difftastic.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("%s: parse difftastic JSON: %w", name, err)
	}
	return files, nil
}
