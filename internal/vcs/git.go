package vcs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codalotl/difftview/internal/difftastic"
	"github.com/codalotl/difftview/internal/display"
)

// Git is the git backend. difftastic is run as git's external diff tool.
type Git struct {
	opts Options

	mu   sync.Mutex
	refs map[string][2]string // range -> (old ref, new ref)
}

// NewGit returns a git backend.
func NewGit(opts Options) *Git {
	return &Git{opts: opts.withDefaults()}
}

// Name returns "git".
func (g *Git) Name() string { return "git" }

// diffArgs returns the `git diff` arguments selecting req.
func diffArgs(req Request) []string {
	switch req.Mode {
	case ModeStaged:
		return []string{"--cached"}
	case ModeUnstaged:
		return nil
	default:
		return []string{req.Range}
	}
}

// Diff runs `git -c diff.external=<difft> diff <args>` with difftastic's JSON output enabled.
func (g *Git) Diff(ctx context.Context, req Request) ([]difftastic.File, error) {
	args := append([]string{"-c", "diff.external=" + g.opts.Difft, "diff"}, diffArgs(req)...)
	out, err := g.opts.Runner.Run(ctx, g.opts.Dir, difftEnv, "git", args...)
	if err != nil {
		return nil, err
	}
	return parseDifftOutput("git", out)
}

// ChangedPaths runs `git diff --name-only <args>`.
func (g *Git) ChangedPaths(ctx context.Context, req Request) ([]string, error) {
	args := append([]string{"diff", "--name-only"}, diffArgs(req)...)
	out, err := g.opts.Runner.Run(ctx, g.opts.Dir, nil, "git", args...)
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(string(out)), nil
}

// Stats runs `git diff --numstat <args>`.
func (g *Git) Stats(ctx context.Context, req Request) map[string]display.Stats {
	return g.numstat(ctx, diffArgs(req)...)
}

// numstat runs `git diff --numstat extraArgs...` and parses it. Failures yield an empty map.
func (g *Git) numstat(ctx context.Context, extraArgs ...string) map[string]display.Stats {
	args := append([]string{"diff", "--numstat"}, extraArgs...)
	out, err := g.opts.Runner.Run(ctx, g.opts.Dir, nil, "git", args...)
	if err != nil {
		return map[string]display.Stats{}
	}
	return parseNumstat(string(out))
}

// Content returns path's content at side of req:
//   - range: `git show <ref>:<path>` using the refs from parseGitRange.
//   - unstaged: old is the index (`git show :<path>`), new is the working tree.
//   - staged: old is HEAD, new is the index.
func (g *Git) Content(ctx context.Context, req Request, side Side, path string) (string, bool) {
	switch req.Mode {
	case ModeUnstaged:
		if side == SideOld {
			return g.show(ctx, "", path)
		}
		return g.workingTree(ctx, path)
	case ModeStaged:
		if side == SideOld {
			return g.show(ctx, "HEAD", path)
		}
		return g.show(ctx, "", path)
	default:
		oldRef, newRef := g.rangeRefs(ctx, req.Range)
		if side == SideOld {
			return g.show(ctx, oldRef, path)
		}
		return g.show(ctx, newRef, path)
	}
}

// show runs `git show <ref>:<path>`. An empty ref means the index.
func (g *Git) show(ctx context.Context, ref, path string) (string, bool) {
	out, err := g.opts.Runner.Run(ctx, g.opts.Dir, nil, "git", "show", ref+":"+path)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// workingTree reads path relative to the repository root.
func (g *Git) workingTree(ctx context.Context, path string) (string, bool) {
	root, ok := g.root(ctx)
	if !ok {
		return "", false
	}
	b, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// root runs `git rev-parse --show-toplevel`.
func (g *Git) root(ctx context.Context) (string, bool) {
	return g.output(ctx, "rev-parse", "--show-toplevel")
}

// mergeBase runs `git merge-base a b`.
func (g *Git) mergeBase(ctx context.Context, a, b string) (string, bool) {
	return g.output(ctx, "merge-base", a, b)
}

// output runs git with args and returns its trimmed stdout. ok is false if git failed or printed nothing.
func (g *Git) output(ctx context.Context, args ...string) (string, bool) {
	out, err := g.opts.Runner.Run(ctx, g.opts.Dir, nil, "git", args...)
	if err != nil {
		return "", false
	}
	s := strings.TrimSpace(string(out))
	return s, s != ""
}

// rangeRefs returns parseGitRange(r), computing it at most once per range.
func (g *Git) rangeRefs(ctx context.Context, r string) (string, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if refs, ok := g.refs[r]; ok {
		return refs[0], refs[1]
	}
	oldRef, newRef := g.parseGitRange(ctx, r)
	if g.refs == nil {
		g.refs = make(map[string][2]string)
	}
	g.refs[r] = [2]string{oldRef, newRef}
	return oldRef, newRef
}

// parseGitRange returns the old and new refs of a git revision range:
//   - "A...B": (merge-base(A, B), B), falling back to "A^" if there is no merge base.
//   - "A..B": (A, B). Either side may be empty.
//   - "C": ("C^", C).
func (g *Git) parseGitRange(ctx context.Context, r string) (oldRef, newRef string) {
	if a, b, ok := strings.Cut(r, "..."); ok {
		base, found := g.mergeBase(ctx, a, b)
		if !found {
			base = a + "^"
		}
		return base, b
	}
	if a, b, ok := strings.Cut(r, ".."); ok {
		return a, b
	}
	return r + "^", r
}
