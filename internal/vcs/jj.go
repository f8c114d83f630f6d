package vcs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/codalotl/difftview/internal/difftastic"
	"github.com/codalotl/difftview/internal/display"
)

// JJ is the jj (Jujutsu) backend. Stats come from git, which works for colocated repositories.
type JJ struct {
	opts Options
	git  *Git
}

// NewJJ returns a jj backend.
func NewJJ(opts Options) *JJ {
	opts = opts.withDefaults()
	return &JJ{opts: opts, git: NewGit(opts)}
}

// Name returns "jj".
func (j *JJ) Name() string { return "jj" }

// revsets returns the old and new revsets for req. jj has no index, so ModeStaged compares @- to @.
func (j *JJ) revsets(req Request) (oldRev, newRev string) {
	switch req.Mode {
	case ModeUnstaged:
		return "@", ""
	case ModeStaged:
		return "@-", "@"
	default:
		return "roots(" + req.Range + ")-", "heads(" + req.Range + ")"
	}
}

// diffArgs returns the `jj diff` arguments selecting req.
func (j *JJ) diffArgs(req Request) []string {
	switch req.Mode {
	case ModeUnstaged:
		return nil
	case ModeStaged:
		return []string{"-r", "@"}
	default:
		return []string{"-r", req.Range}
	}
}

// Diff runs `jj diff [-r <rev>] --tool <difft>` with difftastic's JSON output enabled.
func (j *JJ) Diff(ctx context.Context, req Request) ([]difftastic.File, error) {
	args := append([]string{"diff"}, j.diffArgs(req)...)
	args = append(args, "--tool", j.opts.Difft)
	out, err := j.opts.Runner.Run(ctx, j.opts.Dir, difftEnv, "jj", args...)
	if err != nil {
		return nil, err
	}
	return parseDifftOutput("jj", out)
}

// ChangedPaths runs `jj diff [-r <rev>] --name-only`.
func (j *JJ) ChangedPaths(ctx context.Context, req Request) ([]string, error) {
	args := append([]string{"diff"}, j.diffArgs(req)...)
	args = append(args, "--name-only")
	out, err := j.opts.Runner.Run(ctx, j.opts.Dir, nil, "jj", args...)
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(string(out)), nil
}

// Stats translates req's old and new revsets to git commits and runs `git diff --numstat old..new`. If only the new side resolves, it uses new^..new. Working-copy
// changes (ModeUnstaged) have no stats.
func (j *JJ) Stats(ctx context.Context, req Request) map[string]display.Stats {
	if req.Mode == ModeUnstaged {
		return map[string]display.Stats{}
	}

	oldRev, newRev := j.revsets(req)
	oldCommit, oldOK := j.gitCommit(ctx, oldRev)
	newCommit, newOK := j.gitCommit(ctx, newRev)

	switch {
	case oldOK && newOK:
		return j.git.numstat(ctx, oldCommit+".."+newCommit)
	case newOK:
		return j.git.numstat(ctx, newCommit+"^.."+newCommit)
	default:
		return map[string]display.Stats{}
	}
}

// gitCommit runs `jj log -r <rev> --no-graph -T commit_id`. ok is false unless the output is a single 40-hex-digit commit id.
func (j *JJ) gitCommit(ctx context.Context, rev string) (string, bool) {
	out, err := j.opts.Runner.Run(ctx, j.opts.Dir, nil, "jj", "log", "-r", rev, "--no-graph", "-T", "commit_id")
	if err != nil {
		return "", false
	}
	commit := strings.TrimSpace(string(out))
	return commit, isCommitID(commit)
}

// Content returns path's content at side of req via `jj file show -r <rev> <path>`. The new side of ModeUnstaged is the working copy on disk.
func (j *JJ) Content(ctx context.Context, req Request, side Side, path string) (string, bool) {
	oldRev, newRev := j.revsets(req)
	if side == SideOld {
		return j.fileShow(ctx, oldRev, path)
	}
	if req.Mode == ModeUnstaged {
		return j.workingCopy(ctx, path)
	}
	return j.fileShow(ctx, newRev, path)
}

func (j *JJ) fileShow(ctx context.Context, rev, path string) (string, bool) {
	out, err := j.opts.Runner.Run(ctx, j.opts.Dir, nil, "jj", "file", "show", "-r", rev, path)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// workingCopy reads path relative to `jj root`.
func (j *JJ) workingCopy(ctx context.Context, path string) (string, bool) {
	out, err := j.opts.Runner.Run(ctx, j.opts.Dir, nil, "jj", "root")
	if err != nil {
		return "", false
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", false
	}
	b, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// isCommitID reports whether s is a full 40-character hex git commit id.
func isCommitID(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
