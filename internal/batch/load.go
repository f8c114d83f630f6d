package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codalotl/difftview/internal/difftastic"
	"github.com/codalotl/difftview/internal/display"
	"github.com/codalotl/difftview/internal/vcs"
)

// vcsFetcher reads content from a VCS backend for one request.
type vcsFetcher struct {
	v   vcs.VCS
	req vcs.Request
}

// FromVCS returns a ContentFetcher reading the old and new sides of req from v.
func FromVCS(v vcs.VCS, req vcs.Request) ContentFetcher {
	return vcsFetcher{v: v, req: req}
}

func (f vcsFetcher) Old(ctx context.Context, path string) (string, bool) {
	return f.v.Content(ctx, f.req, vcs.SideOld, path)
}

func (f vcsFetcher) New(ctx context.Context, path string) (string, bool) {
	return f.v.Content(ctx, f.req, vcs.SideNew, path)
}

// Load diffs req with v and processes every changed file. The diff (or, with opts.Builtin, the changed path list) and the stats are gathered concurrently. Errors
// from the diff command are returned as is (typically *vcs.CommandErr).
func Load(ctx context.Context, v vcs.VCS, req vcs.Request, opts Options) ([]display.DisplayFile, error) {
	logger := opts.logger()
	start := time.Now()

	var (
		files []difftastic.File
		paths []string
		stats map[string]display.Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if opts.Builtin {
			paths, err = v.ChangedPaths(gctx, req)
		} else {
			files, err = v.Diff(gctx, req)
		}
		return err
	})
	g.Go(func() error {
		stats = v.Stats(gctx, req)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Filter != nil {
		files = filterFiles(files, opts.Filter)
		paths = filterPaths(paths, opts.Filter)
	}

	fetch := FromVCS(v, req)
	var (
		out []display.DisplayFile
		err error
	)
	if opts.Builtin {
		out, err = ProcessPaths(ctx, paths, fetch, stats, opts)
	} else {
		out, err = Process(ctx, files, fetch, stats, opts)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded diff", "vcs", v.Name(), "files", len(out), "builtin", opts.Builtin, "dur", time.Since(start))
	return out, nil
}

func filterFiles(files []difftastic.File, keep func(string) bool) []difftastic.File {
	var out []difftastic.File
	for _, f := range files {
		if keep(f.Path) {
			out = append(out, f)
		}
	}
	return out
}

func filterPaths(paths []string, keep func(string) bool) []string {
	var out []string
	for _, p := range paths {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
