// Package batch turns the files of one diff into display files in parallel.
//
// Each file is independent: its content is fetched, split into lines, and passed through display.ProcessFile on its own goroutine, bounded by Options.Workers.
// Results keep the order of the input regardless of completion order.
package batch

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/codalotl/difftview/internal/difftastic"
	"github.com/codalotl/difftview/internal/display"
	"github.com/codalotl/difftview/internal/linediff"
	"github.com/codalotl/difftview/internal/vcs"
)

// ContentFetcher supplies the old and new content of a path. ok is false if that side is unavailable (ex: the file did not exist).
type ContentFetcher interface {
	Old(ctx context.Context, path string) (content string, ok bool)
	New(ctx context.Context, path string) (content string, ok bool)
}

// Options configure a batch.
type Options struct {
	Workers int          // max files processed at once; <= 0 means runtime.GOMAXPROCS(0)
	Logger  *slog.Logger // optional

	// Builtin computes alignments with linediff instead of running difftastic (Load only).
	Builtin bool

	// Filter, if non-nil, keeps only paths for which it returns true (Load only).
	Filter func(path string) bool
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Process converts files to display files. stats holds authoritative counts keyed by path; a file with an entry uses it for both counts. stats may be nil.
//
// The only error is ctx's, if it is canceled before all files are processed.
func Process(ctx context.Context, files []difftastic.File, fetch ContentFetcher, stats map[string]display.Stats, opts Options) ([]display.DisplayFile, error) {
	logger := opts.logger()
	return run(ctx, len(files), opts, func(ctx context.Context, i int) display.DisplayFile {
		f := files[i]
		oldText, oldOK, newText, newOK := fetchSides(ctx, fetch, f.Path, f.Status)

		if needsRealign(f, oldText, newText) {
			logger.Info("realigning with builtin line diff", "path", f.Path, "language", f.Language)
			realigned := linediff.Compute(f.Path, oldText, newText)
			f.AlignedLines = realigned.AlignedLines
			f.Chunks = realigned.Chunks
		}

		return display.ProcessFile(f, vcs.IntoLines(oldText, oldOK), vcs.IntoLines(newText, newOK), lookup(stats, f.Path))
	})
}

// ProcessPaths is Process for when difftastic is unavailable: each path's diff is computed with linediff from its fetched content.
func ProcessPaths(ctx context.Context, paths []string, fetch ContentFetcher, stats map[string]display.Stats, opts Options) ([]display.DisplayFile, error) {
	return run(ctx, len(paths), opts, func(ctx context.Context, i int) display.DisplayFile {
		path := paths[i]
		oldText, oldOK := fetch.Old(ctx, path)
		newText, newOK := fetch.New(ctx, path)

		f := linediff.Compute(path, oldText, newText)
		switch {
		case !oldOK && newOK:
			f.Status = difftastic.StatusCreated
		case oldOK && !newOK:
			f.Status = difftastic.StatusDeleted
		}

		return display.ProcessFile(f, vcs.IntoLines(oldText, oldOK), vcs.IntoLines(newText, newOK), lookup(stats, path))
	})
}

// run calls process for each index in [0, n) on at most opts.workers() goroutines and returns the results in index order.
func run(ctx context.Context, n int, opts Options, process func(ctx context.Context, i int) display.DisplayFile) ([]display.DisplayFile, error) {
	results := make([]display.DisplayFile, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = process(gctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// fetchSides fetches the content a file of status needs. Created files have no old side; deleted files have no new side.
func fetchSides(ctx context.Context, fetch ContentFetcher, path string, status difftastic.Status) (oldText string, oldOK bool, newText string, newOK bool) {
	if status != difftastic.StatusCreated {
		oldText, oldOK = fetch.Old(ctx, path)
	}
	if status != difftastic.StatusDeleted {
		newText, newOK = fetch.New(ctx, path)
	}
	return
}

// needsRealign reports whether f is a changed file that difftastic gave up on: no alignment and no chunks, yet the texts differ. difftastic does this for files over
// its size or parse-error limits.
func needsRealign(f difftastic.File, oldText, newText string) bool {
	return f.Status == difftastic.StatusChanged && len(f.AlignedLines) == 0 && len(f.Chunks) == 0 && oldText != newText
}

func lookup(stats map[string]display.Stats, path string) *display.Stats {
	s, ok := stats[path]
	if !ok {
		return nil
	}
	return &s
}
