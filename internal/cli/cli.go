// Package cli implements the difftview command: `difftview [flags] [range]`.
//
// With no range, unstaged changes are shown. Output is a side-by-side view when stdout is a terminal and JSON otherwise, unless --format says which.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/codalotl/difftview/internal/batch"
	"github.com/codalotl/difftview/internal/config"
	"github.com/codalotl/difftview/internal/display"
	"github.com/codalotl/difftview/internal/q/uni"
	"github.com/codalotl/difftview/internal/render"
	"github.com/codalotl/difftview/internal/simplelogger"
	"github.com/codalotl/difftview/internal/vcs"
)

// Version is the difftview version. It is a var (not a const) so build tooling can override it (ex: `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.1.0"

// RunOptions override the process environment. Zero fields use defaults. Overriding is useful for testing.
type RunOptions struct {
	Out io.Writer
	Err io.Writer

	Dir    string       // repository directory; "" means the current directory
	Runner vcs.Runner   // runs git/jj/difft; nil means vcs.ExecRunner
	Logger *slog.Logger // nil means simplelogger.New()

	// Config is used instead of loading the config file. Environment overrides are not applied to it.
	Config *config.Config
}

// usageError is a problem with the arguments. It maps to exit code 2.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

// Run runs the CLI with args (typically os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound (ex: git failed).
//   - 2 -> err != nil, args parse error or misuse of flags.
//
// Run has already written an error message to opts.Err || Stderr when it returns an error. Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	if opts == nil {
		opts = &RunOptions{}
	}
	out, errW := opts.Out, opts.Err
	if out == nil {
		out = os.Stdout
	}
	if errW == nil {
		errW = os.Stderr
	}

	logger := opts.Logger
	if logger == nil {
		l, closeFn := simplelogger.New()
		defer closeFn()
		logger = l
	}

	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	err := run(context.Background(), argv, out, errW, opts, logger)
	if err == nil {
		return 0, nil
	}
	var uerr usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(errW, "difftview: %v\n", err)
		fmt.Fprintln(errW, "Run 'difftview --help' for usage.")
		return 2, err
	}

	vcs.LogErr(logger, err)
	fmt.Fprintf(errW, "difftview: %v\n", err)
	return 1, err
}

// flags are the parsed command-line flags. Flags that were not given (not in set) keep the config's values.
type flags struct {
	set map[string]bool

	vcs      string
	difft    string
	staged   bool
	unstaged bool
	format   string
	width    int
	only     string
	builtin  bool
	workers  int
	context  int
	color    string
	config   string
}

const usageText = `Shows a side-by-side structural diff of a revision or range (ex: HEAD, main..feature, a...b), or of unstaged/staged changes.

With no range, unstaged changes are shown.`

// newRootCommand builds the difftview command. Its RunE calls exec with the parsed flags and positional args.
func newRootCommand(f *flags, exec func(cmd *cobra.Command, args []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "difftview [flags] [range]",
		Short:   "Side-by-side structural diffs from difftastic",
		Long:    usageText,
		Version: Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError{msg: err.Error()}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f.set = make(map[string]bool)
			cmd.Flags().Visit(func(fl *pflag.Flag) { f.set[fl.Name] = true })
			return exec(cmd, args)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	fl := cmd.Flags()
	fl.StringVar(&f.vcs, "vcs", "", "version control system: git or jj (default from config, else git)")
	fl.StringVar(&f.difft, "difft", "", "difftastic program (default from config, else difft)")
	fl.BoolVarP(&f.staged, "staged", "s", false, "show staged changes (jj: the working-copy commit)")
	fl.BoolVarP(&f.unstaged, "unstaged", "u", false, "show unstaged changes (the default when no range is given)")
	fl.StringVarP(&f.format, "format", "f", "", "output format: json or term (default: term if stdout is a terminal)")
	fl.IntVarP(&f.width, "width", "w", 0, "terminal view width in columns (default: terminal width)")
	fl.StringVar(&f.only, "only", "", "only show files whose path fuzzy-matches this pattern")
	fl.BoolVar(&f.builtin, "builtin", false, "use the built-in line diff instead of difftastic")
	fl.IntVar(&f.workers, "workers", 0, "files processed in parallel; 0 means GOMAXPROCS (default from config)")
	fl.IntVarP(&f.context, "context", "C", 3, "unchanged rows shown around each hunk; -1 shows all (default from config)")
	fl.StringVar(&f.color, "color", "auto", "color output: auto, always, or never")
	fl.StringVar(&f.config, "config", "", "config file (default $DIFFTVIEW_CONFIG or ~/.config/difftview/config.toml)")
	return cmd
}

func run(ctx context.Context, argv []string, out, errW io.Writer, opts *RunOptions, logger *slog.Logger) error {
	var f flags
	cmd := newRootCommand(&f, func(cmd *cobra.Command, args []string) error {
		return diff(cmd.Context(), args, f, out, opts, logger)
	})
	if argv == nil {
		// cobra falls back to os.Args for nil args.
		argv = []string{}
	}
	cmd.SetArgs(argv)
	cmd.SetOut(out)
	cmd.SetErr(errW)
	return cmd.ExecuteContext(ctx)
}

// diff loads the requested diff and writes it to out.
func diff(ctx context.Context, args []string, f flags, out io.Writer, opts *RunOptions, logger *slog.Logger) error {
	req, err := requestFromArgs(args, f.staged, f.unstaged)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts, f.config)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, f); err != nil {
		return err
	}

	color, err := colorProfile(f.color, out)
	if err != nil {
		return err
	}
	format := cfg.Format
	if format == "" {
		format = "json"
		if isTerminal(out) {
			format = "term"
		}
	}

	backend, err := vcs.New(cfg.VCS, vcs.Options{Dir: opts.Dir, Difft: cfg.Difft, Runner: opts.Runner, Logger: logger})
	if err != nil {
		return usageError{msg: err.Error()}
	}

	logger.Info("diffing", "vcs", cfg.VCS, "mode", req.Mode, "range", req.Range, "builtin", f.builtin, "format", format)

	files, err := batch.Load(ctx, backend, req, batch.Options{
		Workers: cfg.Workers,
		Logger:  logger,
		Builtin: f.builtin,
		Filter:  pathFilter(f.only),
	})
	if err != nil {
		return err
	}

	if format == "json" {
		return render.EncodeJSON(out, files)
	}
	return writeTerminal(out, files, cfg, f.width, color)
}

// requestFromArgs picks the diff mode from the positional args and mode flags.
func requestFromArgs(args []string, staged, unstaged bool) (vcs.Request, error) {
	if len(args) > 1 {
		return vcs.Request{}, usageError{msg: fmt.Sprintf("expected at most one range, got %d arguments", len(args))}
	}
	if staged && unstaged {
		return vcs.Request{}, usageError{msg: "-staged and -unstaged are mutually exclusive"}
	}
	if len(args) == 1 {
		if staged || unstaged {
			return vcs.Request{}, usageError{msg: "a range cannot be combined with -staged or -unstaged"}
		}
		if strings.TrimSpace(args[0]) == "" {
			return vcs.Request{}, usageError{msg: "range must not be empty"}
		}
		return vcs.Request{Mode: vcs.ModeRange, Range: args[0]}, nil
	}
	if staged {
		return vcs.Request{Mode: vcs.ModeStaged}, nil
	}
	return vcs.Request{Mode: vcs.ModeUnstaged}, nil
}

func loadConfig(opts *RunOptions, path string) (*config.Config, error) {
	if opts.Config != nil {
		cfg := *opts.Config
		return &cfg, nil
	}
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// applyFlags overrides cfg with the flags that were given, then validates it.
func applyFlags(cfg *config.Config, f flags) error {
	if f.vcs != "" {
		cfg.VCS = f.vcs
	}
	if f.difft != "" {
		cfg.Difft = f.difft
	}
	if f.format != "" {
		cfg.Format = f.format
	}
	if f.set["workers"] {
		cfg.Workers = f.workers
	}
	if f.set["context"] {
		cfg.Context = f.context
	}
	if f.width < 0 {
		return usageError{msg: fmt.Sprintf("-width must be >= 0, got %d", f.width)}
	}
	if err := cfg.Validate(); err != nil {
		return usageError{msg: err.Error()}
	}
	return nil
}

// pathFilter returns a filter keeping paths that fuzzy-match pattern (case-insensitive), or nil if pattern is empty.
func pathFilter(pattern string) func(string) bool {
	if pattern == "" {
		return nil
	}
	return func(path string) bool {
		return fuzzy.MatchFold(pattern, path)
	}
}

func colorProfile(mode string, out io.Writer) (termenv.Profile, error) {
	switch mode {
	case "always":
		return termenv.TrueColor, nil
	case "never":
		return termenv.Ascii, nil
	case "auto":
		if isTerminal(out) && os.Getenv("NO_COLOR") == "" {
			return termenv.NewOutput(out).EnvColorProfile(), nil
		}
		return termenv.Ascii, nil
	default:
		return termenv.Ascii, usageError{msg: fmt.Sprintf("-color must be auto, always, or never, got %q", mode)}
	}
}

func writeTerminal(out io.Writer, files []display.DisplayFile, cfg *config.Config, width int, profile termenv.Profile) error {
	if width == 0 {
		width = terminalWidth(out)
	}
	opts := render.TerminalOptions{
		Width:    width,
		TabWidth: cfg.TabWidth,
		Context:  cfg.Context,
		Profile:  profile,
		Theme: render.Theme{
			Added:       cfg.Colors.Added,
			Removed:     cfg.Colors.Removed,
			AddedEmph:   cfg.Colors.AddedEmph,
			RemovedEmph: cfg.Colors.RemovedEmph,
		},
	}
	if cfg.EastAsianWidth {
		opts.Uni = &uni.Options{EastAsianWidth: true, TreatEmojiAsWide: cfg.EmojiWide}
	}
	if _, err := opts.Theme.Resolve(); err != nil {
		return usageError{msg: err.Error()}
	}

	for i, f := range files {
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return err
			}
		}
		if err := render.Terminal(out, f, opts); err != nil {
			return err
		}
	}
	return nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns w's width in columns, or 0 (the renderer's default) if w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
