// xtcheck is a checksum-regression harness for document extraction tools.
//
// Usage:
//
//	xtcheck                        # run the built-in test table
//	xtcheck --suite checks.yaml    # run a pinned suite file
//	xtcheck pin --suite checks.yaml > refreshed.yaml
//
// Each case invokes the extraction command (textract by default) with one
// input document, captures its stdout, digests the bytes, and compares the
// digest to the pinned value. Every case runs regardless of earlier
// failures; the exit code is the count of failing cases.
//
// Output modes (auto-detected):
//
//	terminal  — styled Unicode output with live progress (default when TTY)
//	llm       — terse plain text for AI consumption (default when piped)
//	json      — structured JSON for automation
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/dkoosis/xtcheck/internal/checksum"
	"github.com/dkoosis/xtcheck/internal/config"
	"github.com/dkoosis/xtcheck/internal/live"
	"github.com/dkoosis/xtcheck/internal/render"
	"github.com/dkoosis/xtcheck/internal/runner"
	"github.com/dkoosis/xtcheck/internal/suite"
	"github.com/dkoosis/xtcheck/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Check for subcommands before flag parsing
	if len(args) > 0 && args[0] == "pin" {
		return runPin(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("xtcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	suiteFlag := fs.String("suite", "", "Suite YAML file (default: built-in table)")
	formatFlag := fs.String("format", "auto", "Output format: auto, terminal, llm, json")
	themeFlag := fs.String("theme", "default", "Theme: default, orca, mono")
	hashFlag := fs.String("hash", "md5", "Digest algorithm: md5, sha1, sha256")
	commandFlag := fs.String("command", "", "Extraction command (overrides suite)")
	timeoutFlag := fs.Duration("timeout", 0, "Per-case timeout (0 = none)")
	listFlag := fs.Bool("list", false, "List cases without running them")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *versionFlag {
		fmt.Fprintln(stdout, "xtcheck "+version.String())
		return 0
	}

	cfg := config.Load(collectFlags(fs, *suiteFlag, *formatFlag, *themeFlag, *hashFlag, *commandFlag, *timeoutFlag), stderr)

	s, code := loadSuite(cfg.Suite, stderr)
	if code >= 0 {
		return code
	}

	// The suite file may pin its own algorithm; an explicit flag wins.
	algo := cfg.Hash
	if s.Hash != "" && !flagWasSet(fs, "hash") {
		algo = s.Hash
	}
	hasher, err := checksum.New(algo)
	if err != nil {
		fmt.Fprintf(stderr, "xtcheck: %v\n", err)
		return 2
	}
	if cfg.Debug {
		fmt.Fprintf(stderr, "[DEBUG run] command=%s hash=%s cases=%d dir=%s\n",
			s.Command, hasher.Name(), len(s.Cases), s.Dir)
	}

	theme := render.ThemeByName(cfg.Theme)
	if cfg.NoColor {
		theme = render.MonoTheme()
	}

	if *listFlag {
		// Piped listings stay plain; styling is a TTY affordance.
		listTheme := theme
		if !isTTYWriter(stdout) {
			listTheme = render.MonoTheme()
		}
		for _, c := range s.Cases {
			fmt.Fprintf(stdout, "%s %s  %s\n", listTheme.Icons.Bullet, c.Label(), listTheme.Muted.Render(c.Digest))
		}
		return 0
	}

	mode := resolveFormat(cfg.Format, stdout)
	if !validFormat(mode) {
		fmt.Fprintf(stderr, "xtcheck: unknown format %q (expected auto, terminal, llm, json)\n", cfg.Format)
		return 2
	}

	r := &runner.Runner{
		Command: cfg.Command,
		Timeout: cfg.Timeout,
		Hasher:  hasher,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sink := render.NewConsoleSink(stderr, theme)

	// Live mode: terminal output on a real TTY gets per-case progress.
	if mode == "terminal" && isTTYWriter(stdout) {
		// live.Run always hands back the finished report, even when the
		// display dies; the suite runs exactly once either way.
		rep, liveErr := live.Run(ctx, r, s, theme)
		for _, res := range rep.Results {
			sink.Emit(res)
		}
		if liveErr != nil {
			fmt.Fprintf(stderr, "xtcheck: progress view unavailable (%v)\n", liveErr)
			fmt.Fprint(stdout, render.NewTerminal(theme, termWidth(stdout)).Render(rep))
		} else {
			fmt.Fprintln(stdout, render.NewTerminal(theme, termWidth(stdout)).Summary(rep))
		}
		return rep.FailureCount()
	}

	rep := r.RunSuite(ctx, s, sink.Emit)
	fmt.Fprint(stdout, selectRenderer(mode, theme, stdout).Render(rep))
	return rep.FailureCount()
}

// loadSuite returns (suite, -1) on success; (nil, exitCode) on error.
func loadSuite(path string, stderr io.Writer) (*suite.Suite, int) {
	if path == "" {
		return suite.Builtin(), -1
	}
	s, err := suite.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "xtcheck: %v\n", err)
		return nil, 2
	}
	return s, -1
}

func collectFlags(fs *flag.FlagSet, suitePath, format, theme, hash, command string, timeout time.Duration) config.Flags {
	return config.Flags{
		Suite:      suitePath,
		Format:     format,
		Theme:      theme,
		Hash:       hash,
		Command:    command,
		Timeout:    timeout,
		FormatSet:  flagWasSet(fs, "format"),
		ThemeSet:   flagWasSet(fs, "theme"),
		HashSet:    flagWasSet(fs, "hash"),
		CommandSet: flagWasSet(fs, "command"),
		TimeoutSet: flagWasSet(fs, "timeout"),
	}
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func validFormat(mode string) bool {
	switch mode {
	case "terminal", "llm", "json":
		return true
	}
	return false
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func selectRenderer(mode string, theme render.Theme, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "llm":
		return render.NewLLM()
	default:
		return render.NewTerminal(theme, termWidth(w))
	}
}

// --- xtcheck pin subcommand ---

// runPin executes every case and writes a suite YAML with digests refreshed
// to the observed values. Output goes to stdout only; the suite file on
// disk is never modified. Cases that error keep their pinned digest.
func runPin(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xtcheck pin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	suiteFlag := fs.String("suite", "", "Suite YAML file (default: built-in table)")
	hashFlag := fs.String("hash", "", "Digest algorithm: md5, sha1, sha256")
	commandFlag := fs.String("command", "", "Extraction command (overrides suite)")
	timeoutFlag := fs.Duration("timeout", 0, "Per-case timeout (0 = none)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, code := loadSuite(*suiteFlag, stderr)
	if code >= 0 {
		return code
	}

	algo := *hashFlag
	if algo == "" {
		algo = s.Hash
	}
	hasher, err := checksum.New(algo)
	if err != nil {
		fmt.Fprintf(stderr, "xtcheck pin: %v\n", err)
		return 2
	}

	r := &runner.Runner{
		Command: *commandFlag,
		Timeout: *timeoutFlag,
		Hasher:  hasher,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errored := 0
	rep := r.RunSuite(ctx, s, nil)
	for i, res := range rep.Results {
		if res.Status == suite.StatusError {
			errored++
			fmt.Fprintf(stderr, "xtcheck pin: %s: %s (keeping pinned digest)\n", res.Case.Label(), res.Detail)
			continue
		}
		s.Cases[i].Digest = res.Observed
	}

	out, err := suite.Marshal(s)
	if err != nil {
		fmt.Fprintf(stderr, "xtcheck pin: encoding suite: %v\n", err)
		return 2
	}
	if _, err := stdout.Write(out); err != nil {
		fmt.Fprintf(stderr, "xtcheck pin: writing output: %v\n", err)
		return 2
	}
	return errored
}
