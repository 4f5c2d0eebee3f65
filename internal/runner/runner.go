// Package runner orchestrates the load -> parse -> output pipeline.
package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"github.com/donaldgifford/mkparse/internal/config"
	"github.com/donaldgifford/mkparse/internal/dump"
	"github.com/donaldgifford/mkparse/internal/inventory"
	"github.com/donaldgifford/mkparse/internal/loader"
	"github.com/donaldgifford/mkparse/internal/parser"
)

var log = commonlog.GetLogger("mkparse.runner")

// Exit codes.
const (
	ExitOK         = 0
	ExitParseError = 1
	ExitError      = 2
)

// Mode selects what Run prints for each parsed file.
type Mode int

const (
	// ModeParse prints the statements.
	ModeParse Mode = iota
	// ModeCheck prints diagnostics only.
	ModeCheck
	// ModeInventory prints a summary of declared names.
	ModeInventory
)

// Options configures the runner behavior. Zero-valued overrides keep the
// config file's setting.
type Options struct {
	Mode       Mode
	Files      []string
	ConfigPath string

	Format         string // Overrides output.format when non-empty.
	Structure      bool
	FollowIncludes bool
	NoColor        bool
	Verbosity      int // Added to log.verbosity.

	Quiet   bool
	Verbose bool
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run executes the pipeline and returns an exit code.
func Run(opts *Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		writeErr(opts.Stderr, "mkparse: %v\n", err)
		return ExitError
	}
	if err := applyOverrides(cfg, opts); err != nil {
		writeErr(opts.Stderr, "mkparse: %v\n", err)
		return ExitError
	}
	configureLogging(cfg)

	r := &run{
		opts: opts,
		cfg:  cfg,
		diag: newDiagnostics(opts.Stderr, cfg.Output.Color && !opts.Quiet),
	}

	if len(opts.Files) == 0 {
		return r.stdin()
	}
	return r.files()
}

func applyOverrides(cfg *config.Config, opts *Options) error {
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if opts.Structure {
		cfg.Output.Structure = true
	}
	if opts.FollowIncludes {
		cfg.Output.FollowIncludes = true
	}
	if opts.NoColor {
		cfg.Output.Color = false
	}
	cfg.Log.Verbosity += opts.Verbosity
	return cfg.Validate()
}

func configureLogging(cfg *config.Config) {
	if cfg.Log.File == "" {
		commonlog.Configure(cfg.Log.Verbosity, nil)
		return
	}
	path := cfg.Log.File
	commonlog.Configure(cfg.Log.Verbosity, &path)
}

type run struct {
	opts    *Options
	cfg     *config.Config
	diag    *diagnostics
	printed int
	failed  bool
}

func (r *run) parserOptions() *parser.Options {
	if r.opts.Quiet {
		return &parser.Options{Sink: discardSink{}}
	}
	return &parser.Options{Sink: r.diag}
}

func (r *run) stdin() int {
	src, err := io.ReadAll(r.opts.Stdin)
	if err != nil {
		writeErr(r.opts.Stderr, "mkparse: reading stdin: %v\n", err)
		return ExitError
	}

	mk := &parser.Makefile{Filename: "<stdin>", Buf: src}
	if err := r.visit(mk, parser.Parse(mk, r.parserOptions())); err != nil {
		writeErr(r.opts.Stderr, "mkparse: %v\n", err)
		return ExitError
	}
	return r.exitCode()
}

func (r *run) files() int {
	w := &loader.Walker{
		Follow:  r.cfg.Output.FollowIncludes,
		Options: r.parserOptions(),
	}
	if err := w.Walk(r.opts.Files, r.visit); err != nil {
		writeErr(r.opts.Stderr, "mkparse: %v\n", err)
		return ExitError
	}
	return r.exitCode()
}

func (r *run) exitCode() int {
	if r.failed {
		return ExitParseError
	}
	return ExitOK
}

// visit prints one parsed file. Statements parsed before an error are
// still printed.
func (r *run) visit(mk *parser.Makefile, parseErr error) error {
	if r.opts.Verbose {
		writeErr(r.opts.Stderr, "%s\n", mk.Filename)
	}
	log.Debugf("parsed %s: %d top-level statements", mk.Filename, len(mk.Stmts))
	if parseErr != nil {
		r.failed = true
	}

	switch r.opts.Mode {
	case ModeCheck:
		return nil
	case ModeInventory:
		r.header(mk.Filename)
		_, err := inventory.Collect(mk.Stmts).WriteTo(r.opts.Stdout)
		return err
	}

	if r.cfg.Output.Format == config.FormatYAML {
		out, err := dump.YAML(mk.Stmts)
		if err != nil {
			return err
		}
		if r.printed > 0 {
			writeOut(r.opts.Stdout, "---\n")
		}
		r.printed++
		writeOut(r.opts.Stdout, string(out))
		return nil
	}

	r.header(mk.Filename)
	writeOut(r.opts.Stdout, dump.Text(mk.Stmts, &dump.Options{Structure: r.cfg.Output.Structure}))
	return nil
}

// header separates the output of several files.
func (r *run) header(filename string) {
	multi := len(r.opts.Files) > 1 || r.cfg.Output.FollowIncludes
	if multi {
		if r.printed > 0 {
			writeOut(r.opts.Stdout, "\n")
		}
		writeOut(r.opts.Stdout, fmt.Sprintf("==> %s <==\n", filename))
	}
	r.printed++
}

// diagnostics prints parse errors as "file:line: message".
type diagnostics struct {
	w   io.Writer
	loc *color.Color
	msg *color.Color
}

func newDiagnostics(w io.Writer, enabled bool) *diagnostics {
	d := &diagnostics{
		w:   w,
		loc: color.New(color.Bold),
		msg: color.New(color.FgRed),
	}
	if !enabled {
		d.loc.DisableColor()
		d.msg.DisableColor()
	}
	return d
}

// Report implements parser.ErrorSink.
func (d *diagnostics) Report(loc parser.Loc, msg string) {
	fmt.Fprintf(d.w, "%s: %s\n", d.loc.Sprint(loc.String()), d.msg.Sprint(msg))
}

type discardSink struct{}

func (discardSink) Report(parser.Loc, string) {}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
