// Package main is the entry point for mkparse.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "github.com/tliron/commonlog/simple" // Log to stderr.

	"github.com/donaldgifford/mkparse/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	quiet      bool
	verbose    int
	noColor    bool
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	var g globalFlags
	exitCode := runner.ExitOK

	rootCmd := &cobra.Command{
		Use:           "mkparse",
		Short:         "Parse Makefiles into statements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress diagnostics")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "print files as they are processed; repeat for debug logs")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored diagnostics")

	setExit := func(code int) { exitCode = code }
	rootCmd.AddCommand(newParseCmd(&g, setExit))
	rootCmd.AddCommand(newCheckCmd(&g, setExit))
	rootCmd.AddCommand(newInventoryCmd(&g, setExit))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mkparse: %v\n", err)
		return runner.ExitError
	}
	return exitCode
}

func (g *globalFlags) options(mode runner.Mode, files []string) *runner.Options {
	return &runner.Options{
		Mode:       mode,
		Files:      files,
		ConfigPath: g.configPath,
		NoColor:    g.noColor,
		Verbosity:  g.verbose,
		Quiet:      g.quiet,
		Verbose:    g.verbose > 0,
	}
}

func newParseCmd(g *globalFlags, setExit func(int)) *cobra.Command {
	var (
		format    string
		structure bool
		follow    bool
	)

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Print the statements of each Makefile",
		Long: `Print the statements parsed from each Makefile, one per line with
its line number, or as YAML with --format yaml.

With no files, reads from stdin.`,
		RunE: func(_ *cobra.Command, args []string) error {
			opts := g.options(runner.ModeParse, args)
			opts.Format = format
			opts.Structure = structure
			opts.FollowIncludes = follow
			setExit(runner.Run(opts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text or yaml")
	cmd.Flags().BoolVar(&structure, "structure", false, "show literals and variable references")
	cmd.Flags().BoolVar(&follow, "follow", false, "also parse files named by include directives")

	return cmd
}

func newCheckCmd(g *globalFlags, setExit func(int)) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report parse errors; exit 1 if any file fails to parse",
		RunE: func(_ *cobra.Command, args []string) error {
			opts := g.options(runner.ModeCheck, args)
			opts.FollowIncludes = follow
			setExit(runner.Run(opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", false, "also check files named by include directives")

	return cmd
}

func newInventoryCmd(g *globalFlags, setExit func(int)) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "inventory [files...]",
		Short: "Summarize the targets, variables and includes of each Makefile",
		RunE: func(_ *cobra.Command, args []string) error {
			opts := g.options(runner.ModeInventory, args)
			opts.FollowIncludes = follow
			setExit(runner.Run(opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", false, "also summarize files named by include directives")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mkparse %s (%s) %s\n", version, commit, date)
		},
	}
}
