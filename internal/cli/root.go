// Package cli provides the command-line interface for cardseg.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/setanarut/cardseg/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel string
	logJSON  bool
	quiet    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "cardseg",
		Short: "Extract card colours and accent arcs from a UI mockup",
		Long: `cardseg segments named card regions of a reference screenshot into
background, accent and text colours and fits the circular accent arc drawn
on each card. The result is a JSON manifest for the UI prototype.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error, off)")
	root.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "emit logs as JSON")
	root.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress progress output")

	root.AddCommand(newSegmentCmd(g))
	root.AddCommand(newPaletteCmd(g))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	})
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

func (g *globalFlags) logger(w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(g.logLevel)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "cardseg",
		Level:      level,
		Output:     w,
		JSONFormat: g.logJSON,
	})
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
