// Command replay runs a YAML gesture script against the canvas controller
// without a window and prints the resulting canvas.
//
//	replay session.yaml
//	replay --output yaml --trace session.yaml
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"rectlink/internal/app"
	"rectlink/internal/logging"
	"rectlink/internal/metrics"
	"rectlink/pkg/colorutil"
)

var (
	heading = color.New(color.FgHiGreen, color.Bold)
	subtle  = color.New(color.FgHiBlack)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		output   string
		trace    bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Replay a gesture script and print the final canvas",
		Long: `Replay a gesture script and print the final canvas.

A script sets the canvas, node height and color seed, then lists steps:

  canvas: {width: 800, height: 600}
  node_height: 80
  seed: 7
  steps:
    - double_click: [200, 200]
    - press: [200, 200]
    - move: [320, 200]
    - release: [320, 200]
    - right_click: [320, 200]
    - cancel: true

Every step is checked for overlapping and off-canvas nodes.
Use "-" to read the script from standard input.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}

			logger := zap.NewNop()
			if logLevel != "" {
				var err error
				if logger, err = logging.New(logLevel, true); err != nil {
					return err
				}
			}
			defer logger.Sync() //nolint:errcheck

			script, err := LoadScript(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			var traceFn func(int, Step, app.Snapshot)
			if trace {
				traceFn = func(i int, step Step, snap app.Snapshot) {
					printStep(w, i, step, snap)
				}
			}

			snap, err := Replay(script, logger, metrics.NewRegistry(), traceFn)
			if err != nil {
				bad.Fprintf(w, "FAIL %v\n", err)
				return err
			}

			if output == "yaml" {
				enc := yaml.NewEncoder(w)
				if err := enc.Encode(snap); err != nil {
					return err
				}
				return enc.Close()
			}
			printSnapshot(w, snap)
			good.Fprintf(w, "ok %d steps\n", len(script.Steps))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or yaml")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the canvas summary after every step")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log controller decisions at this level")
	return cmd
}

func printStep(w io.Writer, i int, step Step, snap app.Snapshot) {
	subtle.Fprintf(w, "%3d ", i)
	fmt.Fprintf(w, "%-24s %s\n", step, snap.Summary())
}

func printSnapshot(w io.Writer, snap app.Snapshot) {
	heading.Fprintf(w, "canvas %dx%d\n", snap.Canvas.Width, snap.Canvas.Height)
	for _, n := range snap.Nodes {
		fmt.Fprintf(w, "  node %-3d %-10v %dx%d %s", n.ID, n.Rect.TopLeft(),
			n.Rect.Width, n.Rect.Height, colorutil.Hex(n.Color))
		if n.Highlighted {
			subtle.Fprint(w, " highlighted")
		}
		fmt.Fprintln(w)
	}
	for _, c := range snap.Connections {
		fmt.Fprintf(w, "  link %d-%d %v %v\n", c.A, c.B, c.From, c.To)
	}
}
