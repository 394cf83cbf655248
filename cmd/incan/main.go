// Package main implements the incan CLI.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"incan/internal/driver"
	"incan/internal/observ"
	"incan/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "incan",
	Short:        "Incan language compiler",
	Long:         "Incan compiles .in sources into a Rust crate and drives cargo to build it.",
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version.String()

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show per-phase timing information")
	rootCmd.PersistentFlags().Uint("max-diagnostics", 50, "maximum number of diagnostics to report")
	rootCmd.PersistentFlags().Int("jobs", runtime.NumCPU(), "number of parallel compile workers")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// setupColor applies the --color flag to the global color switch. Diagnostics
// go to stderr, so auto mode keys off that stream.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stderr)
	default:
		return fmt.Errorf("unknown color mode %q (auto|on|off)", mode)
	}
	return nil
}

// pipelineOptions assembles driver options from the persistent flags.
func pipelineOptions(cmd *cobra.Command) (driver.Options, error) {
	flags := cmd.Root().PersistentFlags()
	maxDiags, err := flags.GetUint("max-diagnostics")
	if err != nil {
		return driver.Options{}, err
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return driver.Options{}, err
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{MaxDiagnostics: maxDiags, Jobs: jobs}
	if timings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}

func writeTimings(opts driver.Options) {
	if opts.Timer != nil {
		opts.Timer.Write(os.Stderr)
	}
}
