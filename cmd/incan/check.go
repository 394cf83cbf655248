package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"incan/internal/diagfmt"
	"incan/internal/driver"
	"incan/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file.in...",
	Short: "Type-check incan sources without building",
	Long:  "Check runs the pipeline through semantic analysis and reports diagnostics in the chosen format.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json|msgpack)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}

	fset := source.NewFileSet()
	res := driver.Compile(fset, args, opts)
	writeTimings(opts)

	switch format {
	case "pretty":
		diagfmt.WritePretty(os.Stderr, fset, res.Bag)
	case "json":
		data, err := diagfmt.MarshalJSON(fset, res.Bag)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "msgpack":
		data, err := diagfmt.MarshalMsgpack(fset, res.Bag)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (pretty|json|msgpack)", format)
	}

	if res.Failed() {
		return errors.New("check failed")
	}
	return nil
}
