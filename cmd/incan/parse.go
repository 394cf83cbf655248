package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/diagfmt"
	"incan/internal/parser"
	"incan/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.in",
	Short: "Parse an incan source file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	maxDiags, err := cmd.Root().PersistentFlags().GetUint("max-diagnostics")
	if err != nil {
		return err
	}

	fset := source.NewFileSet()
	id, err := fset.Load(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}

	bag := diag.NewBag(maxDiags)
	file := parser.ParseFile(fset, fset.Get(id), parser.Options{
		MaxErrors: maxDiags,
		Reporter:  diag.NewBagReporter(bag),
	})
	ast.Fprint(os.Stdout, file)

	if bag.HasErrors() {
		diagfmt.WritePretty(os.Stderr, fset, bag)
		return errors.New("parsing failed")
	}
	return nil
}
