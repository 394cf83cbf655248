package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"incan/internal/diag"
	"incan/internal/diagfmt"
	"incan/internal/lexer"
	"incan/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.in",
	Short: "Tokenize an incan source file",
	Long:  "Tokenize prints the token stream of one source file, including the synthetic Newline, Indent and Dedent tokens.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
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
	toks := lexer.New(fset.Get(id), lexer.Options{
		Reporter: diag.NewBagReporter(bag),
	}).Tokenize()

	for _, tok := range toks {
		start, _ := fset.Resolve(tok.Span)
		if tok.Text != "" {
			fmt.Printf("%4d:%-4d %-16s %q\n", start.Line, start.Col, tok.Kind, tok.Text)
		} else {
			fmt.Printf("%4d:%-4d %s\n", start.Line, start.Col, tok.Kind)
		}
	}

	if bag.HasErrors() {
		diagfmt.WritePretty(os.Stderr, fset, bag)
		return errors.New("tokenization failed")
	}
	return nil
}
