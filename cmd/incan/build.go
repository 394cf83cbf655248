package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"incan/internal/diag"
	"incan/internal/diagfmt"
	"incan/internal/driver"
	"incan/internal/project"
	"incan/internal/source"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.in...]",
	Short: "Build an incan project into a native binary",
	Long: "Build compiles the sources into a generated Rust crate and runs cargo on it.\n" +
		"Without file arguments the project is resolved through incan.toml, discovered\n" +
		"by walking up from the working directory.",
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("out", "target", "output directory for the generated crate")
	buildCmd.Flags().String("name", "", "crate name (default: incan.toml package name or 'app')")
	buildCmd.Flags().Bool("emit-rust-only", false, "write the Rust crate but skip cargo")
	buildCmd.Flags().Bool("release", false, "build with cargo --release")
}

var (
	builtStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runBuild(cmd *cobra.Command, args []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	rustOnly, err := cmd.Flags().GetBool("emit-rust-only")
	if err != nil {
		return err
	}
	release, err := cmd.Flags().GetBool("release")
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}

	paths := args
	mainModule := "main"
	if cfg, found, err := findConfig("."); err != nil {
		return err
	} else if found {
		mainModule = cfg.Build.Main
		if name == "" {
			name = cfg.Package.Name
		}
		if len(paths) == 0 {
			if paths, err = collectSources(cfg.Root); err != nil {
				return err
			}
		}
	}
	if len(paths) == 0 {
		return errors.New("no input files and no incan.toml found")
	}
	if name == "" {
		name = "app"
	}

	fset := source.NewFileSet()
	res := driver.Compile(fset, paths, opts)
	if res.Failed() {
		diagfmt.WritePretty(os.Stderr, fset, res.Bag)
		writeTimings(opts)
		return errors.New("build failed")
	}
	diagfmt.WritePretty(os.Stderr, fset, res.Bag) // surviving warnings

	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := diag.NewBagReporter(bag)
	tree, ok := driver.Assemble(res, name, mainModule, rep)
	if ok {
		var dir string
		if dir, ok = tree.Write(out, rep); ok && !rustOnly {
			stop := func() {}
			if opts.Timer != nil {
				stop = opts.Timer.Phase("cargo")
			}
			ok = project.CargoBuild(cmd.Context(), dir, release, os.Stdout, os.Stderr, rep)
			stop()
		}
		if ok {
			fmt.Println(builtStyle.Render("built"), pathStyle.Render(filepath.ToSlash(dir)))
		}
	}

	writeTimings(opts)
	if !ok {
		diagfmt.WritePretty(os.Stderr, fset, bag)
		return errors.New("build failed")
	}
	return nil
}
