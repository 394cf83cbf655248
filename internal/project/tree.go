package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"incan/internal/diag"
	"incan/internal/source"
)

// Tree is the generated crate layout before it hits the disk.
type Tree struct {
	Name     string
	Manifest string            // Cargo.toml text
	Main     string            // src/main.rs text, before mod declarations
	Modules  map[string]string // module name -> src/<name>.rs text
}

// Root returns the crate directory under out: <out>/incan-out/<name>.
func (t *Tree) Root(out string) string {
	return filepath.Join(out, "incan-out", t.Name)
}

const treeReadme = "Generated by incan. This directory is safe to delete;\nit is recreated from the Incan sources on every build.\n"

// Write materializes the tree. The whole directory is replaced so stale
// module files from earlier builds never linger.
func (t *Tree) Write(out string, rep diag.Reporter) (string, bool) {
	root := t.Root(out)
	if err := os.RemoveAll(root); err != nil {
		return "", writeFail(rep, root, err)
	}
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		return "", writeFail(rep, root, err)
	}

	files := map[string]string{
		filepath.Join(root, "Cargo.toml"):     t.Manifest,
		filepath.Join(root, "README.md"):      treeReadme,
		filepath.Join(root, "src", "main.rs"): t.mainSource(),
	}
	for name, text := range t.Modules {
		files[filepath.Join(root, "src", name+".rs")] = text
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := os.WriteFile(p, []byte(files[p]), 0o644); err != nil {
			return "", writeFail(rep, p, err)
		}
	}
	return root, true
}

// mainSource splices sorted mod declarations into the main module text,
// right after the generated header.
func (t *Tree) mainSource() string {
	if len(t.Modules) == 0 {
		return t.Main
	}
	names := make([]string, 0, len(t.Modules))
	for n := range t.Modules {
		names = append(names, n)
	}
	sort.Strings(names)

	var decls strings.Builder
	decls.WriteByte('\n')
	for _, n := range names {
		decls.WriteString("mod " + n + ";\n")
	}

	head, rest, found := strings.Cut(t.Main, "\n")
	if !found {
		return t.Main + decls.String()
	}
	return head + "\n" + decls.String() + rest
}

func writeFail(rep diag.Reporter, path string, err error) bool {
	diag.Errorf(rep, diag.EmitWriteFailed, source.Span{},
		fmt.Sprintf("cannot write %s: %v", path, err)).Emit()
	return false
}
