package project

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"incan/internal/diag"
	"incan/internal/source"
)

// CargoBuild runs cargo in the generated crate directory. Compiler output
// streams through verbatim; a non-zero exit becomes a build-stage
// diagnostic and a false return.
func CargoBuild(ctx context.Context, dir string, release bool, stdout, stderr io.Writer, rep diag.Reporter) bool {
	args := []string{"build"}
	if release {
		args = append(args, "--release")
	}
	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		diag.Errorf(rep, diag.EmitBuildFailed, source.Span{},
			fmt.Sprintf("cargo build failed in %s: %v", dir, err)).Emit()
		return false
	}
	return true
}
