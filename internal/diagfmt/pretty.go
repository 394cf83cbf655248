// Package diagfmt renders diagnostics for humans and tools: a colored
// terminal form with source excerpts, and JSON/msgpack exports for editor
// integrations.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"incan/internal/diag"
	"incan/internal/source"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	warnLabel  = color.New(color.FgYellow, color.Bold)
	infoLabel  = color.New(color.FgCyan, color.Bold)
	posStyle   = color.New(color.FgWhite, color.Faint)
	caretStyle = color.New(color.FgRed, color.Bold)
)

// WritePretty renders every diagnostic in the bag with its source excerpt
// and caret underline. Color usage follows the global color.NoColor switch.
func WritePretty(w io.Writer, fset *source.FileSet, bag *diag.Bag) {
	for _, d := range bag.Items() {
		writeOne(w, fset, d)
	}
	if n := bag.ErrorCount(); n > 0 {
		errorLabel.Fprintf(w, "%d error(s)\n", n)
	}
}

func writeOne(w io.Writer, fset *source.FileSet, d diag.Diagnostic) {
	label(d.Severity).Fprintf(w, "%s[%s]", strings.ToLower(d.Severity.String()), d.Code.ID())
	fmt.Fprintf(w, ": %s\n", d.Message)

	writeExcerpt(w, fset, d.Primary)
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  note: %s\n", n.Msg)
		writeExcerpt(w, fset, n.Span)
	}
}

func label(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorLabel
	case diag.SevWarning:
		return warnLabel
	default:
		return infoLabel
	}
}

// writeExcerpt prints the position line, the offending source line and a
// caret underline sized with display widths so wide runes line up.
func writeExcerpt(w io.Writer, fset *source.FileSet, sp source.Span) {
	file := fset.Get(sp.File)
	if file == nil {
		return
	}
	start, end := fset.Resolve(sp)
	posStyle.Fprintf(w, "  --> %s:%d:%d\n", fset.RelPath(sp.File), start.Line, start.Col)

	line := extractLine(file, start.Line)
	if line == "" {
		return
	}
	prefix := fmt.Sprintf("%4d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", prefix, line)

	// Columns are byte offsets into the line; widths come from the rendered
	// text so wide runes keep the caret aligned.
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	pad := runewidth.StringWidth(line[:col])

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		hi := int(end.Col) - 1
		if hi > len(line) {
			hi = len(line)
		}
		if ww := runewidth.StringWidth(line[col:hi]); ww > 0 {
			width = ww
		}
	}
	fmt.Fprint(w, strings.Repeat(" ", len(prefix)+pad))
	caretStyle.Fprintln(w, strings.Repeat("^", width))
}

// extractLine returns the 1-based line without its terminator. The file's
// line index records newline offsets, so line n spans (idx[n-2], idx[n-1]).
func extractLine(file *source.File, line uint32) string {
	if line == 0 {
		return ""
	}
	var start uint32
	if line > 1 {
		if int(line-1) > len(file.LineIdx) {
			return ""
		}
		start = file.LineIdx[line-2] + 1
	}
	end := uint32(len(file.Content))
	if int(line) <= len(file.LineIdx) {
		end = file.LineIdx[line-1]
	}
	if start > end {
		return ""
	}
	return strings.TrimRight(string(file.Content[start:end]), "\r")
}
