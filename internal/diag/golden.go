package diag

import (
	"fmt"
	"strings"

	"incan/internal/source"
)

// FormatGolden renders diagnostics in the stable one-line-per-diagnostic
// format used by snapshot tests:
//
//	error LEX1001 main.in:3:7 unknown character '$'
//
// Notes follow on indented continuation lines. The bag should be sorted
// before formatting.
func FormatGolden(fset *source.FileSet, bag *Bag) string {
	var sb strings.Builder
	for _, d := range bag.Items() {
		sb.WriteString(formatGoldenLine(fset, d.Severity, d.Code, d.Primary, d.Message))
		sb.WriteByte('\n')
		for _, n := range d.Notes {
			sb.WriteString("    note ")
			sb.WriteString(formatGoldenPos(fset, n.Span))
			sb.WriteByte(' ')
			sb.WriteString(n.Msg)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func formatGoldenLine(fset *source.FileSet, sev Severity, code Code, sp source.Span, msg string) string {
	return fmt.Sprintf("%s %s %s %s",
		strings.ToLower(sev.String()), code.ID(), formatGoldenPos(fset, sp), msg)
}

func formatGoldenPos(fset *source.FileSet, sp source.Span) string {
	file := fset.Get(sp.File)
	if file == nil {
		return "<unknown>:0:0"
	}
	start, _ := fset.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}
