package diag

import (
	"incan/internal/source"
)

// Reporter receives diagnostics from pipeline stages.
type Reporter interface {
	Report(d Diagnostic) bool
}

// BagReporter collects reported diagnostics into a Bag.
type BagReporter struct {
	bag *Bag
}

func NewBagReporter(bag *Bag) *BagReporter {
	return &BagReporter{bag: bag}
}

func (r *BagReporter) Report(d Diagnostic) bool {
	return r.bag.Add(d)
}

func (r *BagReporter) Bag() *Bag {
	return r.bag
}

// ReportBuilder builds a diagnostic fluently before handing it to a Reporter.
type ReportBuilder struct {
	r Reporter
	d Diagnostic
}

// Errorf starts an error diagnostic at the given span.
func Errorf(r Reporter, code Code, sp source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		r: r,
		d: Diagnostic{
			Severity: SevError,
			Code:     code,
			Message:  msg,
			Primary:  sp,
		},
	}
}

// Warnf starts a warning diagnostic at the given span.
func Warnf(r Reporter, code Code, sp source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		r: r,
		d: Diagnostic{
			Severity: SevWarning,
			Code:     code,
			Message:  msg,
			Primary:  sp,
		},
	}
}

func (b *ReportBuilder) Note(sp source.Span, msg string) *ReportBuilder {
	b.d.Notes = append(b.d.Notes, Note{Span: sp, Msg: msg})
	return b
}

// Emit hands the diagnostic to the reporter.
// Returns false when the reporter dropped it.
func (b *ReportBuilder) Emit() bool {
	if b.r == nil {
		return false
	}
	return b.r.Report(b.d)
}
