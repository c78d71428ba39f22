package diag

import "flexir/internal/source"

// Reporter receives finished diagnostics.
type Reporter interface {
	Report(d *Diagnostic)
}

// ReporterFunc adapts a plain function.
type ReporterFunc func(d *Diagnostic)

func (f ReporterFunc) Report(d *Diagnostic) {
	if f != nil {
		f(d)
	}
}

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(nil)

// BagReporter appends to Bag; a nil Bag discards.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d *Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// Pending is a diagnostic under construction. Emit hands it over at most once.
type Pending struct {
	to Reporter
	d  *Diagnostic
}

func newPending(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Pending {
	return &Pending{to: r, d: &Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary}}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return newPending(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return newPending(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return newPending(r, SevInfo, code, primary, msg)
}

func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	if p != nil && p.d != nil {
		p.d.Notes = append(p.d.Notes, Note{Span: sp, Msg: msg})
	}
	return p
}

func (p *Pending) Emit() {
	if p == nil || p.d == nil {
		return
	}
	d := p.d
	p.d = nil
	if p.to != nil {
		p.to.Report(d)
	}
}
