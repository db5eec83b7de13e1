package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/linseg/pkg/edit"
)

// Printer writes short colored status lines.
type Printer struct {
	w      io.Writer
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
	detail *color.Color
}

// NewPrinter creates a Printer. Color is disabled when useColor is false.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		w:      w,
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
		detail: color.New(color.FgCyan),
	}

	if !useColor {
		for _, c := range []*color.Color{p.ok, p.warn, p.fail, p.detail} {
			c.DisableColor()
		}
	}

	return p
}

// Result summarizes an edit result.
func (p *Printer) Result(op string, res *edit.Result) {
	p.ok.Fprintf(p.w, "%s: %d intervals, length %v\n", op, len(res.Document.Intervals), res.Document.Length())

	if res.Removed > 0 {
		p.detail.Fprintf(p.w, "  removed: %d\n", res.Removed)
	}

	p.detail.Fprintf(p.w, "  selected: %d\n", res.Selected)

	if res.Clamped {
		p.warn.Fprintf(p.w, "  edge clamped: requested position was out of reach\n")
	}
}

// Valid reports a document that passed validation.
func (p *Printer) Valid(label string, intervals int) {
	p.ok.Fprintf(p.w, "%s is valid (%d intervals)\n", label, intervals)
}

// Error reports a failure.
func (p *Printer) Error(err error) {
	p.fail.Fprintf(p.w, "Error: %v\n", err)
}

// Hint prints an indented suggestion.
func (p *Printer) Hint(format string, args ...any) {
	p.detail.Fprintf(p.w, "  - %s\n", fmt.Sprintf(format, args...))
}
