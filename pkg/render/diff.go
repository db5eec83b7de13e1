package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
)

// Lines renders doc as one line per interval, suitable for diffing.
func Lines(doc *document.Document) string {
	var sb strings.Builder

	for _, it := range doc.Intervals {
		fmt.Fprintf(&sb, "[%v, %v)", it.Begin, it.End)

		if fields := FormatFields(it.Fields); fields != "" {
			sb.WriteString(" " + fields)
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}

// Diff returns a line diff between two documents. Removed lines start with
// "-", added lines with "+" and unchanged lines with a space.
func Diff(before, after *document.Document, useColor bool) string {
	dmp := diffmatchpatch.New()

	src, dst, lines := dmp.DiffLinesToRunes(Lines(before), Lines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	if !useColor {
		added.DisableColor()
		removed.DisableColor()
	}

	var sb strings.Builder

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			switch d.Type {
			case diffmatchpatch.DiffInsert:
				sb.WriteString(added.Sprint("+ " + line))
			case diffmatchpatch.DiffDelete:
				sb.WriteString(removed.Sprint("- " + line))
			case diffmatchpatch.DiffEqual:
				sb.WriteString("  " + line)
			}
		}
	}

	return sb.String()
}
