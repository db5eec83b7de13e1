// Package render formats sequence documents and edit results for terminals
// and browsers.
package render

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

const selectedMarker = "▶"

// Document writes doc in the given format. selected marks a row in table
// output; pass -1 for none.
func Document(w io.Writer, doc *document.Document, format string, selected int) error {
	switch format {
	case FormatTable:
		_, err := io.WriteString(w, Table(doc, selected)+"\n")
		if err != nil {
			return fmt.Errorf("write table: %w", err)
		}

		return nil
	case FormatJSON:
		return document.Write(w, document.NewJSONCodec(), doc)
	case FormatYAML:
		return document.Write(w, document.NewYAMLCodec(), doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Table renders doc as a text table with one row per interval.
func Table(doc *document.Document, selected int) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"", "#", "Begin", "End", "Length", "Fields"})

	for i, it := range doc.Intervals {
		marker := ""
		if i == selected {
			marker = selectedMarker
		}

		tbl.AppendRow(table.Row{
			marker,
			i,
			humanize.Commaf(it.Begin),
			humanize.Commaf(it.End),
			humanize.Commaf(it.End - it.Begin),
			FormatFields(it.Fields),
		})
	}

	tbl.AppendFooter(table.Row{
		"", "", "", "", humanize.Commaf(doc.Length()),
		fmt.Sprintf("%d intervals", len(doc.Intervals)),
	})

	return tbl.Render()
}

// FormatFields renders payload fields as sorted key=value pairs.
func FormatFields(fields document.Fields) string {
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, fmt.Sprintf("%s=%v", key, fields[key]))
	}

	return strings.Join(parts, " ")
}

// Label names an interval for charts and diffs: its "name" field when
// present, otherwise its position.
func Label(it document.Item, index int) string {
	if name, ok := it.Fields["name"]; ok {
		return fmt.Sprint(name)
	}

	return fmt.Sprintf("#%d", index)
}
