package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
)

const (
	plotWidth    = "1200px"
	plotHeight   = "320px"
	plotStack    = "sequence"
	plotCategory = "sequence"
)

// Plot writes an HTML page with the document drawn as one stacked
// horizontal bar, one segment per interval.
func Plot(w io.Writer, doc *document.Document, title string) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: plotWidth, Height: plotHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d intervals, total length %v", len(doc.Intervals), doc.Length()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "position", Min: 0, Max: doc.Length()}),
	)

	bar.SetXAxis([]string{plotCategory})

	for i, it := range doc.Intervals {
		bar.AddSeries(Label(it, i), []opts.BarData{{
			Name:  FormatFields(it.Fields),
			Value: it.End - it.Begin,
		}}, charts.WithBarChartOpts(opts.BarChart{Stack: plotStack}))
	}

	bar.XYReversal()

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}
