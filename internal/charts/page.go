// Package charts renders the dashboard as a single HTML page of ECharts
// charts.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// Page and chart titles.
const (
	PageTitle       = "DoseCheck Dashboard"
	FrequencyTitle  = "Street drugs checked"
	TimeSeriesTitle = "Time Series Data"
	SitesTitle      = "Testing Site"
)

// AssetsHost serves the ECharts JavaScript referenced by rendered pages.
const AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

const (
	chartWidth  = "960px"
	chartHeight = "480px"
)

// RenderPage writes the dashboard page: a bar chart of category counts, a
// line chart of the quarterly sums and a pie chart of the testing sites.
func RenderPage(w io.Writer, dash *domain.Dashboard) error {
	page := components.NewPage()
	page.PageTitle = PageTitle
	page.AssetsHost = AssetsHost
	page.AddCharts(
		FrequencyChart(dash),
		TimeSeriesChart(dash),
		SitesChart(dash),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard page: %w", err)
	}
	return nil
}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle:  PageTitle,
		Width:      chartWidth,
		Height:     chartHeight,
		AssetsHost: AssetsHost,
	})
}

// FrequencyChart plots the number of positive records per category, in the
// grouping's declared order.
func FrequencyChart(dash *domain.Dashboard) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: FrequencyTitle, Subtitle: subtitle(dash)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"}}),
	)

	names := make([]string, len(dash.Frequencies))
	data := make([]opts.BarData, len(dash.Frequencies))
	for i, f := range dash.Frequencies {
		names[i] = f.Category
		data[i] = opts.BarData{Name: f.Category, Value: f.Count}
	}
	bar.SetXAxis(names).AddSeries("Records", data)
	return bar
}

// TimeSeriesChart plots one line per category over the quarterly buckets,
// labelled by bucket end date.
func TimeSeriesChart(dash *domain.Dashboard) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: TimeSeriesTitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	line.SetXAxis(dash.BucketLabels())
	for _, c := range dash.Categories {
		series := dash.SeriesFor(c)
		data := make([]opts.LineData, len(series))
		for i, n := range series {
			data[i] = opts.LineData{Value: n}
		}
		line.AddSeries(c, data)
	}
	return line
}

// SitesChart plots the share of records per testing site.
func SitesChart(dash *domain.Dashboard) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: SitesTitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.PieData, len(dash.Sites))
	for i, s := range dash.Sites {
		data[i] = opts.PieData{Name: s.Site, Value: s.Count}
	}
	pie.AddSeries("Sites", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

func subtitle(dash *domain.Dashboard) string {
	if dash.LoadedAt.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d records, loaded %s", dash.Report.RowsOut, dash.LoadedAt.Format("2006-01-02 15:04 MST"))
}
