package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/monitoring"
	"github.com/banshee-data/centerout/internal/security"
	"github.com/banshee-data/centerout/internal/trajectory"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// AssetsHost is where the rendered page loads the echarts scripts from.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HTMLReport renders a page with the mean path efficiency of every session
// as bars, a scatter of the per-trial values, and one bar chart of the
// t-statistics of the comparisons when there are any. Sessions without
// finite trials get an empty bar.
func HTMLReport(w io.Writer, reports []*analysis.SessionReport, comparisons []*analysis.ComparisonReport) error {
	ids := make([]string, len(reports))
	means := make([]opts.BarData, len(reports))
	stds := make([]opts.BarData, len(reports))
	points := make([]opts.ScatterData, 0)

	for i, rep := range reports {
		ids[i] = rep.SessionID
		if trajectory.IsFinite(rep.Efficiency.Mean) {
			means[i] = opts.BarData{Value: round2(rep.Efficiency.Mean)}
			stds[i] = opts.BarData{Value: round2(rep.Efficiency.Std)}
		} else {
			means[i] = opts.BarData{Value: 0}
			stds[i] = opts.BarData{Value: 0}
		}
		for k, m := range rep.Efficiency.Trials {
			if !trajectory.IsFinite(m.Efficiency) {
				continue
			}
			points = append(points, opts.ScatterData{
				Name:  fmt.Sprintf("%s #%d", rep.SessionID, k),
				Value: []interface{}{i, round2(m.Efficiency)},
			})
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Path Efficiency", Width: "100%", Height: "480px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Mean Path Efficiency", Subtitle: fmt.Sprintf("sessions=%d", len(reports))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Path Efficiency (%)", Min: 0, Max: 100}),
	)
	bar.SetXAxis(ids).
		AddSeries("mean", means, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})).
		AddSeries("std", stds)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Per-trial Path Efficiency", Subtitle: fmt.Sprintf("trials=%d", len(points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: ids}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Path Efficiency (%)", Min: 0, Max: 100}),
	)
	scatter.AddSeries("trials", points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	page := components.NewPage()
	page.SetPageTitle("Path Efficiency Report")
	page.SetAssetsHost(AssetsHost)
	page.AddCharts(bar, scatter)

	if len(comparisons) > 0 {
		names := make([]string, len(comparisons))
		tstats := make([]opts.BarData, len(comparisons))
		for i, c := range comparisons {
			names[i] = strings.TrimSpace(c.A.SessionID + " / " + c.B.SessionID + " " + trajectory.StarString(c.Result.PValue))
			t := c.Result.TStatistic
			if !trajectory.IsFinite(t) {
				t = 0
			}
			tstats[i] = opts.BarData{
				Name:  EfficiencyCaption(c),
				Value: round2(t),
			}
		}
		cmpBar := charts.NewBar()
		cmpBar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px", AssetsHost: AssetsHost}),
			charts.WithTitleOpts(opts.Title{Title: "Session Comparisons", Subtitle: "t statistic, stars mark p < 0.05"}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		)
		cmpBar.SetXAxis(names).AddSeries("t", tstats,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
		page.AddCharts(cmpBar)
	}

	return page.Render(w)
}

// HTMLReportFile is the name of the batch report page.
const HTMLReportFile = "path_efficiency_report.html"

// WriteHTMLReport renders HTMLReport into HTMLReportFile under dir and
// returns its path.
func WriteHTMLReport(fsys fsutil.FileSystem, dir string, reports []*analysis.SessionReport, comparisons []*analysis.ComparisonReport) (string, error) {
	path, err := security.OutputPath(dir, HTMLReportFile)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := HTMLReport(&buf, reports, comparisons); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	monitoring.Logf("[report] wrote %s", path)
	return path, nil
}
