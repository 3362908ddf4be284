package report

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/security"
	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/trajectory"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bar positions and labels of the two-session figure. The first session
// is the one without assistance.
var (
	efficiencyX      = [2]float64{0.5, 0.8}
	efficiencyLabels = [2]string{"Without copilot", "With copilot"}
	efficiencyColors = [2]color.Color{session.ColorBlue, session.ColorRed}
)

const (
	efficiencyBarWidth = vg.Inch
	starsOffset        = 3.0
	figureSize         = 6 * vg.Inch
)

// EfficiencyFileName is "<sessionA>_2_Pathefficiency.<ext>".
func EfficiencyFileName(sessionA, ext string) string {
	return sessionA + "_2_Pathefficiency." + strings.TrimPrefix(ext, ".")
}

// EfficiencyFigure plots the mean path efficiency of both sessions as bars
// with population standard deviation error bars, every finite per-trial
// value as a point, and the significance stars above the second bar. The
// y axis is fixed to 0-100%.
func EfficiencyFigure(cmp *analysis.ComparisonReport) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Path Efficiency Comparison"
	p.Y.Label.Text = "Path Efficiency (%)"
	p.Legend.Top = true
	p.Legend.Left = true

	reports := [2]*analysis.SessionReport{cmp.A, cmp.B}
	colors := efficiencyColors
	ticks := make([]plot.Tick, 0, 2)

	for i, rep := range reports {
		x := efficiencyX[i]
		ticks = append(ticks, plot.Tick{Value: x, Label: efficiencyLabels[i]})
		mean, std := rep.Efficiency.Mean, rep.Efficiency.Std
		if !trajectory.IsFinite(mean) {
			// No finite trials: nothing to draw but the label.
			continue
		}

		bar, err := plotter.NewBarChart(plotter.Values{mean}, efficiencyBarWidth)
		if err != nil {
			return nil, err
		}
		bar.XMin = x
		bar.Color = colors[i]
		bar.LineStyle.Width = 0
		p.Add(bar)
		p.Legend.Add("Mean "+strings.ToLower(efficiencyLabels[i]), bar)

		finite, _ := trajectory.FiniteValues(rep.Efficiency.Values)
		pts := make(plotter.XYs, len(finite))
		for k, v := range finite {
			pts[k] = plotter.XY{X: x, Y: v}
		}
		if len(pts) > 0 {
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, err
			}
			sc.GlyphStyle.Color = withAlpha(session.ColorBlack, 0.5)
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			sc.GlyphStyle.Radius = vg.Points(3)
			p.Add(sc)
		}

		if trajectory.IsFinite(std) {
			eb, err := plotter.NewYErrorBars(struct {
				plotter.XYs
				plotter.YErrors
			}{
				XYs:     plotter.XYs{{X: x, Y: mean}},
				YErrors: plotter.YErrors{{Low: std, High: std}},
			})
			if err != nil {
				return nil, err
			}
			eb.LineStyle.Color = withAlpha(colors[i], 0.6)
			eb.LineStyle.Width = vg.Points(2)
			eb.CapWidth = vg.Points(10)
			p.Add(eb)
		}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	if stars := trajectory.StarString(cmp.Result.PValue); stars != "" && trajectory.IsFinite(cmp.B.Efficiency.Mean) {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: 0.75, Y: math.Min(cmp.B.Efficiency.Mean+starsOffset, 100)}},
			Labels: []string{stars},
		})
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	// Add widens the axes to fit the data; pin them afterwards.
	p.X.Min, p.X.Max = 0.2, 1.1
	p.Y.Min, p.Y.Max = 0, 100
	return p, nil
}

// SaveEfficiencyFigure writes the figure to path in the format implied by
// its extension.
func SaveEfficiencyFigure(fsys fsutil.FileSystem, path string, p *plot.Plot) error {
	if _, err := FormatOf(path); err != nil {
		return err
	}
	return saveGrid(fsys, path, [][]*plot.Plot{{p}}, figureSize, figureSize)
}

// WriteEfficiencyFigure saves the comparison figure under dir as
// "<sessionA>_2_Pathefficiency.<ext>" and returns the path.
func WriteEfficiencyFigure(fsys fsutil.FileSystem, dir string, cmp *analysis.ComparisonReport, ext string) (string, error) {
	p, err := EfficiencyFigure(cmp)
	if err != nil {
		return "", err
	}
	path, err := security.OutputPath(dir, EfficiencyFileName(cmp.A.SessionID, ext))
	if err != nil {
		return "", err
	}
	if err := SaveEfficiencyFigure(fsys, path, p); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// EfficiencyCaption is the one-line description of a comparison used in
// logs and the HTML report.
func EfficiencyCaption(cmp *analysis.ComparisonReport) string {
	return fmt.Sprintf("%s vs %s: t=%.3f p=%v %s",
		cmp.A.SessionID, cmp.B.SessionID, cmp.Result.TStatistic, cmp.Result.PValue,
		trajectory.StarString(cmp.Result.PValue))
}
