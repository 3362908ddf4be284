package report

import (
	"fmt"
	"strings"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/security"
	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/task"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	circleSegments = 64
	patchAlpha     = 0.4
	frameAlpha     = 0.3
	panelSize      = 3 * vg.Inch
)

// TrajectoryFileName is "<session><suffix>.<ext>".
func TrajectoryFileName(sessionID string, label session.CopilotLabel, ext string) string {
	return sessionID + label.FileSuffix + "." + strings.TrimPrefix(ext, ".")
}

// TrajectoryTitle is the figure title: session, copilot label and target
// diameter.
func TrajectoryTitle(sessionID string, label session.CopilotLabel, diameter float64) string {
	return strings.Join(strings.Fields(fmt.Sprintf("%s %s target dia %g", sessionID, label.Title, diameter)), " ")
}

// TrajectoryFigure builds one plot per layout panel, in row-major order.
// Each panel holds the cursor paths of the targets assigned to it, their
// target circles, the start circle at the origin and the unit frame.
// Trials whose target is outside the layout are not drawn.
func TrajectoryFigure(rep *analysis.SessionReport, layout *session.Layout, label session.CopilotLabel) ([][]*plot.Plot, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	diameter := layout.Diameter(rep.Metadata.TargetDiameter)

	panels := make([]*plot.Plot, layout.Panels())
	codes := make([][]int, layout.Panels())
	for i := range panels {
		p := plot.New()
		p.HideAxes()
		p.X.Min, p.X.Max = -layout.Extent, layout.Extent
		p.Y.Min, p.Y.Max = -layout.Extent, layout.Extent
		panels[i] = p
	}

	// Patches first so the paths draw over them.
	for idx := 0; idx < task.NumTargets; idx++ {
		panel := layout.Panel[idx]
		pos := rep.Metadata.TargetPositions[idx]
		target, err := plotter.NewPolygon(circleXYs(pos.X, pos.Y, diameter/2, circleSegments))
		if err != nil {
			return nil, err
		}
		target.Color = withAlpha(layout.Color[idx], patchAlpha)
		target.LineStyle.Width = 0
		panels[panel].Add(target)

		if code, ok := task.RawCode(idx); ok {
			codes[panel] = append(codes[panel], code)
		}
	}
	for _, p := range panels {
		cursor, err := plotter.NewPolygon(circleXYs(0, 0, layout.CursorRadius, circleSegments))
		if err != nil {
			return nil, err
		}
		cursor.Color = withAlpha(session.ColorGray, patchAlpha)
		cursor.LineStyle.Width = 0

		frame, err := plotter.NewLine(plotter.XYs{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}})
		if err != nil {
			return nil, err
		}
		frame.Color = withAlpha(session.ColorBlack, frameAlpha)
		p.Add(cursor, frame)
	}

	counts := task.CountByTarget(rep.Trials)
	for _, tr := range rep.Trials {
		panel, ok := layout.PanelFor(tr)
		if !ok {
			continue
		}
		pts := tr.Slice(rep.Table.DecodedPos)
		if len(pts) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("trial %d-%d: %w", tr.Start, tr.End, err)
		}
		line.Color = layout.ColorFor(tr)
		line.Width = vg.Points(0.75)
		panels[panel].Add(line)
	}

	for i, p := range panels {
		parts := make([]string, 0, len(codes[i]))
		for _, code := range codes[i] {
			parts = append(parts, fmt.Sprintf("%s (%d)", task.TargetName(code), counts[code]))
		}
		p.Title.Text = strings.Join(parts, ", ")
	}
	panels[0].Title.Text = TrajectoryTitle(rep.SessionID, label, diameter) + "\n" + panels[0].Title.Text

	grid := make([][]*plot.Plot, layout.Rows)
	for r := range grid {
		grid[r] = panels[r*layout.Cols : (r+1)*layout.Cols]
	}
	return grid, nil
}

// SaveTrajectoryFigure writes the panels of TrajectoryFigure to path. The
// format follows the extension.
func SaveTrajectoryFigure(fsys fsutil.FileSystem, path string, grid [][]*plot.Plot) error {
	if len(grid) == 0 {
		return fmt.Errorf("empty figure")
	}
	w := vg.Length(len(grid[0])) * panelSize
	h := vg.Length(len(grid))*panelSize + vg.Inch/2
	return saveGrid(fsys, path, grid, w, h)
}

// WriteTrajectoryFigures builds the trajectory figure of rep once and saves
// it under dir in every requested format. It returns the written paths.
func WriteTrajectoryFigures(fsys fsutil.FileSystem, dir string, rep *analysis.SessionReport, layout *session.Layout, policy session.CopilotPolicy, formats []string) ([]string, error) {
	label := rep.Copilot(policy)
	grid, err := TrajectoryFigure(rep, layout, label)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(formats))
	for _, ext := range formats {
		path, err := security.OutputPath(dir, TrajectoryFileName(rep.SessionID, label, ext))
		if err != nil {
			return paths, err
		}
		if err := SaveTrajectoryFigure(fsys, path, grid); err != nil {
			return paths, fmt.Errorf("save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
