// Package report renders analysed sessions as figures, an HTML page and a
// terminal summary.
package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/monitoring"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Formats lists the figure file extensions that can be written.
var Formats = []string{"pdf", "png", "svg"}

// FormatOf returns the figure format implied by path's extension.
func FormatOf(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range Formats {
		if ext == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported figure format %q for %s", ext, path)
}

// circleXYs approximates a circle as a closed polyline in data coordinates.
func circleXYs(cx, cy, r float64, n int) plotter.XYs {
	pts := make(plotter.XYs, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i].X = cx + r*math.Cos(a)
		pts[i].Y = cy + r*math.Sin(a)
	}
	return pts
}

// withAlpha returns opaque colour c with alpha a.
func withAlpha(c color.Color, a float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA64{
		R: uint16(r),
		G: uint16(g),
		B: uint16(b),
		A: uint16(a * 0xffff),
	}
}

// saveGrid draws a grid of plots onto one canvas and writes it to path in
// fsys, creating the parent directory.
func saveGrid(fsys fsutil.FileSystem, path string, plots [][]*plot.Plot, w, h vg.Length) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	rows := len(plots)
	if rows == 0 {
		return fmt.Errorf("no plots to save")
	}
	cols := len(plots[0])

	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return err
	}
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: 2 * vg.Millimeter, PadBottom: 2 * vg.Millimeter,
		PadLeft: 2 * vg.Millimeter, PadRight: 2 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create figure directory: %w", err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	monitoring.Logf("[report] wrote %s", path)
	return nil
}
