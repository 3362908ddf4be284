package session

import (
	"fmt"
	"image/color"

	"github.com/banshee-data/centerout/internal/task"
)

// Named colours used by the trajectory figures.
var (
	ColorRed     = color.RGBA{R: 255, A: 255}
	ColorBlue    = color.RGBA{B: 255, A: 255}
	ColorGreen   = color.RGBA{G: 128, A: 255}
	ColorBlack   = color.RGBA{A: 255}
	ColorCyan    = color.RGBA{G: 191, B: 191, A: 255}
	ColorMagenta = color.RGBA{R: 191, B: 191, A: 255}
	ColorYellow  = color.RGBA{R: 191, G: 191, A: 255}
	ColorOrange  = color.RGBA{R: 255, G: 165, A: 255}
	ColorGray    = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Layout assigns each target, by dense index, to a figure panel and a
// colour. It is passed explicitly to the reporting code.
type Layout struct {
	Name string
	Rows int
	Cols int
	// Panel maps a dense target index to the panel its trajectories and
	// target circle are drawn in.
	Panel [task.NumTargets]int
	// Color maps a dense target index to its trajectory and circle colour.
	Color [task.NumTargets]color.Color
	// Extent is the half-width of each panel's axes.
	Extent float64
	// CursorRadius is the radius of the start circle drawn at the origin.
	CursorRadius float64
	// TargetDiameter overrides the descriptor's diameter when non-zero.
	TargetDiameter float64
}

// Panels returns the number of panels.
func (l *Layout) Panels() int {
	return l.Rows * l.Cols
}

// PanelFor returns the panel of a trial, or false when its target index is
// outside the layout.
func (l *Layout) PanelFor(tr task.Trial) (int, bool) {
	if tr.Index < 0 || tr.Index >= len(l.Panel) {
		return 0, false
	}
	return l.Panel[tr.Index], true
}

// ColorFor returns the colour of a trial's trajectory.
func (l *Layout) ColorFor(tr task.Trial) color.Color {
	if tr.Index < 0 || tr.Index >= len(l.Color) {
		return ColorGray
	}
	return l.Color[tr.Index]
}

// Diameter returns the target diameter to draw given the descriptor's value.
func (l *Layout) Diameter(fromMetadata float64) float64 {
	if l.TargetDiameter > 0 {
		return l.TargetDiameter
	}
	return fromMetadata
}

// Validate checks that every target maps to an existing panel and has a
// colour.
func (l *Layout) Validate() error {
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("layout %q: rows and cols must be positive", l.Name)
	}
	for i, p := range l.Panel {
		if p < 0 || p >= l.Panels() {
			return fmt.Errorf("layout %q: target %d maps to panel %d of %d", l.Name, i, p, l.Panels())
		}
		if l.Color[i] == nil {
			return fmt.Errorf("layout %q: target %d has no colour", l.Name, i)
		}
	}
	if l.Extent <= 0 {
		return fmt.Errorf("layout %q: extent must be positive", l.Name)
	}
	return nil
}

// FourPanelLayout groups opposite targets into four panels: left/right,
// up/down, up-left/down-right and down-left/up-right.
func FourPanelLayout() *Layout {
	return &Layout{
		Name: "four-panel",
		Rows: 1,
		Cols: 4,
		//      L  R  U  D  UL DL UR DR
		Panel: [task.NumTargets]int{0, 0, 1, 1, 2, 3, 3, 2},
		Color: [task.NumTargets]color.Color{
			ColorRed, ColorBlue, ColorGreen, ColorBlack,
			ColorCyan, ColorMagenta, ColorYellow, ColorOrange,
		},
		Extent:       1.1,
		CursorRadius: 0.05,
	}
}

// EightPanelLayout gives every target its own panel in a 2x4 grid, with a
// fixed 0.4 target diameter.
func EightPanelLayout() *Layout {
	return &Layout{
		Name:  "eight-panel",
		Rows:  2,
		Cols:  4,
		Panel: [task.NumTargets]int{0, 1, 2, 3, 4, 5, 6, 7},
		Color: [task.NumTargets]color.Color{
			ColorRed, ColorGreen, ColorBlue, ColorMagenta,
			ColorCyan, ColorYellow, ColorBlack, ColorOrange,
		},
		Extent:         1.1,
		CursorRadius:   0.05,
		TargetDiameter: 0.4,
	}
}

// LayoutByName returns a layout by its configuration name.
func LayoutByName(name string) (*Layout, error) {
	switch name {
	case "", "four-panel":
		return FourPanelLayout(), nil
	case "eight-panel":
		return EightPanelLayout(), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}

// LayoutForStrategy returns the layout each segmentation strategy's
// figures were drawn with.
func LayoutForStrategy(s task.Strategy) *Layout {
	if s == task.StrategyCenterTransition {
		return EightPanelLayout()
	}
	return FourPanelLayout()
}
