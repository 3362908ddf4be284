package session

import (
	"testing"

	"github.com/banshee-data/centerout/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFourPanelLayout(t *testing.T) {
	t.Parallel()

	l := FourPanelLayout()
	require.NoError(t, l.Validate())
	assert.Equal(t, 4, l.Panels())

	// Opposite targets share a panel.
	pairs := [][2]int{
		{task.TargetLeft, task.TargetRight},
		{task.TargetUp, task.TargetDown},
		{task.TargetUpLeft, task.TargetDownRight},
		{task.TargetDownLeft, task.TargetUpRight},
	}
	for want, pair := range pairs {
		for _, code := range pair {
			idx, _ := task.DenseIndex(code)
			p, ok := l.PanelFor(task.Trial{Target: code, Index: idx})
			require.True(t, ok)
			assert.Equal(t, want, p, "code %d", code)
		}
	}

	assert.Equal(t, ColorCyan, l.ColorFor(task.Trial{Target: task.TargetUpLeft, Index: 4}))
	assert.Equal(t, 0.39, l.Diameter(0.39))
}

func TestEightPanelLayout(t *testing.T) {
	t.Parallel()

	l := EightPanelLayout()
	require.NoError(t, l.Validate())
	assert.Equal(t, 8, l.Panels())
	assert.Equal(t, 0.4, l.Diameter(0.39))

	for i := 0; i < task.NumTargets; i++ {
		p, ok := l.PanelFor(task.Trial{Index: i})
		require.True(t, ok)
		assert.Equal(t, i, p)
	}
}

func TestLayout_UnknownTarget(t *testing.T) {
	t.Parallel()

	l := FourPanelLayout()
	_, ok := l.PanelFor(task.Trial{Target: 4, Index: -1})
	assert.False(t, ok)
	assert.Equal(t, ColorGray, l.ColorFor(task.Trial{Index: -1}))
}

func TestLayout_Validate(t *testing.T) {
	t.Parallel()

	l := FourPanelLayout()
	l.Panel[3] = 9
	assert.Error(t, l.Validate())

	l = FourPanelLayout()
	l.Color[0] = nil
	assert.Error(t, l.Validate())

	l = FourPanelLayout()
	l.Rows = 0
	assert.Error(t, l.Validate())
}

func TestLayoutByName(t *testing.T) {
	t.Parallel()

	l, err := LayoutByName("eight-panel")
	require.NoError(t, err)
	assert.Equal(t, "eight-panel", l.Name)

	l, err = LayoutByName("")
	require.NoError(t, err)
	assert.Equal(t, "four-panel", l.Name)

	_, err = LayoutByName("sixteen")
	assert.Error(t, err)

	assert.Equal(t, "eight-panel", LayoutForStrategy(task.StrategyCenterTransition).Name)
	assert.Equal(t, "four-panel", LayoutForStrategy(task.StrategyChangeIndex).Name)
}
