package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseIndex_Bijective(t *testing.T) {
	t.Parallel()

	seen := make(map[int]int)
	for _, code := range TargetCodes {
		idx, ok := DenseIndex(code)
		require.True(t, ok, "code %d", code)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, NumTargets)

		if prev, dup := seen[idx]; dup {
			t.Fatalf("codes %d and %d share dense index %d", prev, code, idx)
		}
		seen[idx] = code

		raw, ok := RawCode(idx)
		require.True(t, ok)
		assert.Equal(t, code, raw)
	}
	assert.Len(t, seen, NumTargets)
}

func TestDenseIndex_MatchesAlternateRule(t *testing.T) {
	t.Parallel()

	for _, code := range TargetCodes {
		idx, _ := DenseIndex(code)
		assert.Equal(t, idx, AlternateDenseIndex(code), "code %d", code)
	}
}

func TestDenseIndex_Unknown(t *testing.T) {
	t.Parallel()

	for _, code := range []int{4, 9, -1, CenterHold} {
		_, ok := DenseIndex(code)
		assert.False(t, ok, "code %d", code)
	}
	_, ok := RawCode(NumTargets)
	assert.False(t, ok)
	_, ok = RawCode(-1)
	assert.False(t, ok)
}

func TestNewTargetIndex_Rejects(t *testing.T) {
	t.Parallel()

	_, err := NewTargetIndex([]int{0, 1, 1})
	assert.Error(t, err)

	_, err = NewTargetIndex([]int{0, CenterHold})
	assert.Error(t, err)

	ti, err := NewTargetIndex([]int{10, 20})
	require.NoError(t, err)
	assert.Equal(t, 2, ti.Len())
	idx, ok := ti.Dense(20)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestTargetName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Left", TargetName(TargetLeft))
	assert.Equal(t, "DownRight", TargetName(TargetDownRight))
	assert.Equal(t, "Center", TargetName(CenterHold))
	assert.Equal(t, "Target4", TargetName(4))
}
