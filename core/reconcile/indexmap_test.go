package reconcile

import (
	"testing"

	"recon-manager/core/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targetsOf(t *testing.T, m IndexMap) [][]int {
	t.Helper()
	out := make([][]int, len(m.Entries))
	for i, e := range m.Entries {
		require.Equal(t, i, e.Position)
		out[i] = e.Targets
	}
	return out
}

func TestBuildIndexMap(t *testing.T) {
	t.Run("Simple", func(t *testing.T) {
		e := newEngine(t, series(t, "left", 1, 2, 3), series(t, "right", 1, 3, 4))

		assert.Equal(t, [][]int{{0}, {}, {1}}, targetsOf(t, e.IndexMap(Left)))
		assert.Equal(t, [][]int{{0}, {2}, {}}, targetsOf(t, e.IndexMap(Right)))
	})

	t.Run("Duplicates", func(t *testing.T) {
		e := newEngine(t, series(t, "left", 1, 2, 3, 4, 4, 6), series(t, "right", 1, 3, 3, 4, 5))

		assert.Equal(t, [][]int{{0}, {}, {1, 2}, {3}, {3}, {}}, targetsOf(t, e.IndexMap(Left)))
		assert.Equal(t, [][]int{{0}, {2}, {2}, {3, 4}, {}}, targetsOf(t, e.IndexMap(Right)))
		assert.Equal(t, []int{0, 2, 3, 4}, e.IndexMap(Left).Matched())
		assert.Equal(t, []int{1, 2}, e.IndexMap(Left).Lookup(2))
		assert.Nil(t, e.IndexMap(Left).Lookup(99))
	})
}

func TestApplyIndexMap(t *testing.T) {
	left := series(t, "left", 1, 2, 3, 3)
	right := series(t, "right", 1, 3, 4, 1)
	e := newEngine(t, left, right)

	got := ApplyIndexMap(left, e.IndexMap(Left))

	assert.Equal(t, []Reconstructed{
		{Target: 0, Source: 0, Record: dataset.Record{1}},
		{Target: 1, Source: 2, Record: dataset.Record{3}},
		{Target: 3, Source: 0, Record: dataset.Record{1}},
	}, got)

	// Target values equal the right dataset's matched subset
	for _, r := range got {
		assert.Equal(t, right.Record(r.Target), r.Record)
	}
}

func TestApplyIndexMap_RebuildsMatchedSubset(t *testing.T) {
	left := series(t, "left", "a", "b", "b", "c")
	right := series(t, "right", "b", "c", "c", "d")
	e := newEngine(t, left, right)

	fromLeft := ApplyIndexMap(left, e.IndexMap(Left))
	fromRight := ApplyIndexMap(right, e.IndexMap(Right))

	var rightTargets, leftTargets []int
	for _, r := range fromLeft {
		rightTargets = append(rightTargets, r.Target)
	}
	for _, r := range fromRight {
		leftTargets = append(leftTargets, r.Target)
	}

	assert.Equal(t, e.Matched(Right), rightTargets)
	assert.Equal(t, e.Matched(Left), leftTargets)
}
