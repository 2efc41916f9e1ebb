package reconcile

import (
	"context"
	"math/rand"
	"testing"

	"recon-manager/core/dataset"

	"github.com/stretchr/testify/require"
)

// series builds a single-column dataset named "value", like a labelled list.
func series(t *testing.T, name string, values ...any) *dataset.Dataset {
	t.Helper()
	rows := make([][]any, len(values))
	for i, v := range values {
		rows[i] = []any{v}
	}
	ds, err := dataset.New(name, []string{"value"}, rows)
	require.NoError(t, err)
	return ds
}

// table builds a dataset from columns and rows.
func table(t *testing.T, name string, columns []string, rows ...[]any) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(name, columns, rows)
	require.NoError(t, err)
	return ds
}

func newEngine(t *testing.T, left, right *dataset.Dataset) *Engine {
	t.Helper()
	e, err := New(context.Background(), left, right, DefaultOptions("value", "value"))
	require.NoError(t, err)
	return e
}

func index(t *testing.T, ds *dataset.Dataset) *KeyIndex {
	t.Helper()
	ix, err := BuildIndex(context.Background(), ds, "value")
	require.NoError(t, err)
	return ix
}

// randomSeries draws n keys from a small domain so duplicates and nulls are common.
func randomSeries(t *testing.T, rng *rand.Rand, name string, n, domain int) *dataset.Dataset {
	t.Helper()
	values := make([]any, n)
	for i := range values {
		k := rng.Intn(domain + 1)
		if k == domain {
			values[i] = nil
			continue
		}
		values[i] = k
	}
	return series(t, name, values...)
}

func pairs(ps ...[2]int) []Pair {
	out := make([]Pair, len(ps))
	for i, p := range ps {
		out[i] = Pair{Left: p[0], Right: p[1]}
	}
	return out
}
