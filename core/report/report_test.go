package report

import (
	"bytes"
	"context"
	"testing"

	"recon-manager/core/dataset"
	"recon-manager/core/reconcile"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testEngine(t *testing.T) *reconcile.Engine {
	t.Helper()
	left, err := dataset.New("left", []string{"id", "name"}, [][]any{{1, "a"}, {2, "b"}, {2, "b2"}})
	require.NoError(t, err)
	right, err := dataset.New("right", []string{"id", "name"}, [][]any{{2, "B"}, {3, "C"}})
	require.NoError(t, err)

	e, err := reconcile.New(context.Background(), left, right, reconcile.DefaultOptions("id", "id"))
	require.NoError(t, err)
	return e
}

func TestSummarize(t *testing.T) {
	s := Summarize(testEngine(t))

	assert.Equal(t, Side{Name: "left", Key: "id", Records: 3, Matched: 2, Only: 1, Duplicates: 1}, s.Left)
	assert.Equal(t, Side{Name: "right", Key: "id", Records: 2, Matched: 1, Only: 1, Duplicates: 0}, s.Right)
	assert.Equal(t, 2, s.Pairs)
	assert.Equal(t, reconcile.ManyToOne, s.Relationship)
	assert.Equal(t, reconcile.ManyToOne, s.MatchedRelationship)
	assert.Equal(t, reconcile.PlanSummary{Keep: 2, Drop: 1, Insert: 1, Collapsed: 1}, s.Plan)
}

func TestSummary_Check(t *testing.T) {
	s := Summarize(testEngine(t))

	assert.NoError(t, s.Check(reconcile.ManyToOne))
	err := s.Check(reconcile.OneToOne)
	assert.ErrorIs(t, err, ErrRelationshipMismatch)
	assert.ErrorContains(t, err, "expected 1:1, found m:1")
}

func TestSummary_Render(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	require.NoError(t, Summarize(testEngine(t)).Render(&buf))

	want := "Reconciliation: left[id] vs right[id]\n" +
		"  left   records 3  matched 2  only 1  duplicates 1\n" +
		"  right  records 2  matched 1  only 1  duplicates 0\n" +
		"  pairs 2  relationship m:1  matched relationship m:1\n" +
		"  plan keep 2  expand 0  drop 1  insert 1  collapsed 1\n"
	assert.Equal(t, want, buf.String())
}

func TestSummary_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Summarize(testEngine(t)).Log(zap.New(core))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Reconciliation completed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, int64(2), fields["pairs"])
	assert.Equal(t, "m:1", fields["relationship"])
}
