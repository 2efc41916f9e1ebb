package reconcile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		left  []any
		right []any
		want  Relationship
	}{
		{"OneToOne", []any{1, 2, 3}, []any{1, 3, 4}, OneToOne},
		{"OneToMany", []any{1, 2}, []any{1, 1, 2}, OneToMany},
		{"ManyToOne", []any{"x", "x"}, []any{"x"}, ManyToOne},
		{"ManyToMany", []any{1, 2, 3, 4, 4, 6}, []any{1, 3, 3, 4, 5}, ManyToMany},
		{"NoOverlapStillClassified", []any{1, 1}, []any{2, 3}, ManyToOne},
		{"RepeatedNullsNotUnique", []any{1, nil, nil}, []any{1}, ManyToOne},
		{"SingleNullUnique", []any{1, nil}, []any{1, 2}, OneToOne},
		{"EmptySide", []any{}, []any{1}, RelationshipNone},
		{"OnlyNulls", []any{nil}, []any{1}, RelationshipNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := index(t, series(t, "left", tt.left...))
			right := index(t, series(t, "right", tt.right...))

			assert.Equal(t, tt.want, Classify(left, right))
			assert.True(t, Validate(left, right, tt.want))
			assert.Equal(t, tt.want.Swap(), Classify(right, left))
		})
	}
}

func TestClassifyMatched(t *testing.T) {
	// Duplicates outside the overlap do not count
	left := index(t, series(t, "left", 1, 2, 2))
	right := index(t, series(t, "right", 1, 3, 3))

	assert.Equal(t, ManyToMany, Classify(left, right))
	assert.Equal(t, OneToOne, ClassifyMatched(left, right))

	disjoint := index(t, series(t, "right", 9))
	assert.Equal(t, RelationshipNone, ClassifyMatched(left, disjoint))
}

func TestClassify_ReorderInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 30; i++ {
		values := make([]any, rng.Intn(12)+1)
		for j := range values {
			values[j] = rng.Intn(10)
		}
		shuffled := append([]any(nil), values...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		other := index(t, series(t, "right", 1, 2, 2))
		require.Equal(t,
			Classify(index(t, series(t, "left", values...)), other),
			Classify(index(t, series(t, "left", shuffled...)), other),
		)
	}
}

func TestParseRelationship(t *testing.T) {
	tests := []struct {
		in   string
		want Relationship
	}{
		{"1:1", OneToOne},
		{"one_to_many", OneToMany},
		{"Many-To-One", ManyToOne},
		{"m:m", ManyToMany},
		{"", RelationshipNone},
	}
	for _, tt := range tests {
		got, err := ParseRelationship(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseRelationship("2:3")
	assert.ErrorIs(t, err, ErrUnknownRelationship)
}

func TestDuplicates(t *testing.T) {
	ix := index(t, series(t, "left", 1, 1, nil, nil, 2, 1, 3))
	assert.Equal(t, []int{1, 3, 5}, Duplicates(ix))

	assert.Empty(t, Duplicates(index(t, series(t, "left", 1, 2, 3))))
}

func TestDuplicates_CountLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 30; i++ {
		ix := index(t, randomSeries(t, rng, "left", rng.Intn(40), 6))

		distinct := ix.Distinct()
		if len(ix.Nulls()) > 0 {
			distinct++
		}
		assert.Len(t, Duplicates(ix), ix.Len()-distinct)
	}
}

func TestClassify_AgreesWithDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 30; i++ {
		left := index(t, randomSeries(t, rng, "left", rng.Intn(20)+1, 6))
		right := index(t, series(t, "right", 1))

		got := Classify(left, right)
		if left.Distinct() == 0 {
			assert.Equal(t, RelationshipNone, got)
			continue
		}
		if len(Duplicates(left)) > 0 {
			assert.Equal(t, ManyToOne, got)
		} else {
			assert.Equal(t, OneToOne, got)
		}
	}

	nulls := index(t, series(t, "left", 1, nil, nil))
	assert.Equal(t, []int{2}, Duplicates(nulls))
	assert.False(t, nulls.IsUnique())
}
