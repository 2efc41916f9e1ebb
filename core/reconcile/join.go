package reconcile

import (
	"context"
	"fmt"
)

// Join performs a full outer equi-join of two key indices.
//
// For every non-null key present on both sides the left bucket is crossed with
// the right bucket, so 1:m, m:1 and m:m multiplicities are materialized rather
// than collapsed. Both is ordered by left position, then right position.
// Positions whose key is null or absent on the other side go to the matching
// *Only partition in dataset order.
//
// Expansion costs the sum over keys of |left bucket| x |right bucket|, which is
// quadratic when a key repeats heavily on both sides. maxPairs > 0 rejects such
// joins up front with ErrTooManyMatches, and ctx is checked while expanding.
func Join(ctx context.Context, left, right *KeyIndex, maxPairs int) (*MatchResult, error) {
	// Size the product before materializing it
	total := 0
	for _, key := range left.Keys() {
		if rb := right.Lookup(key); len(rb) > 0 {
			total += len(left.Lookup(key)) * len(rb)
		}
	}
	if maxPairs > 0 && total > maxPairs {
		return nil, fmt.Errorf("%w: %d pairs exceed limit of %d", ErrTooManyMatches, total, maxPairs)
	}

	result := &MatchResult{
		Both:      make([]Pair, 0, total),
		LeftOnly:  []Pair{},
		RightOnly: []Pair{},
	}

	// Probe right with every left position in order
	emitted := 0
	for pos := 0; pos < left.Len(); pos++ {
		key, ok := left.KeyAt(pos)
		var targets []int
		if ok {
			targets = right.Lookup(key)
		}
		if len(targets) == 0 {
			result.LeftOnly = append(result.LeftOnly, Pair{Left: pos, Right: NoPosition})
			continue
		}
		for _, rpos := range targets {
			result.Both = append(result.Both, Pair{Left: pos, Right: rpos})
		}

		emitted += len(targets)
		if emitted >= checkEvery {
			emitted = 0
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	// Right positions whose key never appears on the left
	for pos := 0; pos < right.Len(); pos++ {
		key, ok := right.KeyAt(pos)
		if ok && left.Contains(key) {
			continue
		}
		result.RightOnly = append(result.RightOnly, Pair{Left: NoPosition, Right: pos})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
