package reconcile

import (
	"fmt"

	"recon-manager/core/dataset"
)

// Verify checks the reconciliation laws on the engine's own result:
//   - every position of a side is either matched or only, never both
//   - every matched pair shares an equal non-null key
//   - no unmatched position has a key present on the other side
//   - applying each side's index map reproduces the other side's matched subset
//   - applying the plan to the left dataset reproduces the whole right dataset
//
// The first violation is returned wrapped in ErrReconstruction.
func (e *Engine) Verify() error {
	for _, side := range []Side{Left, Right} {
		if err := e.verifyPartition(side); err != nil {
			return err
		}
	}

	for _, p := range e.result.Both {
		lk, lok := e.leftIndex.KeyAt(p.Left)
		rk, rok := e.rightIndex.KeyAt(p.Right)
		if !lok || !rok || lk != rk {
			return fmt.Errorf("%w: pair (%d, %d) keys %q/%q differ", ErrReconstruction, p.Left, p.Right, lk, rk)
		}
	}

	for _, side := range []Side{Left, Right} {
		own, other := e.Index(side), e.Index(side.Other())
		for _, pos := range e.Only(side) {
			if key, ok := own.KeyAt(pos); ok && other.Contains(key) {
				return fmt.Errorf("%w: %s position %d is unmatched but key %q exists on the %s", ErrReconstruction, side, pos, key, side.Other())
			}
		}
	}

	for _, side := range []Side{Left, Right} {
		rebuilt := ApplyIndexMap(e.Dataset(side), e.IndexMap(side))
		if err := e.verifyRebuilt(side, rebuilt, e.Matched(side.Other())); err != nil {
			return err
		}
	}

	all := make([]int, e.right.Len())
	for i := range all {
		all[i] = i
	}
	return e.verifyRebuilt(Left, ApplyPlan(e.left, e.Plan()), all)
}

func (e *Engine) verifyPartition(side Side) error {
	n := e.Dataset(side).Len()
	seen := make([]int, n)
	for _, pos := range e.Matched(side) {
		seen[pos]++
	}
	for _, pos := range e.Only(side) {
		seen[pos]++
	}
	for pos, c := range seen {
		if c != 1 {
			return fmt.Errorf("%w: %s position %d appears in %d partitions", ErrReconstruction, side, pos, c)
		}
	}
	return nil
}

// verifyRebuilt compares records carried from side onto the other side with
// the expected target positions. Records must land on exactly the expected
// positions and carry an equal key. Inserted records are taken from the other
// side itself and are compared by key only.
func (e *Engine) verifyRebuilt(side Side, rebuilt []Reconstructed, want []int) error {
	target := side.Other()
	if len(rebuilt) != len(want) {
		return fmt.Errorf("%w: rebuilt %d %s records, want %d", ErrReconstruction, len(rebuilt), target, len(want))
	}

	srcCol, _ := e.Dataset(side).ColumnIndex(e.opts.KeyOn(side))
	dstCol, _ := e.Dataset(target).ColumnIndex(e.opts.KeyOn(target))
	for i, r := range rebuilt {
		if r.Target != want[i] {
			return fmt.Errorf("%w: rebuilt %s position %d, want %d", ErrReconstruction, target, r.Target, want[i])
		}

		col := srcCol
		if r.Source == NoPosition {
			col = dstCol
		}
		got, _, err := dataset.NormalizeKey(r.Record[col])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReconstruction, err)
		}
		expected, _ := e.Index(target).KeyAt(r.Target)
		if got != expected {
			return fmt.Errorf("%w: %s position %d rebuilt with key %q, want %q", ErrReconstruction, target, r.Target, got, expected)
		}
	}
	return nil
}
