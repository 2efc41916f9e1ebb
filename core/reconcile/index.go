package reconcile

import (
	"context"
	"fmt"

	"recon-manager/core/dataset"
)

// checkEvery is how many rows are processed between context checks.
const checkEvery = 4096

// KeyIndex maps each key value of one dataset to the ordered positions holding it.
// Null keys are kept in a separate bucket that never matches.
type KeyIndex struct {
	dataset *dataset.Dataset
	attr    string

	// keys lists non-null key values in first-seen order.
	keys    []string
	buckets map[string][]int
	nulls   []int

	// keyAt and validAt hold the normalized key of every position.
	keyAt   []string
	validAt []bool
}

// BuildIndex indexes a dataset by one of its columns.
// Positions are appended in order, so every bucket is ascending.
func BuildIndex(ctx context.Context, ds *dataset.Dataset, attr string) (*KeyIndex, error) {
	col, ok := ds.ColumnIndex(attr)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a column of %s", ErrInvalidKeyAttribute, attr, ds.Name())
	}

	n := ds.Len()
	ix := &KeyIndex{
		dataset: ds,
		attr:    attr,
		buckets: make(map[string][]int),
		keyAt:   make([]string, n),
		validAt: make([]bool, n),
	}

	for pos := 0; pos < n; pos++ {
		if pos%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		key, valid, err := dataset.NormalizeKey(ds.Record(pos)[col])
		if err != nil {
			return nil, fmt.Errorf("%w: %s position %d: %w", ErrTypeMismatch, ds.Name(), pos, err)
		}
		if !valid {
			ix.nulls = append(ix.nulls, pos)
			continue
		}

		bucket, seen := ix.buckets[key]
		if !seen {
			ix.keys = append(ix.keys, key)
		}
		ix.buckets[key] = append(bucket, pos)
		ix.keyAt[pos] = key
		ix.validAt[pos] = true
	}

	return ix, nil
}

// Dataset returns the indexed dataset.
func (ix *KeyIndex) Dataset() *dataset.Dataset {
	return ix.dataset
}

// Attr returns the key column name.
func (ix *KeyIndex) Attr() string {
	return ix.attr
}

// Len returns the number of indexed positions, nulls included.
func (ix *KeyIndex) Len() int {
	return len(ix.keyAt)
}

// Keys returns the non-null key values in first-seen order.
func (ix *KeyIndex) Keys() []string {
	return ix.keys
}

// Distinct returns the number of distinct non-null keys.
func (ix *KeyIndex) Distinct() int {
	return len(ix.keys)
}

// Lookup returns the positions holding key, ascending.
func (ix *KeyIndex) Lookup(key string) []int {
	return ix.buckets[key]
}

// Contains reports whether key is present.
func (ix *KeyIndex) Contains(key string) bool {
	_, ok := ix.buckets[key]
	return ok
}

// Nulls returns the positions whose key is null, ascending.
func (ix *KeyIndex) Nulls() []int {
	return ix.nulls
}

// KeyAt returns the normalized key at pos; ok is false for null keys.
func (ix *KeyIndex) KeyAt(pos int) (key string, ok bool) {
	return ix.keyAt[pos], ix.validAt[pos]
}

// IsUnique reports whether no bucket, the null bucket included, holds more
// than one position.
func (ix *KeyIndex) IsUnique() bool {
	if len(ix.nulls) > 1 {
		return false
	}
	for _, key := range ix.keys {
		if len(ix.buckets[key]) > 1 {
			return false
		}
	}
	return true
}
