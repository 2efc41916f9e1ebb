package reconcile

import "sort"

// Duplicates returns every position after the first occurrence of its key,
// ascending. Null keys count as one value, so the result has
// Len() minus the number of distinct key values (null included) entries.
func Duplicates(ix *KeyIndex) []int {
	dups := []int{}
	for _, key := range ix.Keys() {
		dups = append(dups, ix.Lookup(key)[1:]...)
	}
	if nulls := ix.Nulls(); len(nulls) > 1 {
		dups = append(dups, nulls[1:]...)
	}
	sort.Ints(dups)
	return dups
}
