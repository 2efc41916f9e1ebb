// Package reconcile matches two datasets on a key column and explains how they
// correspond.
//
// Reconciliation answers four questions about a left and a right dataset: which
// records correspond, which are unmatched, which are duplicated within a side,
// and which cardinality (1:1, 1:m, m:1, m:m) connects them. Original record
// positions are preserved throughout, so every output row can be traced back.
//
// # Architecture
//
// 1. KeyIndex: a hash multimap from normalized key to ascending positions, one
//    per side. Null keys live in a bucket that never matches.
//
// 2. Join: a full outer equi-join over two indices. Every matching combination
//    is materialized (left bucket x right bucket), so duplicates are never
//    collapsed. The result has three disjoint partitions: Both, LeftOnly,
//    RightOnly.
//
// 3. Classify / Duplicates: relationship and keep-first duplicates derived from
//    the same indices.
//
// 4. Views: named tables (left_only, right_only, left_duplicate,
//    right_duplicate, left_matched, right_matched, both, data_map, all) with
//    colliding column names disambiguated by suffixes.
//
// 5. IndexMap / Plan: per-position tracing to the other side and the delta
//    that rebuilds the right dataset from the left one. Engine.Verify checks
//    these laws against the engine's own result.
//
// 6. Cache: TTL cache with stampede protection for engines built from named
//    sources.
//
// # Performance
//
// Indexing is O(L+R) and the two sides are indexed concurrently. Expanding
// matches costs the sum over keys of |left bucket| x |right bucket|, which is
// quadratic when a key repeats heavily on both sides. Options.MaxPairs bounds
// the product and the expansion honours context cancellation.
//
// # Relationship caveat
//
// Classify looks at each side's key uniqueness in isolation, even when the
// sides do not overlap at all. ClassifyMatched restricts the classification to
// keys present on both sides.
//
// # Usage Example
//
//	opts := reconcile.DefaultOptions("id", "id")
//	engine, err := reconcile.New(ctx, left, right, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(engine.Relationship())
//	views, err := engine.Views(reconcile.ViewLeftOnly, reconcile.ViewBoth)
package reconcile
