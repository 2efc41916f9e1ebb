// Package dataset defines the immutable record collections that are reconciled.
//
// A Dataset is an ordered sequence of records sharing one column list. Every
// record is identified by its position, the 0-based ordinal assigned when the
// dataset was loaded. Positions never change: a Dataset copies its inputs on
// construction and exposes no mutators.
//
// # Keys
//
// NormalizeKey turns a raw cell value into the canonical string used for
// equi-matching. Numbers, strings, booleans and timestamps are normalized to a
// comparable representation; blank strings, nil and NaN are null and never
// match anything. Structured values (maps, slices) are rejected with
// ErrUnsupportedKey.
//
// # Usage
//
//	ds, err := dataset.New("left.csv", []string{"id", "name"}, rows)
//	key, ok, err := ds.Key(0, "id")
package dataset
