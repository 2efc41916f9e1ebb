package reconcile

import "errors"

var (
	// ErrInvalidKeyAttribute is returned when the join key is not a column of a dataset.
	ErrInvalidKeyAttribute = errors.New("invalid key attribute")

	// ErrAmbiguousSuffix is returned when the configured suffixes cannot make
	// every merged column name unique.
	ErrAmbiguousSuffix = errors.New("ambiguous suffix")

	// ErrTypeMismatch is returned when a key value cannot be normalized to a
	// comparable representation.
	ErrTypeMismatch = errors.New("key type mismatch")

	// ErrTooManyMatches is returned when the cross product would exceed Options.MaxPairs.
	ErrTooManyMatches = errors.New("too many matches")

	// ErrReconstruction is returned by Verify when a reconciliation law does not hold.
	ErrReconstruction = errors.New("reconstruction failed")

	// ErrUnknownView is returned when a view name is not one of ViewNames.
	ErrUnknownView = errors.New("unknown view")

	// ErrUnknownRelationship is returned by ParseRelationship.
	ErrUnknownRelationship = errors.New("unknown relationship")
)
