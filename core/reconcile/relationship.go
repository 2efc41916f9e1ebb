package reconcile

// Classify derives the relationship from each side's own key uniqueness.
// It does not look at whether the sides overlap; see ClassifyMatched for the
// relationship restricted to keys present on both sides.
// The result is RelationshipNone when either side has no non-null key.
func Classify(left, right *KeyIndex) Relationship {
	if left.Distinct() == 0 || right.Distinct() == 0 {
		return RelationshipNone
	}
	return fromUniqueness(left.IsUnique(), right.IsUnique())
}

// ClassifyMatched derives the relationship among matched records only.
// A side counts as unique when no shared key repeats on it.
func ClassifyMatched(left, right *KeyIndex) Relationship {
	leftUnique, rightUnique := true, true
	overlap := false
	for _, key := range left.Keys() {
		rb := right.Lookup(key)
		if len(rb) == 0 {
			continue
		}
		overlap = true
		if len(left.Lookup(key)) > 1 {
			leftUnique = false
		}
		if len(rb) > 1 {
			rightUnique = false
		}
	}
	if !overlap {
		return RelationshipNone
	}
	return fromUniqueness(leftUnique, rightUnique)
}

// Validate reports whether the relationship between the indices is expected.
func Validate(left, right *KeyIndex, expected Relationship) bool {
	return Classify(left, right) == expected
}

func fromUniqueness(leftUnique, rightUnique bool) Relationship {
	switch {
	case leftUnique && rightUnique:
		return OneToOne
	case leftUnique:
		return OneToMany
	case rightUnique:
		return ManyToOne
	default:
		return ManyToMany
	}
}
