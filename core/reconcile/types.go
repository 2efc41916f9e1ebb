package reconcile

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Relationship is the cardinality class connecting the two datasets.
type Relationship string

const (
	// RelationshipNone means the relationship was not computed or there is nothing to relate.
	RelationshipNone Relationship = "none"
	// OneToOne means both sides have unique keys.
	OneToOne Relationship = "1:1"
	// OneToMany means left keys are unique and right keys repeat.
	OneToMany Relationship = "1:m"
	// ManyToOne means left keys repeat and right keys are unique.
	ManyToOne Relationship = "m:1"
	// ManyToMany means keys repeat on both sides.
	ManyToMany Relationship = "m:m"
)

// String returns the short label ("1:1", "1:m", ...).
func (r Relationship) String() string {
	return string(r)
}

// Swap returns the relationship seen from the other side.
func (r Relationship) Swap() Relationship {
	switch r {
	case OneToMany:
		return ManyToOne
	case ManyToOne:
		return OneToMany
	default:
		return r
	}
}

// ParseRelationship accepts the short labels as well as names like "one_to_many".
func ParseRelationship(s string) (Relationship, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "1:1", "one_to_one":
		return OneToOne, nil
	case "1:m", "one_to_many":
		return OneToMany, nil
	case "m:1", "many_to_one":
		return ManyToOne, nil
	case "m:m", "many_to_many":
		return ManyToMany, nil
	case "none", "":
		return RelationshipNone, nil
	}
	return RelationshipNone, fmt.Errorf("%w: %q", ErrUnknownRelationship, s)
}

// Side selects the left or the right dataset.
type Side int

const (
	// Left is the first dataset.
	Left Side = iota
	// Right is the second dataset.
	Right
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Right {
		return Left
	}
	return Right
}

// NoPosition marks the absent counterpart of an unmatched record.
const NoPosition = -1

// Pair links a left position to a right position.
// Either field is NoPosition when that side has no counterpart.
type Pair struct {
	// Left is the position in the left dataset.
	Left int `json:"left"`
	// Right is the position in the right dataset.
	Right int `json:"right"`
}

// Get returns the position for one side.
func (p Pair) Get(side Side) int {
	if side == Right {
		return p.Right
	}
	return p.Left
}

// MatchResult is the outcome of a full outer equi-join.
// The three partitions are disjoint and together cover every position of both
// datasets; positions may repeat inside Both when keys are duplicated.
type MatchResult struct {
	// Both holds one pair per matching combination, ordered by left then right position.
	Both []Pair `json:"both"`
	// LeftOnly holds left positions without a counterpart, in dataset order.
	LeftOnly []Pair `json:"left_only"`
	// RightOnly holds right positions without a counterpart, in dataset order.
	RightOnly []Pair `json:"right_only"`
}

// Only returns the unmatched partition for one side.
func (m *MatchResult) Only(side Side) []Pair {
	if side == Right {
		return m.RightOnly
	}
	return m.LeftOnly
}

// Options configures an Engine.
type Options struct {
	// LeftOn is the key column of the left dataset.
	LeftOn string
	// RightOn is the key column of the right dataset.
	RightOn string
	// LeftSuffix disambiguates colliding left column names in merged views.
	LeftSuffix string
	// RightSuffix disambiguates colliding right column names in merged views.
	RightSuffix string
	// MaxPairs caps the number of matched pairs. Zero means unlimited.
	MaxPairs int
	// Logger receives debug output. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns options with the default "_left"/"_right" suffixes.
func DefaultOptions(leftOn, rightOn string) Options {
	return Options{
		LeftOn:      leftOn,
		RightOn:     rightOn,
		LeftSuffix:  DefaultLeftSuffix,
		RightSuffix: DefaultRightSuffix,
	}
}

// Default suffixes for merged views.
const (
	DefaultLeftSuffix  = "_left"
	DefaultRightSuffix = "_right"
)

// KeyOn returns the key column for one side.
func (o Options) KeyOn(side Side) string {
	if side == Right {
		return o.RightOn
	}
	return o.LeftOn
}

// Counts are the raw numbers a summary is rendered from.
type Counts struct {
	// Left is the number of left records.
	Left int `json:"left"`
	// LeftMatched is the number of distinct left records with at least one match.
	LeftMatched int `json:"left_matched"`
	// LeftOnly is the number of left records without a match.
	LeftOnly int `json:"left_only"`
	// LeftDuplicates is the number of left records repeating an earlier key.
	LeftDuplicates int `json:"left_duplicates"`
	// Right is the number of right records.
	Right int `json:"right"`
	// RightMatched is the number of distinct right records with at least one match.
	RightMatched int `json:"right_matched"`
	// RightOnly is the number of right records without a match.
	RightOnly int `json:"right_only"`
	// RightDuplicates is the number of right records repeating an earlier key.
	RightDuplicates int `json:"right_duplicates"`
	// Pairs is the number of matched combinations (rows of the both view).
	Pairs int `json:"pairs"`
}
