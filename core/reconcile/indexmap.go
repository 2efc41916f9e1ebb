package reconcile

import (
	"sort"

	"recon-manager/core/dataset"
)

// IndexEntry maps one position to the positions it matched on the other side.
type IndexEntry struct {
	// Position is the source position.
	Position int `json:"position"`
	// Targets are the matched other-side positions, ascending. Empty when unmatched.
	Targets []int `json:"targets"`
}

// IndexMap traces every record of one side to its counterparts.
type IndexMap struct {
	// Side is the source side.
	Side Side `json:"side"`
	// Entries holds one entry per source position, in position order.
	Entries []IndexEntry `json:"entries"`
}

// BuildIndexMap derives the index map of one side from a match result.
// size is the number of records on that side. Both is ordered by left then
// right position, so targets come out ascending on either side.
func BuildIndexMap(result *MatchResult, side Side, size int) IndexMap {
	targets := make([][]int, size)
	for _, p := range result.Both {
		src := p.Get(side)
		targets[src] = append(targets[src], p.Get(side.Other()))
	}

	m := IndexMap{Side: side, Entries: make([]IndexEntry, size)}
	for pos := range targets {
		t := targets[pos]
		if t == nil {
			t = []int{}
		}
		m.Entries[pos] = IndexEntry{Position: pos, Targets: t}
	}
	return m
}

// Lookup returns the targets of a source position.
func (m IndexMap) Lookup(pos int) []int {
	if pos < 0 || pos >= len(m.Entries) {
		return nil
	}
	return m.Entries[pos].Targets
}

// Matched returns the source positions with at least one target, ascending.
func (m IndexMap) Matched() []int {
	out := []int{}
	for _, e := range m.Entries {
		if len(e.Targets) > 0 {
			out = append(out, e.Position)
		}
	}
	return out
}

// Reconstructed is one record carried across the index map.
type Reconstructed struct {
	// Target is the position on the other side this record stands for.
	Target int `json:"target"`
	// Source is the position the record was taken from.
	Source int `json:"source"`
	// Record is the source record.
	Record dataset.Record `json:"record"`
}

// ApplyIndexMap replays the index map over the source dataset.
//
// Every target position is emitted once, carrying the first source record that
// reached it, so a source record matched several times is duplicated and
// several source records matching the same target collapse into one. The
// result is ordered by target position and covers exactly the matched subset
// of the other side.
func ApplyIndexMap(source *dataset.Dataset, m IndexMap) []Reconstructed {
	seen := make(map[int]struct{})
	out := []Reconstructed{}
	for _, e := range m.Entries {
		for _, target := range e.Targets {
			if _, dup := seen[target]; dup {
				continue
			}
			seen[target] = struct{}{}
			out = append(out, Reconstructed{
				Target: target,
				Source: e.Position,
				Record: source.Record(e.Position),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Target < out[j].Target
	})
	return out
}
