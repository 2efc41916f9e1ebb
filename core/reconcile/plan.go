package reconcile

import (
	"fmt"
	"sort"

	"recon-manager/core/dataset"
)

// ActionType is the kind of change that turns a left record into right records.
type ActionType string

const (
	// ActionKeep carries a left record to exactly one right record.
	ActionKeep ActionType = "keep"
	// ActionExpand carries a left record to several right records.
	ActionExpand ActionType = "expand"
	// ActionDrop removes a left record that has no counterpart.
	ActionDrop ActionType = "drop"
	// ActionInsert adds a right record that has no counterpart.
	ActionInsert ActionType = "insert"
)

// Action is one step of a Plan.
type Action struct {
	// Type specifies the action.
	Type ActionType `json:"type"`

	// Left is the left position, or NoPosition for inserts.
	Left int `json:"left"`

	// Targets are the right positions produced by this action.
	Targets []int `json:"targets"`

	// Reason explains the action.
	Reason string `json:"reason"`

	// Record stores the right record for inserts.
	Record dataset.Record `json:"-"`
}

// Plan is the delta that reconstructs the right dataset from the left one.
type Plan struct {
	// Actions are ordered: left positions first, then inserts.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Keep counts left records mapped to one right record.
	Keep int `json:"keep"`
	// Expand counts left records mapped to several right records.
	Expand int `json:"expand"`
	// Drop counts left-only records.
	Drop int `json:"drop"`
	// Insert counts right-only records.
	Insert int `json:"insert"`
	// Collapsed counts right records reached from more than one left record.
	Collapsed int `json:"collapsed"`
}

// BuildPlan derives the delta from a left index map and the right-only partition.
func BuildPlan(leftMap IndexMap, result *MatchResult, right *dataset.Dataset) *Plan {
	plan := &Plan{Actions: make([]Action, 0, len(leftMap.Entries)+len(result.RightOnly))}
	reached := make(map[int]int)

	for _, e := range leftMap.Entries {
		switch len(e.Targets) {
		case 0:
			plan.Actions = append(plan.Actions, Action{
				Type:    ActionDrop,
				Left:    e.Position,
				Targets: []int{},
				Reason:  "no matching key on the right",
			})
			plan.Summary.Drop++
		case 1:
			plan.Actions = append(plan.Actions, Action{
				Type:    ActionKeep,
				Left:    e.Position,
				Targets: e.Targets,
				Reason:  "single match",
			})
			plan.Summary.Keep++
		default:
			plan.Actions = append(plan.Actions, Action{
				Type:    ActionExpand,
				Left:    e.Position,
				Targets: e.Targets,
				Reason:  fmt.Sprintf("key repeats %d times on the right", len(e.Targets)),
			})
			plan.Summary.Expand++
		}
		for _, t := range e.Targets {
			reached[t]++
		}
	}

	for _, c := range reached {
		if c > 1 {
			plan.Summary.Collapsed++
		}
	}

	for _, p := range result.RightOnly {
		plan.Actions = append(plan.Actions, Action{
			Type:    ActionInsert,
			Left:    NoPosition,
			Targets: []int{p.Right},
			Reason:  "no matching key on the left",
			Record:  right.Record(p.Right),
		})
		plan.Summary.Insert++
	}

	return plan
}

// ApplyPlan replays the plan over the left dataset.
// The result holds one record per reconstructed right position, ordered by
// position; the first left record reaching a target wins.
func ApplyPlan(left *dataset.Dataset, plan *Plan) []Reconstructed {
	seen := make(map[int]struct{})
	out := []Reconstructed{}

	for _, a := range plan.Actions {
		for _, t := range a.Targets {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}

			rec := Reconstructed{Target: t, Source: a.Left, Record: a.Record}
			if a.Type != ActionInsert {
				rec.Record = left.Record(a.Left)
			}
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Target < out[j].Target
	})
	return out
}
