// Package report summarizes a reconciliation for people and logs.
package report

import (
	"errors"
	"fmt"
	"io"

	"recon-manager/core/reconcile"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// ErrRelationshipMismatch is returned by Check when the observed relationship differs.
var ErrRelationshipMismatch = errors.New("relationship mismatch")

// Side describes one dataset of a run.
type Side struct {
	Name       string `json:"name"`
	Key        string `json:"key"`
	Records    int    `json:"records"`
	Matched    int    `json:"matched"`
	Only       int    `json:"only"`
	Duplicates int    `json:"duplicates"`
}

// Summary is the outcome of a reconciliation run.
type Summary struct {
	Left  Side `json:"left"`
	Right Side `json:"right"`
	// Pairs is the number of matched combinations.
	Pairs int `json:"pairs"`
	// Relationship is inferred from the whole key columns.
	Relationship reconcile.Relationship `json:"relationship"`
	// MatchedRelationship is inferred from matched keys only.
	MatchedRelationship reconcile.Relationship `json:"matched_relationship"`
	// Plan counts the actions that turn left into right.
	Plan reconcile.PlanSummary `json:"plan"`
}

// Summarize collects the summary of an engine.
func Summarize(e *reconcile.Engine) Summary {
	c := e.Counts()
	opts := e.Options()
	return Summary{
		Left: Side{
			Name:       e.Dataset(reconcile.Left).Name(),
			Key:        opts.LeftOn,
			Records:    c.Left,
			Matched:    c.LeftMatched,
			Only:       c.LeftOnly,
			Duplicates: c.LeftDuplicates,
		},
		Right: Side{
			Name:       e.Dataset(reconcile.Right).Name(),
			Key:        opts.RightOn,
			Records:    c.Right,
			Matched:    c.RightMatched,
			Only:       c.RightOnly,
			Duplicates: c.RightDuplicates,
		},
		Pairs:               c.Pairs,
		Relationship:        e.Relationship(),
		MatchedRelationship: e.MatchedRelationship(),
		Plan:                e.Plan().Summary,
	}
}

// Check compares the relationship with an expected one.
func (s Summary) Check(expected reconcile.Relationship) error {
	if s.Relationship != expected {
		return fmt.Errorf("%w: expected %s, found %s", ErrRelationshipMismatch, expected, s.Relationship)
	}
	return nil
}

// Render prints the summary as text. Colour follows color.NoColor.
func (s Summary) Render(w io.Writer) error {
	title := color.New(color.Bold)
	_, err := fmt.Fprintf(w, "%s\n", title.Sprintf("Reconciliation: %s[%s] vs %s[%s]", s.Left.Name, s.Left.Key, s.Right.Name, s.Right.Key))
	if err != nil {
		return err
	}

	for _, side := range []struct {
		label string
		side  Side
	}{{"left", s.Left}, {"right", s.Right}} {
		_, err := fmt.Fprintf(w, "  %-6s records %d  matched %s  only %s  duplicates %s\n",
			side.label,
			side.side.Records,
			color.GreenString("%d", side.side.Matched),
			countString(side.side.Only),
			countString(side.side.Duplicates),
		)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "  pairs %d  relationship %s  matched relationship %s\n",
		s.Pairs, color.CyanString("%s", s.Relationship), color.CyanString("%s", s.MatchedRelationship))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "  plan keep %d  expand %d  drop %d  insert %d  collapsed %d\n",
		s.Plan.Keep, s.Plan.Expand, s.Plan.Drop, s.Plan.Insert, s.Plan.Collapsed)
	return err
}

// countString highlights non-zero mismatch counts.
func countString(n int) string {
	if n == 0 {
		return color.GreenString("%d", n)
	}
	return color.YellowString("%d", n)
}

// Log writes the summary as one structured entry.
func (s Summary) Log(l *zap.Logger) {
	l.Info("Reconciliation completed",
		zap.String("left", s.Left.Name),
		zap.String("right", s.Right.Name),
		zap.Int("left_records", s.Left.Records),
		zap.Int("left_only", s.Left.Only),
		zap.Int("left_duplicates", s.Left.Duplicates),
		zap.Int("right_records", s.Right.Records),
		zap.Int("right_only", s.Right.Only),
		zap.Int("right_duplicates", s.Right.Duplicates),
		zap.Int("pairs", s.Pairs),
		zap.String("relationship", s.Relationship.String()),
		zap.String("matched_relationship", s.MatchedRelationship.String()),
	)
}
