package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"recon-manager/core/dataset"
)

// View names. They are stable and used as sheet names by the writers.
const (
	ViewLeftOnly       = "left_only"
	ViewRightOnly      = "right_only"
	ViewLeftMatched    = "left_matched"
	ViewRightMatched   = "right_matched"
	ViewLeftDuplicate  = "left_duplicate"
	ViewRightDuplicate = "right_duplicate"
	ViewBoth           = "both"
	ViewDataMap        = "data_map"
	ViewAll            = "all"
)

// ViewNames lists every view in output order.
var ViewNames = []string{
	ViewLeftOnly,
	ViewRightOnly,
	ViewLeftDuplicate,
	ViewRightDuplicate,
	ViewLeftMatched,
	ViewRightMatched,
	ViewBoth,
	ViewDataMap,
	ViewAll,
}

// MergeColumn is the indicator column of the all view.
const MergeColumn = "_merge"

// Indicator values of MergeColumn.
const (
	MergeBoth      = "both"
	MergeLeftOnly  = "left_only"
	MergeRightOnly = "right_only"
)

// Index column names written in front of view columns.
const (
	LeftIndexColumn  = "left_index"
	RightIndexColumn = "right_index"
)

// Row is one view row together with the positions it was derived from.
type Row struct {
	// Left is the left position, or NoPosition.
	Left int `json:"left"`
	// Right is the right position, or NoPosition.
	Right int `json:"right"`
	// Values are aligned with View.Columns.
	Values []any `json:"values"`
}

// View is a named, read-only table derived from a match result.
type View struct {
	// Name is one of ViewNames.
	Name string `json:"name"`
	// Columns are the data column names.
	Columns []string `json:"columns"`
	// Rows are the table rows.
	Rows []Row `json:"rows"`

	sides []Side
}

// Len returns the number of rows.
func (v *View) Len() int {
	return len(v.Rows)
}

// Header returns the index columns followed by the data columns.
func (v *View) Header() []string {
	header := make([]string, 0, len(v.sides)+len(v.Columns))
	for _, s := range v.sides {
		if s == Left {
			header = append(header, LeftIndexColumn)
		} else {
			header = append(header, RightIndexColumn)
		}
	}
	return append(header, v.Columns...)
}

// Cells returns row i laid out like Header. Absent positions are nil.
func (v *View) Cells(i int) []any {
	row := v.Rows[i]
	cells := make([]any, 0, len(v.sides)+len(row.Values))
	for _, s := range v.sides {
		pos := row.Left
		if s == Right {
			pos = row.Right
		}
		if pos == NoPosition {
			cells = append(cells, nil)
		} else {
			cells = append(cells, pos)
		}
	}
	return append(cells, row.Values...)
}

// sideView projects records of one dataset by position.
func sideView(name string, ds *dataset.Dataset, side Side, positions []int) *View {
	v := &View{
		Name:    name,
		Columns: ds.Columns(),
		Rows:    make([]Row, 0, len(positions)),
		sides:   []Side{side},
	}
	for _, pos := range positions {
		row := Row{Left: NoPosition, Right: NoPosition, Values: ds.Record(pos)}
		if side == Left {
			row.Left = pos
		} else {
			row.Right = pos
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// columnSource says where a merged column reads its value from.
type columnSource struct {
	side Side
	col  int
	// key marks the shared key column, read from whichever side is present.
	key bool
}

// mergedLayout is the column layout of the both and all views.
type mergedLayout struct {
	names    []string
	sources  []columnSource
	rightKey int
}

// mergeColumns lays out left columns then right columns, suffixing names that
// occur on both sides. A key column with the same name on both sides is
// emitted once, unsuffixed.
func mergeColumns(left, right *dataset.Dataset, opts Options) (*mergedLayout, error) {
	sharedKey := opts.LeftOn == opts.RightOn
	rightKey, _ := right.ColumnIndex(opts.RightOn)
	layout := &mergedLayout{rightKey: rightKey}

	for i, name := range left.Columns() {
		switch {
		case sharedKey && name == opts.LeftOn:
			layout.add(name, columnSource{side: Left, col: i, key: true})
		case right.HasColumn(name):
			layout.add(name+opts.LeftSuffix, columnSource{side: Left, col: i})
		default:
			layout.add(name, columnSource{side: Left, col: i})
		}
	}

	for i, name := range right.Columns() {
		switch {
		case sharedKey && name == opts.RightOn:
			continue
		case left.HasColumn(name):
			layout.add(name+opts.RightSuffix, columnSource{side: Right, col: i})
		default:
			layout.add(name, columnSource{side: Right, col: i})
		}
	}

	if dups := duplicateNames(layout.names); len(dups) > 0 {
		return nil, fmt.Errorf("%w: suffixes %q/%q leave duplicate columns %s",
			ErrAmbiguousSuffix, opts.LeftSuffix, opts.RightSuffix, strings.Join(dups, ", "))
	}
	return layout, nil
}

func (l *mergedLayout) add(name string, src columnSource) {
	l.names = append(l.names, name)
	l.sources = append(l.sources, src)
}

// values builds one merged row. Missing sides yield nil cells.
func (l *mergedLayout) values(left, right *dataset.Dataset, p Pair) []any {
	out := make([]any, len(l.sources))
	for i, src := range l.sources {
		switch {
		case src.key && p.Left != NoPosition:
			out[i] = left.Record(p.Left)[src.col]
		case src.key:
			out[i] = right.Record(p.Right)[l.rightKey]
		case src.side == Left && p.Left != NoPosition:
			out[i] = left.Record(p.Left)[src.col]
		case src.side == Right && p.Right != NoPosition:
			out[i] = right.Record(p.Right)[src.col]
		}
	}
	return out
}

func duplicateNames(names []string) []string {
	seen := make(map[string]int, len(names))
	for _, n := range names {
		seen[n]++
	}
	var dups []string
	for n, c := range seen {
		if c > 1 {
			dups = append(dups, n)
		}
	}
	sort.Strings(dups)
	return dups
}

// mergedView builds the both view.
func mergedView(name string, layout *mergedLayout, left, right *dataset.Dataset, pairs []Pair) *View {
	v := &View{
		Name:    name,
		Columns: append([]string(nil), layout.names...),
		Rows:    make([]Row, 0, len(pairs)),
		sides:   []Side{Left, Right},
	}
	for _, p := range pairs {
		v.Rows = append(v.Rows, Row{Left: p.Left, Right: p.Right, Values: layout.values(left, right, p)})
	}
	return v
}

// allView builds the full outer table with an indicator column.
func allView(layout *mergedLayout, left, right *dataset.Dataset, result *MatchResult) (*View, error) {
	for _, n := range layout.names {
		if n == MergeColumn {
			return nil, fmt.Errorf("%w: column %q collides with the merge indicator", ErrAmbiguousSuffix, MergeColumn)
		}
	}

	v := mergedView(ViewAll, layout, left, right, result.Both)
	v.Columns = append(v.Columns, MergeColumn)
	for i := range v.Rows {
		v.Rows[i].Values = append(v.Rows[i].Values, MergeBoth)
	}

	for _, p := range result.LeftOnly {
		values := append(layout.values(left, right, p), MergeLeftOnly)
		v.Rows = append(v.Rows, Row{Left: p.Left, Right: NoPosition, Values: values})
	}
	for _, p := range result.RightOnly {
		values := append(layout.values(left, right, p), MergeRightOnly)
		v.Rows = append(v.Rows, Row{Left: NoPosition, Right: p.Right, Values: values})
	}
	return v, nil
}

// dataMapView renders the left index map as a two-column table.
func dataMapView(m IndexMap) *View {
	v := &View{
		Name:    ViewDataMap,
		Columns: []string{LeftIndexColumn, "right_indexes"},
		Rows:    make([]Row, 0, len(m.Entries)),
	}
	for _, e := range m.Entries {
		v.Rows = append(v.Rows, Row{
			Left:   e.Position,
			Right:  NoPosition,
			Values: []any{e.Position, e.Targets},
		})
	}
	return v
}
