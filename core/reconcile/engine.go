package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recon-manager/core/dataset"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine reconciles two immutable datasets.
// Indices and the match result are computed once in New; views and index maps
// are computed on first request and memoized. An Engine is safe for concurrent
// use. A refreshed reconciliation needs a new Engine.
type Engine struct {
	left  *dataset.Dataset
	right *dataset.Dataset
	opts  Options
	log   *zap.Logger

	leftIndex  *KeyIndex
	rightIndex *KeyIndex
	result     *MatchResult

	mu     sync.Mutex
	views  map[string]*View
	maps   map[Side]*IndexMap
	dups   map[Side][]int
	layout *mergedLayout
	plan   *Plan
}

// New indexes both datasets concurrently and joins them.
func New(ctx context.Context, left, right *dataset.Dataset, opts Options) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine{
		left:  left,
		right: right,
		opts:  opts,
		log:   log,
		views: make(map[string]*View),
		maps:  make(map[Side]*IndexMap),
		dups:  make(map[Side][]int),
	}

	start := time.Now()

	// 1. Build both key indices in parallel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		e.leftIndex, err = BuildIndex(gctx, left, opts.LeftOn)
		if err != nil {
			return fmt.Errorf("left: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		e.rightIndex, err = BuildIndex(gctx, right, opts.RightOn)
		if err != nil {
			return fmt.Errorf("right: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug("Key indices built",
		zap.String("left", left.Name()),
		zap.Int("left_keys", e.leftIndex.Distinct()),
		zap.String("right", right.Name()),
		zap.Int("right_keys", e.rightIndex.Distinct()),
	)

	// 2. Full outer join
	result, err := Join(ctx, e.leftIndex, e.rightIndex, opts.MaxPairs)
	if err != nil {
		return nil, err
	}
	e.result = result

	log.Debug("Join complete",
		zap.Int("both", len(result.Both)),
		zap.Int("left_only", len(result.LeftOnly)),
		zap.Int("right_only", len(result.RightOnly)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return e, nil
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Dataset returns the dataset of one side.
func (e *Engine) Dataset(side Side) *dataset.Dataset {
	if side == Right {
		return e.right
	}
	return e.left
}

// Index returns the key index of one side.
func (e *Engine) Index(side Side) *KeyIndex {
	if side == Right {
		return e.rightIndex
	}
	return e.leftIndex
}

// Result returns the match result. It must not be modified.
func (e *Engine) Result() *MatchResult {
	return e.result
}

// Relationship classifies the datasets by per-side key uniqueness.
func (e *Engine) Relationship() Relationship {
	return Classify(e.leftIndex, e.rightIndex)
}

// MatchedRelationship classifies the matched records only.
func (e *Engine) MatchedRelationship() Relationship {
	return ClassifyMatched(e.leftIndex, e.rightIndex)
}

// Validate reports whether the datasets have the expected relationship.
func (e *Engine) Validate(expected Relationship) bool {
	return Validate(e.leftIndex, e.rightIndex, expected)
}

// Duplicates returns the keep-first duplicate positions of one side.
func (e *Engine) Duplicates(side Side) []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if d, ok := e.dups[side]; ok {
		return d
	}
	d := Duplicates(e.Index(side))
	e.dups[side] = d
	return d
}

// IndexMap returns the memoized index map of one side.
func (e *Engine) IndexMap(side Side) IndexMap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexMapLocked(side)
}

func (e *Engine) indexMapLocked(side Side) IndexMap {
	if m, ok := e.maps[side]; ok {
		return *m
	}
	m := BuildIndexMap(e.result, side, e.Dataset(side).Len())
	e.maps[side] = &m
	return m
}

// Matched returns the distinct positions of one side that have a match, ascending.
func (e *Engine) Matched(side Side) []int {
	return e.IndexMap(side).Matched()
}

// Only returns the unmatched positions of one side, in dataset order.
func (e *Engine) Only(side Side) []int {
	pairs := e.result.Only(side)
	out := make([]int, len(pairs))
	for i, p := range pairs {
		out[i] = p.Get(side)
	}
	return out
}

// Plan returns the delta that turns the left dataset into the right one.
func (e *Engine) Plan() *Plan {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.plan == nil {
		e.plan = BuildPlan(e.indexMapLocked(Left), e.result, e.right)
	}
	return e.plan
}

// Counts returns the raw numbers behind a summary.
func (e *Engine) Counts() Counts {
	return Counts{
		Left:            e.left.Len(),
		LeftMatched:     len(e.Matched(Left)),
		LeftOnly:        len(e.result.LeftOnly),
		LeftDuplicates:  len(e.Duplicates(Left)),
		Right:           e.right.Len(),
		RightMatched:    len(e.Matched(Right)),
		RightOnly:       len(e.result.RightOnly),
		RightDuplicates: len(e.Duplicates(Right)),
		Pairs:           len(e.result.Both),
	}
}

// View returns a named view, building it on first request.
func (e *Engine) View(name string) (*View, error) {
	// Duplicates and index maps take the lock themselves
	var positions []int
	switch name {
	case ViewLeftDuplicate:
		positions = e.Duplicates(Left)
	case ViewRightDuplicate:
		positions = e.Duplicates(Right)
	case ViewLeftMatched:
		positions = e.Matched(Left)
	case ViewRightMatched:
		positions = e.Matched(Right)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if v, ok := e.views[name]; ok {
		return v, nil
	}

	var v *View
	switch name {
	case ViewLeftOnly:
		v = sideView(name, e.left, Left, e.Only(Left))
	case ViewRightOnly:
		v = sideView(name, e.right, Right, e.Only(Right))
	case ViewLeftDuplicate, ViewLeftMatched:
		v = sideView(name, e.left, Left, positions)
	case ViewRightDuplicate, ViewRightMatched:
		v = sideView(name, e.right, Right, positions)
	case ViewDataMap:
		v = dataMapView(e.indexMapLocked(Left))
	case ViewBoth, ViewAll:
		layout, err := e.layoutLocked()
		if err != nil {
			return nil, err
		}
		if name == ViewBoth {
			v = mergedView(name, layout, e.left, e.right, e.result.Both)
			break
		}
		v, err = allView(layout, e.left, e.right, e.result)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}

	e.views[name] = v
	return v, nil
}

// Views returns the named views in order. No names means every view.
func (e *Engine) Views(names ...string) ([]*View, error) {
	if len(names) == 0 {
		names = ViewNames
	}
	out := make([]*View, 0, len(names))
	for _, name := range names {
		v, err := e.View(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Engine) layoutLocked() (*mergedLayout, error) {
	if e.layout != nil {
		return e.layout, nil
	}
	layout, err := mergeColumns(e.left, e.right, e.opts)
	if err != nil {
		return nil, err
	}
	e.layout = layout
	return layout, nil
}
