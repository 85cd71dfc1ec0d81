// Package search walks the tree of goldfish states, shallowest turn first,
// until a winning line is found or the turn budget runs out.
package search

import (
	"bytes"
	"fmt"
	"math/rand/v2"

	"github.com/magefree/mage-goldfish/internal/game"
	"go.uber.org/zap"
)

const (
	DefaultMaxTurns  = 8
	DefaultLeafLimit = 200000
	DefaultMaxDepth  = 1000
)

// DepthError reports a line of play deeper than the driver allows. It
// usually means a card lets the enumerator loop without progress.
type DepthError struct {
	Depth int
	Limit int
	// Path is a dump of the offending line, one state per line.
	Path string
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("search depth %d exceeds limit %d:\n%s", e.Depth, e.Limit, e.Path)
}

// Result is the outcome of one search.
type Result struct {
	// Win is the first winning state found, nil when there is none.
	Win *game.State
	// Expansions counts search rounds.
	Expansions int
	// MaxLeaves is the largest frontier seen.
	MaxLeaves int
	// Incomplete is set when the frontier had to be sampled.
	Incomplete bool
}

// Turn returns the winning turn, or 0 without a win.
func (r Result) Turn() int {
	if r.Win == nil {
		return 0
	}
	return r.Win.Turn
}

// Driver runs fastest-win searches.
type Driver struct {
	MaxTurns  int
	LeafLimit int
	MaxDepth  int
	Logger    *zap.Logger
}

// NewDriver creates a driver with the default limits.
func NewDriver(logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		MaxTurns:  DefaultMaxTurns,
		LeafLimit: DefaultLeafLimit,
		MaxDepth:  DefaultMaxDepth,
		Logger:    logger,
	}
}

// FindFastestWin expands the tree below root until a leaf on the lowest
// open turn wins, or that turn exceeds MaxTurns.
func (d *Driver) FindFastestWin(root *game.State) (Result, error) {
	var res Result
	logger := d.logger()

	for {
		res.Expansions++
		leaves, err := d.leaves(root)
		if err != nil {
			return res, err
		}
		if len(leaves) > res.MaxLeaves {
			res.MaxLeaves = len(leaves)
		}
		if len(leaves) == 0 {
			return res, nil
		}

		minTurn := leaves[0].Turn
		for _, leaf := range leaves[1:] {
			if leaf.Turn < minTurn {
				minTurn = leaf.Turn
			}
		}
		open := make([]*game.State, 0, len(leaves))
		for _, leaf := range leaves {
			if leaf.Turn == minTurn {
				open = append(open, leaf)
			}
		}

		for _, leaf := range open {
			if leaf.IsWin() {
				res.Win = leaf
				return res, nil
			}
		}
		if minTurn > d.MaxTurns {
			return res, nil
		}

		if d.LeafLimit > 0 && len(open) > d.LeafLimit {
			logger.Warn("leaf limit exceeded, sampling frontier",
				zap.Int("turn", minTurn),
				zap.Int("leaves", len(open)),
				zap.Int("limit", d.LeafLimit),
			)
			open = sample(open, d.LeafLimit, root.Seed, uint64(res.Expansions))
			res.Incomplete = true
		}

		for _, leaf := range open {
			children, err := leaf.StepNextActions()
			if err != nil {
				return res, fmt.Errorf("expanding turn %d: %w", leaf.Turn, err)
			}
			// A child that won on a later turn can still be beaten by a
			// leaf of this turn that has not been expanded yet.
			for _, child := range children {
				if child.IsWin() && child.Turn == minTurn {
					res.Win = child
					return res, nil
				}
			}
		}
	}
}

// leaves collects the unexpanded, unpruned states below root with an
// explicit stack, in depth first order.
func (d *Driver) leaves(root *game.State) ([]*game.State, error) {
	var out []*game.State
	stack := []*game.State{root}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if st.Pruned {
			continue
		}
		if d.MaxDepth > 0 && st.Depth-root.Depth > d.MaxDepth {
			return nil, d.depthError(root, st)
		}
		if st.IsLeaf() {
			out = append(out, st)
			continue
		}
		for i := len(st.Children) - 1; i >= 0; i-- {
			stack = append(stack, st.Children[i])
		}
	}
	return out, nil
}

func (d *Driver) depthError(root, st *game.State) error {
	var buf bytes.Buffer
	st.DumpPath(&buf)
	buf.WriteString(st.String())
	d.logger().Error("search depth exceeded",
		zap.Int("depth", st.Depth-root.Depth),
		zap.String("state", st.Short()),
	)
	return &DepthError{Depth: st.Depth - root.Depth, Limit: d.MaxDepth, Path: buf.String()}
}

func (d *Driver) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// sample keeps n states chosen with a permutation derived from the root
// seed, so a rerun of the same trial samples the same states. The others
// are pruned and never collected again. Frontier order is kept.
func sample(states []*game.State, n int, seed, round uint64) []*game.State {
	rng := rand.New(rand.NewPCG(seed, round))
	picked := rng.Perm(len(states))[:n]
	keep := make([]bool, len(states))
	for _, i := range picked {
		keep[i] = true
	}
	out := make([]*game.State, 0, n)
	for i, st := range states {
		if keep[i] {
			out = append(out, st)
		} else {
			st.Pruned = true
		}
	}
	return out
}
