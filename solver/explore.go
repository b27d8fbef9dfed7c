// Package solver implements exploration and retrograde labelling over
// a graph package state graph: iterative-stack component exploration,
// forward retrograde analysis, global and per-edge retrograde
// labelling, and bounded-depth dispersed-frontier parallel exploration.
package solver

import (
	"fmt"
	"log"

	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/graph"
)

// SaveHook is polled periodically during a long-running exploration to
// decide whether to snapshot progress, and to perform that snapshot.
// ShouldSave is expected to be wall-clock driven (e.g. "has it been 30
// seconds since the last save"); Save errors are logged and do not
// abort exploration.
type SaveHook interface {
	ShouldSave() bool
	Save() error
}

// expandVertex generates v's full outgoing edge set from its current
// game state: one edge per valid move, to the move's resulting
// (possibly newly inserted) vertex. It is a no-op if v is already
// expanded or terminal.
func expandVertex(gr *graph.Graph, v *graph.Vertex) error {
	if v.Expanded || v.Quality != graph.Unknown {
		return nil
	}

	for _, move := range v.Game.ValidMoves() {
		next, err := v.Game.DoMove(move)
		if err != nil {
			// The move came from v.Game.ValidMoves() itself; a
			// rejection here means the graph or move generator is
			// inconsistent, which is a programmer error.
			panic(fmt.Sprintf("solver: move generator produced an unplayable move: %v", err))
		}

		target, _, err := gr.GetOrCreate(next)
		if err != nil {
			return err
		}
		if _, exists := v.GetEdgeByMove(move); !exists {
			graph.AddEdge(v, target, move)
		}
	}

	v.Expanded = true
	return nil
}

// ExploreComponent performs an iterative, depth-limited expansion from
// root: it visits the component reachable from root, inserting
// successor vertices and edges, and avoids re-expanding a canonical
// state already seen. When maxDepth is positive, a vertex reached at
// that depth is inserted (as a frontier vertex) but not itself
// expanded. The resulting graph has every terminal vertex at
// Quality=Lose and every non-frontier expanded vertex with a complete
// outgoing edge set.
func ExploreComponent(gr *graph.Graph, root *cardgame.Game, maxDepth int, hook SaveHook) error {
	rootV, _, err := gr.GetOrCreate(root)
	if err != nil {
		return err
	}

	type frame struct {
		v     *graph.Vertex
		depth int
	}

	stack := []frame{{v: rootV, depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.v.Expanded || f.v.Quality != graph.Unknown {
			continue
		}
		if err := expandVertex(gr, f.v); err != nil {
			return err
		}

		for _, e := range f.v.Edges {
			if e.Target.Expanded || e.Target.Quality != graph.Unknown {
				continue
			}
			if maxDepth > 0 && f.depth+1 >= maxDepth {
				continue // leave as a frontier vertex
			}
			stack = append(stack, frame{v: e.Target, depth: f.depth + 1})
		}

		if hook != nil && hook.ShouldSave() {
			if err := hook.Save(); err != nil {
				log.Printf("solver: explore component save failed: %v", err)
			}
		}
	}

	return nil
}
