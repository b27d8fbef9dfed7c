package solver

import (
	"log"

	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/graph"
)

// ForwardRetrograde interleaves expansion and labelling in a single
// depth-first walk from root, so a clearly-won or clearly-lost root
// can be recognised without first building out its whole component.
//
// It keeps an explicit stack rather than recursing: each frame is a
// vertex and an index into the edges already generated for it.
// Entering a frame expands that vertex (a no-op if already expanded)
// and marks it "expanding", the cycle-break marker: an edge into a
// vertex already expanding is skipped rather than walked again. An
// edge into an already-labelled vertex immediately folds that label
// into the current frame's vertex via RetrogradeStep; once a frame's
// own vertex becomes labelled this way, its frame pops immediately,
// the forward-retrograde analogue of an early return. Once the stack
// drains, a final global RetrogradeAnalyse resolves anything left
// pending (vertices whose component never got fully walked because an
// ancestor resolved first, or that close over only on vertices touched
// by a different branch).
func ForwardRetrograde(gr *graph.Graph, root *cardgame.Game, hook SaveHook) error {
	rootV, _, err := gr.GetOrCreate(root)
	if err != nil {
		return err
	}
	if rootV.Quality != graph.Unknown {
		RetrogradeAnalyse(gr)
		return nil
	}

	type frame struct {
		v    *graph.Vertex
		next int
	}

	enter := func(v *graph.Vertex) (*frame, error) {
		v.Expanding = true
		if err := expandVertex(gr, v); err != nil {
			return nil, err
		}
		return &frame{v: v}, nil
	}

	root0, err := enter(rootV)
	if err != nil {
		return err
	}
	stack := []*frame{root0}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.v.Quality != graph.Unknown || top.next >= len(top.v.Edges) {
			top.v.Expanding = false
			stack = stack[:len(stack)-1]
			continue
		}

		edge := top.v.Edges[top.next]

		switch {
		case edge.Target.Quality != graph.Unknown:
			RetrogradeStep(top.v, edge)
			top.next++

		case edge.Target.Expanding || edge.Target.Expanded:
			top.next++

		default:
			child, err := enter(edge.Target)
			if err != nil {
				return err
			}
			stack = append(stack, child)
		}

		if hook != nil && hook.ShouldSave() {
			if err := hook.Save(); err != nil {
				log.Printf("solver: forward retrograde save failed: %v", err)
			}
		}
	}

	RetrogradeAnalyse(gr)
	return nil
}
