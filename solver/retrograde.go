package solver

import (
	"fmt"

	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/graph"
)

// RetrogradeStep is the per-edge incremental update: it assumes edge's
// target just settled on its current Quality and folds that into
// edge's source vertex.
//
//   - target Lose: source becomes Win; edge is optimal, every other
//     edge on source is not.
//   - target Win and this was source's last unlabelled edge: if any
//     sibling edge already targets a Draw, source becomes Draw via
//     that edge; otherwise source becomes Lose via this edge.
//   - target Win, not the last unlabelled edge: this edge is marked
//     not optimal; source stays unknown.
//   - target Draw and this was source's last unlabelled edge: source
//     becomes Draw via this edge.
//
// A vertex with an already-settled Quality is left untouched: once
// labelled, a vertex's quality never changes.
func RetrogradeStep(source *graph.Vertex, edge *graph.Edge) {
	if source.Quality != graph.Unknown {
		return
	}
	if edge.Source != source {
		panic("solver: RetrogradeStep called with an edge that does not belong to source")
	}

	switch edge.Target.Quality {
	case graph.Lose:
		source.Quality = graph.Win
		source.SetOptimalMove(edge.Move)

	case graph.Win:
		if !allOthersLabelled(source, edge) {
			edge.Optimal = graph.TriFalse
			return
		}
		if drawMove, ok := anyDrawMove(source); ok {
			source.Quality = graph.Draw
			source.SetOptimalMove(drawMove)
		} else {
			source.Quality = graph.Lose
			source.SetOptimalMove(edge.Move)
		}

	case graph.Draw:
		if allOthersLabelled(source, edge) {
			source.Quality = graph.Draw
			source.SetOptimalMove(edge.Move)
		}
	}
}

// allOthersLabelled reports whether every edge of source other than
// the given one already has a labelled (non-Unknown) target.
func allOthersLabelled(source *graph.Vertex, except *graph.Edge) bool {
	for _, e := range source.Edges {
		if e == except {
			continue
		}
		if e.Target.Quality == graph.Unknown {
			return false
		}
	}
	return true
}

func anyDrawMove(v *graph.Vertex) (cardgame.Move, bool) {
	for _, e := range v.Edges {
		if e.Target.Quality == graph.Draw {
			return e.Move, true
		}
	}
	return cardgame.Move{}, false
}

// tryLabel applies the global-pass state machine to an unlabelled
// vertex, returning whether it changed state.
func tryLabel(v *graph.Vertex) bool {
	if v.Quality != graph.Unknown || len(v.Edges) == 0 {
		return false
	}

	for _, e := range v.Edges {
		if e.Target.Quality == graph.Lose {
			v.Quality = graph.Win
			v.SetOptimalMove(e.Move)
			return true
		}
	}

	allWin := true
	drawMove, anyDraw := cardgame.Move{}, false
	noneUnknown := true
	for _, e := range v.Edges {
		switch e.Target.Quality {
		case graph.Win:
		case graph.Draw:
			allWin = false
			if !anyDraw {
				anyDraw = true
				drawMove = e.Move
			}
		default:
			allWin = false
			noneUnknown = false
		}
	}

	if allWin {
		v.Quality = graph.Lose
		v.SetOptimalMove(v.Edges[0].Move)
		return true
	}

	if noneUnknown && anyDraw && v.Expanded {
		v.Quality = graph.Draw
		v.SetOptimalMove(drawMove)
		return true
	}

	return false
}

// RetrogradeAnalyse runs the global fixed-point pass: it repeatedly
// applies tryLabel to every unlabelled vertex until a full pass labels
// nothing new, then runs the "assign draws" closure pass to resolve
// any remaining mutually-unlabelled cycle of vertices.
func RetrogradeAnalyse(gr *graph.Graph) {
	for {
		changed := false
		for _, v := range gr.All() {
			if tryLabel(v) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	assignDraws(gr)
}

// assignDraws computes the largest subset of expanded, unlabelled
// vertices whose every unlabelled successor is itself in the subset
// (iteratively shrinking the candidate set by removing any vertex with
// an unexpanded, or externally unlabelled, successor), and colours the
// survivors Draw.
func assignDraws(gr *graph.Graph) {
	candidates := make(map[string]*graph.Vertex)
	for _, v := range gr.All() {
		if v.Quality == graph.Unknown && v.Expanded {
			candidates[v.Key] = v
		}
	}

	for {
		changed := false
		for key, v := range candidates {
			for _, e := range v.Edges {
				t := e.Target
				if t.Quality != graph.Unknown {
					continue
				}
				_, inSet := candidates[t.Key]
				if !t.Expanded || !inSet {
					delete(candidates, key)
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	for _, v := range candidates {
		v.Quality = graph.Draw
		if drawMove, ok := anyDrawMove(v); ok {
			v.SetOptimalMove(drawMove)
			continue
		}
		for _, e := range v.Edges {
			if _, ok := candidates[e.Target.Key]; ok {
				v.SetOptimalMove(e.Move)
				break
			}
		}
	}
}

// GetVertex looks up game's vertex, panicking if it is missing: a
// caller driving retrograde analysis over a graph it built itself is
// expected to only ever reference vertices that exist.
func GetVertex(gr *graph.Graph, game *cardgame.Game) *graph.Vertex {
	v, ok, err := gr.Get(game)
	if err != nil {
		panic(fmt.Sprintf("solver: could not serialize game for vertex lookup: %v", err))
	}
	if !ok {
		panic("solver: vertex missing from graph during retrograde analysis")
	}
	return v
}
