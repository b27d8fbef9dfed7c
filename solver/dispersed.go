package solver

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/graph"
)

// localVertex is one vertex discovered by a dispersed-frontier
// worker's private bounded exploration: the worker never touches the
// shared graph, so it records enough for the coordinator to insert it
// later.
type localVertex struct {
	game  *cardgame.Game
	edges []localEdge
}

type localEdge struct {
	targetKey string
	move      cardgame.Move
}

// localResult is one worker task's complete private output: every
// vertex it visited, plus the canonical keys and games of vertices it
// reached exactly at its depth limit without expanding them.
type localResult struct {
	vertices map[string]*localVertex
	frontier map[string]*cardgame.Game
}

// exploreLocal runs a bounded depth-first walk from root entirely in
// private maps: no shared state is touched, so many of these can run
// concurrently without locking.
func exploreLocal(root *cardgame.Game, depth int) (*localResult, error) {
	res := &localResult{
		vertices: make(map[string]*localVertex),
		frontier: make(map[string]*cardgame.Game),
	}

	type frame struct {
		g *cardgame.Game
		d int
	}

	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key, err := graph.CanonicalKey(f.g)
		if err != nil {
			return nil, err
		}
		if _, done := res.vertices[key]; done {
			continue
		}

		lv := &localVertex{game: f.g}
		res.vertices[key] = lv

		if _, finished := f.g.IsFinished(); finished {
			continue
		}

		for _, move := range f.g.ValidMoves() {
			next, err := f.g.DoMove(move)
			if err != nil {
				panic("solver: move generator produced an unplayable move")
			}
			nextKey, err := graph.CanonicalKey(next)
			if err != nil {
				return nil, err
			}
			lv.edges = append(lv.edges, localEdge{targetKey: nextKey, move: move})

			if f.d+1 >= depth {
				res.frontier[nextKey] = next
			} else if _, done := res.vertices[nextKey]; !done {
				stack = append(stack, frame{next, f.d + 1})
			}
		}
	}

	return res, nil
}

// finish merges one worker's local result into the shared graph and
// reconciles the shared frontier: every local vertex is looked up or
// inserted as a shared vertex (and, unless terminal, marked Expanded,
// since the worker generated its full edge set), its edges copied
// over deduped by move,
// and every local-frontier vertex is added to the shared frontier
// unless it already has an edge or a quality (meaning some other
// completed task has since expanded it). It must only ever run on the
// coordinating goroutine.
func finish(gr *graph.Graph, frontier map[string]*cardgame.Game, res *localResult) error {
	shared := make(map[string]*graph.Vertex, len(res.vertices))
	for key, lv := range res.vertices {
		v, _, err := gr.GetOrCreate(lv.game)
		if err != nil {
			return err
		}
		if _, finished := lv.game.IsFinished(); !finished {
			v.Expanded = true
		}
		shared[key] = v
		delete(frontier, key)
	}

	resolveTarget := func(key string) (*graph.Vertex, error) {
		if v, ok := shared[key]; ok {
			return v, nil
		}
		g, ok := res.frontier[key]
		if !ok {
			return nil, nil
		}
		v, _, err := gr.GetOrCreate(g)
		if err != nil {
			return nil, err
		}
		shared[key] = v
		return v, nil
	}

	for key, lv := range res.vertices {
		sv := shared[key]
		for _, e := range lv.edges {
			target, err := resolveTarget(e.targetKey)
			if err != nil {
				return err
			}
			if target == nil {
				continue
			}
			if _, exists := sv.GetEdgeByMove(e.move); !exists {
				graph.AddEdge(sv, target, e.move)
			}
		}
	}

	for key, g := range res.frontier {
		if _, alreadyVertex := shared[key]; alreadyVertex {
			v := shared[key]
			if len(v.Edges) > 0 || v.Quality != graph.Unknown {
				continue
			}
		}
		frontier[key] = g
	}

	return nil
}

// RunDispersedFrontier explores root's component with up to
// maxThreadCount concurrent workers, each privately walking up to
// depth levels from a frontier element handed to it by the
// coordinator. The shared graph and frontier are mutated only by the
// calling goroutine: workers run exploreLocal from their starting
// state, which they only read, and never consult the shared graph, so
// no locking is needed to keep concurrent workers from racing each
// other. The coordinator hands out the next frontier element only
// while fewer than maxThreadCount tasks are outstanding, otherwise it
// first waits for and merges a completed task; errgroup.Group's
// SetLimit caps the running workers at the same number. Once the
// frontier is drained and every worker has
// finished, the global retrograde analyser resolves the assembled
// graph.
func RunDispersedFrontier(gr *graph.Graph, root *cardgame.Game, depth, maxThreadCount int, hook SaveHook) error {
	if maxThreadCount < 1 {
		maxThreadCount = 1
	}

	rootKey, err := graph.CanonicalKey(root)
	if err != nil {
		return err
	}
	frontier := map[string]*cardgame.Game{rootKey: root}

	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(maxThreadCount)

	type taskResult struct {
		res *localResult
		err error
	}
	// Buffered to maxThreadCount: the loop below submits a task only
	// while fewer than maxThreadCount tasks have results not yet
	// consumed, so a worker's send here never blocks, even while the
	// coordinator is itself blocked inside submit waiting for a free
	// slot.
	results := make(chan taskResult, maxThreadCount)
	inFlight := 0

	submit := func(g *cardgame.Game) {
		inFlight++
		group.Go(func() error {
			res, err := exploreLocal(g, depth)
			select {
			case results <- taskResult{res, err}:
			case <-ctx.Done():
			}
			return err
		})
	}

	for len(frontier) > 0 || inFlight > 0 {
		if len(frontier) > 0 && inFlight < maxThreadCount {
			var key string
			var g *cardgame.Game
			for k, gg := range frontier {
				key, g = k, gg
				break
			}
			delete(frontier, key)
			submit(g)
			continue
		}

		r := <-results
		inFlight--
		if r.err != nil {
			_ = group.Wait()
			return r.err
		}
		if err := finish(gr, frontier, r.res); err != nil {
			_ = group.Wait()
			return err
		}

		if hook != nil && hook.ShouldSave() {
			if err := hook.Save(); err != nil {
				log.Printf("solver: dispersed frontier save failed: %v", err)
			}
		}
	}

	if err := group.Wait(); err != nil {
		return err
	}

	RetrogradeAnalyse(gr)
	return nil
}
