package graph

import (
	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/codec"
)

// Vertex is one explored game state. Its outgoing Edges are built up
// as successors are discovered; Quality starts Lose for a terminal
// state (the side to move has already lost) and Unknown otherwise.
type Vertex struct {
	Key     string // canonical base64 serialization, see CanonicalKey
	Game    *cardgame.Game
	Quality Quality
	Edges   []*Edge

	// Expanded reports whether this vertex's outgoing edge set has
	// been fully generated, by either exploration strategy. A vertex
	// with Expanded=false and no Quality is a frontier vertex.
	Expanded bool

	// Expanding is a transient marker set only while forward
	// retrograde analysis holds this vertex on its explicit stack; it
	// is how that walk tells a genuine cycle (reentering a vertex
	// still being visited) from an ordinary already-finished one.
	Expanding bool
}

// Edge is a move from Source to Target. Ordinary pointers stand in
// for the design notes' weak references: Go's collector handles the
// graph's cycles without an arena or generational-index scheme.
type Edge struct {
	Source  *Vertex
	Target  *Vertex
	Move    cardgame.Move
	Optimal Tri
}

// Graph owns every explored Vertex, keyed by CanonicalKey. It is not
// internally synchronized: per the dispersed-frontier exploration
// design, only a single coordinating goroutine ever mutates a shared
// Graph, so callers running concurrent workers must route writes
// through that coordinator rather than call Graph methods from
// multiple goroutines directly.
type Graph struct {
	vertices map[string]*Vertex
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{vertices: make(map[string]*Vertex)}
}

// CanonicalKey returns g's canonical base64 serialization: whichever
// of g and its turn-reflected flip serializes to the lexicographically
// smaller base64 string. Equivalent states always share a key.
func CanonicalKey(g *cardgame.Game) (string, error) {
	own, err := codec.Serialize(g)
	if err != nil {
		return "", err
	}
	ownKey := own.ToBase64()

	flipped, err := codec.Serialize(Flip(g))
	if err != nil {
		return "", err
	}
	flipKey := flipped.ToBase64()

	if flipKey < ownKey {
		return flipKey, nil
	}
	return ownKey, nil
}

// Get returns the vertex for g's canonical key, if present.
func (gr *Graph) Get(g *cardgame.Game) (*Vertex, bool, error) {
	key, err := CanonicalKey(g)
	if err != nil {
		return nil, false, err
	}
	v, ok := gr.vertices[key]
	return v, ok, nil
}

// GetOrCreate returns g's vertex, inserting one if absent. created
// reports whether a new vertex was inserted.
func (gr *Graph) GetOrCreate(g *cardgame.Game) (v *Vertex, created bool, err error) {
	key, err := CanonicalKey(g)
	if err != nil {
		return nil, false, err
	}
	if v, ok := gr.vertices[key]; ok {
		return v, false, nil
	}

	quality := Unknown
	if _, finished := g.IsFinished(); finished {
		quality = Lose
	}

	v = &Vertex{Key: key, Game: g, Quality: quality}
	gr.vertices[key] = v
	return v, true, nil
}

// GetByKey returns the vertex stored under the given canonical key.
func (gr *Graph) GetByKey(key string) (*Vertex, bool) {
	v, ok := gr.vertices[key]
	return v, ok
}

// Len returns the number of vertices in the graph.
func (gr *Graph) Len() int {
	return len(gr.vertices)
}

// All returns every vertex. Callers must not mutate the slice's
// backing map.
func (gr *Graph) All() []*Vertex {
	out := make([]*Vertex, 0, len(gr.vertices))
	for _, v := range gr.vertices {
		out = append(out, v)
	}
	return out
}

// AddEdge appends an edge from 'from' to 'to' over move, with Optimal
// left Unknown.
func AddEdge(from, to *Vertex, move cardgame.Move) *Edge {
	e := &Edge{Source: from, Target: to, Move: move, Optimal: TriUnknown}
	from.Edges = append(from.Edges, e)
	return e
}

// SetOptimalMove marks the edge whose move equals move as Optimal, and
// every other edge already labelled Optimal or non-optimal as not
// optimal. Edges still Unknown are left Unknown. At most one edge per
// vertex is ever Optimal=true.
func (v *Vertex) SetOptimalMove(move cardgame.Move) {
	for _, e := range v.Edges {
		if e.Move == move {
			e.Optimal = TriTrue
			continue
		}
		if e.Optimal != TriUnknown {
			e.Optimal = TriFalse
		}
	}
}

// GetEdgeByMove returns the edge traversing move, if any.
func (v *Vertex) GetEdgeByMove(move cardgame.Move) (*Edge, bool) {
	for _, e := range v.Edges {
		if e.Move == move {
			return e, true
		}
	}
	return nil, false
}

// GetEdgeByTarget returns the edge whose target has the given
// canonical key, if any.
func (v *Vertex) GetEdgeByTarget(targetKey string) (*Edge, bool) {
	for _, e := range v.Edges {
		if e.Target.Key == targetKey {
			return e, true
		}
	}
	return nil, false
}
