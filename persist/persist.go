// Package persist implements the binary snapshot format for a
// forward-retrograde analysis in progress: an explicit call stack, the
// set of already-expanded vertices, pending unlabelled edges, and the
// graph assembled so far. It uses a fixed-record binary I/O style:
// encoding/binary for scalar fields, io.ReadFull for every fixed-size
// read.
package persist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hailam/gridmaster/card"
	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/codec"
	"github.com/hailam/gridmaster/graph"
)

// ErrIO wraps every I/O failure this package reports: saving, loading
// or a corrupt file. Save failures leave the previous file's contents
// untouched or the partial write on disk; they never corrupt the
// caller's in-memory graph.
var ErrIO = errors.New("persist: I/O error")

// serializationBytes is the fixed on-disk width of a single
// serialization, per codec.Bits.MarshalBinary.
const serializationBytes = (codec.Len + 7) / 8

// EdgePair names an unlabelled edge pending a retrograde update, by
// the game states at its two endpoints.
type EdgePair struct {
	Source *cardgame.Game
	Target *cardgame.Game
}

// Progress is a forward-retrograde analysis' resumable state: the
// explicit recursion stack (root first), every vertex already fully
// expanded, and every edge still waiting on its target's label.
type Progress struct {
	CallStack       []*cardgame.Game
	Expanded        []*cardgame.Game
	UnlabelledEdges []EdgePair
}

func writeSerialization(w io.Writer, g *cardgame.Game) error {
	bits, err := codec.Serialize(g)
	if err != nil {
		return err
	}
	_, err = w.Write(bits.MarshalBinary())
	return err
}

func readSerialization(r io.Reader) (*cardgame.Game, error) {
	buf := make([]byte, serializationBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	bits, err := codec.UnmarshalBinaryBits(buf, codec.Len)
	if err != nil {
		return nil, err
	}
	return codec.Deserialize(bits)
}

func writeU64(w io.Writer, v uint64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readU64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func qualityByte(q graph.Quality) byte {
	switch q {
	case graph.Win:
		return 1
	case graph.Draw:
		return 2
	case graph.Lose:
		return 3
	default:
		return 0
	}
}

func byteQuality(b byte) (graph.Quality, error) {
	switch b {
	case 0:
		return graph.Unknown, nil
	case 1:
		return graph.Win, nil
	case 2:
		return graph.Draw, nil
	case 3:
		return graph.Lose, nil
	default:
		return graph.Unknown, fmt.Errorf("%w: unknown quality byte %#x", ErrIO, b)
	}
}

func triByte(t graph.Tri) byte {
	switch t {
	case graph.TriTrue:
		return 0x01
	case graph.TriFalse:
		return 0x00
	default:
		return 0xFF
	}
}

func byteTri(b byte) (graph.Tri, error) {
	switch b {
	case 0x00:
		return graph.TriFalse, nil
	case 0x01:
		return graph.TriTrue, nil
	case 0xFF:
		return graph.TriUnknown, nil
	default:
		return graph.TriUnknown, fmt.Errorf("%w: unknown optional-bool byte %#x", ErrIO, b)
	}
}

// SaveForwardRetrogradeProgress writes gr and progress to path as a
// single binary snapshot. A failure is reported to the caller; it
// never touches gr or progress.
func SaveForwardRetrogradeProgress(path string, gr *graph.Graph, progress Progress) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", ErrIO, cerr)
		}
	}()

	w := bufio.NewWriter(f)

	if err = writeU64(w, uint64(len(progress.CallStack))); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	for _, g := range progress.CallStack {
		if err = writeSerialization(w, g); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	if err = writeU64(w, uint64(len(progress.Expanded))); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	for _, g := range progress.Expanded {
		if err = writeSerialization(w, g); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	if err = writeU64(w, uint64(len(progress.UnlabelledEdges))); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	for _, e := range progress.UnlabelledEdges {
		if err = writeSerialization(w, e.Source); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		if err = writeSerialization(w, e.Target); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	vertices := gr.All()
	if err = writeU64(w, uint64(len(vertices))); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	for _, v := range vertices {
		if err = writeSerialization(w, v.Game); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		if err = w.WriteByte(qualityByte(v.Quality)); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		if err = writeU64(w, uint64(len(v.Edges))); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		for _, e := range v.Edges {
			if err = writeSerialization(w, e.Target.Game); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
			if err = writeU64(w, uint64(e.Move.PawnIndex)); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
			if err = writeU64(w, uint64(e.Move.UsedCard)); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
			if err = writeU64(w, uint64(e.Move.OffsetIndex)); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
			if err = w.WriteByte(triByte(e.Optimal)); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
		}
	}

	if err = w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// LoadForwardRetrogradeProgress reads back a snapshot written by
// SaveForwardRetrogradeProgress. A failure yields no graph at all.
func LoadForwardRetrogradeProgress(path string) (*graph.Graph, Progress, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var progress Progress

	stackLen, err := readU64(r)
	if err != nil {
		return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	for i := uint64(0); i < stackLen; i++ {
		g, err := readSerialization(r)
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		progress.CallStack = append(progress.CallStack, g)
	}

	expandedLen, err := readU64(r)
	if err != nil {
		return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	for i := uint64(0); i < expandedLen; i++ {
		g, err := readSerialization(r)
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		progress.Expanded = append(progress.Expanded, g)
	}

	edgeLen, err := readU64(r)
	if err != nil {
		return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	for i := uint64(0); i < edgeLen; i++ {
		src, err := readSerialization(r)
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		tgt, err := readSerialization(r)
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		progress.UnlabelledEdges = append(progress.UnlabelledEdges, EdgePair{Source: src, Target: tgt})
	}

	gr := graph.New()

	expandedKeys := make(map[string]bool, len(progress.Expanded))
	for _, g := range progress.Expanded {
		key, err := graph.CanonicalKey(g)
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		expandedKeys[key] = true
	}

	vertexCount, err := readU64(r)
	if err != nil {
		return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	type pendingEdge struct {
		from      *graph.Vertex
		targetKey string
		move      cardgame.Move
		optimal   graph.Tri
	}
	var pending []pendingEdge

	for i := uint64(0); i < vertexCount; i++ {
		g, err := readSerialization(r)
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		qByte, err := r.ReadByte()
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		quality, err := byteQuality(qByte)
		if err != nil {
			return nil, Progress{}, err
		}

		v, _, err := gr.GetOrCreate(g)
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		v.Quality = quality
		v.Expanded = expandedKeys[v.Key]

		edgeCount, err := readU64(r)
		if err != nil {
			return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		for j := uint64(0); j < edgeCount; j++ {
			tgt, err := readSerialization(r)
			if err != nil {
				return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
			}
			pawnIdx, err := readU64(r)
			if err != nil {
				return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
			}
			cardIdx, err := readU64(r)
			if err != nil {
				return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
			}
			offsetIdx, err := readU64(r)
			if err != nil {
				return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
			}
			optByte, err := r.ReadByte()
			if err != nil {
				return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
			}
			optimal, err := byteTri(optByte)
			if err != nil {
				return nil, Progress{}, err
			}

			targetKey, err := graph.CanonicalKey(tgt)
			if err != nil {
				return nil, Progress{}, fmt.Errorf("%w: %v", ErrIO, err)
			}
			move := cardgame.Move{PawnIndex: int(pawnIdx), UsedCard: card.Variant(cardIdx), OffsetIndex: int(offsetIdx)}
			pending = append(pending, pendingEdge{from: v, targetKey: targetKey, move: move, optimal: optimal})
		}
	}

	for _, pe := range pending {
		target, ok := gr.GetByKey(pe.targetKey)
		if !ok {
			return nil, Progress{}, fmt.Errorf("%w: edge target vertex missing from snapshot", ErrIO)
		}
		if _, exists := pe.from.GetEdgeByMove(pe.move); exists {
			continue
		}
		e := graph.AddEdge(pe.from, target, pe.move)
		e.Optimal = pe.optimal
	}

	return gr, progress, nil
}
