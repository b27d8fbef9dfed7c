package graph

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hailam/gridmaster/card"
	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/codec"
)

// ErrMalformedInput is returned when a text import's top-level
// structure is unusable: a file with no lines at all, so not even a
// header line. The header line's contents are not checked. A malformed
// individual row is not this error: those are skipped with a logged
// warning, not treated as a fatal import failure.
var ErrMalformedInput = errors.New("graph: malformed input")

// Export writes the graph as two CSV-ish text files: nodesPath holds
// one row per vertex, edgesPath one row per edge. The format is
// line-oriented and loosely comma-separated, not RFC 4180 CSV: no
// quoting or escaping, matching the format the graph was originally
// snapshotted in.
func Export(gr *Graph, nodesPath, edgesPath string) error {
	if err := exportNodes(gr, nodesPath); err != nil {
		return fmt.Errorf("graph: export nodes: %w", err)
	}
	if err := exportEdges(gr, edgesPath); err != nil {
		return fmt.Errorf("graph: export edges: %w", err)
	}
	return nil
}

func exportNodes(gr *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "Id, Quality, image")
	for _, v := range gr.All() {
		fmt.Fprintf(w, "%s, %s, %s.bmp\n", v.Key, v.Quality, v.Key)
	}
	return w.Flush()
}

func exportEdges(gr *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "Source, Target, Pawn, Card, Offset, Optimal")
	for _, v := range gr.All() {
		for _, e := range v.Edges {
			optimal := "false"
			if e.Optimal == TriTrue {
				optimal = "true"
			}
			fmt.Fprintf(w, "%s, %s, %d, %d, %d, %s\n",
				e.Source.Key, e.Target.Key,
				e.Move.PawnIndex, int(e.Move.UsedCard), e.Move.OffsetIndex, optimal)
		}
	}
	return w.Flush()
}

// Import reads back a graph exported by Export. Malformed lines are
// skipped with a logged warning, and an edge whose target vertex was
// never seen in the nodes file is likewise skipped; neither aborts
// the import.
func Import(nodesPath, edgesPath string) (*Graph, error) {
	gr := New()

	if err := importNodes(gr, nodesPath); err != nil {
		return nil, fmt.Errorf("graph: import nodes: %w", err)
	}
	if err := importEdges(gr, edgesPath); err != nil {
		return nil, fmt.Errorf("graph: import edges: %w", err)
	}
	return gr, nil
}

func splitRow(line string, n int) ([]string, bool) {
	fields := strings.Split(line, ",")
	if len(fields) != n {
		return nil, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, true
}

func decodeVertex(key string) (*Vertex, error) {
	bits, err := codec.BitsFromBase64(key, codec.Len)
	if err != nil {
		return nil, err
	}
	g, err := codec.Deserialize(bits)
	if err != nil {
		return nil, err
	}
	return &Vertex{Key: key, Game: g}, nil
}

func importNodes(gr *Graph, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return fmt.Errorf("%w: nodes file is empty", ErrMalformedInput)
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, ok := splitRow(line, 3)
		if !ok {
			log.Printf("graph: import nodes: skipping malformed line %d: %q", lineNo, line)
			continue
		}

		quality, ok := ParseQuality(fields[1])
		if !ok {
			log.Printf("graph: import nodes: skipping line %d with unknown quality %q", lineNo, fields[1])
			continue
		}

		v, err := decodeVertex(fields[0])
		if err != nil {
			log.Printf("graph: import nodes: skipping line %d with malformed id: %v", lineNo, err)
			continue
		}
		v.Quality = quality
		gr.vertices[v.Key] = v
	}
	return scanner.Err()
}

func importEdges(gr *Graph, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return fmt.Errorf("%w: edges file is empty", ErrMalformedInput)
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, ok := splitRow(line, 6)
		if !ok {
			log.Printf("graph: import edges: skipping malformed line %d: %q", lineNo, line)
			continue
		}

		source, ok := gr.vertices[fields[0]]
		if !ok {
			log.Printf("graph: import edges: skipping line %d: unknown source vertex", lineNo)
			continue
		}
		target, ok := gr.vertices[fields[1]]
		if !ok {
			log.Printf("graph: import edges: skipping line %d: unknown target vertex", lineNo)
			continue
		}

		pawnIdx, err1 := strconv.Atoi(fields[2])
		cardIdx, err2 := strconv.Atoi(fields[3])
		offsetIdx, err3 := strconv.Atoi(fields[4])
		if err1 != nil || err2 != nil || err3 != nil {
			log.Printf("graph: import edges: skipping malformed line %d: %q", lineNo, line)
			continue
		}

		move := cardgame.Move{PawnIndex: pawnIdx, UsedCard: card.Variant(cardIdx), OffsetIndex: offsetIdx}
		e := AddEdge(source, target, move)
		switch fields[5] {
		case "true":
			e.Optimal = TriTrue
		case "false":
			e.Optimal = TriFalse
		default:
			log.Printf("graph: import edges: line %d has unknown optimal flag %q, treating as false", lineNo, fields[5])
			e.Optimal = TriFalse
		}
	}
	return scanner.Err()
}
