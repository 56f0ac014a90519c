package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

// WriteGraph persists the graph as a bzip2-compressed text snapshot:
// a header line "numNodes numSegments", one "id lat lon" line per node, then
// one "from to weight" line per undirected segment (written once, lo<hi
// direction).
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)
	defer w.Flush()

	fmt.Fprintf(w, "%d %d\n", len(g.nodes), g.numEdges/2)

	for _, id := range g.NodeIds() {
		n := g.nodes[id]
		latF := strconv.FormatFloat(n.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(n.lon, 'f', -1, 64)
		fmt.Fprintf(w, "%s %s %s\n", n.id, latF, lonF)
	}

	for _, id := range g.NodeIds() {
		for _, e := range g.adjacency[id] {
			if e.from > e.to {
				continue // each segment written once
			}
			weightF := strconv.FormatFloat(e.weight, 'f', -1, 64)
			fmt.Fprintf(w, "%s %s %s\n", e.from, e.to, weightF)
		}
	}

	return nil
}

// ReadGraph loads a snapshot written by WriteGraph and rebuilds the graph
// through BuildGraph, so a corrupted snapshot fails validation the same way
// bad raw input does.
func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	r := bufio.NewReader(bz)
	readLine := func() (string, error) {
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	line, err := readLine()
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid snapshot header %q", line)
	}
	numNodes, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, err
	}
	numSegments, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, err
	}

	rawNodes := make([]RawNode, 0, numNodes)
	for i := 0; i < numNodes; i++ {
		line, err = readLine()
		if err != nil {
			return nil, err
		}
		parts = strings.Fields(line)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid node line %q", line)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, err
		}
		rawNodes = append(rawNodes, RawNode{ID: parts[0], Lat: lat, Lon: lon})
	}

	rawEdges := make([]RawEdge, 0, numSegments)
	for i := 0; i < numSegments; i++ {
		line, err = readLine()
		if err != nil {
			return nil, err
		}
		parts = strings.Fields(line)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid edge line %q", line)
		}
		weight, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, err
		}
		rawEdges = append(rawEdges, RawEdge{From: parts[0], To: parts[1], LengthMeters: weight})
	}

	return BuildGraph(rawNodes, rawEdges)
}
