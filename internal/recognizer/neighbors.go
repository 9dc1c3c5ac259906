package recognizer

import (
	"errors"
	"sync"

	"github.com/coder/hnsw"

	"github.com/kozaktomas/kaleidoid/internal/facevec"
)

// neighborMaxConns is the M parameter of the HNSW graph.
const neighborMaxConns = 16

// Neighbor is one nearest-neighbor search hit.
type Neighbor struct {
	Entry    Entry
	Distance float64
}

// NeighborIndex is an approximate nearest-neighbor index over gallery
// entries, keyed by photo ID with cosine distance. It backs the
// "similar faces" feature; exact identity matching stays the gallery's
// ordered linear scan, whose tie-break the graph cannot reproduce.
//
// Unlike the gallery, the index locks internally: it is read from
// request handlers while enrollment mutates it.
type NeighborIndex struct {
	mu      sync.RWMutex
	graph   *hnsw.Graph[int64]
	entries map[int64]Entry
}

// NewNeighborIndex creates an empty index.
func NewNeighborIndex() *NeighborIndex {
	return &NeighborIndex{
		entries: make(map[int64]Entry),
	}
}

func newGraph() *hnsw.Graph[int64] {
	g := hnsw.NewGraph[int64]()
	g.M = neighborMaxConns
	g.Ml = 1.0 / float64(neighborMaxConns) // Standard HNSW formula
	g.Distance = hnsw.CosineDistance
	return g
}

// Build replaces the index contents with the given entries.
// Zero vectors carry no signal and are skipped.
func (n *NeighborIndex) Build(entries []Entry) {
	n.mu.Lock()
	defer n.mu.Unlock()

	g := newGraph()
	n.entries = make(map[int64]Entry, len(entries))

	for _, e := range entries {
		if len(e.Vector) == 0 || facevec.IsZero(e.Vector) {
			continue
		}
		g.Add(hnsw.MakeNode(e.PhotoID, e.Vector))
		n.entries[e.PhotoID] = e
	}

	n.graph = g
}

// Add inserts or replaces a single entry.
func (n *NeighborIndex) Add(e Entry) {
	if len(e.Vector) == 0 || facevec.IsZero(e.Vector) {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.graph == nil {
		n.graph = newGraph()
	}
	n.graph.Add(hnsw.MakeNode(e.PhotoID, e.Vector))
	n.entries[e.PhotoID] = e
}

// Delete removes the entry for a photo ID, reporting whether it existed.
func (n *NeighborIndex) Delete(photoID int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.entries[photoID]; !ok {
		return false
	}
	delete(n.entries, photoID)
	if n.graph != nil {
		n.graph.Delete(photoID)
	}
	return true
}

// Count returns the number of indexed entries.
func (n *NeighborIndex) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Search returns up to k entries nearest to the query by cosine
// distance, closest first.
func (n *NeighborIndex) Search(query []float32, k int) ([]Neighbor, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.graph == nil {
		return nil, errors.New("index not initialized")
	}

	nodes := n.graph.Search(query, k)
	neighbors := make([]Neighbor, 0, len(nodes))
	for _, node := range nodes {
		entry, ok := n.entries[node.Key]
		if !ok {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Entry:    entry,
			Distance: facevec.CosineDistance(query, node.Value),
		})
	}

	return neighbors, nil
}
