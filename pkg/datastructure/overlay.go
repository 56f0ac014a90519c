package datastructure

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// segmentKey identifies an undirected segment regardless of direction.
type segmentKey struct {
	lo, hi string
}

func newSegmentKey(a, b string) segmentKey {
	if a < b {
		return segmentKey{lo: a, hi: b}
	}
	return segmentKey{lo: b, hi: a}
}

// Overlay marks edges and nodes as unusable without touching the base graph.
// toggling is cheap and keeps precomputed cost maps repairable instead of
// forcing a rebuild. an Overlay belongs to one session and is not safe for
// concurrent mutation with a running search.
type Overlay struct {
	blockedEdges map[segmentKey]struct{}
	blockedNodes map[string]struct{}
	version      uint64
}

func NewOverlay() *Overlay {
	return &Overlay{
		blockedEdges: make(map[segmentKey]struct{}),
		blockedNodes: make(map[string]struct{}),
	}
}

// Clone produces an independent overlay with the same blocked sets. used to
// hand each concurrent comparison run its own snapshot.
func (o *Overlay) Clone() *Overlay {
	c := NewOverlay()
	for k := range o.blockedEdges {
		c.blockedEdges[k] = struct{}{}
	}
	for k := range o.blockedNodes {
		c.blockedNodes[k] = struct{}{}
	}
	c.version = o.version
	return c
}

// BlockEdge blocks the undirected segment between from and to, both
// directions at once.
func (o *Overlay) BlockEdge(from, to string) {
	o.blockedEdges[newSegmentKey(from, to)] = struct{}{}
	o.version++
}

func (o *Overlay) UnblockEdge(from, to string) {
	delete(o.blockedEdges, newSegmentKey(from, to))
	o.version++
}

func (o *Overlay) BlockNode(id string) {
	o.blockedNodes[id] = struct{}{}
	o.version++
}

func (o *Overlay) UnblockNode(id string) {
	delete(o.blockedNodes, id)
	o.version++
}

func (o *Overlay) IsEdgeBlocked(from, to string) bool {
	if o == nil {
		return false
	}
	_, ok := o.blockedEdges[newSegmentKey(from, to)]
	return ok
}

func (o *Overlay) IsNodeBlocked(id string) bool {
	if o == nil {
		return false
	}
	_, ok := o.blockedNodes[id]
	return ok
}

func (o *Overlay) NumBlockedEdges() int {
	return len(o.blockedEdges)
}

func (o *Overlay) NumBlockedNodes() int {
	return len(o.blockedNodes)
}

// Version increments on every mutation. callers use it to invalidate caches
// keyed on the blocking state.
func (o *Overlay) Version() uint64 {
	if o == nil {
		return 0
	}
	return o.version
}

// BlockedSegments lists blocked segments as (lo, hi) pairs in sorted order.
func (o *Overlay) BlockedSegments() [][2]string {
	segs := make([][2]string, 0, len(o.blockedEdges))
	for k := range o.blockedEdges {
		segs = append(segs, [2]string{k.lo, k.hi})
	}
	sort.Slice(segs, func(i, j int) bool {
		if segs[i][0] != segs[j][0] {
			return segs[i][0] < segs[j][0]
		}
		return segs[i][1] < segs[j][1]
	})
	return segs
}

func (o *Overlay) BlockedNodeIds() []string {
	ids := make([]string, 0, len(o.blockedNodes))
	for id := range o.blockedNodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fingerprint hashes the blocking state. combined with start/goal/algorithm
// it identifies one search input exactly; duplicate-call suppression is the
// caller's job, this is the key it uses.
func (o *Overlay) Fingerprint() uint64 {
	h := fnv.New64a()
	for _, seg := range o.BlockedSegments() {
		fmt.Fprintf(h, "e:%s|%s;", seg[0], seg[1])
	}
	for _, id := range o.BlockedNodeIds() {
		fmt.Fprintf(h, "n:%s;", id)
	}
	return h.Sum64()
}
