package datastructure

import (
	"errors"
)

type PriorityQueueNode[T comparable] struct {
	rank    float64
	item    T
	itemPos int
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

func (p *PriorityQueueNode[T]) SetRank(rank float64) {
	p.rank = rank
}

func (p *PriorityQueueNode[T]) SetPos(i int) {
	p.itemPos = i
}

func (p *PriorityQueueNode[T]) GetPos() int {
	return p.itemPos
}

func NewPriorityQueueNode[T comparable](rank float64, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, item: item, itemPos: -1}
}

// LessFunc orders two queue entries. the default ordering compares the stored
// rank; callers that need live priorities (the incremental replanner's
// two-part lexicographic keys) supply an ordering that recomputes the key from
// its cost maps on every comparison, so the heap never caches a stale
// priority.
type LessFunc[T comparable] func(a, b *PriorityQueueNode[T]) bool

// MinHeap d-ary heap priorityqueue
type MinHeap[T comparable] struct {
	heap []*PriorityQueueNode[T]
	d    int
	less LessFunc[T]
}

func NewBinaryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](2)
}

func NewFourAryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](4)
}

func NewdAryHeap[T comparable](d int) *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]*PriorityQueueNode[T], 0),
		d:    d,
		less: func(a, b *PriorityQueueNode[T]) bool { return a.rank < b.rank },
	}
}

// NewBinaryHeapOrderedBy builds a binary heap whose ordering is fully owned by
// the caller. the stored rank is ignored by the heap itself.
func NewBinaryHeapOrderedBy[T comparable](less LessFunc[T]) *MinHeap[T] {
	h := NewBinaryHeap[T]()
	h.less = less
	return h
}

// parent index of index in a d-ary heap
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / h.d
}

// heapifyUp restore heap property bottom-up. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(h.heap[index], h.heap[h.parent(index)]) {
		h.Swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown restore heap property top-down. O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	leftMostChild := index*h.d + 1
	if leftMostChild >= len(h.heap) {
		return
	}

	sentinel := leftMostChild + h.d
	if sentinel > len(h.heap) {
		sentinel = len(h.heap)
	}

	smallest := leftMostChild
	for i := leftMostChild + 1; i < sentinel; i++ {
		if h.less(h.heap[i], h.heap[smallest]) {
			smallest = i
		}
	}

	if h.less(h.heap[smallest], h.heap[index]) {
		h.Swap(index, smallest)

		h.heapifyDown(smallest)
	}
}

func (h *MinHeap[T]) Swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]

	h.heap[i].SetPos(i)
	h.heap[j].SetPos(j)
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Clear() {
	h.heap = make([]*PriorityQueueNode[T], 0)
}

// GetMin peek the minimum entry without popping it.
func (h *MinHeap[T]) GetMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return &PriorityQueueNode[T]{}, errors.New("heap is empty")
	}
	return h.heap[0], nil
}

// Insert push a new entry. O(logN).
func (h *MinHeap[T]) Insert(key *PriorityQueueNode[T]) {
	h.heap = append(h.heap, key)
	index := h.Size() - 1
	key.SetPos(index)
	h.heapifyUp(index)
}

// ExtractMin pop the minimum entry. O(logN).
func (h *MinHeap[T]) ExtractMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return &PriorityQueueNode[T]{}, errors.New("heap is empty")
	}
	root := h.heap[0]

	h.Swap(0, h.Size()-1)

	h.heap = h.heap[:h.Size()-1]
	root.SetPos(-1)
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}

	return root, nil
}

// Reheapify restores the heap property over the whole array. needed when the
// ordering function's external inputs changed for every entry at once, e.g.
// a heuristic recomputed against a moved start. O(N).
func (h *MinHeap[T]) Reheapify() {
	for i := (len(h.heap) - 2) / h.d; i >= 0; i-- {
		h.heapifyDown(i)
	}
}

// Remove delete a specific entry wherever it sits, identified by the position
// the heap tracks on every swap. duplicates of the same item are distinct
// entries. O(logN) reheapify.
func (h *MinHeap[T]) Remove(item *PriorityQueueNode[T]) error {
	pos := item.GetPos()
	if pos < 0 || pos >= h.Size() || h.heap[pos] != item {
		return errors.New("item is not in the heap")
	}

	last := h.Size() - 1
	h.Swap(pos, last)
	h.heap = h.heap[:last]
	item.SetPos(-1)

	if pos < h.Size() {
		h.heapifyUp(pos)
		h.heapifyDown(pos)
	}
	return nil
}

// DecreaseKey update the rank of an entry toward the root. O(logN) heapify.
func (h *MinHeap[T]) DecreaseKey(item *PriorityQueueNode[T], rank float64) error {
	itemPos := item.GetPos()
	if itemPos < 0 || itemPos >= h.Size() || h.heap[itemPos].GetRank() < rank {
		return errors.New("invalid index or new value")
	}

	h.heap[itemPos].SetRank(rank)
	h.heapifyUp(itemPos)
	return nil
}
