package navigation

// Heap is a binary min-heap of int items keyed by int priority. An item can
// appear at most once; pushing it again only ever lowers its priority.
type Heap struct {
	items      []int
	priorities []int
	slot       map[int]int
}

// NewHeap returns an empty heap with room for capacity items.
func NewHeap(capacity int) *Heap {
	if capacity < 0 {
		capacity = 0
	}
	return &Heap{
		items:      make([]int, 0, capacity),
		priorities: make([]int, 0, capacity),
		slot:       make(map[int]int, capacity),
	}
}

func (h *Heap) Len() int {
	return len(h.items)
}

// Push inserts item, or decreases its priority if it is already queued with a
// higher one.
func (h *Heap) Push(item, priority int) {
	if h.slot == nil {
		h.slot = make(map[int]int)
	}
	if i, ok := h.slot[item]; ok {
		if priority < h.priorities[i] {
			h.priorities[i] = priority
			h.siftUp(i)
		}
		return
	}

	h.slot[item] = len(h.items)
	h.items = append(h.items, item)
	h.priorities = append(h.priorities, priority)
	h.siftUp(len(h.items) - 1)
}

// Pop removes the lowest-priority item. Ties come out in heap order.
func (h *Heap) Pop() (int, bool) {
	n := len(h.items)
	if n == 0 {
		return -1, false
	}
	top := h.items[0]
	h.swap(0, n-1)
	h.items = h.items[:n-1]
	h.priorities = h.priorities[:n-1]
	delete(h.slot, top)
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top, true
}

// Contains reports whether item is queued.
func (h *Heap) Contains(item int) bool {
	_, ok := h.slot[item]
	return ok
}

// Reset empties the heap, keeping its storage.
func (h *Heap) Reset() {
	h.items = h.items[:0]
	h.priorities = h.priorities[:0]
	clear(h.slot)
}

func (h *Heap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.priorities[i] >= h.priorities[parent] {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *Heap) siftDown(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		right := left + 1
		smallest := i
		if left < n && h.priorities[left] < h.priorities[smallest] {
			smallest = left
		}
		if right < n && h.priorities[right] < h.priorities[smallest] {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *Heap) swap(a, b int) {
	h.items[a], h.items[b] = h.items[b], h.items[a]
	h.priorities[a], h.priorities[b] = h.priorities[b], h.priorities[a]
	h.slot[h.items[a]] = a
	h.slot[h.items[b]] = b
}
