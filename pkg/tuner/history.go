package tuner

import "sync"

// Entry is one recorded tick: when it happened, what frequency was heard
// (0 when nothing was detected) and which string it resolved to.
type Entry struct {
	Timestamp int64 // wall clock, milliseconds
	Frequency float64
	Note      string
}

// History is a fixed-capacity ring of tuning samples. Appends are O(1) and
// overwrite the oldest entry once the ring is full; entries are never
// mutated after insertion. A bounded ring rather than an ever-growing
// slice keeps long sessions at constant memory.
type History struct {
	mu      sync.RWMutex
	entries []Entry
	start   int
	count   int
}

// NewHistory creates a ring holding at most capacity entries.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{entries: make([]Entry, capacity)}
}

// Append records one entry, evicting the oldest if the ring is full.
func (h *History) Append(e Entry) {
	h.mu.Lock()
	if h.count < len(h.entries) {
		h.entries[(h.start+h.count)%len(h.entries)] = e
		h.count++
	} else {
		h.entries[h.start] = e
		h.start = (h.start + 1) % len(h.entries)
	}
	h.mu.Unlock()
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Snapshot returns a point-in-time copy of the retained entries, oldest
// first. The copy is safe to read while appends continue.
func (h *History) Snapshot() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Entry, h.count)
	for i := 0; i < h.count; i++ {
		out[i] = h.entries[(h.start+i)%len(h.entries)]
	}
	return out
}
