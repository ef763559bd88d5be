package bus

import "time"

// Record is one retained emission.
type Record struct {
	Event     string
	Data      any
	Timestamp time.Time
}

// ring is a fixed-capacity buffer of emission records. Oldest entries are
// evicted first. Access is guarded by the owning Bus's mutex.
type ring struct {
	entries []Record
	head    int
	count   int
}

func newRing(capacity int) *ring {
	return &ring{entries: make([]Record, capacity)}
}

func (r *ring) push(rec Record) {
	if len(r.entries) == 0 {
		return
	}
	r.entries[(r.head+r.count)%len(r.entries)] = rec
	if r.count < len(r.entries) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.entries)
	}
}

// snapshot returns up to limit records, oldest first. limit <= 0 means all.
func (r *ring) snapshot(limit int) []Record {
	if limit <= 0 || limit > r.count {
		limit = r.count
	}
	out := make([]Record, 0, limit)
	start := r.count - limit
	for i := start; i < r.count; i++ {
		out = append(out, r.entries[(r.head+i)%len(r.entries)])
	}
	return out
}

// History returns the most recent emissions, oldest first. A limit <= 0
// returns everything retained. History has no effect on dispatch.
func (b *Bus) History(limit int) []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.snapshot(limit)
}
