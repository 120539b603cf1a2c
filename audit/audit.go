// Package audit records every property omitted or defaulted during
// translation. Translation is one-way and best-effort with no rollback, so
// nothing may be dropped without a record the operator can inspect later.
package audit

import (
	"context"
	"sync"
	"time"
)

// Record is one audit entry: a property-level event raised while translating
// a record within a run.
type Record struct {
	// Run identifies the ingest run the event belongs to.
	Run string
	// Form and Prop locate the property. Prop is empty for record-level
	// events.
	Form string
	Prop string
	// Detail is the warning or error text.
	Detail string
	// Time is when the event was recorded.
	Time time.Time
}

// Recorder accepts audit records. Implementations must be safe for
// concurrent use; translation of a batch is parallel.
type Recorder interface {
	Record(ctx context.Context, r Record) error
}

// MemoryRecorder keeps records in memory. The zero value is ready to use.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []Record
}

// Record appends an entry.
func (m *MemoryRecorder) Record(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

// Records returns a copy of the recorded entries in insertion order.
func (m *MemoryRecorder) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of recorded entries.
func (m *MemoryRecorder) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

var _ Recorder = (*MemoryRecorder)(nil)
