package errqueue

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/metrics"

	"github.com/google/uuid"
)

// MaxRecords is the depth of a queue; pushing onto a full queue discards the oldest record.
const MaxRecords = 16

type entry struct {
	code uint32
	data string
}

// Queue is one thread's error queue
type Queue struct {
	id      string
	mu      sync.Mutex
	entries []entry
	strings *Strings
	metrics *metrics.Metrics
}

// New creates an empty queue that renders messages through the given string table
func New(strings *Strings, m *metrics.Metrics) *Queue {
	return &Queue{
		id:      uuid.NewString(),
		entries: make([]entry, 0, MaxRecords),
		strings: strings,
		metrics: m,
	}
}

// ID identifies the owning thread in diagnostic output
func (q *Queue) ID() string {
	return q.id
}

// Push appends a record. Only Code and Data are kept; the message is rendered on read.
func (q *Queue) Push(rec provider.ErrorRecord) {
	q.push(rec.Code, rec.Data)
}

// Record pushes a record for a library and reason with optional detail
func (q *Queue) Record(lib, reason int, data string) {
	q.push(Pack(lib, reason), data)
}

func (q *Queue) push(code uint32, data string) {
	q.mu.Lock()
	if len(q.entries) == MaxRecords {
		q.entries = append(q.entries[:0], q.entries[1:]...)
	}
	q.entries = append(q.entries, entry{code: code, data: data})
	q.mu.Unlock()

	q.metrics.ErrorQueued(q.strings.LibraryName(code))
}

// Pop removes and returns the oldest record
func (q *Queue) Pop() (provider.ErrorRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return provider.ErrorRecord{}, false
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return q.render(e), true
}

// Peek returns the oldest record without removing it
func (q *Queue) Peek() (provider.ErrorRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return provider.ErrorRecord{}, false
	}
	return q.render(q.entries[0]), true
}

// Len returns the number of pending records
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Clear discards every pending record
func (q *Queue) Clear() {
	q.mu.Lock()
	q.entries = q.entries[:0]
	q.mu.Unlock()
}

// Print writes and removes every pending record, one line each, oldest first
func (q *Queue) Print(w io.Writer) error {
	q.mu.Lock()
	pending := make([]entry, len(q.entries))
	copy(pending, q.entries)
	q.entries = q.entries[:0]
	q.mu.Unlock()

	for _, e := range pending {
		rec := q.render(e)
		line := fmt.Sprintf("%s:%s", q.id, rec.Message)
		if rec.Data != "" {
			line += ":" + rec.Data
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to print error queue: %w", err)
		}
	}
	return nil
}

// Drain pops the oldest record and, when verbose, writes the remaining records to w.
// The queue is empty afterwards on every path.
func (q *Queue) Drain(verbose bool, w io.Writer) (provider.ErrorRecord, bool) {
	rec, ok := q.Pop()
	if verbose && w != nil {
		_ = q.Print(w)
	}
	q.Clear()
	return rec, ok
}

func (q *Queue) render(e entry) provider.ErrorRecord {
	return provider.ErrorRecord{
		Code:    e.code,
		Library: Library(e.code),
		Reason:  Reason(e.code),
		Message: q.strings.Format(e.code),
		Data:    e.data,
	}
}

type contextKey struct{}

// NewContext returns a context carrying the calling thread's queue
func NewContext(ctx context.Context, q *Queue) context.Context {
	return context.WithValue(ctx, contextKey{}, q)
}

// FromContext returns the queue carried by ctx, or nil
func FromContext(ctx context.Context) *Queue {
	if ctx == nil {
		return nil
	}
	q, _ := ctx.Value(contextKey{}).(*Queue)
	return q
}

// Report pushes a record onto the queue carried by ctx. Without a queue the record is dropped.
func Report(ctx context.Context, lib, reason int, data string) {
	if q := FromContext(ctx); q != nil {
		q.Record(lib, reason, data)
	}
}
