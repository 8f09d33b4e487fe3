// internal/service/apilog/recorders.go
package apilog

import (
	"context"
	"sync"

	"signup-service/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Multi fans an entry out to several recorders.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, e Entry) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, e)
		}
	}
}

type ZapRecorder struct {
	logger *zap.Logger
}

func NewZapRecorder(logger *zap.Logger) *ZapRecorder {
	return &ZapRecorder{logger: logger}
}

func (r *ZapRecorder) Record(_ context.Context, e Entry) {
	fields := []zap.Field{
		zap.String("log_id", e.ID.String()),
		zap.String("case_id", e.CaseID),
		zap.String("endpoint", e.Endpoint),
		zap.String("type", string(e.Type)),
		zap.Int64("duration_ms", e.DurationMs),
	}
	if e.err != nil {
		r.logger.Warn("backend call failed", append(fields, zap.Error(e.err))...)
		return
	}
	r.logger.Debug("backend call", fields...)
}

type MetricsRecorder struct {
	m *metrics.Metrics
}

func NewMetricsRecorder(m *metrics.Metrics) *MetricsRecorder {
	return &MetricsRecorder{m: m}
}

func (r *MetricsRecorder) Record(_ context.Context, e Entry) {
	r.m.BackendCall(e.Endpoint, e.Duration(), e.err)
}

// Broadcaster pushes entries to live developer panel connections.
type Broadcaster interface {
	BroadcastAPILog(caseID string, entry interface{})
}

type StreamRecorder struct {
	b Broadcaster
}

func NewStreamRecorder(b Broadcaster) *StreamRecorder {
	return &StreamRecorder{b: b}
}

func (r *StreamRecorder) Record(_ context.Context, e Entry) {
	r.b.BroadcastAPILog(e.CaseID, e)
}

// RingRecorder keeps the latest entries per case, newest first.
type RingRecorder struct {
	size int

	mu      sync.Mutex
	entries map[string][]Entry
}

const DefaultRingSize = 50

func NewRingRecorder(size int) *RingRecorder {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingRecorder{size: size, entries: make(map[string][]Entry)}
}

func (r *RingRecorder) Record(_ context.Context, e Entry) {
	if e.CaseID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	list := append([]Entry{e}, r.entries[e.CaseID]...)
	if len(list) > r.size {
		list = list[:r.size]
	}
	r.entries[e.CaseID] = list
}

// Entries returns a copy of the case's entries, newest first.
func (r *RingRecorder) Entries(caseID string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry{}, r.entries[caseID]...)
}

func (r *RingRecorder) Clear(caseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, caseID)
}
