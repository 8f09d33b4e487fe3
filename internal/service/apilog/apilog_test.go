package apilog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"signup-service/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type captured struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *captured) Record(_ context.Context, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

type broadcast struct {
	caseID string
	entry  interface{}
}

func (b *broadcast) BroadcastAPILog(caseID string, entry interface{}) {
	b.caseID, b.entry = caseID, entry
}

func TestDoRecordsSuccess(t *testing.T) {
	rec := &captured{}
	call := Call{CaseID: "c1", Endpoint: EndpointAddresses, Type: TypeAddressSearch, Request: map[string]string{"query": "sto"}}

	got, err := Do(context.Background(), rec, call, func(context.Context) ([]string, error) {
		return []string{"Storgatan 1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Storgatan 1"}, got)

	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.NotEmpty(t, e.ID.String())
	assert.Equal(t, "c1", e.CaseID)
	assert.Equal(t, TypeAddressSearch, e.Type)
	assert.Equal(t, []string{"Storgatan 1"}, e.Response)
	assert.Empty(t, e.Error)
	assert.NoError(t, e.Err())
}

func TestDoRecordsFailure(t *testing.T) {
	rec := &captured{}
	boom := errors.New("boom")

	_, err := Do(context.Background(), rec, Call{Endpoint: EndpointScenario, Type: TypeScenario}, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "boom", rec.entries[0].Error)
	assert.Equal(t, map[string]string{"error": "boom"}, rec.entries[0].Response)
	assert.ErrorIs(t, rec.entries[0].Err(), boom)
}

func TestDoWithoutRecorder(t *testing.T) {
	got, err := Do(context.Background(), nil, Call{}, func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestMultiFansOut(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := metrics.New()
	ring := NewRingRecorder(2)
	b := &broadcast{}

	rec := Multi{NewZapRecorder(zap.New(core)), NewMetricsRecorder(m), NewStreamRecorder(b), ring, nil}

	for i := 0; i < 3; i++ {
		_, _ = Do(context.Background(), rec, Call{CaseID: "c1", Endpoint: EndpointRegion, Type: TypeGet, Request: i}, func(context.Context) (int, error) {
			return i, nil
		})
	}
	_, _ = Do(context.Background(), rec, Call{CaseID: "c1", Endpoint: EndpointRegion, Type: TypeGet}, func(context.Context) (int, error) {
		return 0, errors.New("down")
	})

	assert.Equal(t, 3, logs.FilterMessage("backend call").Len())
	assert.Equal(t, 1, logs.FilterMessage("backend call failed").Len())

	assert.Equal(t, "c1", b.caseID)
	assert.IsType(t, Entry{}, b.entry)

	entries := ring.Entries("c1")
	require.Len(t, entries, 2)
	assert.Equal(t, "down", entries[0].Error)
	assert.Equal(t, 2, entries[1].Request)

	ring.Clear("c1")
	assert.Empty(t, ring.Entries("c1"))

	series, err := testutil.GatherAndCount(m.Registry(), "signup_backend_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestRingIgnoresAnonymousCalls(t *testing.T) {
	ring := NewRingRecorder(0)
	ring.Record(context.Background(), Entry{Endpoint: EndpointRegion})
	assert.Empty(t, ring.Entries(""))
}
