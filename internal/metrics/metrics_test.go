package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	counters  []counterCall
	durations []durationCall
	flushes   int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type durationCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.counters = append(f.counters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveDuration(name string, value float64, labels Labels) {
	f.durations = append(f.durations, durationCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.flushes++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{}
	SetBackend(f)
	t.Cleanup(func() { SetBackend(nopBackend{}) })
	return f
}

func TestRecordStep(t *testing.T) {
	f := install(t)

	RecordStep("job1", "execute", nil, 250*time.Millisecond)
	RecordStep("job1", "execute", errors.New("boom"), time.Second)

	require.Len(t, f.counters, 2)
	assert.Equal(t, "lookup_step_total", f.counters[0].name)
	assert.Equal(t, "success", f.counters[0].labels["status"])
	assert.Equal(t, "failure", f.counters[1].labels["status"])

	require.Len(t, f.durations, 2)
	assert.Equal(t, "lookup_step_duration_seconds", f.durations[0].name)
	assert.InDelta(t, 0.25, f.durations[0].value, 1e-9)
}

func TestRecordRows(t *testing.T) {
	f := install(t)

	RecordRows("job1", "fetched", 42)
	RecordRows("job1", "fetched", 0)
	RecordRows("job1", "fetched", -3)

	require.Len(t, f.counters, 1, "non-positive deltas are dropped")
	assert.Equal(t, "lookup_rows_total", f.counters[0].name)
	assert.Equal(t, 42.0, f.counters[0].delta)
	assert.Equal(t, "fetched", f.counters[0].labels["kind"])
}

func TestRecordBatches(t *testing.T) {
	f := install(t)

	RecordBatches("job1", 3)
	require.Len(t, f.counters, 1)
	assert.Equal(t, "lookup_batches_total", f.counters[0].name)
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	f := install(t)
	SetBackend(nil)
	RecordBatches("job1", 1)
	assert.Len(t, f.counters, 1)
}

func TestFlush(t *testing.T) {
	f := install(t)
	require.NoError(t, Flush())
	assert.Equal(t, 1, f.flushes)
}
