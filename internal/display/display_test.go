package display

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

type fakeSource struct {
	temp      atomic.Float32
	connected atomic.Bool
}

func (f *fakeSource) Temperature() float32 { return f.temp.Load() }
func (f *fakeSource) Connected() bool      { return f.connected.Load() }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReportOnlyWhileConnected(t *testing.T) {
	src := &fakeSource{}
	var out bytes.Buffer

	src.temp.Store(23.5)
	require.NoError(t, report(src, &out))
	assert.Empty(t, out.String(), "stale value must not be printed")

	src.connected.Store(true)
	require.NoError(t, report(src, &out))
	assert.Equal(t, "The temperature is 23.5\n", out.String())
}

func TestRunPrintsUntilCancelled(t *testing.T) {
	src := &fakeSource{}
	src.temp.Store(25.3)
	src.connected.Store(true)

	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, src, 10*time.Millisecond, out) }()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "The temperature is 25.3\n") >= 2
	}, 2*time.Second, 5*time.Millisecond)

	src.connected.Store(false)
	time.Sleep(30 * time.Millisecond)
	before := out.String()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, out.String(), "nothing printed while disconnected")

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingWriter struct {
	writes atomic.Int64
}

func (f *failingWriter) Write([]byte) (int, error) {
	f.writes.Inc()
	return 0, errors.New("closed pipe")
}

func TestRunKeepsTickingAfterWriteError(t *testing.T) {
	src := &fakeSource{}
	src.connected.Store(true)

	w := &failingWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, src, 5*time.Millisecond, w) }()

	require.Eventually(t, func() bool { return w.writes.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
