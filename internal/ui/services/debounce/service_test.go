package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delay = 100 * time.Millisecond

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) action(name string) func() {
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, name)
	}
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestOnlyLastActionRuns(t *testing.T) {
	s := NewService()
	rec := &recorder{}

	for _, q := range []string{"c", "ca", "cat"} {
		s.Schedule(rec.action(q), delay)
		time.Sleep(delay / 20)
	}

	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(2 * delay)
	assert.Equal(t, []string{"cat"}, rec.get())
	assert.False(t, s.Pending())
}

func TestSeparatedCallsBothRun(t *testing.T) {
	s := NewService()
	rec := &recorder{}

	s.Schedule(rec.action("first"), delay)
	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)

	s.Schedule(rec.action("second"), delay)
	require.Eventually(t, func() bool { return len(rec.get()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, rec.get())
}

func TestCancel(t *testing.T) {
	s := NewService()
	var calls int32

	s.Schedule(func() { atomic.AddInt32(&calls, 1) }, delay)
	assert.True(t, s.Pending())
	s.Cancel()
	assert.False(t, s.Pending())

	time.Sleep(3 * delay)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestFlushRunsPendingImmediatelyOnce(t *testing.T) {
	s := NewService()
	var calls int32

	s.Schedule(func() { atomic.AddInt32(&calls, 1) }, time.Hour)
	assert.True(t, s.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.False(t, s.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStopIgnoresLaterSchedules(t *testing.T) {
	s := NewService()
	var calls int32

	s.Schedule(func() { atomic.AddInt32(&calls, 1) }, delay)
	s.Stop()
	s.Schedule(func() { atomic.AddInt32(&calls, 1) }, delay)

	assert.False(t, s.Pending())
	time.Sleep(3 * delay)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestManyConcurrentSchedulesRunExactlyOnce(t *testing.T) {
	s := NewService()
	var calls int32

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Schedule(func() { atomic.AddInt32(&calls, 1) }, delay)
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(2 * delay)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
