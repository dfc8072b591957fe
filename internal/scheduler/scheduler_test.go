package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsight/internal/pipeline"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
}

func (f *fakeRunner) Run(context.Context) (*pipeline.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.Result{RunID: "run-1"}, nil
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureNotifier) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func TestRegister_InvalidCron(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeRunner{}, nil)
	assert.Error(t, s.Register("not a cron"))
	// five-field expressions are rejected because seconds are required
	assert.Error(t, s.Register("30 22 * * 1-5"))
	assert.NoError(t, s.Register("0 30 22 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
}

func TestRunNow_Success(t *testing.T) {
	r := &fakeRunner{}
	n := &captureNotifier{}
	s := NewScheduler(context.Background(), r, n)

	assert.True(t, s.RunNow())
	assert.Equal(t, 1, r.calls)
	require.NotNil(t, s.Last())
	assert.Equal(t, "run-1", s.Last().RunID)
	assert.Empty(t, n.sent)
}

func TestRunNow_FailureAlerts(t *testing.T) {
	r := &fakeRunner{err: errors.New("quota <exceeded>")}
	n := &captureNotifier{}
	s := NewScheduler(context.Background(), r, n)

	assert.True(t, s.RunNow())
	assert.Nil(t, s.Last())
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "quota &lt;exceeded&gt;")
}

func TestRunNow_CancelledContextDoesNotAlert(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := &captureNotifier{}
	s := NewScheduler(ctx, &fakeRunner{err: context.Canceled}, n)

	s.RunNow()
	assert.Empty(t, n.sent)
}

func TestRunNow_SkipsOverlap(t *testing.T) {
	r := &fakeRunner{block: make(chan struct{})}
	s := NewScheduler(context.Background(), r, nil)

	done := make(chan bool)
	go func() { done <- s.RunNow() }()
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.calls == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, s.RunNow())
	close(r.block)
	assert.True(t, <-done)
	assert.Equal(t, 1, r.calls)
}

func TestStop_WaitsForRunNow(t *testing.T) {
	r := &fakeRunner{block: make(chan struct{})}
	s := NewScheduler(context.Background(), r, nil)
	s.Start()

	go s.RunNow()
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.calls == 1
	}, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a refresh was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(r.block)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the refresh finished")
	}
	assert.NotNil(t, s.Last())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeRunner{}, nil)
	require.NoError(t, s.Register("@every 1h"))
	s.Start()
	s.Stop()
}
