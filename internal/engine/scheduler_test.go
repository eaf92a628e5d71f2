package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsCyclesUntilStopped(t *testing.T) {
	if testing.Short() {
		t.Skip("cron @every resolution is one second")
	}

	provider := &fakeProvider{ctx: contextWithCPU(85)}
	e := newTestEngine(t, provider, &fakeDispatcher{})
	_, err := e.CreateRule(scaleUpRule(1))
	require.NoError(t, err)

	s, err := NewScheduler(e, SchedulerIntervals{
		Cycle:    time.Second,
		Trend:    time.Hour,
		Optimize: time.Hour,
	})
	require.NoError(t, err)
	s.Start()

	require.Eventually(t, func() bool {
		return len(e.History(HistoryFilter{})) >= 2
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	// Stop waits for in-flight jobs, so the history is stable afterwards.
	n := len(e.History(HistoryFilter{}))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, n, len(e.History(HistoryFilter{})))
}
