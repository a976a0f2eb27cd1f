package scheduler

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-records/internal/logger"
	"github.com/i474232898/weather-records/internal/observability"
)

type fakeCounter struct {
	n     int
	calls atomic.Int32
}

func (f *fakeCounter) Count() int {
	f.calls.Add(1)
	return f.n
}

func TestScheduler_ReportUpdatesGaugeAndLogs(t *testing.T) {
	var buf bytes.Buffer
	metrics := observability.NewTestMetrics()
	s := New(time.Minute, &fakeCounter{n: 7}, metrics, logger.NewWithWriter("info", &buf))

	s.report()

	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.RecordsStored))
	assert.Contains(t, buf.String(), "store holds 7 weather records")
}

func TestScheduler_DisabledWithZeroInterval(t *testing.T) {
	counter := &fakeCounter{}
	s := New(0, counter, observability.NewTestMetrics(), logger.Discard())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.False(t, s.scheduler.IsRunning())
	assert.Zero(t, counter.calls.Load())
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	counter := &fakeCounter{n: 1}
	s := New(time.Second, counter, observability.NewTestMetrics(), logger.Discard())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return counter.calls.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)
}
