package ingest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingWriter struct {
	calls    int32
	lastRows int32
	fail     int32 // number of leading calls that should fail
}

func (w *countingWriter) WriteBatch(ctx context.Context, table string, rows []any, async bool) error {
	n := atomic.AddInt32(&w.calls, 1)
	atomic.StoreInt32(&w.lastRows, int32(len(rows)))
	if n <= atomic.LoadInt32(&w.fail) {
		return assert.AnError
	}
	return nil
}

func TestBatcherFlushesOnBatchSize(t *testing.T) {
	writer := &countingWriter{}
	in := make(chan MetricRow, 10)
	b := NewBatcher[MetricRow]("mlop_metrics", BatcherConfig{BatchSize: 2, FlushInterval: time.Hour}, writer, zap.NewNop(), false, in)

	go b.Run(context.Background())

	in <- MetricRow{Value: 1}
	in <- MetricRow{Value: 2}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&writer.calls) == 1
	}, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 2, atomic.LoadInt32(&writer.lastRows))

	close(in)
	<-b.Done()
}

func TestBatcherFlushesOnInactivity(t *testing.T) {
	writer := &countingWriter{}
	in := make(chan MetricRow, 10)
	b := NewBatcher[MetricRow]("mlop_metrics", BatcherConfig{BatchSize: 1000, FlushInterval: 10 * time.Millisecond}, writer, zap.NewNop(), false, in)

	go b.Run(context.Background())

	in <- MetricRow{Value: 1}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&writer.calls) >= 1
	}, time.Second, 5*time.Millisecond)

	close(in)
	<-b.Done()
}

func TestBatcherDrainsRemainderOnClose(t *testing.T) {
	writer := &countingWriter{}
	in := make(chan MetricRow, 10)
	b := NewBatcher[MetricRow]("mlop_metrics", BatcherConfig{BatchSize: 1000, FlushInterval: time.Hour}, writer, zap.NewNop(), false, in)

	go b.Run(context.Background())

	in <- MetricRow{Value: 1}
	in <- MetricRow{Value: 2}
	in <- MetricRow{Value: 3}
	close(in)

	<-b.Done()
	assert.EqualValues(t, 1, atomic.LoadInt32(&writer.calls))
	assert.EqualValues(t, 3, atomic.LoadInt32(&writer.lastRows))
}

func TestBatcherDropsBatchAfterExhaustingNormalRetries(t *testing.T) {
	writer := &countingWriter{fail: normalMaxAttempts}
	in := make(chan MetricRow, 10)
	b := NewBatcher[MetricRow]("mlop_metrics", BatcherConfig{BatchSize: 1, FlushInterval: time.Hour}, writer, zap.NewNop(), false, in)

	go b.Run(context.Background())

	in <- MetricRow{Value: 1}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&writer.calls) == normalMaxAttempts
	}, 20*time.Second, 10*time.Millisecond)

	close(in)
	<-b.Done()
}

func TestBatcherSkipsUploadWhenConfigured(t *testing.T) {
	writer := &countingWriter{}
	in := make(chan MetricRow, 10)
	b := NewBatcher[MetricRow]("mlop_metrics", BatcherConfig{BatchSize: 1, FlushInterval: time.Hour}, writer, zap.NewNop(), true, in)

	go b.Run(context.Background())

	in <- MetricRow{Value: 1}
	close(in)
	<-b.Done()

	assert.Zero(t, atomic.LoadInt32(&writer.calls))
}
