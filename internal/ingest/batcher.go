package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Writer is the column store's write side, kept narrow so Batcher doesn't
// need to know about ClickHouse specifically.
type Writer interface {
	WriteBatch(ctx context.Context, table string, rows []any, async bool) error
}

// BatcherConfig tunes when a Batcher flushes: as soon as it fills to
// BatchSize, or after FlushInterval has elapsed since the last flush with
// anything still buffered.
type BatcherConfig struct {
	BatchSize     int
	FlushInterval time.Duration
}

const (
	normalMaxAttempts = 3
	finalMaxAttempts  = 5

	// asyncInsertThreshold: batches at or below this size use ClickHouse's
	// async_insert setting; larger ones insert synchronously, since an
	// async ack for a huge batch would mask loss until it's too late.
	asyncInsertThreshold = 1000
)

// Batcher owns one row type's lifecycle: accumulate rows arriving on in,
// flush them to writer on size or inactivity, and perform a best-effort
// final flush (escalating to a fatal abort if that fails) once in is closed.
type Batcher[R any] struct {
	table      string
	cfg        BatcherConfig
	writer     Writer
	logger     *zap.Logger
	skipUpload bool
	in         <-chan R

	done chan struct{}
}

// NewBatcher wires a Batcher that consumes in and writes table to writer.
// Call Run in its own goroutine; Done closes once in is drained and the
// final flush (if any) has completed.
func NewBatcher[R any](table string, cfg BatcherConfig, writer Writer, logger *zap.Logger, skipUpload bool, in <-chan R) *Batcher[R] {
	return &Batcher[R]{
		table:      table,
		cfg:        cfg,
		writer:     writer,
		logger:     logger.With(zap.String("table", table)),
		skipUpload: skipUpload,
		in:         in,
		done:       make(chan struct{}),
	}
}

// Done reports when Run has returned.
func (b *Batcher[R]) Done() <-chan struct{} {
	return b.done
}

// Run drives the accumulate/flush state machine until in is closed. It
// blocks, so callers run it in its own goroutine.
func (b *Batcher[R]) Run(ctx context.Context) {
	defer close(b.done)

	buffer := make([]R, 0, b.cfg.BatchSize)
	lastFlush := time.Now()
	consecutiveErrors := 0

	// The inactivity check ticks once a second, or once per FlushInterval
	// when that is shorter.
	tick := time.Second
	if b.cfg.FlushInterval > 0 && b.cfg.FlushInterval < tick {
		tick = b.cfg.FlushInterval
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		if len(buffer) >= b.cfg.BatchSize {
			toFlush := buffer
			buffer = make([]R, 0, b.cfg.BatchSize)
			b.flush(ctx, toFlush, &consecutiveErrors, &lastFlush)
		}

		select {
		case row, ok := <-b.in:
			if !ok {
				if len(buffer) > 0 {
					b.finalFlush(ctx, buffer)
				}
				return
			}
			buffer = append(buffer, row)

		case <-ticker.C:
			if len(buffer) > 0 && time.Since(lastFlush) >= b.cfg.FlushInterval {
				toFlush := buffer
				buffer = make([]R, 0, b.cfg.BatchSize)
				b.flush(ctx, toFlush, &consecutiveErrors, &lastFlush)
			}
		}
	}
}

func (b *Batcher[R]) flush(ctx context.Context, rows []R, consecutiveErrors *int, lastFlush *time.Time) {
	if len(rows) == 0 {
		return
	}
	if b.skipUpload {
		*consecutiveErrors = 0
		*lastFlush = time.Now()
		return
	}

	async := len(rows) <= asyncInsertThreshold
	payload := toAny(rows)

	for attempt := 1; attempt <= normalMaxAttempts; attempt++ {
		err := b.writer.WriteBatch(ctx, b.table, payload, async)
		if err == nil {
			*consecutiveErrors = 0
			*lastFlush = time.Now()
			return
		}

		b.logger.Warn("batch flush attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", normalMaxAttempts),
			zap.Error(err))

		if attempt == normalMaxAttempts {
			*consecutiveErrors++
			*lastFlush = time.Now()
			b.logger.Error("dropping batch after repeated failures",
				zap.Int("rows", len(rows)),
				zap.Int("consecutive_errors", *consecutiveErrors))
			return
		}

		time.Sleep(backoff(attempt))
	}
}

func (b *Batcher[R]) finalFlush(ctx context.Context, rows []R) {
	if b.skipUpload || len(rows) == 0 {
		return
	}

	async := len(rows) <= asyncInsertThreshold
	payload := toAny(rows)

	for attempt := 1; attempt <= finalMaxAttempts; attempt++ {
		err := b.writer.WriteBatch(ctx, b.table, payload, async)
		if err == nil {
			b.logger.Info("final flush succeeded", zap.Int("rows", len(rows)))
			return
		}

		b.logger.Error("final flush attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", finalMaxAttempts),
			zap.Error(err))

		if attempt == finalMaxAttempts {
			b.logger.Fatal("final flush exhausted all retries, aborting process",
				zap.Int("rows", len(rows)),
				zap.Error(err))
			return
		}

		time.Sleep(backoff(attempt))
	}
}

// backoff is 2^attempt seconds, matching the original background processor.
func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func toAny[R any](rows []R) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
