package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// WriteFunc performs writes inside the transaction of the batch it belongs to.
// tx is nil when the writer has no database (tests).
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// BatchWriter groups row inserts into transactions. A batch is committed when
// it reaches the configured size, when the flush interval elapses, on Flush
// and on Close. One failing WriteFunc rolls back its whole batch.
type BatchWriter struct {
	mu          sync.Mutex
	buf         []WriteFunc
	size        int
	flushTicker *time.Ticker
	closed      bool
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	commitCh chan []WriteFunc
	db       *sql.DB

	// OnError is called for every failed or dropped batch.
	OnError func(error)

	errMu    sync.Mutex
	firstErr error
	batches  int
	written  int
}

// NewBatchWriter starts a writer on conn. size <= 0 selects a batch size of
// 10; flushInterval 0 disables time based flushing.
func NewBatchWriter(conn *sql.DB, size int, flushInterval time.Duration) *BatchWriter {
	if size <= 0 {
		size = 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	bw := &BatchWriter{
		buf:      make([]WriteFunc, 0, size),
		size:     size,
		ctx:      ctx,
		cancel:   cancel,
		commitCh: make(chan []WriteFunc, 2),
		db:       conn,
	}

	bw.wg.Add(1)
	go bw.committer()

	if flushInterval > 0 {
		bw.flushTicker = time.NewTicker(flushInterval)
		bw.wg.Add(1)
		go bw.loop()
	}
	return bw
}

// Submit queues w. It blocks while the committer is two batches behind.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.size {
		bw.flushLocked()
	}
	return nil
}

// Flush hands the pending writes to the committer without waiting for them.
func (bw *BatchWriter) Flush() {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if !bw.closed {
		bw.flushLocked()
	}
}

// flushLocked assumes bw.mu is held.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.size)

	select {
	case bw.commitCh <- batch:
	case <-bw.ctx.Done():
		bw.fail(fmt.Errorf("batch writer: dropping batch of %d items due to context cancellation", len(batch)))
	}
}

func (bw *BatchWriter) fail(err error) {
	bw.errMu.Lock()
	if bw.firstErr == nil {
		bw.firstErr = err
	}
	bw.errMu.Unlock()
	if bw.OnError != nil {
		bw.OnError(err)
	}
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		if err := bw.executeBatch(batch); err != nil {
			bw.fail(err)
			continue
		}
		bw.errMu.Lock()
		bw.batches++
		bw.written += len(batch)
		bw.errMu.Unlock()
	}
}

func (bw *BatchWriter) executeBatch(batch []WriteFunc) error {
	if bw.db == nil {
		for _, w := range batch {
			if err := w(bw.ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	// Batches already handed over are committed even while closing.
	ctx := context.Background()

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

func (bw *BatchWriter) loop() {
	defer bw.wg.Done()
	for {
		select {
		case <-bw.ctx.Done():
			return
		case <-bw.flushTicker.C:
			bw.mu.Lock()
			bw.flushLocked()
			bw.mu.Unlock()
		}
	}
}

// Stats returns the number of committed batches and writes so far.
func (bw *BatchWriter) Stats() (batches, writes int) {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.batches, bw.written
}

// Close flushes the remaining writes, waits for the committer and returns
// the first error seen by the writer.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	if bw.flushTicker != nil {
		bw.flushTicker.Stop()
	}
	bw.flushLocked()
	bw.mu.Unlock()

	bw.cancel()
	close(bw.commitCh)
	bw.wg.Wait()

	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.firstErr
}

// ErrBatchWriterClosed is returned by Submit and Close after Close.
var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

// BatchWriterError is the typed error of the batch writer.
type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }
