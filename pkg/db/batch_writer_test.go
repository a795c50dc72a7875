package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestBatchWriterTransactions(t *testing.T) {
	conn := setupTestDB(t)

	bw := NewBatchWriter(conn, 2, 0)
	for i, word := range []string{"猫", "犬", "鳥"} {
		n := Note{ID: int64(i + 1), GUID: "g" + word, ModelID: 7, Fields: []string{word}, SortField: word}
		if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
			return InsertNote(tx, n)
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- bw.Close()
	}()
	select {
	case err := <-doneCh:
		if err != nil {
			t.Fatalf("close failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for batch commit/close")
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 notes, got %d", count)
	}
	if batches, writes := bw.Stats(); batches != 2 || writes != 3 {
		t.Fatalf("expected 2 batches / 3 writes, got %d / %d", batches, writes)
	}
}

func TestBatchWriterRollback(t *testing.T) {
	conn := setupTestDB(t)

	bw := NewBatchWriter(conn, 2, 0)
	errCh := make(chan error, 1)
	bw.OnError = func(e error) {
		errCh <- e
	}

	// One failing write rolls back the whole batch.
	bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return InsertNote(tx, Note{ID: 1, GUID: "a", Fields: []string{"猫"}, SortField: "猫"})
	})
	bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return fmt.Errorf("intentional error")
	})

	if err := bw.Close(); err == nil {
		t.Fatal("expected Close to report the batch error")
	}

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	default:
		t.Fatal("expected OnError to be called")
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		t.Fatalf("failed to query row count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 rows (rollback), got %d", count)
	}
}

func TestBatchWriterFlushesBySize(t *testing.T) {
	bw := NewBatchWriter(nil, 5, 0)
	var mu sync.Mutex
	called := 0
	for i := 0; i < 12; i++ {
		if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
			mu.Lock()
			called++
			mu.Unlock()
			return nil
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if called != 12 {
		t.Fatalf("expected 12 calls, got %d", called)
	}
	if batches, _ := bw.Stats(); batches != 3 {
		t.Fatalf("expected 3 batches, got %d", batches)
	}
}

func TestBatchWriterFlushesOnInterval(t *testing.T) {
	bw := NewBatchWriter(nil, 10, 20*time.Millisecond)
	done := make(chan struct{})
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected the ticker to flush the pending write")
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBatchWriterSubmitAfterClose(t *testing.T) {
	bw := NewBatchWriter(nil, 1, 0)
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error { return nil }); err != ErrBatchWriterClosed {
		t.Fatalf("expected ErrBatchWriterClosed, got %v", err)
	}
	if err := bw.Close(); err != ErrBatchWriterClosed {
		t.Fatalf("expected ErrBatchWriterClosed on second close, got %v", err)
	}
}

func TestBatchWriterDropsBatchOnCancel(t *testing.T) {
	bw := NewBatchWriter(nil, 1, 0)
	errCh := make(chan error, 8)
	bw.OnError = func(e error) {
		errCh <- e
	}

	blocker := make(chan struct{})

	// The committer holds this batch until blocker is closed.
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		<-blocker
		return nil
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	bw.cancel()

	// At most two more batches fit in the commit queue; the rest are dropped.
	for i := 0; i < 4; i++ {
		if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error { return nil }); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	close(blocker)

	select {
	case e := <-errCh:
		if e == nil || !strings.Contains(e.Error(), "dropping batch") {
			t.Fatalf("unexpected OnError value: %v", e)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected OnError to be called when batch dropped")
	}

	if err := bw.Close(); err == nil || !strings.Contains(err.Error(), "dropping batch") {
		t.Fatalf("expected Close to report the dropped batch, got %v", err)
	}
}
