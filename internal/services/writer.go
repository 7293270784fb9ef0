package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"biomas/internal/common"
	"biomas/internal/domain/preferences"
)

// SaveResult reports the outcome of one queued save
type SaveResult struct {
	Seq    uint64
	Record preferences.PreferenceRecord
	Err    error
}

// OK reports whether the save reached the store
func (r SaveResult) OK() bool {
	return r.Err == nil
}

type saveRequest struct {
	seq    uint64
	record preferences.PreferenceRecord
}

// Writer serializes saves to a store on a single goroutine. Enqueue never
// blocks and the store receives records in submission order.
type Writer struct {
	ctx      context.Context
	store    preferences.Store
	logger   *slog.Logger
	onResult func(SaveResult)

	mu        sync.Mutex
	queue     []saveRequest
	seq       uint64
	completed uint64
	closed    bool
	progress  chan struct{}

	wake chan struct{}
	done chan struct{}
}

// NewWriter starts the writer goroutine. onResult may be nil; it runs on
// the writer goroutine after every save.
func NewWriter(ctx context.Context, store preferences.Store, logger *slog.Logger, onResult func(SaveResult)) *Writer {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Writer{
		ctx:      context.WithoutCancel(ctx),
		store:    store,
		logger:   logger,
		onResult: onResult,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	go w.run()
	return w
}

// Enqueue schedules a save of record and returns its sequence number
func (w *Writer) Enqueue(record preferences.PreferenceRecord) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, common.ErrWriterClosed
	}

	w.seq++
	w.queue = append(w.queue, saveRequest{seq: w.seq, record: record})
	w.signal()

	return w.seq, nil
}

// Pending returns the number of saves not yet handed to the store
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Flush waits until every save enqueued before the call has completed
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.seq
	w.mu.Unlock()

	for {
		w.mu.Lock()
		if w.completed >= target {
			w.mu.Unlock()
			return nil
		}
		progress := w.progress
		w.mu.Unlock()

		select {
		case <-progress:
		case <-w.done:
			w.mu.Lock()
			completed := w.completed
			w.mu.Unlock()
			if completed >= target {
				return nil
			}
			return common.ErrWriterClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops accepting saves and waits for the queue to drain
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.signal()
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// signal must be called with w.mu held
func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Writer) run() {
	defer close(w.done)

	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.mu.Unlock()
			<-w.wake
			w.mu.Lock()
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		req := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		result := SaveResult{
			Seq:    req.seq,
			Record: req.record,
			Err:    w.save(req.record),
		}

		if result.Err != nil {
			w.logger.Error("Failed to save preferences", "seq", result.Seq, "error", result.Err)
		} else {
			w.logger.Debug("Preferences saved", "seq", result.Seq)
		}

		if w.onResult != nil {
			w.onResult(result)
		}

		w.mu.Lock()
		w.completed = req.seq
		close(w.progress)
		w.progress = make(chan struct{})
		w.mu.Unlock()
	}
}

func (w *Writer) save(record preferences.PreferenceRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: store panicked: %v", common.ErrStorageUnavailable, r)
		}
	}()
	return w.store.Save(w.ctx, record)
}
