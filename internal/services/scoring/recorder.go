package scoring

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/storage"
)

const (
	// DefaultBufferSize is the number of pending increments held before new ones are dropped
	DefaultBufferSize = 256

	// DefaultWriteTimeout bounds a single storage write
	DefaultWriteTimeout = 5 * time.Second
)

// Award is a pending score increment
type Award struct {
	PlayerID model.PlayerID
	Points   int
	Category model.Category
}

// Recorder persists score increments on a background worker. Record never
// blocks the caller and failures never reach it.
type Recorder struct {
	storage      storage.Storage
	logger       *slog.Logger
	writeTimeout time.Duration

	mu      sync.RWMutex
	closed  bool
	pending chan Award
	done    chan struct{}
}

// NewRecorder starts a recorder with its worker goroutine
func NewRecorder(store storage.Storage, bufferSize int, logger *slog.Logger) *Recorder {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	r := &Recorder{
		storage:      store,
		logger:       logger.With(slog.String("component", "score-recorder")),
		writeTimeout: DefaultWriteTimeout,
		pending:      make(chan Award, bufferSize),
		done:         make(chan struct{}),
	}
	go r.run()
	return r
}

// Record queues an award. When the queue is full or the recorder is closed
// the award is dropped with a warning.
func (r *Recorder) Record(id model.PlayerID, points int, category model.Category) {
	award := Award{PlayerID: id, Points: points, Category: category}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Warn("score dropped - recorder closed", awardAttrs(award)...)
		return
	}

	select {
	case r.pending <- award:
	default:
		r.logger.Warn("score dropped - queue full", awardAttrs(award)...)
	}
}

// Close stops accepting awards and waits for queued ones to be written
// or for ctx to end.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.pending)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for award := range r.pending {
		r.write(award)
	}
}

func (r *Recorder) write(award Award) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	score, err := r.storage.IncrementScore(ctx, string(award.PlayerID), award.Points)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		// Anonymous participants have no account to credit
		r.logger.Debug("score skipped - no account", awardAttrs(award)...)
	case err != nil:
		r.logger.Error("score write failed",
			append(awardAttrs(award), slog.String("error", err.Error()))...)
	default:
		r.logger.Info("score recorded",
			append(awardAttrs(award), slog.Int("total", score))...)
	}
}

func awardAttrs(a Award) []any {
	return []any{
		slog.String("player_id", string(a.PlayerID)),
		slog.Int("points", a.Points),
		slog.String("category", string(a.Category)),
	}
}
