// Package poller implements the Poller Loop: the single long-lived task
// that repeatedly reads a batch of spans from the Upstream Reader,
// decodes them, persists them to the columnar store, and advances the
// Resumption Store's cursor, one transaction per batch.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/spanpump/errors"
	"github.com/teranos/spanpump/ingest/columnar"
	"github.com/teranos/spanpump/ingest/model"
	"github.com/teranos/spanpump/ingest/otlp"
	"github.com/teranos/spanpump/ingest/reader"
	"github.com/teranos/spanpump/ingest/resume"
)

// Sentinel errors realizing the error taxonomy. Each is handled inside the
// loop: the batch is abandoned, the cursor stays put, and the next tick
// retries it, with a backoff once errors repeat.
var (
	ErrTransientUpstream = errors.New("transient upstream error")
	ErrTransientStore    = errors.New("transient columnar store error")
	ErrCorruptFrame      = errors.New("corrupt span frame")
	ErrFatalBatch        = errors.New("fatal batch error")
	ErrCursorPersist     = errors.New("cursor persist error")
)

// State is one of the Poller Loop's explicit lifecycle states.
type State int

const (
	StateStarting State = iota
	StatePolling
	StateSleeping
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StatePolling:
		return "polling"
	case StateSleeping:
		return "sleeping"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config controls the Poller Loop's timing and strictness.
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	StrictMode   bool
}

// Reader is the subset of *reader.Reader the loop depends on (narrowed
// for testability).
type Reader interface {
	ReadSpans(ctx context.Context, cursor model.Cursor, batchSize int) ([]reader.Frame, error)
}

// Poller drives the batch-read -> decode -> persist -> advance cycle.
type Poller struct {
	cfg      Config
	upstream Reader
	gateway  *columnar.Gateway
	cursors  *resume.Store
	log      *zap.SugaredLogger

	mu    sync.Mutex
	state State

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Poller. The gateway and cursors stores are expected to
// already be open and migrated.
func New(cfg Config, upstream Reader, gateway *columnar.Gateway, cursors *resume.Store, log *zap.SugaredLogger) *Poller {
	return &Poller{
		cfg:      cfg,
		upstream: upstream,
		gateway:  gateway,
		cursors:  cursors,
		log:      log,
		state:    StateStarting,
		done:     make(chan struct{}),
	}
}

// State returns the loop's current lifecycle state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Start runs the poll loop until the parent context is cancelled. It
// blocks; callers typically run it in its own goroutine.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	defer close(p.done)

	p.setState(StatePolling)

	errorCount := 0
	const maxConsecutiveErrors = 5
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.setState(StateDraining)
			p.log.Infow("poller loop draining on cancellation")
			p.setState(StateStopped)
			return
		default:
		}

		p.setState(StatePolling)
		n, err := p.pollOnce(ctx)
		if err != nil {
			errorCount++
			p.log.Errorw("poll cycle failed", "error", err, "consecutive_errors", errorCount)

			if errorCount >= maxConsecutiveErrors {
				p.log.Warnw("poller backing off after repeated errors", "backoff", backoff)
				select {
				case <-ctx.Done():
					p.setState(StateStopped)
					return
				case <-time.After(backoff):
				}
				backoff = min(backoff*2, maxBackoff)
			}
		} else {
			if errorCount > 0 {
				p.log.Infow("poller recovered", "previous_errors", errorCount)
			}
			errorCount = 0
			backoff = time.Second
			if n > 0 {
				p.log.Infow("batch persisted", "count", n)
			}
		}

		p.setState(StateSleeping)
		select {
		case <-ctx.Done():
			p.setState(StateStopped)
			return
		case <-ticker.C:
		}
	}
}

// Stop requests the loop to cancel and blocks until it has exited, up to
// a grace period for an in-flight batch to finish.
func (p *Poller) Stop(grace time.Duration) {
	if p.cancel == nil {
		return
	}
	p.cancel()

	select {
	case <-p.done:
	case <-time.After(grace):
		p.log.Warnw("poller did not stop within grace period", "grace", grace)
	}
}

// pollOnce runs one Polling-state cycle: load cursor, read a batch,
// decode it, persist it in one columnar transaction, then save the cursor,
// returning the number of spans applied.
func (p *Poller) pollOnce(ctx context.Context) (int, error) {
	cursor, err := p.cursors.Load(ctx)
	if err != nil {
		return 0, errors.Wrapf(ErrCursorPersist, "load cursor: %v", err)
	}

	frames, err := p.upstream.ReadSpans(ctx, cursor, p.cfg.BatchSize)
	if err != nil {
		return 0, errors.Wrapf(ErrTransientUpstream, "read spans: %v", err)
	}
	if len(frames) == 0 {
		return 0, nil
	}

	// Tentatively the new high-water mark; held back (see below) if every
	// frame in the batch turns out to be corrupt.
	nextCursor := frames[len(frames)-1].Cursor

	var (
		rows    []model.SpanRow
		patches []model.PatchRow
		skipped int
	)

	for _, f := range frames {
		serviceName := otlp.ExtractServiceName(f.ResourceBytes)
		row, patchRows, err := otlp.Decode(serviceName, f.SpanBytes)
		if err != nil {
			// A single corrupt frame is skipped, not fatal, unless
			// strict_mode asks the whole batch to fail together.
			if p.cfg.StrictMode {
				return 0, errors.Wrapf(ErrFatalBatch, "corrupt frame in strict mode: %v", err)
			}
			p.log.Warnw("skipping corrupt span frame", "error", err)
			skipped++
			continue
		}
		rows = append(rows, row)
		patches = append(patches, patchRows...)
	}

	if skipped > 0 {
		p.log.Warnw("decoded batch with skipped frames", "skipped", skipped, "total", len(frames))
	}
	if len(rows) == 0 {
		// Every frame in the batch was corrupt; do not advance the
		// cursor so the batch can be retried once upstream recovers.
		return 0, nil
	}

	if err := p.applyBatch(ctx, rows, patches, nextCursor); err != nil {
		return 0, errors.Wrapf(ErrTransientStore, "apply batch: %v", err)
	}

	return len(rows), nil
}

func (p *Poller) applyBatch(ctx context.Context, rows []model.SpanRow, patches []model.PatchRow, cursor model.Cursor) error {
	tx, err := p.gateway.Begin(ctx)
	if err != nil {
		return err
	}

	if err := columnar.InsertSpans(ctx, tx, rows); err != nil {
		tx.Rollback()
		return err
	}
	if err := columnar.InsertPatches(ctx, tx, patches); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	// The resumption cursor lives in a separate database (rowstore, not
	// columnar), so it cannot share the columnar transaction; it is
	// advanced immediately after a successful commit. A crash in this
	// narrow window is safe: at-least-once delivery means the next poll
	// simply re-reads and re-applies an already-ignored batch.
	//
	// A save failure here is logged and swallowed, not propagated: the
	// batch itself is already durably committed, so failing the whole
	// cycle would be wrong. The next cycle re-delivers the same batch
	// against an unmoved cursor, and the idempotent-ignore insert absorbs
	// the replay.
	if err := p.cursors.Save(ctx, cursor); err != nil {
		p.log.Errorw("failed to persist resumption cursor after commit", "error", err)
	}
	return nil
}
