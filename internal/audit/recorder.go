package audit

import (
	"context"
	"sync/atomic"
)

// recorderChanSize is the buffer of pending entries. Entries beyond it are
// dropped so auditing never adds back-pressure to requests.
const recorderChanSize = 256

// Logger defines the logging interface used by the Recorder.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Recorder writes audit entries asynchronously and serially, which suits
// SQLite's single writer. Recording is best-effort.
type Recorder struct {
	repo    Repository
	logger  Logger
	source  string
	ch      chan *AuditLog
	dropped atomic.Int64
}

// NewRecorder creates a recorder writing to repo. source tags every entry
// ("api", "cli").
func NewRecorder(repo Repository, logger Logger, source string) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
		source: source,
		ch:     make(chan *AuditLog, recorderChanSize),
	}
}

// Record enqueues an entry. If the queue is full the entry is dropped and
// a warning is logged.
func (r *Recorder) Record(action, entityType, entityID, ownerID string, details map[string]any) {
	entry := &AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OwnerID:    ownerID,
		Source:     r.source,
		Details:    details,
	}

	select {
	case r.ch <- entry:
	default:
		r.dropped.Add(1)
		r.logger.Warn("audit log channel full, dropping entry",
			"action", action,
			"entity_type", entityType,
		)
	}
}

// Dropped returns how many entries were discarded because the queue was full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Run writes queued entries until ctx is cancelled, then drains whatever
// is still queued and returns.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case entry := <-r.ch:
			r.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-r.ch:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(entry *AuditLog) {
	// The request context is gone by now; the write gets its own.
	if err := r.repo.Create(context.Background(), entry); err != nil {
		r.logger.Error("audit log write failed",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"error", err,
		)
	}
}
