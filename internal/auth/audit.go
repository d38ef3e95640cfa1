package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AuditStore is the external append-only audit collaborator.
type AuditStore interface {
	Insert(ctx context.Context, entry AuditEntry) error
}

// AuditLogger records privileged actions best-effort. Record never blocks
// the guarded request and a failed write never fails it either: failures go
// to the operational log only. Entries drain through a single writer
// goroutine, so each actor's entries land in the order that actor issued
// them.
type AuditLogger struct {
	store        AuditStore
	logger       *slog.Logger
	entries      chan AuditEntry
	done         chan struct{}
	writeTimeout time.Duration
}

// NewAuditLogger starts the background writer. Call Close on shutdown to
// drain pending entries.
func NewAuditLogger(store AuditStore, logger *slog.Logger) *AuditLogger {
	l := &AuditLogger{
		store:        store,
		logger:       logger,
		entries:      make(chan AuditEntry, 256),
		done:         make(chan struct{}),
		writeTimeout: 5 * time.Second,
	}
	go l.drain()
	return l
}

// Record enqueues an audit entry, filling in ID and timestamp when absent.
// If the buffer is full the entry is dropped and the drop is logged.
func (l *AuditLogger) Record(entry AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	select {
	case l.entries <- entry:
	default:
		l.logger.Error("audit write failed",
			slog.String("reason", "buffer full"),
			slog.String("actor_id", entry.ActorID),
			slog.String("action", entry.Action))
	}
}

// Close stops accepting entries and waits for the writer to drain.
func (l *AuditLogger) Close() {
	close(l.entries)
	<-l.done
}

func (l *AuditLogger) drain() {
	defer close(l.done)
	for entry := range l.entries {
		ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
		if err := l.store.Insert(ctx, entry); err != nil {
			l.logger.Error("audit write failed",
				slog.Any("error", err),
				slog.String("actor_id", entry.ActorID),
				slog.String("action", entry.Action))
		}
		cancel()
	}
}
