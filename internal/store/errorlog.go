package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verte-zerg/supertype/internal/model"
)

// ErrorLogKey is the key the typing error log is stored under.
const ErrorLogKey = "typingErrors"

// DefaultErrorLogLimit is how many recent errors are retained.
const DefaultErrorLogLimit = 100

// ErrorLog keeps the most recent mistyped characters.
type ErrorLog struct {
	mu     sync.Mutex
	store  *Store
	limit  int
	logger *slog.Logger
}

// NewErrorLog builds an error log on s. A non-positive limit uses DefaultErrorLogLimit.
func NewErrorLog(s *Store, limit int, logger *slog.Logger) *ErrorLog {
	if limit <= 0 {
		limit = DefaultErrorLogLimit
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ErrorLog{store: s, limit: limit, logger: logger}
}

// Record appends errs and drops the oldest entries beyond the limit.
func (l *ErrorLog) Record(ctx context.Context, errs []model.TypingError) error {
	if len(errs) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	all := append(l.recent(ctx), errs...)
	if len(all) > l.limit {
		all = all[len(all)-l.limit:]
	}
	doc, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode typing errors: %w", err)
	}
	return l.store.Put(ctx, ErrorLogKey, string(doc))
}

// Recent returns the retained errors, oldest first. Missing or corrupt logs are empty.
func (l *ErrorLog) Recent(ctx context.Context) []model.TypingError {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recent(ctx)
}

// Clear drops every retained error.
func (l *ErrorLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Delete(ctx, ErrorLogKey)
}

func (l *ErrorLog) recent(ctx context.Context) []model.TypingError {
	raw, err := l.store.Get(ctx, ErrorLogKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.logger.Warn("failed to read typing errors", slog.String("error", err.Error()))
		}
		return []model.TypingError{}
	}
	var errs []model.TypingError
	if err := json.Unmarshal([]byte(raw), &errs); err != nil {
		l.logger.Warn("typing error log is unreadable", slog.String("error", err.Error()))
		return []model.TypingError{}
	}
	if errs == nil {
		errs = []model.TypingError{}
	}
	return errs
}
