package kvstore

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Op names the storage operation a failure happened in.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// FailureHook observes storage failures that BestEffort swallowed.
type FailureHook func(op Op, key string, err error)

// LogFailures returns a FailureHook that logs at warn level.
func LogFailures(logger *zap.Logger) FailureHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(op Op, key string, err error) {
		logger.Warn("session storage failure ignored",
			zap.String("op", string(op)),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// BestEffort is the persistence contract both widgets rely on: reads that
// fail look like absent values, writes that fail are dropped, and neither
// ever returns an error. The in-memory state of the caller stays
// authoritative. Every swallowed failure is reported to the hook.
type BestEffort struct {
	store Store
	hook  FailureHook
}

// NewBestEffort wraps store. A nil hook discards failures.
func NewBestEffort(store Store, hook FailureHook) *BestEffort {
	if hook == nil {
		hook = func(Op, string, error) {}
	}
	return &BestEffort{store: store, hook: hook}
}

// Read returns the value under key and whether one was found. A missing
// store, a missing key and a failing backend all read as absent.
func (b *BestEffort) Read(ctx context.Context, key string) (string, bool) {
	if b == nil || b.store == nil {
		return "", false
	}
	v, err := b.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			b.hook(OpRead, key, err)
		}
		return "", false
	}
	return v, true
}

// Write stores value under key, reporting but not returning failures.
func (b *BestEffort) Write(ctx context.Context, key, value string) {
	if b == nil || b.store == nil {
		return
	}
	if err := b.store.Set(ctx, key, value); err != nil {
		b.hook(OpWrite, key, err)
	}
}
