// Package sequence issues sequential invoice numbers backed by a shared
// counter. The counter advance must be a single atomic operation in the
// store; a read-then-write counter is exactly the duplicate-number race
// this package exists to prevent.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrCounterUnavailable is logged (wrapped) when the counter store keeps
// failing; callers never see it because Next degrades to a fallback
// number instead.
var ErrCounterUnavailable = errors.New("invoice counter unavailable")

// CounterStore advances the shared invoice counter.
type CounterStore interface {
	// Increment atomically advances the counter by one and returns the
	// new value. The first-ever call must initialize the counter to 1
	// race-safely (insert-if-absent).
	Increment(ctx context.Context) (int64, error)
}

// Number is an issued invoice identifier. OutOfSequence is set when the
// value came from the timestamp fallback rather than the shared counter,
// so callers can warn that numbering continuity was broken.
type Number struct {
	Value         string
	OutOfSequence bool
}

// Config controls number formatting and retry behavior.
type Config struct {
	Prefix     string // e.g. "INV-"
	Width      int    // zero-pad width of the counter portion
	MaxRetries int    // attempts against the store before falling back
	RetryDelay time.Duration
}

// DefaultConfig matches the traditional INV-00001 format.
func DefaultConfig() Config {
	return Config{
		Prefix:     "INV-",
		Width:      5,
		MaxRetries: 3,
		RetryDelay: 50 * time.Millisecond,
	}
}

// Sequencer hands out invoice numbers exactly once each.
type Sequencer struct {
	store       CounterStore
	cfg         Config
	logger      *zap.Logger
	fallbackSeq atomic.Int64 // disambiguates fallback numbers issued in the same instant
}

// New creates a Sequencer. Zero config fields fall back to defaults.
func New(store CounterStore, cfg Config, logger *zap.Logger) *Sequencer {
	def := DefaultConfig()
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	return &Sequencer{store: store, cfg: cfg, logger: logger}
}

// Next issues the next invoice number. Under concurrent callers every
// returned number is distinct; barring fallback the numbers form a
// contiguous increasing run. If the counter store stays unreachable after
// bounded retries, Next returns a process-unique timestamp-derived number
// flagged OutOfSequence instead of failing the invoice. A number issued
// here is never reclaimed: if persistence fails downstream the sequence
// simply has a gap, which is acceptable.
func (s *Sequencer) Next(ctx context.Context) (Number, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		value, err := s.store.Increment(ctx)
		if err == nil {
			return Number{Value: fmt.Sprintf("%s%0*d", s.cfg.Prefix, s.cfg.Width, value)}, nil
		}
		lastErr = err
		s.logger.Warn("Invoice counter increment failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", s.cfg.MaxRetries),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return Number{}, ctx.Err()
		case <-time.After(s.cfg.RetryDelay):
		}
	}

	fallback := s.fallbackNumber()
	s.logger.Warn("Falling back to out-of-sequence invoice number",
		zap.String("invoice_number", fallback),
		zap.Error(fmt.Errorf("%w: %v", ErrCounterUnavailable, lastErr)))
	return Number{Value: fallback, OutOfSequence: true}, nil
}

// fallbackNumber encodes the current time plus an in-process counter, so
// concurrent fallbacks within the same millisecond still differ.
func (s *Sequencer) fallbackNumber() string {
	return fmt.Sprintf("%sTS%d-%d", s.cfg.Prefix, time.Now().UnixMilli(), s.fallbackSeq.Add(1))
}
