package services

import (
	"context"
	"time"

	"alphaDash/internal/assignments"
	"alphaDash/internal/cart"
)

// SessionExpirer is a session store that can drop sessions by age. Stores with
// their own expiry, such as Redis, do not implement it.
type SessionExpirer interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// SweepResult counts what one sweep removed.
type SweepResult struct {
	StoredValues int64
	Carts        int
	Boards       int
}

func (r SweepResult) Total() int64 {
	return r.StoredValues + int64(r.Carts) + int64(r.Boards)
}

// SessionSweeper forgets sessions idle for longer than TTL.
type SessionSweeper struct {
	Store  SessionExpirer
	Carts  *cart.Registry
	Boards *assignments.Registry
	TTL    time.Duration
}

// Sweep removes persisted values and in-memory carts and boards older than TTL.
// The registries are swept even when the store fails.
func (s *SessionSweeper) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	if s == nil || s.TTL <= 0 {
		return res, nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.UTC().Add(-s.TTL)

	if s.Carts != nil {
		res.Carts = s.Carts.DropIdle(cutoff)
	}
	if s.Boards != nil {
		res.Boards = s.Boards.DropIdle(cutoff)
	}
	if s.Store == nil {
		return res, nil
	}
	n, err := s.Store.DeleteExpired(ctx, cutoff)
	if err != nil {
		return res, err
	}
	res.StoredValues = n
	return res, nil
}
