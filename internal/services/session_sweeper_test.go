package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alphaDash/internal/assignments"
	"alphaDash/internal/cart"
	"alphaDash/internal/models"
	"alphaDash/internal/session"
)

type failingExpirer struct{ err error }

func (f failingExpirer) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, f.err
}

func TestSessionSweeper(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	carts := cart.NewRegistry()
	boards := assignments.NewRegistry()
	if err := session.New("s1", store).Login(ctx, models.Alpha{ID: "a1"}, models.Tokens{AccessToken: "acc"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	carts.Cart("s1")
	boards.Board("s1")

	sweeper := &SessionSweeper{Store: store, Carts: carts, Boards: boards, TTL: time.Hour}

	res, err := sweeper.Sweep(ctx, time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Total() != 0 {
		t.Fatalf("fresh session must survive, got %+v", res)
	}

	res, err = sweeper.Sweep(ctx, time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.StoredValues != 1 || res.Carts != 1 || res.Boards != 1 {
		t.Fatalf("unexpected sweep %+v", res)
	}
	restored, _ := session.Restore(ctx, store, "s1")
	if restored.IsAuthenticated() {
		t.Fatal("expired session still authenticated")
	}
	if carts.Len() != 0 || boards.Len() != 0 {
		t.Fatal("registries kept expired sessions")
	}
}

func TestSessionSweeperStoreFailure(t *testing.T) {
	carts := cart.NewRegistry()
	carts.Cart("s1")
	sweeper := &SessionSweeper{Store: failingExpirer{err: errors.New("db down")}, Carts: carts, TTL: time.Minute}

	res, err := sweeper.Sweep(context.Background(), time.Now().Add(time.Hour))
	if err == nil {
		t.Fatal("expected store error")
	}
	if res.Carts != 1 || carts.Len() != 0 {
		t.Fatalf("carts must be swept despite the store error, got %+v", res)
	}
}
