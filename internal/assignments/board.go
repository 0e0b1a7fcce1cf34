package assignments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alphaDash/internal/models"
)

var (
	ErrInvalidTransition = errors.New("assignments: transition not allowed from current status")
	ErrInFlight          = errors.New("assignments: transition already in progress")
)

// RequestFunc performs the remote side of a transition.
type RequestFunc func(ctx context.Context, id string) error

// Outcome describes a transition that the platform accepted.
type Outcome struct {
	ID     string
	Action string
	From   string
	To     string
}

// Board is one session's snapshot of its assignment list.
type Board struct {
	mu       sync.Mutex
	items    []models.Assignment
	inFlight map[string]struct{}
}

func NewBoard() *Board {
	return &Board{inFlight: make(map[string]struct{})}
}

// Replace swaps the snapshot for a freshly fetched list.
func (b *Board) Replace(list []models.Assignment) {
	items := make([]models.Assignment, len(list))
	copy(items, list)

	b.mu.Lock()
	b.items = items
	b.mu.Unlock()
}

// Merge upserts a partial list, e.g. one narrowed by status, keeping other items.
func (b *Board) Merge(list []models.Assignment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range list {
		if i := b.indexOf(a.ID); i >= 0 {
			b.items[i] = a
			continue
		}
		b.items = append(b.items, a)
	}
}

func (b *Board) List() []models.Assignment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Assignment, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Board) Get(id string) (models.Assignment, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(id); i >= 0 {
		return b.items[i], true
	}
	return models.Assignment{}, false
}

// Transition runs action against assignment id. The local status is checked
// first and the request is skipped when the action is not allowed. On success
// the local item is patched to the new status; on failure nothing changes.
func (b *Board) Transition(ctx context.Context, id, action string, request RequestFunc) (Outcome, error) {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return Outcome{}, models.ErrAssignmentNotFound
	}
	from := b.items[i].Status
	to, ok := Target(from, action)
	if !ok {
		b.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
	}
	if _, busy := b.inFlight[id]; busy {
		b.mu.Unlock()
		return Outcome{}, ErrInFlight
	}
	b.inFlight[id] = struct{}{}
	b.mu.Unlock()

	err := request(ctx, id)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, id)
	if err != nil {
		return Outcome{}, err
	}
	if j := b.indexOf(id); j >= 0 && b.items[j].Status == from {
		b.items[j].Status = to
	}
	return Outcome{ID: id, Action: action, From: from, To: to}, nil
}

func (b *Board) indexOf(id string) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}
	return -1
}

type registryEntry struct {
	board   *Board
	touched time.Time
}

// Registry holds one Board per session.
type Registry struct {
	mu     sync.Mutex
	boards map[string]*registryEntry
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{boards: make(map[string]*registryEntry), now: time.Now}
}

func (r *Registry) Board(sessionID string) *Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.boards[sessionID]
	if !ok {
		e = &registryEntry{board: NewBoard()}
		r.boards[sessionID] = e
	}
	e.touched = r.now()
	return e.board
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.boards, sessionID)
	r.mu.Unlock()
}

// DropIdle forgets boards not touched since before.
func (r *Registry) DropIdle(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.boards {
		if e.touched.Before(before) {
			delete(r.boards, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}
