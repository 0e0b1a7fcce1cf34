package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"alphaDash/internal/models"
)

// Fixed storage keys. They are the only values ever persisted for a session.
const (
	KeyToken        = "alphaToken"
	KeyRefreshToken = "alphaRefreshToken"
	KeyAlpha        = "alphaData"
)

// Keys lists every persisted key, in write order.
var Keys = []string{KeyToken, KeyRefreshToken, KeyAlpha}

var (
	ErrNoSessionID = errors.New("session: empty session id")
	// ErrNotStored is returned by Store.Update when nothing is stored for the id.
	ErrNotStored = errors.New("session: nothing stored for session")
)

// Store persists session values per session id.
type Store interface {
	// Load returns the stored values, or an empty map when nothing is stored.
	Load(ctx context.Context, sessionID string) (map[string]string, error)
	Save(ctx context.Context, sessionID string, values map[string]string) error
	// Update overwrites values of a stored session only. It returns
	// ErrNotStored when the session was cleared or never saved.
	Update(ctx context.Context, sessionID string, values map[string]string) error
	Clear(ctx context.Context, sessionID string) error
}

// Session is the signed-in Alpha together with the platform tokens. It is
// built once per request by the session middleware and handed down explicitly.
type Session struct {
	id    string
	store Store

	mu     sync.RWMutex
	alpha  *models.Alpha
	tokens models.Tokens
}

func New(id string, store Store) *Session {
	return &Session{id: id, store: store}
}

// Restore rebuilds a session from persisted storage. A session with a missing
// token or profile comes back unauthenticated rather than as an error.
func Restore(ctx context.Context, store Store, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNoSessionID
	}
	values, err := store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s := New(id, store)

	token := values[KeyToken]
	rawAlpha := values[KeyAlpha]
	if token == "" || rawAlpha == "" {
		return s, nil
	}
	var alpha models.Alpha
	if err := json.Unmarshal([]byte(rawAlpha), &alpha); err != nil {
		return s, nil
	}
	s.alpha = &alpha
	s.tokens = models.Tokens{AccessToken: token, RefreshToken: values[KeyRefreshToken]}
	return s, nil
}

func (s *Session) ID() string { return s.id }

// Login persists the tokens and the profile and makes the session active.
func (s *Session) Login(ctx context.Context, alpha models.Alpha, tokens models.Tokens) error {
	data, err := json.Marshal(alpha)
	if err != nil {
		return fmt.Errorf("encode alpha: %w", err)
	}
	values := map[string]string{
		KeyToken:        tokens.AccessToken,
		KeyRefreshToken: tokens.RefreshToken,
		KeyAlpha:        string(data),
	}
	if err := s.store.Save(ctx, s.id, values); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.alpha = &alpha
	s.tokens = tokens
	s.mu.Unlock()
	return nil
}

// Logout clears every persisted value. The in-memory state is dropped even when
// the store fails, so the caller never keeps acting as the old Alpha.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.alpha = nil
	s.tokens = models.Tokens{}
	s.mu.Unlock()

	if err := s.store.Clear(ctx, s.id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alpha != nil
}

func (s *Session) Alpha() (models.Alpha, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.alpha == nil {
		return models.Alpha{}, false
	}
	return *s.alpha, true
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.RefreshToken
}

// UpdateAlpha replaces the cached profile, e.g. after a profile refetch. A
// session logged out by another request stays logged out: the write is refused
// and this copy drops its state too.
func (s *Session) UpdateAlpha(ctx context.Context, alpha models.Alpha) error {
	if !s.IsAuthenticated() {
		return models.ErrNotAuthenticated
	}
	data, err := json.Marshal(alpha)
	if err != nil {
		return fmt.Errorf("encode alpha: %w", err)
	}
	s.mu.RLock()
	values := map[string]string{
		KeyToken:        s.tokens.AccessToken,
		KeyRefreshToken: s.tokens.RefreshToken,
		KeyAlpha:        string(data),
	}
	s.mu.RUnlock()
	if err := s.store.Update(ctx, s.id, values); err != nil {
		if errors.Is(err, ErrNotStored) {
			s.mu.Lock()
			s.alpha = nil
			s.tokens = models.Tokens{}
			s.mu.Unlock()
			return models.ErrNotAuthenticated
		}
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.alpha = &alpha
	s.mu.Unlock()
	return nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
