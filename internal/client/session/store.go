// Package session keeps the portal's current user and token, persisting the
// token between runs.
package session

import (
	"context"
	"fmt"
	"sync"

	"catalog_portal/internal/domain/model"
	"catalog_portal/internal/platform/logger"
)

// TokenKey is the single durable key holding the current token.
const TokenKey = "token"

// KV is the durable storage behind a Store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// State is a point-in-time view of a Store. User is nil when anonymous.
type State struct {
	User    *model.UserSnapshot
	Token   string
	Loading bool
}

func (s State) Authenticated() bool { return !s.Loading && s.User != nil }

type Store struct {
	mu      sync.Mutex
	kv      KV
	decoder Decoder
	state   State
}

// New returns a store in the loading state; call Init to leave it.
func New(kv KV, decoder Decoder) *Store {
	return &Store{kv: kv, decoder: decoder, state: State{Loading: true}}
}

// State returns a copy that later changes to the store do not affect.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	out := s.state
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// Init restores the session from durable storage. It is the only place a
// token is decoded; a token that fails to decode is removed.
func (s *Store) Init(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		s.state = State{}
		return s.snapshotLocked(), fmt.Errorf("read stored token: %w", err)
	}
	if !ok || len(raw) == 0 {
		s.state = State{}
		return s.snapshotLocked(), nil
	}

	token := string(raw)
	user, err := s.decoder.Decode(token)
	if err != nil {
		logger.Log.WithError(err).Info("discarding stored session token")
		s.state = State{}
		if delErr := s.kv.Delete(ctx, TokenKey); delErr != nil {
			return s.snapshotLocked(), fmt.Errorf("discard stored token: %w", delErr)
		}
		return s.snapshotLocked(), nil
	}

	s.state = State{User: &user, Token: token}
	return s.snapshotLocked(), nil
}

// Login persists token and makes user current. Nothing changes if persisting fails.
func (s *Store) Login(ctx context.Context, token string, user model.UserSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.state = State{User: &user, Token: token}
	return nil
}

// Logout clears the in-memory session even when the stored token cannot be removed.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("remove stored token: %w", err)
	}
	return nil
}

// SetUser replaces the current snapshot after a profile edit. The token is unchanged.
func (s *Store) SetUser(user model.UserSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return
	}
	s.state.User = &user
}
