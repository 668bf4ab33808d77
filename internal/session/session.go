// Package session owns the authenticated-session lifecycle: the bearer token
// and the user identity it resolves to, persisted together across runs.
//
// The store is a small state machine:
//
//	Unauthenticated → (login/register) → Authenticated
//	Unauthenticated → (persisted record found) → Validating
//	Validating      → (probe ok, identity complete) → Authenticated
//	Validating      → (probe failed or identity incomplete) → Invalid → Unauthenticated
//
// Entering Invalid always triggers Logout, so callers only ever observe
// Unauthenticated, Validating or Authenticated between operations.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/devlog/devlog-cli/internal/model"
)

// State is the lifecycle position of the session store.
type State int

const (
	Unauthenticated State = iota
	Validating
	Authenticated
	Invalid
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrNotAuthenticated is returned when an authenticated client is requested
// outside the Authenticated state.
var ErrNotAuthenticated = errors.New("not logged in (run: devlog login)")

// Probe is a liveness check against any protected backend endpoint, issued
// with a client that already carries the stored credential.
type Probe func(ctx context.Context, client *http.Client) error

// record is the persisted shape. Token and user are stored together and
// cleared together; a token must never exist on disk without its paired
// identity.
type record struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

// Store holds the session for the running client. One instance per process;
// it is handed by reference to every component that issues authenticated
// calls.
type Store struct {
	path  string
	state State
	token string
	user  model.User
}

// filePath returns the session file location under the given state dir.
func filePath(base string) string {
	return filepath.Join(base, "auth", "session.json")
}

// Open loads any persisted session from base (~/.devlog). With a persisted
// record the store starts in Validating — the credential exists but has not
// been confirmed against the backend. Without one it starts Unauthenticated.
func Open(base string) (*Store, error) {
	s := &Store{path: filePath(base), state: Unauthenticated}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupt session — warn and require a fresh login.
		fmt.Fprintf(os.Stderr, "Warning: corrupt session file (delete %s or log in again): %v\n", s.path, err)
		return s, nil
	}

	s.token = rec.AccessToken
	s.user = rec.User
	s.state = Validating
	return s, nil
}

// State returns the current lifecycle state.
func (s *Store) State() State { return s.state }

// IsAuthenticated reports whether authenticated calls may be issued. Callers
// must observe this before acting; no component may call the backend from
// Unauthenticated, Validating or Invalid.
func (s *Store) IsAuthenticated() bool { return s.state == Authenticated }

// User returns the resolved identity. Only meaningful once Authenticated.
func (s *Store) User() model.User { return s.user }

// Login stores the token and user returned by a successful login or
// registration and transitions straight to Authenticated. Both halves are
// persisted atomically in one file: a credential without an identity (or the
// reverse) is rejected rather than stored.
func (s *Store) Login(token string, user model.User) error {
	if token == "" || user.ID == "" || user.Role == "" {
		s.state = Invalid
		if err := s.Logout(); err != nil {
			return err
		}
		return fmt.Errorf("login response missing token or user identity")
	}

	if err := s.save(record{AccessToken: token, User: user}); err != nil {
		return err
	}
	s.token = token
	s.user = user
	s.state = Authenticated
	return nil
}

// Validate confirms a persisted credential by issuing the probe against a
// protected endpoint. Success with a complete identity (id and role present)
// confirms Authenticated; an incomplete identity or any probe failure moves
// the store to Invalid and logs it out. No-op outside Validating.
func (s *Store) Validate(ctx context.Context, probe Probe) error {
	if s.state != Validating {
		return nil
	}

	if s.user.ID == "" || s.user.Role == "" {
		// Token persisted without a usable identity — the paired-record
		// invariant was broken somewhere; treat the session as dead.
		return s.invalidate(fmt.Errorf("stored session has no user identity"))
	}

	if err := probe(ctx, s.httpClient(ctx)); err != nil {
		return s.invalidate(fmt.Errorf("session validation failed: %w", err))
	}

	s.state = Authenticated
	return nil
}

// invalidate moves to Invalid, then immediately logs out so the store never
// rests in Invalid.
func (s *Store) invalidate(cause error) error {
	s.state = Invalid
	if err := s.Logout(); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Logout clears the persisted token and user together and returns to
// Unauthenticated. Idempotent and safe to call from any state.
func (s *Store) Logout() error {
	s.token = ""
	s.user = model.User{}
	s.state = Unauthenticated

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Client returns an HTTP client that attaches the session token as a bearer
// credential to every request. It refuses to hand out a client unless the
// store is Authenticated.
func (s *Store) Client(ctx context.Context) (*http.Client, error) {
	if s.state != Authenticated {
		return nil, ErrNotAuthenticated
	}
	return s.httpClient(ctx), nil
}

// httpClient builds the bearer-injecting client without a state check; used
// by Validate while still in Validating.
func (s *Store) httpClient(ctx context.Context) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: s.token,
		TokenType:   "Bearer",
	})
	return oauth2.NewClient(ctx, src)
}

// save atomically persists the record: write to a temp file, then rename.
func (s *Store) save(rec record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving session file: %w", err)
	}
	return nil
}
