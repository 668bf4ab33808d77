package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devlog/devlog-cli/internal/model"
	"github.com/devlog/devlog-cli/internal/session"
)

func devUser() model.User {
	return model.User{ID: "user-1", Username: "dev", Email: "dev@example.com", Role: model.RoleDeveloper}
}

func okProbe(ctx context.Context, _ *http.Client) error { return nil }

func TestOpenWithoutPersistedSession(t *testing.T) {
	s, err := session.Open(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, session.Unauthenticated, s.State())
	require.False(t, s.IsAuthenticated())
}

func TestLoginPersistsTokenAndUserTogether(t *testing.T) {
	base := t.TempDir()

	s, err := session.Open(base)
	require.NoError(t, err)
	require.NoError(t, s.Login("tok-1", devUser()))
	require.Equal(t, session.Authenticated, s.State())
	require.Equal(t, "dev", s.User().Username)

	// A fresh open finds the persisted record and starts in Validating.
	reopened, err := session.Open(base)
	require.NoError(t, err)
	require.Equal(t, session.Validating, reopened.State())
	require.False(t, reopened.IsAuthenticated())

	require.NoError(t, reopened.Validate(context.Background(), okProbe))
	require.Equal(t, session.Authenticated, reopened.State())
	require.Equal(t, devUser(), reopened.User())
}

func TestLoginRejectsIncompleteResponses(t *testing.T) {
	cases := []struct {
		name  string
		token string
		user  model.User
	}{
		{"missing token", "", devUser()},
		{"missing user id", "tok", model.User{Role: model.RoleDeveloper}},
		{"missing role", "tok", model.User{ID: "user-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := t.TempDir()
			s, err := session.Open(base)
			require.NoError(t, err)

			require.Error(t, s.Login(tc.token, tc.user))
			require.Equal(t, session.Unauthenticated, s.State())

			// Nothing may be persisted.
			_, err = os.Stat(filepath.Join(base, "auth", "session.json"))
			require.True(t, os.IsNotExist(err))
		})
	}
}

func TestValidateSendsBearerCredential(t *testing.T) {
	base := t.TempDir()
	s, err := session.Open(base)
	require.NoError(t, err)
	require.NoError(t, s.Login("tok-abc", devUser()))

	reopened, err := session.Open(base)
	require.NoError(t, err)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	probe := func(ctx context.Context, client *http.Client) error {
		resp, err := client.Get(srv.URL)
		if err != nil {
			return err
		}
		resp.Body.Close()
		return nil
	}
	require.NoError(t, reopened.Validate(context.Background(), probe))
	require.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestValidateProbeFailureForcesLogout(t *testing.T) {
	base := t.TempDir()
	s, err := session.Open(base)
	require.NoError(t, err)
	require.NoError(t, s.Login("tok-1", devUser()))

	reopened, err := session.Open(base)
	require.NoError(t, err)

	failing := func(ctx context.Context, _ *http.Client) error {
		return errors.New("401 rejected")
	}
	require.Error(t, reopened.Validate(context.Background(), failing))
	require.Equal(t, session.Unauthenticated, reopened.State())

	// The persisted record is gone with the session.
	_, err = os.Stat(filepath.Join(base, "auth", "session.json"))
	require.True(t, os.IsNotExist(err))
}

func TestValidateIncompleteIdentityForcesLogout(t *testing.T) {
	base := t.TempDir()

	// Hand-write a record whose identity is missing its role.
	dir := filepath.Join(base, "auth")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	rec := `{"access_token": "tok-1", "user": {"id": "user-1", "username": "dev"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(rec), 0o600))

	s, err := session.Open(base)
	require.NoError(t, err)
	require.Equal(t, session.Validating, s.State())

	probeCalled := false
	probe := func(ctx context.Context, _ *http.Client) error {
		probeCalled = true
		return nil
	}
	require.Error(t, s.Validate(context.Background(), probe))
	require.Equal(t, session.Unauthenticated, s.State())
	require.False(t, probeCalled, "incomplete identity must fail before the probe runs")
}

func TestValidateIsNoOpOutsideValidating(t *testing.T) {
	s, err := session.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Validate(context.Background(), okProbe))
	require.Equal(t, session.Unauthenticated, s.State())
}

func TestLogoutIsIdempotent(t *testing.T) {
	base := t.TempDir()
	s, err := session.Open(base)
	require.NoError(t, err)
	require.NoError(t, s.Login("tok-1", devUser()))

	require.NoError(t, s.Logout())
	require.Equal(t, session.Unauthenticated, s.State())
	require.NoError(t, s.Logout())
	require.Equal(t, session.Unauthenticated, s.State())
}

func TestClientRefusedWhenNotAuthenticated(t *testing.T) {
	s, err := session.Open(t.TempDir())
	require.NoError(t, err)

	_, err = s.Client(context.Background())
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestOpenCorruptSessionFile(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "auth")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{bad json"), 0o600))

	s, err := session.Open(base)
	require.NoError(t, err)
	require.Equal(t, session.Unauthenticated, s.State())
}
