package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/config"
	"github.com/devlog/devlog-cli/internal/session"
)

// app bundles what an authenticated command needs: the loaded config, the
// session store, and an API client whose requests carry the session token.
type app struct {
	cfg   config.Config
	store *session.Store
	api   *api.Client
}

// openStore loads config and the persisted session without requiring
// authentication. login, register and logout start here.
func openStore() (config.Config, *session.Store) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	base, err := config.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	store, err := session.Open(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg, store
}

// requireSession resolves a usable authenticated session or exits. A
// persisted session is validated against the notifications endpoint; only a
// failure of this validation probe (not of later notification fetches)
// invalidates the session.
func requireSession(ctx context.Context) app {
	cfg, store := openStore()

	if store.State() == session.Validating {
		probe := func(ctx context.Context, hc *http.Client) error {
			_, err := api.New(cfg.ServerURL, hc).Notifications(ctx)
			return err
		}
		if err := store.Validate(ctx, probe); err != nil {
			fmt.Fprintf(os.Stderr, "Session is no longer valid: %v\n", err)
			fmt.Fprintln(os.Stderr, "Please run: devlog login")
			os.Exit(1)
		}
	}

	hc, err := store.Client(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return app{cfg: cfg, store: store, api: api.New(cfg.ServerURL, hc)}
}

// requireRole gates a role-scoped command. Developer and manager views are
// mutually exclusive per session.
func requireRole(ctx context.Context, role string) app {
	a := requireSession(ctx)
	if a.store.User().Role != role {
		fmt.Fprintf(os.Stderr, "This command is only available to %s accounts (you are logged in as a %s).\n",
			role, a.store.User().Role)
		os.Exit(1)
	}
	return a
}

// exitOn reports a failed backend call and exits. A rejected credential
// bubbles to the session store and forces logout; validation and server
// rejections are user errors, transport failures storage-class errors.
func (a app) exitOn(err error) {
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		if lerr := a.store.Logout(); lerr != nil {
			fmt.Fprintln(os.Stderr, lerr)
		}
		fmt.Fprintln(os.Stderr, "Session expired. Please run: devlog login")
		os.Exit(1)
	}

	var valErr *api.ValidationError
	var apiErr *api.APIError
	if errors.As(err, &valErr) || errors.As(err, &apiErr) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}

// parseDateFlag parses a YYYY-MM-DD flag value, exiting on bad input.
func parseDateFlag(name, value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --%s value %q: %v\n", name, value, err)
		os.Exit(1)
	}
	return d
}

// moodFace renders a 1–5 mood the way the dashboard does.
func moodFace(mood int) string {
	faces := []string{"😢", "😕", "😐", "😊", "😄"}
	if mood < 1 || mood > len(faces) {
		return "😐"
	}
	return faces[mood-1]
}
