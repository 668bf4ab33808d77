package notify_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/apitest"
	"github.com/devlog/devlog-cli/internal/model"
	"github.com/devlog/devlog-cli/internal/notify"
)

func developerClient(srv *apitest.Server) *api.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apitest.DeveloperToken, TokenType: "Bearer"})
	return api.New(srv.URL, oauth2.NewClient(context.Background(), src))
}

func seedNotifications(srv *apitest.Server) {
	now := time.Now().UTC().Truncate(time.Second)
	srv.Notifications = []model.Notification{
		{ID: "n-2", Message: "New feedback on your log", CreatedAt: now},
		{ID: "n-1", Message: "Welcome to DevLog", CreatedAt: now.Add(-time.Hour), Read: true},
	}
}

func TestRefreshReplacesState(t *testing.T) {
	srv := apitest.NewServer(t)
	seedNotifications(srv)
	feed := notify.NewFeed(developerClient(srv))

	require.NoError(t, feed.Refresh(context.Background()))
	require.Len(t, feed.Items(), 2)
	require.Equal(t, "n-2", feed.Items()[0].ID, "backend order is kept")
	require.Equal(t, 1, feed.UnreadCount())
}

func TestMarkReadIsOptimistic(t *testing.T) {
	srv := apitest.NewServer(t)
	seedNotifications(srv)
	feed := notify.NewFeed(developerClient(srv))
	ctx := context.Background()

	require.NoError(t, feed.Refresh(ctx))
	feed.MarkRead(ctx, "n-2")

	require.True(t, feed.Items()[0].Read)
	require.Equal(t, 0, feed.UnreadCount())
	require.Equal(t, 1, srv.CountRequests(http.MethodPut, "/api/notifications/n-2/read"))
}

func TestMarkReadSwallowsBackendFailure(t *testing.T) {
	srv := apitest.NewServer(t)
	seedNotifications(srv)
	feed := notify.NewFeed(developerClient(srv))
	ctx := context.Background()

	require.NoError(t, feed.Refresh(ctx))

	// Unknown id: backend answers 404, but no error surfaces and the rest of
	// the feed is untouched.
	feed.MarkRead(ctx, "n-gone")
	require.Equal(t, 1, feed.UnreadCount())
	require.Len(t, feed.Items(), 2)
}

func TestMarkReadIdempotent(t *testing.T) {
	srv := apitest.NewServer(t)
	seedNotifications(srv)
	feed := notify.NewFeed(developerClient(srv))
	ctx := context.Background()

	require.NoError(t, feed.Refresh(ctx))
	feed.MarkRead(ctx, "n-1") // already read on the server

	require.True(t, feed.Items()[1].Read)
	require.Equal(t, 1, feed.UnreadCount())
	require.Equal(t, 1, srv.CountRequests(http.MethodPut, "/api/notifications/n-1/read"))
}

func TestRefreshReconcilesServerWins(t *testing.T) {
	srv := apitest.NewServer(t)
	seedNotifications(srv)
	feed := notify.NewFeed(developerClient(srv))
	ctx := context.Background()

	require.NoError(t, feed.Refresh(ctx))
	feed.MarkRead(ctx, "n-2")

	// Simulate the backend having lost the read transition.
	srv.Notifications[0].Read = false

	require.NoError(t, feed.Refresh(ctx))
	require.False(t, feed.Items()[0].Read, "server state wins on reconciliation")
	require.Equal(t, 1, feed.UnreadCount())
}

func TestRefreshFailureLeavesStateAlone(t *testing.T) {
	srv := apitest.NewServer(t)
	seedNotifications(srv)
	feed := notify.NewFeed(developerClient(srv))
	ctx := context.Background()

	require.NoError(t, feed.Refresh(ctx))
	srv.FailNotifications = true

	require.Error(t, feed.Refresh(ctx))
	require.Len(t, feed.Items(), 2, "failed fetch must not blank the view")
}
