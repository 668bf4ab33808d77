package analytics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/devlog/devlog-cli/internal/analytics"
	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/apitest"
	"github.com/devlog/devlog-cli/internal/model"
)

func developerClient(srv *apitest.Server) *api.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apitest.DeveloperToken, TokenType: "Bearer"})
	return api.New(srv.URL, oauth2.NewClient(context.Background(), src))
}

func TestRefreshReplacesSeries(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Productivity = []model.ProductivityPoint{
		{Date: "2024-03-01", TotalTime: 2, Mood: 3},
		{Date: "2024-03-03", TotalTime: 1.5, Mood: 4},
	}
	agg := analytics.NewAggregator(developerClient(srv))

	require.NoError(t, agg.Refresh(context.Background(), analytics.WindowDays))
	require.Len(t, agg.Series(), 2)
	// Days without logs stay absent; no zero-filling of the gap on 03-02.
	require.Equal(t, "2024-03-01", agg.Series()[0].Date)
	require.Equal(t, "2024-03-03", agg.Series()[1].Date)
}

func TestFailedRefreshKeepsLastGoodSeries(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Productivity = []model.ProductivityPoint{{Date: "2024-03-01", TotalTime: 2, Mood: 3}}
	agg := analytics.NewAggregator(developerClient(srv))
	ctx := context.Background()

	require.NoError(t, agg.Refresh(ctx, analytics.WindowDays))
	srv.FailProductivity = true

	require.Error(t, agg.Refresh(ctx, analytics.WindowDays))
	require.Len(t, agg.Series(), 1, "failure must not overwrite the displayed series")
}
