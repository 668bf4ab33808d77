package export_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/apitest"
	"github.com/devlog/devlog-cli/internal/export"
	"github.com/devlog/devlog-cli/internal/model"
)

func managerClient(srv *apitest.Server) *api.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apitest.ManagerToken, TokenType: "Bearer"})
	return api.New(srv.URL, oauth2.NewClient(context.Background(), src))
}

func TestFilename(t *testing.T) {
	got := export.Filename(export.ScopeDeveloper, "2024-01-01", "2024-01-31")
	want := "developer-productivity-export-2024-01-01-to-2024-01-31.csv"
	if got != want {
		t.Fatalf("Filename() = %q, want %q", got, want)
	}

	got = export.Filename(export.ScopeTeam, "2024-02-01", "2024-02-29")
	want = "team-productivity-export-2024-02-01-to-2024-02-29.csv"
	if got != want {
		t.Fatalf("Filename() = %q, want %q", got, want)
	}
}

func TestExportRangePassesDatesAndFilter(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.CSVData = "Date,User,Hours\n2024-01-10,dev,2.0\n"
	exp := export.NewExporter(managerClient(srv))

	filter := &model.TeamFilter{DeveloperID: "user-dev-1"}
	artifact, err := exp.ExportRange(context.Background(), export.ScopeTeam, "2024-01-01", "2024-01-31", filter)
	require.NoError(t, err)
	require.Equal(t, srv.CSVData, artifact.CSV)
	require.Equal(t, "team-productivity-export-2024-01-01-to-2024-01-31.csv", artifact.Filename)

	req, ok := srv.LastRequest(http.MethodGet, "/api/analytics/export")
	require.True(t, ok)
	require.Equal(t, "2024-01-01", req.Query.Get("start_date"))
	require.Equal(t, "2024-01-31", req.Query.Get("end_date"))
	require.Equal(t, "user-dev-1", req.Query.Get("developer_id"))
}

func TestExportRangeWithoutFilterOmitsDeveloperID(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.CSVData = "Date,User,Hours\n"
	exp := export.NewExporter(managerClient(srv))

	_, err := exp.ExportRange(context.Background(), export.ScopeDeveloper, "2024-01-01", "2024-01-31", nil)
	require.NoError(t, err)

	req, ok := srv.LastRequest(http.MethodGet, "/api/analytics/export")
	require.True(t, ok)
	require.NotContains(t, req.Query, "developer_id")
}

func TestExportRangeSurfacesBackendError(t *testing.T) {
	srv := apitest.NewServer(t)
	exp := export.NewExporter(managerClient(srv))

	// Missing dates make the backend reject the request.
	_, err := exp.ExportRange(context.Background(), export.ScopeDeveloper, "", "", nil)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	artifact := export.Artifact{
		Filename: "developer-productivity-export-2024-01-01-to-2024-01-31.csv",
		CSV:      "Date,User,Hours\n2024-01-10,dev,2.0\n",
	}

	path, err := artifact.WriteFile(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, artifact.Filename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, artifact.CSV, string(data))

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}
