// Package export turns a server-rendered CSV payload into a local artifact.
// The backend owns CSV correctness; this is a passthrough plus filename
// derivation and delivery.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/model"
)

// Scope names whose logs an export covers.
type Scope string

const (
	// ScopeDeveloper exports the current developer's own logs.
	ScopeDeveloper Scope = "developer"
	// ScopeTeam exports a manager's (optionally filtered) team logs.
	ScopeTeam Scope = "team"
)

// Artifact is one exported CSV, ready to deliver.
type Artifact struct {
	Filename string
	CSV      string
}

// Filename derives the deterministic artifact name for a scope and range.
func Filename(scope Scope, start, end string) string {
	return fmt.Sprintf("%s-productivity-export-%s-to-%s.csv", scope, start, end)
}

// Exporter requests exports through the backend.
type Exporter struct {
	client *api.Client
}

// NewExporter creates an exporter backed by the given client.
func NewExporter(client *api.Client) *Exporter {
	return &Exporter{client: client}
}

// ExportRange fetches the server-rendered CSV for [start, end]. filter is
// nil for a developer's own export and the active team filter for a
// manager's.
func (e *Exporter) ExportRange(ctx context.Context, scope Scope, start, end string, filter *model.TeamFilter) (Artifact, error) {
	csv, err := e.client.Export(ctx, start, end, filter)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Filename: Filename(scope, start, end),
		CSV:      csv,
	}, nil
}

// WriteFile saves the artifact under dir (current directory when empty) and
// returns the full path. Written atomically: temp file, then rename.
func (a Artifact) WriteFile(dir string) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("creating export directory: %w", err)
		}
	}
	path := filepath.Join(dir, a.Filename)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(a.CSV), 0o600); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("saving export file: %w", err)
	}
	return path, nil
}

// CopyToClipboard places the CSV payload on the system clipboard.
func (a Artifact) CopyToClipboard() error {
	if err := clipboard.WriteAll(a.CSV); err != nil {
		return fmt.Errorf("copying export to clipboard: %w", err)
	}
	return nil
}
