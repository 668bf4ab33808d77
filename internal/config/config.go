package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for devlog, stored in ~/.devlog/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// ServerURL is the base URL of the DevLog backend API, including the
	// /api prefix.
	ServerURL string `json:"server_url"`
	// ExportDays is the default window (in days) covered by an export when
	// no explicit range is given.
	ExportDays int `json:"export_days"`
	// ExportDir is where export files are written. Empty = current directory.
	ExportDir string `json:"export_dir"`
}

const (
	// DefaultServerURL targets a locally running backend.
	DefaultServerURL = "http://localhost:8000/api"
	// DefaultExportDays matches the 30-day window the dashboard exports.
	DefaultExportDays = 30
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		ServerURL:  DefaultServerURL,
		ExportDays: DefaultExportDays,
		ExportDir:  "",
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// devlog configuration – ~/.devlog/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box against a locally running DevLog backend.
// Edit this file to customise devlog behaviour.
{
  // Base URL of the DevLog backend API, including the /api prefix.
  "server_url": "http://localhost:8000/api",

  // Default number of days covered by: devlog export
  // Can be overridden per-run with: devlog export --from <date> --to <date>
  "export_days": 30,

  // Directory export files are written to. Empty = current directory.
  "export_dir": ""
}
`

// configFilePath returns the path to ~/.devlog/config.json.
func configFilePath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.json"), nil
}

// BaseDir returns the root state directory (~/.devlog).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".devlog"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.devlog/config.json, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.ExportDays <= 0 {
		cfg.ExportDays = DefaultExportDays
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
