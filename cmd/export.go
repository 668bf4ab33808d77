package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/export"
	"github.com/devlog/devlog-cli/internal/model"
)

var (
	exportFrom      string
	exportTo        string
	exportDeveloper string
	exportDir       string
	exportClipboard bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download a productivity CSV for a date range",
	Long: `Request a server-rendered CSV export. Developers export their own
logs; managers export their team's, optionally narrowed with --developer.
The default range is the configured export window ending today.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Start date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "End date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportDeveloper, "developer", "", "Only this developer's logs (managers)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Directory to write the file to (default from config)")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "Copy the CSV to the clipboard instead of writing a file")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := requireSession(ctx)
	now := time.Now()

	end := exportTo
	if end == "" {
		end = now.Format("2006-01-02")
	} else {
		parseDateFlag("to", end)
	}
	start := exportFrom
	if start == "" {
		start = now.AddDate(0, 0, -a.cfg.ExportDays).Format("2006-01-02")
	} else {
		parseDateFlag("from", start)
	}

	scope := export.ScopeDeveloper
	var filter *model.TeamFilter
	switch a.store.User().Role {
	case model.RoleManager:
		scope = export.ScopeTeam
		filter = &model.TeamFilter{
			DeveloperID: exportDeveloper,
			StartDate:   start,
			EndDate:     end,
		}
	default:
		if exportDeveloper != "" {
			fmt.Fprintln(os.Stderr, "--developer is only available to managers")
			os.Exit(1)
		}
	}

	exp := export.NewExporter(a.api)
	artifact, err := exp.ExportRange(ctx, scope, start, end, filter)
	if err != nil {
		a.exitOn(err)
	}

	if exportClipboard {
		if err := artifact.CopyToClipboard(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Printf("Copied %s to the clipboard.\n", artifact.Filename)
		return nil
	}

	dir := exportDir
	if dir == "" {
		dir = a.cfg.ExportDir
	}
	path, err := artifact.WriteFile(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
