package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/export"
	"github.com/sadopc/sitelog/internal/store"
)

func (c *CLI) createDPRCommand() *cobra.Command {
	var (
		project string
		date    string
		format  string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "dpr",
		Short: "Export the Daily Progress Report of a project",
		Example: `  sitelog dpr --project "Tower A"
  sitelog dpr --project "Tower A" --date 2026-03-14 --format html --out tower-a.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			day := store.Day(c.now())
			if date != "" {
				if day, err = time.Parse(store.DateLayout, date); err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
			}

			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := projectByName(s, project)
			if err != nil {
				return err
			}
			logs, err := s.ListLogsForDay(p.ID, day)
			if err != nil {
				return err
			}
			report := analytics.BuildDPR(*p, logs, day, analytics.LoadBands(s))

			path := out
			if path == "" {
				if err := os.MkdirAll(c.cfg.ExportDir, 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}
				path = export.Path(c.cfg.ExportDir, report, f)
			}
			if err := export.Write(report, f, path); err != nil {
				c.logger.Error("export dpr", slog.String("project", p.Name), slog.String("path", path), slog.Any("error", err))
				return err
			}
			c.logger.Info("dpr exported",
				slog.String("project", p.Name),
				slog.String("date", day.Format(store.DateLayout)),
				slog.String("format", string(f)),
				slog.Int("activities", report.Totals.Activities))

			if report.Empty() {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: nothing was logged for %s on %s\n", p.Name, day.Format(store.DateLayout))
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "project name (required)")
	cmd.Flags().StringVar(&date, "date", "", "report date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&format, "format", "f", "md", "csv, json, md or html")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default dpr-<project>-<date>.<ext> in the export directory)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
