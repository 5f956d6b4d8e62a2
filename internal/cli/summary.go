package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

func (c *CLI) createSummaryCommand() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Planned vs actual quantity per activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := projectByName(s, project)
			if err != nil {
				return err
			}
			logs, err := s.ListLogs(store.LogFilter{ProjectID: &p.ID})
			if err != nil {
				return err
			}
			targets, err := s.ListPlannedTargets(p.ID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			summaries := analytics.Summarize(targets, logs)
			if len(summaries) == 0 {
				fmt.Fprintf(w, "No targets or logs for %s.\n", p.Name)
				return nil
			}

			bands := analytics.LoadBands(s)
			rows := make([][]string, 0, len(summaries))
			for _, sm := range summaries {
				rows = append(rows, []string{
					sm.Activity,
					fmt.Sprintf("%g", sm.Planned),
					fmt.Sprintf("%g", sm.Actual),
					sm.Unit,
					pct(sm.Percentage),
					bands.Level(sm.Percentage).String(),
				})
			}
			fmt.Fprintf(w, "%s (%s)\n", p.Name, p.Type.Label())
			renderTable(w, []string{"ACTIVITY", "PLANNED", "ACTUAL", "UNIT", "PRODUCTIVITY", "STATUS"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "project name (required)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
