package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

func (c *CLI) createRisksCommand() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "risks",
		Short: "List activities at risk of delay, with suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var projects []store.Project
			if project != "" {
				p, err := projectByName(s, project)
				if err != nil {
					return err
				}
				projects = []store.Project{*p}
			} else if projects, err = s.ListProjects(false); err != nil {
				return err
			}

			risks, err := collectRisks(s, analytics.LoadRules(s), projects)
			if err != nil {
				return err
			}
			printRisks(cmd.OutOrStdout(), risks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "limit to one project")
	return cmd
}

// collectRisks runs the detector over every project's full log history.
func collectRisks(s *store.Store, rules analytics.Rules, projects []store.Project) ([]analytics.DelayRisk, error) {
	var all []analytics.DelayRisk
	for _, p := range projects {
		id := p.ID
		logs, err := s.ListLogs(store.LogFilter{ProjectID: &id})
		if err != nil {
			return nil, fmt.Errorf("logs of %s: %w", p.Name, err)
		}
		targets, err := s.ListPlannedTargets(p.ID)
		if err != nil {
			return nil, fmt.Errorf("targets of %s: %w", p.Name, err)
		}
		all = append(all, rules.Detect(logs, targets, p)...)
	}
	return all, nil
}

func printRisks(w io.Writer, risks []analytics.DelayRisk) {
	if len(risks) == 0 {
		fmt.Fprintln(w, "No delay risks detected.")
		return
	}

	rows := make([][]string, 0, len(risks))
	for _, r := range risks {
		rows = append(rows, []string{
			r.ProjectName,
			r.Activity,
			strconv.Itoa(r.ConsecutiveDays),
			pct(r.CurrentProductivity),
			pct(r.AverageProductivity),
			strconv.Itoa(r.Interruptions),
		})
	}
	renderTable(w, []string{"PROJECT", "ACTIVITY", "LOW DAYS", "CURRENT", "AVERAGE", "INTERRUPTIONS"}, rows)

	for _, r := range risks {
		suggestions := analytics.GenerateSuggestions(r)
		if len(suggestions) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s / %s\n", r.ProjectName, r.Activity)
		for _, sg := range suggestions {
			fmt.Fprintf(w, "  %s %s\n", sg.Category.Icon(), sg.Text)
		}
	}
}
