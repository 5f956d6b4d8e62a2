// Package cli builds the sitelog command tree.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/sitelog/internal/config"
	"github.com/sadopc/sitelog/internal/store"
)

// TUIRunner starts the interactive application on an open store.
type TUIRunner func(s *store.Store, cfg *config.Config, logger *slog.Logger) error

// CLI holds the root command and what its subcommands share.
type CLI struct {
	RootCmd *cobra.Command
	cfg     *config.Config
	logger  *slog.Logger
	runTUI  TUIRunner
	now     func() time.Time
	dbPath  string
}

// New wires every subcommand. runTUI is invoked when sitelog is called
// without a subcommand.
func New(cfg *config.Config, logger *slog.Logger, runTUI TUIRunner) *CLI {
	c := &CLI{
		cfg:    cfg,
		logger: logger,
		runTUI: runTUI,
		now:    time.Now,
	}
	c.setupRootCommand()
	c.RootCmd.AddCommand(
		c.createDPRCommand(),
		c.createRisksCommand(),
		c.createSummaryCommand(),
		c.createSettingsCommand(),
		c.createVersionCommand(),
	)
	return c
}

func (c *CLI) setupRootCommand() {
	c.RootCmd = &cobra.Command{
		Use:   "sitelog",
		Short: "Construction site daily logs, productivity and delay alerts",
		Long: `sitelog records daily site logs (quantities, manpower, working hours and
interruptions) against planned targets, flags activities that keep falling
behind and produces Daily Progress Reports.

Run without a subcommand to open the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			return c.runTUI(s, c.cfg, c.logger)
		},
	}
	c.RootCmd.PersistentFlags().StringVar(&c.dbPath, "db", "", "database path (default from SITELOG_DB or config)")
}

// Execute runs the command tree against the process arguments.
func (c *CLI) Execute() error {
	return c.RootCmd.Execute()
}

func (c *CLI) openStore() (*store.Store, error) {
	path := c.cfg.DBPath
	if c.dbPath != "" {
		path = c.dbPath
	}
	s, err := store.New(path)
	if err != nil {
		c.logger.Error("open database", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// projectByName resolves --project, case-insensitively.
func projectByName(s *store.Store, name string) (*store.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("--project is required")
	}
	p, err := s.GetProjectByName(name)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	return p, nil
}
