package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/sitelog/internal/cli"
	"github.com/sadopc/sitelog/internal/config"
	"github.com/sadopc/sitelog/internal/logging"
	"github.com/sadopc/sitelog/internal/store"
	"github.com/sadopc/sitelog/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	c := cli.New(cfg, logger, runTUI)
	if err := c.Execute(); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		logFile.Close()
		os.Exit(1)
	}
}

func runTUI(s *store.Store, cfg *config.Config, logger *slog.Logger) error {
	app := tui.NewApp(s, tui.Options{ExportDir: cfg.ExportDir, Logger: logger})
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
