package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/augurlabs/augur/internal/config"
	"github.com/augurlabs/augur/internal/logger"
	"github.com/augurlabs/augur/internal/orchestrator"
)

var runFlags struct {
	natsURL   string
	scenario  string
	outputDir string
	logLevel  string
	logFile   string
}

func init() {
	rootCmd.Flags().StringVar(&runFlags.natsURL, "nats-url", "", "External engine bus URL (default: embedded server with a simulated engine)")
	rootCmd.Flags().StringVarP(&runFlags.scenario, "scenario", "s", "", "Scenario file for the simulated engine")
	rootCmd.Flags().StringVarP(&runFlags.outputDir, "output-dir", "o", "", "Directory predictions are saved into (default: current directory)")
	rootCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&runFlags.logFile, "log-file", "", "Log file path (stdout belongs to the TUI, so logging is off without one)")
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// CLI flags override environment and config files
	if cmd.Flags().Changed("nats-url") {
		cfg.NatsURL = runFlags.natsURL
	}
	if cmd.Flags().Changed("scenario") {
		cfg.Scenario = runFlags.scenario
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = runFlags.outputDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = runFlags.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = runFlags.logFile
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	orch := orchestrator.New(orchestrator.Config{
		NatsURL:   cfg.NatsURL,
		Scenario:  cfg.Scenario,
		OutputDir: cfg.OutputDir,
	})

	if err := orch.Start(); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}

	// Ensure cleanup always runs using defer
	defer func() {
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
		os.Exit(0)
	}()

	if err := orch.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	return nil
}
