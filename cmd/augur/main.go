package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/augurlabs/augur/internal/logger"
	"github.com/augurlabs/augur/internal/tui/theme"
)

const (
	logoText1 = "▄▀█ █ █ █▀▀ █ █ █▀█"
	logoText2 = "█▀█ █▄█ █▄█ █▄█ █▀▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "augur",
	Short: "Time series forecasting wizard with a terminal UI",
	RunE:  runWizard,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

augur walks a dataset through the four stages of a forecasting run: load
the data, pick the columns and rows that matter, train the model, and
review the prediction. The engine drives the wizard over NATS; without an
external engine augur serves a simulated one in-process.`
}
