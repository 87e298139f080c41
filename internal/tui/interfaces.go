package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/augurlabs/augur/internal/engine"
)

// Engine is the slice of the engine client the wizard consumes. All request
// methods are called from command goroutines, never from Update itself.
type Engine interface {
	PageIndex(ctx context.Context) (int, error)
	LoadData(ctx context.Context) error
	DataInfo(ctx context.Context) (engine.DataInfo, error)
	SelectSheet(ctx context.Context, tabName string) (engine.SheetInfo, error)
	SubmitPreprocessConfig(ctx context.Context, cfg engine.PreprocessConfig) error
	StartTrain(ctx context.Context) error
	TrainProgress(ctx context.Context) (engine.TrainProgress, error)
	Evaluation(ctx context.Context) (engine.EvaluationReport, error)
	SavePrediction(ctx context.Context) error
	Restart(ctx context.Context) error

	SubscribeControl(buf int) (<-chan engine.ControlEvent, *engine.Subscription, error)
	SubscribeEvalProgress(buf int) (<-chan float64, *engine.Subscription, error)
	SubscribeTrainPoints(buf int) (<-chan engine.ConfidencePoint, *engine.Subscription, error)
}

var _ Engine = (*engine.Client)(nil)

// WindowControl is the narrow window capability the controller needs for the
// terminate-on-acknowledge shutdown path. Injected rather than global so
// tests can observe the close.
type WindowControl interface {
	Close() tea.Cmd
}

// SystemWindow closes the window by quitting the Bubble Tea program.
type SystemWindow struct{}

// Close implements WindowControl.
func (SystemWindow) Close() tea.Cmd {
	return tea.Quit
}

// Drawable components render to a screen rectangle
type Drawable interface {
	Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor
}

// Updateable components handle messages
type Updateable interface {
	Update(tea.Msg) tea.Cmd
}

// Component combines Drawable and Updateable
type Component interface {
	Drawable
	Updateable
}

// Sizable components track their dimensions
type Sizable interface {
	SetSize(width, height int)
}

// Step is one wizard stage panel. Activate hands the step a fresh
// generation and returns its startup commands; Deactivate discards all
// step-local state so a later activation starts from scratch.
type Step interface {
	Component
	Sizable
	Activate() tea.Cmd
	Deactivate()
	Title() string
}
