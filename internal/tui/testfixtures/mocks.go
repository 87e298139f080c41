// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
// This file contains mock implementations for the wizard's dependencies:
//   - MockEngine: controllable in-memory stand-in for the engine client,
//     with scripted responses and push-event channels
//   - MockWindow: records window close requests instead of quitting
//
// All mocks are thread-safe and provide verification methods for assertions in tests.
//
// Example usage:
//
//	func TestMyStep(t *testing.T) {
//	    eng := testfixtures.NewMockEngine()
//	    eng.Info = testfixtures.QuarterlyDataInfo()
//
//	    // Drive the component under test...
//	    // Later verify calls:
//	    require.Equal(t, 1, eng.DataInfoCalls())
//	}
package testfixtures

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/augurlabs/augur/internal/engine"
)

// MockEngine is a scriptable implementation of the wizard's engine
// interface. Responses are configured via the exported fields; every
// request records a call for verification. Push events are injected by
// writing to the channels returned from the Subscribe methods.
type MockEngine struct {
	mu sync.Mutex

	// Scripted responses
	Index       int
	IndexErr    error
	LoadErr     error
	Info        engine.DataInfo
	InfoErr     error
	Sheet       engine.SheetInfo
	SheetErr    error
	SubmitErr   error
	TrainErr    error
	Progress    engine.TrainProgress
	ProgressErr error
	Report      engine.EvaluationReport
	ReportErr   error
	SaveErr     error
	RestartErr  error

	// Call records
	pageIndexCalls int
	loadCalls      int
	dataInfoCalls  int
	selectedTabs   []string
	submitted      []engine.PreprocessConfig
	startCalls     int
	progressCalls  int
	evalCalls      int
	saveCalls      int
	restartCalls   int

	// Subscription handles, in creation order per stream
	controlSubs []*engine.Subscription
	evalSubs    []*engine.Subscription
	trainSubs   []*engine.Subscription

	controlCh chan engine.ControlEvent
	evalCh    chan float64
	trainCh   chan engine.ConfidencePoint
}

// NewMockEngine creates a MockEngine with empty defaults and open event
// channels.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		controlCh: make(chan engine.ControlEvent, 64),
		evalCh:    make(chan float64, 64),
		trainCh:   make(chan engine.ConfidencePoint, 64),
	}
}

// PageIndex returns the scripted index or error.
func (m *MockEngine) PageIndex(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageIndexCalls++
	return m.Index, m.IndexErr
}

// LoadData records the call and returns the scripted error.
func (m *MockEngine) LoadData(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	return m.LoadErr
}

// DataInfo returns the scripted info or error.
func (m *MockEngine) DataInfo(ctx context.Context) (engine.DataInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dataInfoCalls++
	return m.Info, m.InfoErr
}

// SelectSheet records the tab and returns the scripted sheet or error.
func (m *MockEngine) SelectSheet(ctx context.Context, tabName string) (engine.SheetInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedTabs = append(m.selectedTabs, tabName)
	return m.Sheet, m.SheetErr
}

// SubmitPreprocessConfig records the config and returns the scripted error.
func (m *MockEngine) SubmitPreprocessConfig(ctx context.Context, cfg engine.PreprocessConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, cfg)
	return m.SubmitErr
}

// StartTrain records the call and returns the scripted error.
func (m *MockEngine) StartTrain(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++
	return m.TrainErr
}

// TrainProgress returns the scripted progress snapshot or error.
func (m *MockEngine) TrainProgress(ctx context.Context) (engine.TrainProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progressCalls++
	return m.Progress, m.ProgressErr
}

// Evaluation returns the scripted report or error.
func (m *MockEngine) Evaluation(ctx context.Context) (engine.EvaluationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evalCalls++
	return m.Report, m.ReportErr
}

// SavePrediction records the call and returns the scripted error.
func (m *MockEngine) SavePrediction(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	return m.SaveErr
}

// Restart records the call and returns the scripted error.
func (m *MockEngine) Restart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restartCalls++
	return m.RestartErr
}

// SubscribeControl hands out the shared control channel with a fresh
// disposable handle.
func (m *MockEngine) SubscribeControl(buf int) (<-chan engine.ControlEvent, *engine.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := engine.NewSubscription()
	m.controlSubs = append(m.controlSubs, sub)
	return m.controlCh, sub, nil
}

// SubscribeEvalProgress hands out the shared progress channel with a fresh
// disposable handle.
func (m *MockEngine) SubscribeEvalProgress(buf int) (<-chan float64, *engine.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := engine.NewSubscription()
	m.evalSubs = append(m.evalSubs, sub)
	return m.evalCh, sub, nil
}

// SubscribeTrainPoints hands out the shared point channel with a fresh
// disposable handle.
func (m *MockEngine) SubscribeTrainPoints(buf int) (<-chan engine.ConfidencePoint, *engine.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := engine.NewSubscription()
	m.trainSubs = append(m.trainSubs, sub)
	return m.trainCh, sub, nil
}

// PushControl injects a control event as if the engine emitted it.
func (m *MockEngine) PushControl(ev engine.ControlEvent) {
	m.controlCh <- ev
}

// PushEvalProgress injects a progress fraction.
func (m *MockEngine) PushEvalProgress(fraction float64) {
	m.evalCh <- fraction
}

// PushTrainPoint injects a confidence point.
func (m *MockEngine) PushTrainPoint(p engine.ConfidencePoint) {
	m.trainCh <- p
}

// PageIndexCalls returns how many times PageIndex was requested.
func (m *MockEngine) PageIndexCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageIndexCalls
}

// LoadCalls returns how many times LoadData was requested.
func (m *MockEngine) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// DataInfoCalls returns how many times DataInfo was requested.
func (m *MockEngine) DataInfoCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dataInfoCalls
}

// SelectedTabs returns every tab passed to SelectSheet, in order.
func (m *MockEngine) SelectedTabs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.selectedTabs...)
}

// Submitted returns every submitted config, in order.
func (m *MockEngine) Submitted() []engine.PreprocessConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]engine.PreprocessConfig(nil), m.submitted...)
}

// StartTrainCalls returns how many times StartTrain was requested.
func (m *MockEngine) StartTrainCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalls
}

// TrainProgressCalls returns how many times TrainProgress was requested.
func (m *MockEngine) TrainProgressCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progressCalls
}

// EvaluationCalls returns how many times Evaluation was requested.
func (m *MockEngine) EvaluationCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evalCalls
}

// SaveCalls returns how many times SavePrediction was requested.
func (m *MockEngine) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

// RestartCalls returns how many times Restart was requested.
func (m *MockEngine) RestartCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restartCalls
}

// TrainSub returns the i-th train subscription handle, or nil.
func (m *MockEngine) TrainSub(i int) *engine.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.trainSubs) {
		return nil
	}
	return m.trainSubs[i]
}

// EvalSub returns the i-th eval progress subscription handle, or nil.
func (m *MockEngine) EvalSub(i int) *engine.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.evalSubs) {
		return nil
	}
	return m.evalSubs[i]
}

// ControlSub returns the i-th control subscription handle, or nil.
func (m *MockEngine) ControlSub(i int) *engine.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.controlSubs) {
		return nil
	}
	return m.controlSubs[i]
}

// MockWindow records close requests instead of terminating anything.
type MockWindow struct {
	mu     sync.Mutex
	closes int
}

// NewMockWindow creates a MockWindow.
func NewMockWindow() *MockWindow {
	return &MockWindow{}
}

// Close records the request and returns a no-op command.
func (w *MockWindow) Close() tea.Cmd {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closes++
	return func() tea.Msg { return nil }
}

// CloseCalls returns how many times Close was requested.
func (w *MockWindow) CloseCalls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closes
}
