package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	lipglossv2 "charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/augurlabs/augur/internal/engine"
	"github.com/augurlabs/augur/internal/logger"
	"github.com/augurlabs/augur/internal/tui/theme"
	"github.com/augurlabs/augur/internal/wizard"
)

// App is the main Bubbletea model: the wizard controller. It owns the step
// index, the panic flag, and the notification queue; everything else lives
// in the step components. The engine owns all forward movement through the
// wizard, so the controller only ever reacts to its events.
type App struct {
	// View components
	header   *Header
	footer   *Footer
	dialog   *Dialog
	help     *Help
	carousel *Carousel
	steps    [wizard.StepCount]Step

	// Layout management
	layout      Layout
	layoutDirty bool

	// State
	stepIndex  int
	activeStep int // index of the step currently activated, -1 for none
	enablement wizard.Enablement
	indexKnown bool // set once the first index write landed
	panicking  bool
	queue      wizard.NotificationQueue

	engine     Engine
	window     WindowControl
	ctx        context.Context
	controlCh  <-chan engine.ControlEvent
	controlSub *engine.Subscription
	width      int
	height     int
	quitting   bool
}

// controlBuffer sizes the control event channel. Control events are rare;
// the buffer only covers bursts around page moves.
const controlBuffer = 64

type controlSubscribedMsg struct {
	ch  <-chan engine.ControlEvent
	sub *engine.Subscription
	err error
}

type controlEventMsg struct {
	event engine.ControlEvent
}

type initialIndexMsg struct {
	index int
	err   error
}

// notificationAckMsg is emitted when the user closes the error dialog.
type notificationAckMsg struct{}

// NewApp creates the wizard TUI over the given engine and window control.
func NewApp(ctx context.Context, eng Engine, window WindowControl) *App {
	app := &App{
		header:      NewHeader(),
		footer:      NewFooter(),
		dialog:      NewDialog(),
		help:        NewHelp(),
		carousel:    NewCarousel(),
		engine:      eng,
		window:      window,
		ctx:         ctx,
		activeStep:  -1,
		enablement:  wizard.EnablementFor(wizard.StepData),
		layoutDirty: true,
	}
	app.steps = [wizard.StepCount]Step{
		NewDataStep(ctx, eng),
		NewPreprocessStep(ctx, eng),
		NewTrainStep(ctx, eng),
		NewEvaluateStep(ctx, eng),
	}
	return app
}

// Init subscribes to the control streams, requests the starting index, and
// activates the first step. A page event racing the index request wins:
// whichever lands first is applied and the other is discarded.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.subscribeControl(),
		a.fetchInitialIndex(),
		a.applyStepIndex(wizard.StepData),
	)
}

// Update handles incoming messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = CalculateLayout(a.width, a.height)
		a.propagateSizes()
		a.layoutDirty = false
		return a, nil

	case controlSubscribedMsg:
		if msg.err != nil {
			logger.Error("Control subscription failed: %v", msg.err)
			return a, nil
		}
		a.controlCh = msg.ch
		a.controlSub = msg.sub
		return a, waitForControl(msg.ch, msg.sub.Done())

	case controlEventMsg:
		return a.handleControlEvent(msg.event)

	case initialIndexMsg:
		if msg.err != nil {
			logger.Warn("Initial page index fetch failed: %v", msg.err)
			return a, nil
		}
		if a.indexKnown {
			// A page event beat the fetch response; keep the event's index.
			return a, nil
		}
		a.indexKnown = true
		return a, a.applyStepIndex(msg.index)

	case notificationAckMsg:
		return a.acknowledgeNotification()
	}

	// Everything else is timers, streams, and spinner frames; each carries
	// its own generation guard, so fan out to whoever claims it.
	cmds := []tea.Cmd{a.carousel.Update(msg)}
	for _, step := range a.steps {
		cmds = append(cmds, step.Update(msg))
	}
	return a, tea.Batch(cmds...)
}

// handleKeyPress routes keys by priority: global quit keys first, then the
// error dialog, then the help overlay, then the active step.
func (a *App) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCtrlC, KeyQ:
		return a, a.closeWindow()
	}

	if a.dialog.IsVisible() {
		// Dialog consumes every key while visible.
		return a, a.dialog.Update(msg)
	}

	if msg.String() == KeyHelp {
		a.help.Toggle()
		a.footer.SetHelpVisible(a.help.IsVisible())
		return a, nil
	}

	if a.help.IsVisible() {
		cmd := a.help.Update(msg)
		a.footer.SetHelpVisible(a.help.IsVisible())
		return a, cmd
	}

	if a.activeStep >= 0 {
		return a, a.steps[a.activeStep].Update(msg)
	}
	return a, nil
}

// handleControlEvent applies one engine push and re-arms the receive loop.
func (a *App) handleControlEvent(ev engine.ControlEvent) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if a.controlSub != nil {
		cmds = append(cmds, waitForControl(a.controlCh, a.controlSub.Done()))
	}

	switch ev.Kind {
	case engine.ControlPageMove:
		a.indexKnown = true
		cmds = append(cmds, a.applyStepIndex(ev.Page))

	case engine.ControlError:
		a.queue.Push(ev.Notice)
		a.maybeShowDialog()

	case engine.ControlPanic:
		logger.Error("Engine reported a panic; closing after queued notifications are acknowledged")
		a.panicking = true
	}

	return a, tea.Batch(cmds...)
}

// applyStepIndex sets the step index as delivered, without bounds checks:
// an out-of-range index simply leaves every step disabled. Activation only
// changes when the enabled step changes, but the index, enablement, and
// scroll target always track the latest event.
func (a *App) applyStepIndex(index int) tea.Cmd {
	indexChanged := index != a.stepIndex
	a.stepIndex = index
	a.enablement = wizard.EnablementFor(index)
	a.header.SetStep(index)
	a.footer.SetStep(index)

	target := -1
	if index >= 0 && index < wizard.StepCount {
		target = index
	}

	var cmds []tea.Cmd
	if target != a.activeStep {
		if a.activeStep >= 0 {
			a.steps[a.activeStep].Deactivate()
		}
		a.activeStep = target
		if target >= 0 {
			cmds = append(cmds, a.steps[target].Activate())
		}
	}
	if indexChanged {
		cmds = append(cmds, a.carousel.ScrollTo(index))
	}
	return tea.Batch(cmds...)
}

// acknowledgeNotification pops the front notification. With the engine
// panicked, acknowledging the last one closes the window; nothing may be
// lost on the way down, so earlier queued errors still get their turn.
func (a *App) acknowledgeNotification() (tea.Model, tea.Cmd) {
	preLen := a.queue.Len()
	a.queue.PopFront()
	a.footer.SetDialogOpen(false)

	if a.panicking && preLen <= 1 {
		return a, a.closeWindow()
	}

	a.maybeShowDialog()
	return a, nil
}

// maybeShowDialog surfaces the front queued notification unless a dialog
// is already up.
func (a *App) maybeShowDialog() {
	if a.dialog.IsVisible() {
		return
	}
	notice, ok := a.queue.PeekFront()
	if !ok {
		return
	}
	a.dialog.Show(notice.Title, notice.Message, func() tea.Cmd {
		return func() tea.Msg { return notificationAckMsg{} }
	})
	a.footer.SetDialogOpen(true)
}

// closeWindow tears down the control subscription and closes the window.
func (a *App) closeWindow() tea.Cmd {
	a.quitting = true
	if a.controlSub != nil {
		a.controlSub.Dispose()
	}
	return a.window.Close()
}

// subscribeControl opens the lifetime control subscription: page moves,
// dialog errors, and panic, multiplexed onto one channel.
func (a *App) subscribeControl() tea.Cmd {
	return func() tea.Msg {
		ch, sub, err := a.engine.SubscribeControl(controlBuffer)
		return controlSubscribedMsg{ch: ch, sub: sub, err: err}
	}
}

// fetchInitialIndex asks the engine where the wizard currently stands.
func (a *App) fetchInitialIndex() tea.Cmd {
	return func() tea.Msg {
		index, err := a.engine.PageIndex(a.ctx)
		return initialIndexMsg{index: index, err: err}
	}
}

// waitForControl blocks on the next control event, ending the loop when
// the subscription is disposed.
func waitForControl(ch <-chan engine.ControlEvent, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-ch:
			return controlEventMsg{event: ev}
		case <-done:
			return nil
		}
	}
}

// propagateSizes pushes the current layout into every component.
func (a *App) propagateSizes() {
	a.header.SetSize(a.layout.Header.Dx(), a.layout.Header.Dy())
	a.footer.SetSize(a.layout.Footer.Dx(), a.layout.Footer.Dy())
	a.dialog.SetSize(a.width, a.height)
	a.help.SetSize(a.width, a.height)

	contentW := a.layout.Content.Dx()
	contentH := a.layout.Content.Dy()
	for _, step := range a.steps {
		step.SetSize(contentW, contentH)
	}
	a.carousel.SetViewportWidth(contentW)
}

// View renders the current view. In Bubbletea v2, this returns tea.View
// with display options like AltScreen.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.KeyboardEnhancements = tea.KeyboardEnhancements{
		ReportEventTypes: true,
	}

	if a.quitting {
		// Minimal view on the way out so the terminal restores cleanly.
		view.AltScreen = false
		view.Content = lipglossv2.NewLayer("")
		return view
	}

	if a.layoutDirty {
		a.layout = CalculateLayout(a.width, a.height)
		a.propagateSizes()
		a.layoutDirty = false
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	view.Cursor = a.Draw(canvas, canvas.Bounds())
	view.Content = lipglossv2.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	a.header.SetPendingCount(a.queue.Len())
	a.header.Draw(scr, a.layout.Header)
	a.drawSteps(scr, a.layout.Content)
	a.footer.Draw(scr, a.layout.Footer)

	// Overlays last so they sit on top.
	if a.help.IsVisible() {
		a.help.Draw(scr, area)
	}
	if a.dialog.IsVisible() {
		a.dialog.Draw(scr, area)
	}
	return nil
}

// drawSteps renders all four step panels side by side into one strip, then
// cuts the carousel's window out of it. Steps scrolled out of view are
// still drawn; the cut is what keeps them offscreen.
func (a *App) drawSteps(scr uv.Screen, area uv.Rectangle) {
	w, h := area.Dx(), area.Dy()
	if w <= 0 || h <= 0 {
		return
	}

	strip := uv.NewScreenBuffer(w*wizard.StepCount, h)
	for i, step := range a.steps {
		panel := uv.Rect(i*w, 0, w, h)
		inner := DrawPanel(strip, panel, step.Title(), a.enablement.Enabled(i))
		if a.enablement.Enabled(i) {
			step.Draw(strip, inner)
		} else {
			DrawText(strip, InsetArea(inner, 2, 1), styleStepDisabled.Render("inactive"))
		}
	}

	window := a.carousel.Window(strip.Render())
	uv.NewStyledString(window).Draw(scr, area)
}
