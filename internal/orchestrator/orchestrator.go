package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	natsserver "github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"

	"github.com/augurlabs/augur/internal/engine"
	"github.com/augurlabs/augur/internal/enginesim"
	"github.com/augurlabs/augur/internal/logger"
	"github.com/augurlabs/augur/internal/nats"
	"github.com/augurlabs/augur/internal/tui"
)

// Config holds configuration for the orchestrator.
type Config struct {
	NatsURL   string // external engine bus URL; empty runs the embedded server
	Scenario  string // scenario file for the simulated engine (optional)
	OutputDir string // directory prediction workbooks are written into
}

// Orchestrator wires the wizard together: the NATS bus, the engine serving
// it, and the TUI driving it. With no external bus configured it owns an
// embedded server and runs the engine simulator in-process; otherwise it
// connects to the given URL and expects a real engine on the other side.
type Orchestrator struct {
	cfg Config

	ns    *natsserver.Server // embedded server, nil when external
	simNC *natsgo.Conn       // simulator-side connection, nil when external
	sim   *enginesim.Engine  // in-process engine, nil when external
	nc    *natsgo.Conn       // wizard-side connection

	app     *tui.App
	program *tea.Program
	done    chan struct{} // closed when the TUI program returns
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

// New creates an Orchestrator with the given configuration.
func New(cfg Config) *Orchestrator {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Orchestrator{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start brings up the bus and builds the wizard over it. The TUI does not
// run until Run.
func (o *Orchestrator) Start() error {
	logger.Info("Starting orchestrator")

	if err := o.ensureBus(); err != nil {
		logger.Error("Failed to ensure bus: %v", err)
		return fmt.Errorf("failed to ensure bus: %w", err)
	}
	if o.ns != nil {
		logger.Debug("Serving the wizard from the embedded bus")
	} else {
		logger.Debug("Connected to external bus at %s", o.cfg.NatsURL)
	}

	o.app = tui.NewApp(o.ctx, engine.NewClient(o.nc), tui.SystemWindow{})

	logger.Info("Orchestrator started successfully")
	return nil
}

// Run executes the wizard TUI and blocks until it exits.
func (o *Orchestrator) Run() error {
	if o.app == nil {
		return errors.New("orchestrator not started")
	}

	logger.Info("Running wizard TUI")
	o.program = tea.NewProgram(o.app)
	defer close(o.done)

	if _, err := o.program.Run(); err != nil {
		logger.Error("Wizard TUI failed: %v", err)
		return fmt.Errorf("wizard ui: %w", err)
	}

	logger.Info("Wizard TUI exited")
	return nil
}

// Stop gracefully shuts down all components. It collects errors from each
// component and returns a combined error if any fail. Multiple calls to
// Stop() are safe and idempotent.
func (o *Orchestrator) Stop() error {
	if o.stopped {
		return nil
	}
	o.stopped = true

	logger.Info("Stopping orchestrator")

	var errs []error

	// Cancel context to unwind any in-flight engine requests
	if o.cancel != nil {
		o.cancel()
	}

	// Stop the TUI and wait for it to finish
	if o.program != nil {
		logger.Debug("Stopping wizard TUI")
		o.program.Quit()
		select {
		case <-o.done:
			logger.Debug("Wizard TUI stopped")
		case <-time.After(2 * time.Second):
			logger.Warn("Wizard TUI shutdown timed out after 2s")
			errs = append(errs, errors.New("wizard ui shutdown timed out after 2s"))
		}
		o.program = nil
	}

	// Stop the simulator before the bus so it is not serving requests while
	// connections drain
	if o.sim != nil {
		logger.Debug("Stopping engine simulator")
		o.sim.Stop()
		o.sim = nil
	}

	if err := nats.Shutdown(o.ns, o.nc, o.simNC); err != nil {
		logger.Error("Bus shutdown failed: %v", err)
		errs = append(errs, fmt.Errorf("bus shutdown failed: %w", err))
	}
	o.nc = nil
	o.simNC = nil
	o.ns = nil

	logger.Info("Orchestrator stopped")

	return errors.Join(errs...)
}

// ensureBus connects to the configured external NATS server, or starts the
// embedded server and the in-process engine simulator that serves it. The
// simulator and the wizard use separate connections so each side drains
// independently on shutdown.
func (o *Orchestrator) ensureBus() error {
	if o.cfg.NatsURL != "" {
		if o.cfg.Scenario != "" {
			logger.Warn("Scenario %s ignored: the engine at %s owns the data", o.cfg.Scenario, o.cfg.NatsURL)
		}
		nc, err := nats.Connect(o.cfg.NatsURL)
		if err != nil {
			return fmt.Errorf("connect to %s: %w", o.cfg.NatsURL, err)
		}
		o.nc = nc
		return nil
	}

	scenario, err := enginesim.LoadScenario(o.cfg.Scenario)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(o.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", o.cfg.OutputDir, err)
	}

	ns, err := nats.StartEmbedded()
	if err != nil {
		return fmt.Errorf("start embedded server: %w", err)
	}

	simNC, err := nats.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return fmt.Errorf("connect simulator: %w", err)
	}

	sim := enginesim.New(simNC, scenario, o.cfg.OutputDir)
	if err := sim.Start(); err != nil {
		simNC.Close()
		ns.Shutdown()
		return fmt.Errorf("start simulator: %w", err)
	}

	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		sim.Stop()
		simNC.Close()
		ns.Shutdown()
		return fmt.Errorf("connect wizard: %w", err)
	}

	o.ns = ns
	o.simNC = simNC
	o.sim = sim
	o.nc = nc
	return nil
}
