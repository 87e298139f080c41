package enginesim

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go"

	"github.com/augurlabs/augur/internal/engine"
	"github.com/augurlabs/augur/internal/logger"
)

// defaultEndX is the epoch target reported before any training run has
// started.
const defaultEndX = 500

// Engine simulates the computation engine: it serves every command subject
// on the bus, owns the engine-side state, and pushes page, error, panic,
// and progress events exactly the way the real engine would.
type Engine struct {
	nc        *nats.Conn
	scenario  Scenario
	outputDir string

	mu      sync.Mutex
	rng     *rand.Rand
	page    int
	data    *dataset
	active  int
	cfg     *engine.PreprocessConfig
	endX    int
	plateau float64
	points  []engine.ConfidencePoint
	report  *engine.EvaluationReport

	trainStop chan struct{}
	subs      []*nats.Subscription
}

// New creates a simulator bound to the connection. Nothing is served until
// Start.
func New(nc *nats.Conn, scenario Scenario, outputDir string) *Engine {
	seed := scenario.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		nc:        nc,
		scenario:  scenario,
		outputDir: outputDir,
		rng:       rand.New(rand.NewSource(seed)),
		endX:      defaultEndX,
	}
}

// Start subscribes the simulator to every command subject.
func (e *Engine) Start() error {
	handlers := map[string]nats.MsgHandler{
		engine.SubjectCmdPageIndex:        e.handlePageIndex,
		engine.SubjectCmdLoadData:         e.handleLoadData,
		engine.SubjectCmdDataInfo:         e.handleDataInfo,
		engine.SubjectCmdSelectSheet:      e.handleSelectSheet,
		engine.SubjectCmdSubmitPreprocess: e.handleSubmitPreprocess,
		engine.SubjectCmdStartTrain:       e.handleStartTrain,
		engine.SubjectCmdTrainProgress:    e.handleTrainProgress,
		engine.SubjectCmdEvaluation:       e.handleEvaluation,
		engine.SubjectCmdSavePrediction:   e.handleSavePrediction,
		engine.SubjectCmdRestart:          e.handleRestart,
	}

	for subject, handler := range handlers {
		sub, err := e.nc.Subscribe(subject, handler)
		if err != nil {
			e.Stop()
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		e.subs = append(e.subs, sub)
	}

	logger.Info("Engine simulator serving %d command subjects", len(e.subs))
	return nil
}

// Stop cancels any training run and drops all subject interest.
func (e *Engine) Stop() {
	e.stopTraining()
	for _, sub := range e.subs {
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("Simulator unsubscribe failed: %v", err)
		}
	}
	e.subs = nil
}

// stopTraining cancels the in-flight training loop, if any.
func (e *Engine) stopTraining() {
	e.mu.Lock()
	stop := e.trainStop
	e.trainStop = nil
	e.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}

// respond sends a success envelope, with data when given.
func (e *Engine) respond(msg *nats.Msg, data any) {
	r := engine.Reply{OK: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			logger.Error("Failed to marshal reply data: %v", err)
			e.fail(msg, "Internal error", "encoding response: %v", err)
			return
		}
		r.Data = raw
	}
	payload, err := json.Marshal(r)
	if err != nil {
		logger.Error("Failed to marshal reply envelope: %v", err)
		return
	}
	if err := msg.Respond(payload); err != nil {
		logger.Warn("Respond failed: %v", err)
	}
}

// fail reports a command failure twice, the way the real engine does: an
// error envelope for the caller and a dialog/error event for the
// notification queue.
func (e *Engine) fail(msg *nats.Msg, title, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	logger.Warn("Engine failure: %s: %s", title, message)

	e.publish(engine.SubjectEventDialogError, engine.Notification{Title: title, Message: message})

	payload, err := json.Marshal(engine.Reply{Error: message})
	if err != nil {
		return
	}
	if err := msg.Respond(payload); err != nil {
		logger.Warn("Respond failed: %v", err)
	}
}

// publish emits one event, logging rather than surfacing failures.
func (e *Engine) publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %s: %v", subject, err)
		return
	}
	if err := e.nc.Publish(subject, data); err != nil {
		logger.Warn("Publish %s failed: %v", subject, err)
	}
}

func (e *Engine) handlePageIndex(msg *nats.Msg) {
	e.mu.Lock()
	page := e.page
	e.mu.Unlock()
	e.respond(msg, page)
}

func (e *Engine) handleLoadData(msg *nats.Msg) {
	if e.scenario.Cancel {
		// Dismissed file chooser: a successful no-op, no page move.
		e.respond(msg, nil)
		return
	}

	e.mu.Lock()
	e.data = generate(e.scenario, e.rng)
	e.active = 0
	e.cfg = nil
	e.report = nil
	e.points = nil
	e.endX = defaultEndX
	e.page = 1
	e.mu.Unlock()

	e.respond(msg, nil)
	e.publish(engine.SubjectEventPageMove, 1)
}

func (e *Engine) handleDataInfo(msg *nats.Msg) {
	e.mu.Lock()
	if e.data == nil {
		e.mu.Unlock()
		e.fail(msg, "No data loaded", "load a data source before preprocessing")
		return
	}
	sh := e.data.sheets[e.active]
	info := engine.DataInfo{
		Name:      e.data.name,
		Tabs:      e.data.tabs(),
		SheetInfo: sh.info(len(e.data.sheets) > 1),
	}
	e.mu.Unlock()

	e.respond(msg, info)
}

func (e *Engine) handleSelectSheet(msg *nats.Msg) {
	var req struct {
		TabName string `json:"tabName"`
	}
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		e.fail(msg, "Bad request", "malformed select_sheet payload: %v", err)
		return
	}

	e.mu.Lock()
	if e.data == nil {
		e.mu.Unlock()
		e.fail(msg, "No data loaded", "load a data source before selecting a sheet")
		return
	}
	sh := e.data.sheetByTab(req.TabName)
	if sh == nil {
		e.mu.Unlock()
		e.fail(msg, "Unknown sheet", "no sheet named %q", req.TabName)
		return
	}
	for i, candidate := range e.data.sheets {
		if candidate == sh {
			e.active = i
		}
	}
	info := sh.info(len(e.data.sheets) > 1)
	e.mu.Unlock()

	e.respond(msg, info)
}

func (e *Engine) handleSubmitPreprocess(msg *nats.Msg) {
	var cfg engine.PreprocessConfig
	if err := json.Unmarshal(msg.Data, &cfg); err != nil {
		e.fail(msg, "Bad request", "malformed preprocess config: %v", err)
		return
	}

	e.mu.Lock()
	if e.data == nil {
		e.mu.Unlock()
		e.fail(msg, "No data loaded", "load a data source before submitting a configuration")
		return
	}
	sh := e.data.sheets[e.active]
	if !sh.hasColumn(cfg.DatetimeColumn, engine.ColumnDateTime) {
		e.mu.Unlock()
		e.fail(msg, "Invalid configuration", "datetime column %q not found", cfg.DatetimeColumn)
		return
	}
	if !sh.hasColumn(cfg.PredictableColumn, engine.ColumnNumber) {
		e.mu.Unlock()
		e.fail(msg, "Invalid configuration", "predictable column %q not found", cfg.PredictableColumn)
		return
	}
	e.cfg = &cfg
	e.mu.Unlock()

	e.respond(msg, nil)
}

func (e *Engine) handleStartTrain(msg *nats.Msg) {
	e.mu.Lock()
	if e.data == nil || e.cfg == nil {
		e.mu.Unlock()
		e.fail(msg, "Not configured", "submit a preprocess configuration first")
		return
	}
	prev := e.trainStop
	stop := make(chan struct{})
	e.trainStop = stop
	e.points = nil
	e.endX = e.scenario.EndX
	e.plateau = 84 + e.rng.Float64()*12
	e.page = 2
	e.mu.Unlock()

	if prev != nil {
		close(prev)
	}

	e.respond(msg, nil)
	e.publish(engine.SubjectEventPageMove, 2)
	go e.trainLoop(stop)
}

// trainLoop emits one confidence point per tick until the epoch target,
// then moves the wizard to the evaluate page.
func (e *Engine) trainLoop(stop chan struct{}) {
	e.mu.Lock()
	endX := e.endX
	plateau := e.plateau
	e.mu.Unlock()

	ticker := time.NewTicker(e.scenario.TrainTick())
	defer ticker.Stop()

	for epoch := 0; epoch <= endX; epoch++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		e.mu.Lock()
		point := engine.ConfidencePoint{X: epoch, Y: confidenceAt(epoch, endX, plateau, e.rng)}
		e.points = append(e.points, point)
		e.mu.Unlock()

		e.publish(engine.SubjectEventTrainPoint, point)
	}

	e.mu.Lock()
	if e.trainStop == stop {
		e.trainStop = nil
	}
	e.page = 3
	e.mu.Unlock()

	e.publish(engine.SubjectEventPageMove, 3)
}

func (e *Engine) handleTrainProgress(msg *nats.Msg) {
	e.mu.Lock()
	progress := engine.TrainProgress{
		EndX:             e.endX,
		ConfidencePoints: append([]engine.ConfidencePoint(nil), e.points...),
	}
	e.mu.Unlock()

	e.respond(msg, progress)
}

func (e *Engine) handleEvaluation(msg *nats.Msg) {
	e.mu.Lock()
	if e.data == nil || e.cfg == nil {
		e.mu.Unlock()
		e.fail(msg, "Not ready", "no trained configuration to evaluate")
		return
	}
	sh := e.data.sheets[e.active]
	timestamps, values := sh.selectedSeries(e.cfg.RowSelection)
	steps := e.scenario.EvalSteps
	tick := e.scenario.EvalTick()
	e.mu.Unlock()

	// The prediction run streams fractional progress while the request is
	// in flight.
	for i := 1; i <= steps; i++ {
		time.Sleep(tick)
		e.publish(engine.SubjectEventEvalProgress, float64(i)/float64(steps))
	}

	e.mu.Lock()
	report := buildReport(timestamps, values, e.rng)
	e.report = &report
	e.mu.Unlock()

	e.respond(msg, report)
}

func (e *Engine) handleSavePrediction(msg *nats.Msg) {
	e.mu.Lock()
	report := e.report
	name := ""
	if e.data != nil {
		name = e.data.name
	}
	e.mu.Unlock()

	if report == nil {
		e.fail(msg, "Nothing to save", "no evaluation report available")
		return
	}

	path := filepath.Join(e.outputDir, slug.Make(name)+"-prediction.xlsx")
	if err := writeWorkbook(path, report); err != nil {
		e.fail(msg, "Save failed", "%v", err)
		return
	}

	logger.Info("Prediction saved to %s", path)
	e.respond(msg, nil)
}

func (e *Engine) handleRestart(msg *nats.Msg) {
	e.stopTraining()

	e.mu.Lock()
	e.data = nil
	e.active = 0
	e.cfg = nil
	e.report = nil
	e.points = nil
	e.endX = defaultEndX
	e.page = 0
	e.mu.Unlock()

	e.respond(msg, nil)
	e.publish(engine.SubjectEventPageMove, 0)
}

// hasColumn reports whether the sheet carries the named column with the
// given type tag.
func (sh *sheet) hasColumn(field string, t engine.ColumnType) bool {
	for _, c := range sh.columns {
		if c.Field == field && c.Type == t {
			return true
		}
	}
	return false
}
