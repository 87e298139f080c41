package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/augurlabs/augur/internal/logger"
	"github.com/nats-io/nats.go"
)

// Reply is the envelope wrapping every command response on the bus. The
// engine answers with OK true and optional data, or OK false and a
// human-readable error it also mirrors onto the dialog/error stream.
type Reply struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Client is the typed request/reply and subscription surface of the engine.
// All methods are safe for use from command goroutines; the client itself
// holds no mutable state beyond the connection.
type Client struct {
	nc *nats.Conn
}

// NewClient wraps an established NATS connection.
func NewClient(nc *nats.Conn) *Client {
	return &Client{nc: nc}
}

// request performs one command round trip. A nil payload sends an empty
// body; a nil out discards the response data. Engine-side failures (ok
// false) come back as errors carrying the engine's message.
func (c *Client) request(ctx context.Context, subject string, payload, out any) error {
	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", subject, err)
		}
		body = data
	}

	msg, err := c.nc.RequestWithContext(ctx, subject, body)
	if err != nil {
		return fmt.Errorf("request %s: %w", subject, err)
	}

	var r Reply
	if err := json.Unmarshal(msg.Data, &r); err != nil {
		return fmt.Errorf("decode %s reply: %w", subject, err)
	}
	if !r.OK {
		return fmt.Errorf("engine %s: %s", subject, r.Error)
	}
	if out != nil && len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, out); err != nil {
			return fmt.Errorf("decode %s data: %w", subject, err)
		}
	}
	return nil
}

// PageIndex asks the engine for the current wizard step index.
func (c *Client) PageIndex(ctx context.Context) (int, error) {
	var index int
	if err := c.request(ctx, SubjectCmdPageIndex, nil, &index); err != nil {
		return 0, err
	}
	return index, nil
}

// LoadData triggers the engine's data load. The engine answers a successful
// load with a page/move event; a cancelled load is a successful no-op.
func (c *Client) LoadData(ctx context.Context) error {
	return c.request(ctx, SubjectCmdLoadData, nil, nil)
}

// DataInfo fetches the dataset name, tab list, and initial sheet snapshot.
func (c *Client) DataInfo(ctx context.Context) (DataInfo, error) {
	var info DataInfo
	err := c.request(ctx, SubjectCmdDataInfo, nil, &info)
	return info, err
}

// SelectSheet switches the engine to the named tab and returns its snapshot.
func (c *Client) SelectSheet(ctx context.Context, tabName string) (SheetInfo, error) {
	payload := struct {
		TabName string `json:"tabName"`
	}{TabName: tabName}
	var sheet SheetInfo
	err := c.request(ctx, SubjectCmdSelectSheet, payload, &sheet)
	return sheet, err
}

// SubmitPreprocessConfig hands the engine the immutable preprocess snapshot.
func (c *Client) SubmitPreprocessConfig(ctx context.Context, cfg PreprocessConfig) error {
	return c.request(ctx, SubjectCmdSubmitPreprocess, cfg, nil)
}

// StartTrain kicks off the training run.
func (c *Client) StartTrain(ctx context.Context) error {
	return c.request(ctx, SubjectCmdStartTrain, nil, nil)
}

// TrainProgress fetches the training snapshot accumulated so far.
func (c *Client) TrainProgress(ctx context.Context) (TrainProgress, error) {
	var progress TrainProgress
	err := c.request(ctx, SubjectCmdTrainProgress, nil, &progress)
	return progress, err
}

// Evaluation runs the prediction and returns its report. The engine streams
// evaluate/progress events while this request is in flight, so callers
// should allow a generous deadline.
func (c *Client) Evaluation(ctx context.Context) (EvaluationReport, error) {
	var report EvaluationReport
	err := c.request(ctx, SubjectCmdEvaluation, nil, &report)
	return report, err
}

// SavePrediction writes the prediction workbook on the engine side.
func (c *Client) SavePrediction(ctx context.Context) error {
	return c.request(ctx, SubjectCmdSavePrediction, nil, nil)
}

// Restart resets the engine; the engine follows up with a page/move back to
// the first step.
func (c *Client) Restart(ctx context.Context) error {
	return c.request(ctx, SubjectCmdRestart, nil, nil)
}

// Subscription is the handle for one activation's event interest. Dispose
// is idempotent and must run on every exit path of the activation that
// created it.
type Subscription struct {
	subs []*nats.Subscription
	done chan struct{}
	once sync.Once
}

func newSubscription() *Subscription {
	return &Subscription{done: make(chan struct{})}
}

// NewSubscription returns a handle with no bus interest. Dispose still
// closes Done, so it works as a standalone activation lifetime token.
func NewSubscription() *Subscription {
	return newSubscription()
}

// Dispose drops all subject interest and releases anyone blocked on Done.
// Safe to call more than once; only the first call acts.
func (s *Subscription) Dispose() {
	s.once.Do(func() {
		for _, sub := range s.subs {
			if err := sub.Unsubscribe(); err != nil {
				logger.Warn("Unsubscribe failed: %v", err)
			}
		}
		close(s.done)
	})
}

// Done is closed when the subscription has been disposed. Receive loops
// select on it so they unwind instead of blocking on a dead channel.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// subscribe registers one handler, collecting the subscription into the
// handle so Dispose tears everything down together.
func (s *Subscription) subscribe(nc *nats.Conn, subject string, handler nats.MsgHandler) error {
	sub, err := nc.Subscribe(subject, handler)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeControl fans the three controller streams (page.move,
// dialog.error, core.panic) into one buffered channel. Order within a
// stream is delivery order; order across streams is whatever the bus
// interleaves. Events beyond the buffer are dropped with a warning rather
// than blocking the bus callback.
func (c *Client) SubscribeControl(buf int) (<-chan ControlEvent, *Subscription, error) {
	ch := make(chan ControlEvent, buf)
	handle := newSubscription()

	push := func(ev ControlEvent) {
		select {
		case ch <- ev:
		default:
			logger.Warn("Control event dropped (buffer full): %s", ev.Kind)
		}
	}

	err := handle.subscribe(c.nc, SubjectEventPageMove, func(msg *nats.Msg) {
		var page int
		if err := json.Unmarshal(msg.Data, &page); err != nil {
			logger.Warn("Malformed page/move payload: %v", err)
			return
		}
		push(ControlEvent{Kind: ControlPageMove, Page: page})
	})
	if err == nil {
		err = handle.subscribe(c.nc, SubjectEventDialogError, func(msg *nats.Msg) {
			var n Notification
			if err := json.Unmarshal(msg.Data, &n); err != nil {
				logger.Warn("Malformed dialog/error payload: %v", err)
				return
			}
			push(ControlEvent{Kind: ControlError, Notice: n})
		})
	}
	if err == nil {
		err = handle.subscribe(c.nc, SubjectEventCorePanic, func(msg *nats.Msg) {
			push(ControlEvent{Kind: ControlPanic})
		})
	}
	if err != nil {
		handle.Dispose()
		return nil, nil, err
	}
	return ch, handle, nil
}

// SubscribeEvalProgress delivers evaluate/progress fractions while a
// prediction runs. Scoped to one evaluate-step activation.
func (c *Client) SubscribeEvalProgress(buf int) (<-chan float64, *Subscription, error) {
	ch := make(chan float64, buf)
	handle := newSubscription()

	err := handle.subscribe(c.nc, SubjectEventEvalProgress, func(msg *nats.Msg) {
		var fraction float64
		if err := json.Unmarshal(msg.Data, &fraction); err != nil {
			logger.Warn("Malformed evaluate/progress payload: %v", err)
			return
		}
		select {
		case ch <- fraction:
		default:
		}
	})
	if err != nil {
		handle.Dispose()
		return nil, nil, err
	}
	return ch, handle, nil
}

// SubscribeTrainPoints delivers incremental confidence points while a
// training run emits them. Scoped to one train-step activation.
func (c *Client) SubscribeTrainPoints(buf int) (<-chan ConfidencePoint, *Subscription, error) {
	ch := make(chan ConfidencePoint, buf)
	handle := newSubscription()

	err := handle.subscribe(c.nc, SubjectEventTrainPoint, func(msg *nats.Msg) {
		var point ConfidencePoint
		if err := json.Unmarshal(msg.Data, &point); err != nil {
			logger.Warn("Malformed train/progress/new payload: %v", err)
			return
		}
		select {
		case ch <- point:
		default:
			logger.Warn("Train point dropped (buffer full)")
		}
	})
	if err != nil {
		handle.Dispose()
		return nil, nil, err
	}
	return ch, handle, nil
}
