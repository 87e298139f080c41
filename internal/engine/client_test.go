package engine

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/augurlabs/augur/internal/nats"
	natsgo "github.com/nats-io/nats.go"
)

type testBus struct {
	engineConn *natsgo.Conn
	client     *Client
}

func newTestBus(t *testing.T) *testBus {
	t.Helper()

	ns, err := nats.StartEmbedded()
	if err != nil {
		t.Fatalf("failed to start NATS: %v", err)
	}
	t.Cleanup(ns.Shutdown)

	engineConn, err := nats.ConnectInProcess(ns)
	if err != nil {
		t.Fatalf("failed to connect engine side: %v", err)
	}
	t.Cleanup(engineConn.Close)

	uiConn, err := nats.ConnectInProcess(ns)
	if err != nil {
		t.Fatalf("failed to connect client side: %v", err)
	}
	t.Cleanup(uiConn.Close)

	return &testBus{engineConn: engineConn, client: NewClient(uiConn)}
}

// respondWith registers a raw responder on the engine side of the bus.
func (b *testBus) respondWith(t *testing.T, subject string, handler func(msg *natsgo.Msg) Reply) {
	t.Helper()
	sub, err := b.engineConn.Subscribe(subject, func(msg *natsgo.Msg) {
		payload, err := json.Marshal(handler(msg))
		if err != nil {
			t.Errorf("failed to marshal reply: %v", err)
			return
		}
		if err := msg.Respond(payload); err != nil {
			t.Errorf("failed to respond: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("failed to subscribe %s: %v", subject, err)
	}
	t.Cleanup(func() { _ = sub.Unsubscribe() })
	if err := b.engineConn.Flush(); err != nil {
		t.Fatalf("failed to flush: %v", err)
	}
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func marshalData(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal data: %v", err)
	}
	return data
}

func TestClientDecodesReplyData(t *testing.T) {
	bus := newTestBus(t)
	bus.respondWith(t, SubjectCmdPageIndex, func(*natsgo.Msg) Reply {
		return Reply{OK: true, Data: marshalData(t, 3)}
	})

	page, err := bus.client.PageIndex(testCtx(t))
	if err != nil {
		t.Fatalf("PageIndex failed: %v", err)
	}
	if page != 3 {
		t.Errorf("expected page 3, got %d", page)
	}
}

func TestClientSurfacesEngineError(t *testing.T) {
	bus := newTestBus(t)
	bus.respondWith(t, SubjectCmdStartTrain, func(*natsgo.Msg) Reply {
		return Reply{OK: false, Error: "Not configured"}
	})

	err := bus.client.StartTrain(testCtx(t))
	if err == nil {
		t.Fatal("expected an error for an ok=false reply")
	}
	if !strings.Contains(err.Error(), "Not configured") {
		t.Errorf("error should carry the engine message, got %q", err)
	}
}

func TestClientRejectsMalformedEnvelope(t *testing.T) {
	bus := newTestBus(t)
	sub, err := bus.engineConn.Subscribe(SubjectCmdDataInfo, func(msg *natsgo.Msg) {
		_ = msg.Respond([]byte("not-json"))
	})
	if err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()
	if err := bus.engineConn.Flush(); err != nil {
		t.Fatalf("failed to flush: %v", err)
	}

	if _, err := bus.client.DataInfo(testCtx(t)); err == nil {
		t.Fatal("expected a decode error for a garbage envelope")
	}
}

func TestClientErrorsWithoutResponder(t *testing.T) {
	bus := newTestBus(t)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := bus.client.LoadData(ctx); err == nil {
		t.Fatal("expected an error when nothing answers the subject")
	}
}

func TestClientSelectSheetPayload(t *testing.T) {
	bus := newTestBus(t)
	bus.respondWith(t, SubjectCmdSelectSheet, func(msg *natsgo.Msg) Reply {
		var req struct {
			TabName string `json:"tabName"`
		}
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			return Reply{OK: false, Error: "bad request"}
		}
		if req.TabName != "West" {
			t.Errorf("expected tabName West on the wire, got %q", req.TabName)
		}
		return Reply{OK: true, Data: marshalData(t, SheetInfo{
			TabName:             req.TabName,
			SelectedBatchPeriod: BatchPeriodMonthly,
		})}
	})

	sheet, err := bus.client.SelectSheet(testCtx(t), "West")
	if err != nil {
		t.Fatalf("SelectSheet failed: %v", err)
	}
	if sheet.TabName != "West" {
		t.Errorf("expected tab West back, got %q", sheet.TabName)
	}
	if sheet.SelectedBatchPeriod != BatchPeriodMonthly {
		t.Errorf("expected monthly period, got %q", sheet.SelectedBatchPeriod)
	}
}

func TestSubscribeControlFanIn(t *testing.T) {
	bus := newTestBus(t)

	control, handle, err := bus.client.SubscribeControl(16)
	if err != nil {
		t.Fatalf("SubscribeControl failed: %v", err)
	}
	defer handle.Dispose()

	publish := func(subject string, v any) {
		t.Helper()
		if err := bus.engineConn.Publish(subject, marshalData(t, v)); err != nil {
			t.Fatalf("failed to publish %s: %v", subject, err)
		}
	}
	publish(SubjectEventPageMove, 2)
	publish(SubjectEventDialogError, Notification{Title: "Load failed", Message: "corrupt file"})
	if err := bus.engineConn.Publish(SubjectEventCorePanic, nil); err != nil {
		t.Fatalf("failed to publish panic: %v", err)
	}
	if err := bus.engineConn.Flush(); err != nil {
		t.Fatalf("failed to flush: %v", err)
	}

	seen := map[ControlKind]ControlEvent{}
	deadline := time.After(5 * time.Second)
	for len(seen) < 3 {
		select {
		case ev := <-control:
			seen[ev.Kind] = ev
		case <-deadline:
			t.Fatalf("timed out with %d/3 event kinds", len(seen))
		}
	}

	if ev := seen[ControlPageMove]; ev.Page != 2 {
		t.Errorf("expected page move to 2, got %d", ev.Page)
	}
	if ev := seen[ControlError]; ev.Notice.Title != "Load failed" {
		t.Errorf("expected the dialog title, got %q", ev.Notice.Title)
	}
	if _, ok := seen[ControlPanic]; !ok {
		t.Error("expected a panic event")
	}
}

func TestSubscribeControlSkipsMalformedPayloads(t *testing.T) {
	bus := newTestBus(t)

	control, handle, err := bus.client.SubscribeControl(16)
	if err != nil {
		t.Fatalf("SubscribeControl failed: %v", err)
	}
	defer handle.Dispose()

	if err := bus.engineConn.Publish(SubjectEventPageMove, []byte("wat")); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}
	if err := bus.engineConn.Publish(SubjectEventPageMove, marshalData(t, 1)); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}
	if err := bus.engineConn.Flush(); err != nil {
		t.Fatalf("failed to flush: %v", err)
	}

	select {
	case ev := <-control:
		if ev.Kind != ControlPageMove || ev.Page != 1 {
			t.Errorf("expected the well-formed page move, got %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the well-formed event")
	}
}

func TestSubscriptionDispose(t *testing.T) {
	bus := newTestBus(t)

	control, handle, err := bus.client.SubscribeControl(16)
	if err != nil {
		t.Fatalf("SubscribeControl failed: %v", err)
	}

	handle.Dispose()
	handle.Dispose() // idempotent

	select {
	case <-handle.Done():
	default:
		t.Fatal("Done must be closed after Dispose")
	}

	if err := bus.engineConn.Publish(SubjectEventPageMove, marshalData(t, 1)); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}
	if err := bus.engineConn.Flush(); err != nil {
		t.Fatalf("failed to flush: %v", err)
	}

	select {
	case ev := <-control:
		t.Errorf("expected no delivery after Dispose, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
