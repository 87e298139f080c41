package wizard

import (
	"fmt"
	"testing"

	"github.com/augurlabs/augur/internal/engine"
)

func TestNotificationQueue_CapacityDropsNewest(t *testing.T) {
	var q NotificationQueue

	for i := 0; i < 11; i++ {
		q.Push(engine.Notification{
			Title:   fmt.Sprintf("error %d", i),
			Message: "boom",
		})
	}

	if q.Len() != QueueCapacity {
		t.Fatalf("expected queue length %d after 11 pushes, got %d", QueueCapacity, q.Len())
	}

	// The first ten survive in order; the eleventh was dropped.
	for i := 0; i < QueueCapacity; i++ {
		n, ok := q.PopFront()
		if !ok {
			t.Fatalf("expected notification at position %d", i)
		}
		want := fmt.Sprintf("error %d", i)
		if n.Title != want {
			t.Errorf("position %d: expected %q, got %q", i, want, n.Title)
		}
	}

	if _, ok := q.PopFront(); ok {
		t.Error("queue should be empty after draining")
	}
}

func TestNotificationQueue_PeekDoesNotRemove(t *testing.T) {
	var q NotificationQueue

	if _, ok := q.PeekFront(); ok {
		t.Error("peek on empty queue should report no notification")
	}

	q.Push(engine.Notification{Title: "first"})
	q.Push(engine.Notification{Title: "second"})

	n, ok := q.PeekFront()
	if !ok || n.Title != "first" {
		t.Errorf("expected peek to return first, got %v ok=%v", n, ok)
	}
	if q.Len() != 2 {
		t.Errorf("peek must not remove, length is %d", q.Len())
	}

	popped, ok := q.PopFront()
	if !ok || popped.Title != "first" {
		t.Errorf("expected pop to return first, got %v ok=%v", popped, ok)
	}
	if q.Len() != 1 {
		t.Errorf("expected length 1 after pop, got %d", q.Len())
	}
}

func TestNotificationQueue_PopEmpty(t *testing.T) {
	var q NotificationQueue
	if _, ok := q.PopFront(); ok {
		t.Error("pop on empty queue should report no notification")
	}
}
