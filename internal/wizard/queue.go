package wizard

import "github.com/augurlabs/augur/internal/engine"

// QueueCapacity is the most notifications held at once. Pushes beyond it
// are dropped, keeping the oldest unacknowledged errors.
const QueueCapacity = 10

// NotificationQueue is a bounded FIFO of engine error notifications,
// surfaced to the user one at a time. The zero value is an empty queue
// ready for use.
type NotificationQueue struct {
	items []engine.Notification
}

// Push appends n unless the queue is full; a full queue drops n silently.
func (q *NotificationQueue) Push(n engine.Notification) {
	if len(q.items) >= QueueCapacity {
		return
	}
	q.items = append(q.items, n)
}

// PeekFront returns the oldest notification without removing it. The
// second return is false when the queue is empty.
func (q *NotificationQueue) PeekFront() (engine.Notification, bool) {
	if len(q.items) == 0 {
		return engine.Notification{}, false
	}
	return q.items[0], true
}

// PopFront removes and returns the oldest notification. The second return
// is false when the queue is empty.
func (q *NotificationQueue) PopFront() (engine.Notification, bool) {
	if len(q.items) == 0 {
		return engine.Notification{}, false
	}
	front := q.items[0]
	q.items = q.items[1:]
	return front, true
}

// Len returns the number of queued notifications.
func (q *NotificationQueue) Len() int {
	return len(q.items)
}
