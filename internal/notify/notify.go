// Package notify keeps short-lived user-facing messages.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
)

// DefaultTimeout is how long a notification lives unless removed earlier.
const DefaultTimeout = 3 * time.Second

// Notification is one message.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Queue holds notifications in the order they were added. Each one is
// removed automatically after the queue's timeout.
type Queue struct {
	timeout time.Duration

	mu     sync.Mutex
	items  []Notification
	timers map[string]*time.Timer
}

// NewQueue creates a queue. A non-positive timeout disables auto-dismiss.
func NewQueue(timeout time.Duration) *Queue {
	return &Queue{
		timeout: timeout,
		timers:  make(map[string]*time.Timer),
	}
}

// Add queues a message and returns its id.
func (q *Queue) Add(t Type, message string) string {
	n := Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Message:   message,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, n)
	if q.timeout > 0 {
		q.timers[n.ID] = time.AfterFunc(q.timeout, func() { q.Remove(n.ID) })
	}
	return n.ID
}

// Success queues a success message.
func (q *Queue) Success(message string) string { return q.Add(TypeSuccess, message) }

// Error queues an error message.
func (q *Queue) Error(message string) string { return q.Add(TypeError, message) }

// Info queues an informational message.
func (q *Queue) Info(message string) string { return q.Add(TypeInfo, message) }

// Remove dismisses a notification. It reports whether id was queued.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}

	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the queued notifications, oldest first.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Close stops all pending auto-dismiss timers.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
}
