package ui

import (
	"sync"
	"time"
)

// ToastLevel grades notification severity.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarning ToastLevel = "warning"
	ToastError   ToastLevel = "error"
)

// Toast is a single transient notification.
type Toast struct {
	Level     ToastLevel
	Message   string
	CreatedAt time.Time
}

const maxToastBacklog = 20

// ToastCenter collects notifications raised by page controllers until a
// transport drains them. The backlog is bounded; oldest entries drop first.
type ToastCenter struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewToastCenter creates an empty center.
func NewToastCenter() *ToastCenter {
	return &ToastCenter{}
}

// Push queues a toast.
func (c *ToastCenter) Push(level ToastLevel, message string) {
	if c == nil || message == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, Toast{Level: level, Message: message, CreatedAt: time.Now()})
	if len(c.toasts) > maxToastBacklog {
		c.toasts = c.toasts[len(c.toasts)-maxToastBacklog:]
	}
}

// Drain returns queued toasts and clears the backlog.
func (c *ToastCenter) Drain() []Toast {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.toasts
	c.toasts = nil
	return out
}

// Pending reports the backlog size without draining it.
func (c *ToastCenter) Pending() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.toasts)
}
