// Package notify carries user-facing notifications ("toasts") from services to the HTTP edge.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Variant distinguishes ordinary confirmations from failures.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a short message meant for the person who triggered an operation.
type Notification struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Code        string  `json:"code,omitempty"`
}

// WithCode tags the notification with a machine readable error code.
func (n Notification) WithCode(code string) Notification {
	n.Code = code
	return n
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// Collector buffers notifications for a single request.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Notify implements Notifier.
func (c *Collector) Notify(n Notification) {
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
}

// Items returns a copy of the buffered notifications.
func (c *Collector) Items() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// HasDestructive reports whether any buffered notification is a failure.
func (c *Collector) HasDestructive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.items {
		if n.Variant == VariantDestructive {
			return true
		}
	}
	return false
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier writes notifications to the logger. Used when no collector is attached.
func NewLogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logNotifier{logger: logger}
}

func (l logNotifier) Notify(n Notification) {
	fields := []zap.Field{zap.String("title", n.Title), zap.String("description", n.Description)}
	if n.Variant == VariantDestructive {
		l.logger.Warn("notification", fields...)
		return
	}
	l.logger.Info("notification", fields...)
}

type ctxKey struct{}

// WithNotifier attaches n to ctx.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// From returns the notifier attached to ctx or fallback when none is present.
func From(ctx context.Context, fallback Notifier) Notifier {
	if ctx != nil {
		if n, ok := ctx.Value(ctxKey{}).(Notifier); ok && n != nil {
			return n
		}
	}
	return fallback
}

// Success builds a default-variant notification.
func Success(title, description string) Notification {
	return Notification{Variant: VariantDefault, Title: title, Description: description}
}

// Failure builds a destructive notification.
func Failure(title, description string) Notification {
	return Notification{Variant: VariantDestructive, Title: title, Description: description}
}
