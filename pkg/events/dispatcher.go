// Package events registers handlers against named interaction points and
// dispatches events one at a time.
package events

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Point names an interaction point of the page.
type Point string

const (
	// PointNavClick fires when a nav control is clicked. Target is the page key.
	PointNavClick Point = "nav.click"
	// PointFormSubmit fires when the contact form is submitted.
	PointFormSubmit Point = "form.submit"
	// PointFieldBlur fires when a form control loses focus. Target is the
	// control identifier.
	PointFieldBlur Point = "field.blur"
	// PointClockTick fires on every clock interval.
	PointClockTick Point = "clock.tick"
	// PointPageLoad fires once when the page finished starting.
	PointPageLoad Point = "page.load"
)

// Event is a single user or timer interaction.
type Event struct {
	Point  Point
	Target string
}

// Handler reacts to an event. Handlers run to completion before the next
// event is processed and must not call Dispatch themselves.
type Handler func(Event)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger routes dispatch diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher serialises event handling: two Dispatch calls never overlap, so
// handlers can touch shared page state without further locking.
type Dispatcher struct {
	turn sync.Mutex

	mu       sync.RWMutex
	handlers map[Point][]Handler

	logger *zap.Logger
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Point][]Handler),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// On registers handler for point. Handlers run in registration order.
func (d *Dispatcher) On(point Point, handler Handler) {
	if handler == nil || strings.TrimSpace(string(point)) == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[point] = append(d.handlers[point], handler)
}

// Has reports whether any handler is registered for point.
func (d *Dispatcher) Has(point Point) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[point]) > 0
}

// Dispatch runs every handler registered for the event's point. It reports
// false when nothing is registered.
func (d *Dispatcher) Dispatch(event Event) bool {
	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[event.Point]...)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.logger.Debug("event dropped", zap.String("point", string(event.Point)), zap.String("target", event.Target))
		return false
	}

	d.turn.Lock()
	defer d.turn.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
	return true
}

// Do runs fn inside a dispatch turn, so it observes page state between
// events rather than in the middle of one.
func (d *Dispatcher) Do(fn func()) {
	if fn == nil {
		return
	}
	d.turn.Lock()
	defer d.turn.Unlock()
	fn()
}
