// Package dispatch routes named change notifications from the data model
// and the viewport controller to view layers, and owns the batch render
// flag that suppresses redraws during bulk edits.
package dispatch

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event names
const (
	MeshChanged        = "mesh changed"
	LandmarksChanged   = "landmarks changed"
	SelectionChanged   = "selection changed"
	BatchRenderChanged = "batch-render changed"
)

// Event is one notification. Payload depends on the event name.
type Event struct {
	Name      string
	Payload   any
	Timestamp time.Time
}

// HandlerFunc processes an event
type HandlerFunc func(Event)

// Dispatcher delivers events synchronously to every handler registered
// for the event name, in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	logger   zerolog.Logger

	batch bool
}

// New creates a dispatcher
func New(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger,
	}
}

// On registers h for the named event
func (d *Dispatcher) On(name string, h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// OnAny registers h for every known event name
func (d *Dispatcher) OnAny(h HandlerFunc) {
	for _, name := range []string{MeshChanged, LandmarksChanged, SelectionChanged, BatchRenderChanged} {
		d.On(name, h)
	}
}

// Emit delivers an event to its handlers before returning
func (d *Dispatcher) Emit(name string, payload any) {
	d.mu.RLock()
	handlers := append([]HandlerFunc(nil), d.handlers[name]...)
	d.mu.RUnlock()

	d.logger.Trace().Str("event", name).Int("handlers", len(handlers)).Msg("emit")

	e := Event{Name: name, Payload: payload, Timestamp: time.Now()}
	for _, h := range handlers {
		h(e)
	}
}

// EnableBatchRender suppresses redraws until DisableBatchRender
func (d *Dispatcher) EnableBatchRender() {
	d.setBatch(true)
}

// DisableBatchRender ends redraw suppression
func (d *Dispatcher) DisableBatchRender() {
	d.setBatch(false)
}

func (d *Dispatcher) setBatch(on bool) {
	d.mu.Lock()
	changed := d.batch != on
	d.batch = on
	d.mu.Unlock()
	if changed {
		d.Emit(BatchRenderChanged, on)
	}
}

// IsBatchRenderEnabled reports whether redraws are currently suppressed
func (d *Dispatcher) IsBatchRenderEnabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.batch
}

// Batch runs fn with redraws suppressed. Suppression is lifted when fn
// returns or panics.
func (d *Dispatcher) Batch(fn func()) {
	d.EnableBatchRender()
	defer d.DisableBatchRender()
	fn()
}
