package prospect

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// EventType classifies a progress event.
type EventType string

const (
	EventInfo     EventType = "info"
	EventSuccess  EventType = "success"
	EventWarning  EventType = "warning"
	EventError    EventType = "error"
	EventComplete EventType = "complete"
)

// Event is one progress line of a scan, streamed to the operator.
type Event struct {
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Emitter receives the progress events of a run.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Event)

// Emit calls f.
func (f EmitterFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Emitter = EmitterFunc(func(Event) {})

// LogEmitter writes events to a zap logger.
func LogEmitter(log *zap.Logger) Emitter {
	return EmitterFunc(func(e Event) {
		fields := []zap.Field{zap.String("event", string(e.Type))}
		if e.Data != nil {
			fields = append(fields, zap.Any("data", e.Data))
		}
		switch e.Type {
		case EventWarning:
			log.Warn(e.Message, fields...)
		case EventError:
			log.Error(e.Message, fields...)
		default:
			log.Info(e.Message, fields...)
		}
	})
}

type events struct {
	out Emitter
	now func() time.Time
}

func (e events) emit(t EventType, data any, format string, args ...any) {
	e.out.Emit(Event{Type: t, Message: fmt.Sprintf(format, args...), Data: data, Timestamp: e.now()})
}

func (e events) info(format string, args ...any)    { e.emit(EventInfo, nil, format, args...) }
func (e events) success(format string, args ...any) { e.emit(EventSuccess, nil, format, args...) }
func (e events) warning(format string, args ...any) { e.emit(EventWarning, nil, format, args...) }
func (e events) error(format string, args ...any)   { e.emit(EventError, nil, format, args...) }
