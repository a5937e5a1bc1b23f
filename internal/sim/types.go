package sim

import (
	"log/slog"
	"time"

	"github.com/san-kum/habersim/internal/dynamo"
)

// BedEvent describes one finished bed integration.
type BedEvent struct {
	Index   int
	Samples int
	Start   float64
	End     float64
	Stopped bool
	Stats   dynamo.Stats
	Elapsed time.Duration
}

// Observer is notified after every bed that was stored successfully.
type Observer interface {
	OnBed(ev BedEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev BedEvent)

func (f ObserverFunc) OnBed(ev BedEvent) { f(ev) }

type Option func(*Runner)

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}
