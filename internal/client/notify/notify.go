// Package notify carries user-facing outcomes from the engines to whatever
// renders them. The engines only depend on the Sink interface.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/connectin/internal/logging"
)

type Kind int

const (
	Success Kind = iota
	RetrySuggested
	RedirectToLogin
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case RetrySuggested:
		return "retry"
	case RedirectToLogin:
		return "login-required"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Notification is one outcome. Source names the engine that raised it,
// e.g. "votes" or "chat".
type Notification struct {
	Kind    Kind
	Source  string
	Message string
	Err     error
}

type Sink interface {
	Notify(ctx context.Context, n Notification)
}

type SinkFunc func(ctx context.Context, n Notification)

func (f SinkFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Sink = SinkFunc(func(context.Context, Notification) {})

// Multi fans a notification out to every sink in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, n Notification) {
		for _, s := range sinks {
			s.Notify(ctx, n)
		}
	})
}

// LogSink records notifications through the structured logger.
type LogSink struct {
	Log logging.Logger
}

func (s LogSink) Notify(ctx context.Context, n Notification) {
	args := []any{"kind", n.Kind.String(), "source", n.Source}
	if n.Err != nil {
		args = append(args, "error", n.Err)
	}
	switch n.Kind {
	case Success:
		s.Log.Debug(ctx, n.Message, args...)
	case Error:
		s.Log.Error(ctx, n.Message, args...)
	default:
		s.Log.Warn(ctx, n.Message, args...)
	}
}

// WriterSink prints notifications as single lines, the way the REPL shows
// them. Writes are serialized.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Notify(_ context.Context, n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch n.Kind {
	case Success:
		fmt.Fprintf(s.w, "[%s] %s\n", n.Source, n.Message)
	case RedirectToLogin:
		fmt.Fprintf(s.w, "[%s] %s (use 'login')\n", n.Source, n.Message)
	case RetrySuggested:
		fmt.Fprintf(s.w, "[%s] %s, please try again\n", n.Source, n.Message)
	default:
		fmt.Fprintf(s.w, "[%s] %s\n", n.Source, n.Message)
	}
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Kind)
	}
	return out
}
