// Package mvci provides Model-View-Controller-Interactor scaffolding for
// screens whose data is fetched in the background and applied on the UI
// thread.
package mvci

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/dirtyfx/pkg/logging"
	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/telemetry"
)

// Interactor owns the domain side of a screen.
type Interactor interface {
	// FetchData loads domain data. It runs off the UI thread and must not
	// touch the model.
	FetchData(ctx context.Context) error

	// UpdateModel copies fetched data into the model. It runs on the UI
	// thread after a successful FetchData.
	UpdateModel()
}

// ViewBuilder builds the view for a model.
type ViewBuilder[V any] interface {
	Build() V
}

// BuilderFunc adapts a function to ViewBuilder.
type BuilderFunc[V any] func() V

// Build calls f.
func (f BuilderFunc[V]) Build() V { return f() }

// ActionRunner runs an action on behalf of a view, typically by handing it
// to the UI thread.
type ActionRunner func(action func())

// Options configures a Controller.
type Options struct {
	// Name labels spans, log lines and telemetry events. Defaults to "screen".
	Name string

	Logger *logging.Logger
	Hub    *telemetry.Hub
}

// Controller wires a view builder and an interactor to a UI executor.
type Controller[V any] struct {
	name       string
	builder    ViewBuilder[V]
	interactor Interactor
	executor   observable.Executor
	logger     *logging.Logger
	hub        *telemetry.Hub

	mu    sync.Mutex
	group *errgroup.Group

	view  V
	built bool
}

// NewController creates a controller. A nil executor runs callbacks
// immediately on the background goroutine, which only suits tests.
func NewController[V any](builder ViewBuilder[V], interactor Interactor, executor observable.Executor, opts Options) *Controller[V] {
	if executor == nil {
		executor = observable.Immediate
	}
	if opts.Name == "" {
		opts.Name = "screen"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Controller[V]{
		name:       opts.Name,
		builder:    builder,
		interactor: interactor,
		executor:   executor,
		logger:     opts.Logger,
		hub:        opts.Hub,
		group:      new(errgroup.Group),
	}
}

// Name returns the controller name.
func (c *Controller[V]) Name() string {
	return c.name
}

// Interactor returns the controller's interactor.
func (c *Controller[V]) Interactor() Interactor {
	return c.interactor
}

// View builds the view on first call and returns the same view afterwards.
// Call it on the UI thread.
func (c *Controller[V]) View() V {
	if !c.built {
		c.view = c.builder.Build()
		c.built = true
	}
	return c.view
}

// Runner returns an ActionRunner that executes actions on the UI thread.
func (c *Controller[V]) Runner() ActionRunner {
	return c.executor.Invoke
}

// Load fetches data in the background. On success UpdateModel and then
// after(nil) run on the UI thread. On failure only after(err) runs there.
// after may be nil.
func (c *Controller[V]) Load(ctx context.Context, after func(error)) {
	c.Go(ctx, "load", c.interactor.FetchData, c.interactor.UpdateModel, func(err error, elapsed time.Duration) {
		if err != nil {
			c.logger.LoadFailed(c.name, err)
			c.hub.Publish(telemetry.Event{Type: telemetry.EventFormLoadFailed, Form: c.name, Duration: elapsed})
		} else {
			c.logger.FormLoaded(c.name, elapsed)
			c.hub.Publish(telemetry.Event{Type: telemetry.EventFormLoaded, Form: c.name, Duration: elapsed})
		}
		if after != nil {
			after(err)
		}
	})
}

// Go runs work on a background goroutine inside a span named
// "<name>.<op>". apply runs on the UI thread only when work succeeds. done,
// if set, runs on the UI thread last with work's error and duration.
func (c *Controller[V]) Go(ctx context.Context, op string, work func(context.Context) error, apply func(), done func(error, time.Duration)) {
	c.mu.Lock()
	g := c.group
	c.mu.Unlock()

	g.Go(func() error {
		spanCtx, span := telemetry.Tracer().Start(ctx, c.name+"."+op,
			trace.WithAttributes(telemetry.AttrForm.String(c.name)))
		start := time.Now()
		err := work(spanCtx)
		elapsed := time.Since(start)
		telemetry.RecordError(spanCtx, err)
		span.End()

		c.executor.Invoke(func() {
			if err == nil && apply != nil {
				apply()
			}
			if done != nil {
				done(err, elapsed)
			}
		})
		return nil
	})
}

// Wait blocks until every background task started so far has handed its
// result to the executor.
func (c *Controller[V]) Wait() error {
	c.mu.Lock()
	g := c.group
	c.mu.Unlock()
	return g.Wait()
}
