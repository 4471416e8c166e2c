package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odvcencio/dirtyfx/pkg/dirty"
)

const namespace = "dirtyfx"

// Metrics exports form activity to Prometheus. Each Metrics owns its
// registry so tests and multiple apps do not collide.
type Metrics struct {
	registry *prometheus.Registry

	loads        *prometheus.CounterVec
	saves        *prometheus.CounterVec
	resets       *prometheus.CounterVec
	rebases      *prometheus.CounterVec
	dirty        *prometheus.GaugeVec
	members      *prometheus.GaugeVec
	loadDuration *prometheus.HistogramVec
}

// NewMetrics registers the dirtyfx collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_loads_total",
			Help:      "Form loads by outcome.",
		}, []string{"form", "outcome"}),
		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_saves_total",
			Help:      "Form saves by outcome.",
		}, []string{"form", "outcome"}),
		resets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_resets_total",
			Help:      "Edits discarded by resetting a form.",
		}, []string{"form"}),
		rebases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_rebases_total",
			Help:      "Baselines committed on a form.",
		}, []string{"form"}),
		dirty: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "form_dirty",
			Help:      "1 while the form has unsaved edits.",
		}, []string{"form"}),
		members: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "form_tracked_properties",
			Help:      "Properties tracked by the form's composite.",
		}, []string{"form"}),
		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "form_load_duration_seconds",
			Help:      "Time spent fetching form data off the UI thread.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"form"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Record applies one event to the collectors.
func (m *Metrics) Record(e Event) {
	switch e.Type {
	case EventFormLoaded:
		m.loads.WithLabelValues(e.Form, "ok").Inc()
		m.loadDuration.WithLabelValues(e.Form).Observe(e.Duration.Seconds())
	case EventFormLoadFailed:
		m.loads.WithLabelValues(e.Form, "error").Inc()
	case EventFormSaved:
		m.saves.WithLabelValues(e.Form, "ok").Inc()
	case EventFormSaveFailed:
		m.saves.WithLabelValues(e.Form, "error").Inc()
	case EventFormReset:
		m.resets.WithLabelValues(e.Form).Inc()
	case EventFormRebased:
		m.rebases.WithLabelValues(e.Form).Inc()
	case EventDirtyChanged:
		v := 0.0
		if d, _ := e.Data["dirty"].(bool); d {
			v = 1
		}
		m.dirty.WithLabelValues(e.Form).Set(v)
	case EventMembership:
		if n, ok := e.Data["members"].(int); ok {
			m.members.WithLabelValues(e.Form).Set(float64(n))
		}
	}
}

// Consume records events from hub until ctx is done or the hub closes.
func (m *Metrics) Consume(ctx context.Context, hub *Hub) {
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			m.Record(e)
		}
	}
}

// CompositeHooks returns hooks that publish a composite's broadcast and
// membership activity for form.
func CompositeHooks(hub *Hub, form string) dirty.Hooks {
	publish := func(t EventType) func(int) {
		return func(members int) {
			hub.Publish(Event{Type: t, Form: form, Data: map[string]any{"members": members}})
		}
	}
	return dirty.Hooks{
		OnRebase:     publish(EventFormRebased),
		OnReset:      publish(EventFormReset),
		OnMembership: publish(EventMembership),
	}
}
