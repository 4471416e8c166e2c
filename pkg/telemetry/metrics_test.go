package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/dirtyfx/pkg/dirty"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()

	m.Record(Event{Type: EventFormLoaded, Form: "customer", Duration: 20 * time.Millisecond})
	m.Record(Event{Type: EventFormLoadFailed, Form: "customer"})
	m.Record(Event{Type: EventFormSaved, Form: "customer"})
	m.Record(Event{Type: EventFormSaved, Form: "customer"})
	m.Record(Event{Type: EventFormSaveFailed, Form: "customer"})
	m.Record(Event{Type: EventFormReset, Form: "customer"})
	m.Record(Event{Type: EventDirtyChanged, Form: "customer", Data: map[string]any{"dirty": true}})
	m.Record(Event{Type: EventMembership, Form: "customer", Data: map[string]any{"members": 7}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("customer", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("customer", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.saves.WithLabelValues("customer", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saves.WithLabelValues("customer", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resets.WithLabelValues("customer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dirty.WithLabelValues("customer")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.members.WithLabelValues("customer")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.loadDuration))

	m.Record(Event{Type: EventDirtyChanged, Form: "customer", Data: map[string]any{"dirty": false}})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dirty.WithLabelValues("customer")))
}

func TestMetrics_ConsumeFromCompositeHooks(t *testing.T) {
	hub := NewHub()
	m := NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Consume(ctx, hub)
		close(done)
	}()
	// Let the consumer subscribe before publishing.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.subscribers) == 1
	}, time.Second, 5*time.Millisecond)

	c := dirty.NewComposite()
	c.SetHooks(CompositeHooks(hub, "customer"))
	name := dirty.NewString("Ada")
	c.Add(name)
	name.Set("Grace")
	c.Rebase()
	c.Reset()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.resets.WithLabelValues("customer")) == 1 &&
			testutil.ToFloat64(m.rebases.WithLabelValues("customer")) == 1 &&
			testutil.ToFloat64(m.members.WithLabelValues("customer")) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Consume did not stop on cancel")
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.Record(Event{Type: EventFormSaved, Form: "customer"})

	rec := httptest.NewRecorder()
	NewRouter(m.Handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dirtyfx_form_saves_total{form="customer",outcome="ok"} 1`)
}

func TestRouter_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(NewMetrics().Handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServe(t *testing.T) {
	m := NewMetrics()
	m.Record(Event{Type: EventFormReset, Form: "customer"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := Serve(ctx, "127.0.0.1:0", m.Handler(), func(err error) { t.Errorf("serve: %v", err) })
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "dirtyfx_form_resets_total"))
}
