package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/odvcencio/dirtyfx/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewWritesComponentFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "customer", slog.LevelInfo)

	l.FormLoaded("01H", 1500*time.Microsecond)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	got := lines[0]
	if got["component"] != "customer" || got["system"] != "dirtyfx" {
		t.Fatalf("missing component fields: %v", got)
	}
	if got["msg"] != "form loaded" || got["record_id"] != "01H" {
		t.Fatalf("unexpected record: %v", got)
	}
	if got["duration_ms"] != 1.5 {
		t.Fatalf("duration_ms = %v, want 1.5", got["duration_ms"])
	}
}

func TestSetLevelAppliesToDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "form", slog.LevelInfo)
	derived := l.WithForm("customer", "42")

	derived.DirtyChanged("customer", true)
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %s", buf.String())
	}

	l.SetLevel(slog.LevelDebug)
	if derived.Level() != slog.LevelDebug {
		t.Fatalf("derived level = %v, want debug", derived.Level())
	}
	derived.DirtyChanged("customer", true)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0]["form"] != "customer" || lines[0]["dirty"] != true {
		t.Fatalf("unexpected record: %v", lines[0])
	}
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "customer", slog.LevelDebug)

	l.FormSaved("1", []string{"name", "email"})
	l.FormReset("1", 7)
	l.LoadFailed("1", errors.New("boom"))
	l.SaveFailed("1", errors.New("disk full"))

	lines := decodeLines(t, &buf)
	wantMsgs := []string{"form saved", "form reset", "form load failed", "form save failed"}
	if len(lines) != len(wantMsgs) {
		t.Fatalf("lines = %d, want %d", len(lines), len(wantMsgs))
	}
	for i, want := range wantMsgs {
		if lines[i]["msg"] != want {
			t.Errorf("line %d msg = %v, want %q", i, lines[i]["msg"], want)
		}
	}
	if lines[2]["level"] != "ERROR" || lines[2]["error"] != "boom" {
		t.Fatalf("unexpected failure record: %v", lines[2])
	}
	if lines[1]["members"] != float64(7) {
		t.Fatalf("members = %v", lines[1]["members"])
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "mvci", slog.LevelInfo)

	if got := l.WithContext(context.Background()); got != l {
		t.Fatal("context without span should return the same logger")
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.WithContext(ctx).Info("loading")
	lines := decodeLines(t, &buf)
	if lines[0]["trace_id"] != traceID.String() || lines[0]["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %v", lines[0])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"chatty", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dirtyfx.jsonl")

	for i := 0; i < 2; i++ {
		l, closer, err := Open(path, "cli", slog.LevelInfo)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		l.Info("started")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("log lines = %d, want 2", n)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped")
}

func TestFailedCodedErrors(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "customer", slog.LevelInfo)

	busy := apperrors.New(apperrors.ErrCodeStorageWrite, "database busy").WithRetryable(true)
	l.SaveFailed("1", busy)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0]["code"] != "STORAGE_WRITE" || lines[0]["retryable"] != true {
		t.Fatalf("unexpected failure record: %v", lines[0])
	}
	if _, ok := lines[0]["stack"]; ok {
		t.Fatal("stack should only be logged at debug level")
	}

	buf.Reset()
	l.SetLevel(slog.LevelDebug)
	l.LoadFailed("1", busy)
	lines = decodeLines(t, &buf)
	stack, _ := lines[0]["stack"].(string)
	if !strings.Contains(stack, "TestFailedCodedErrors") {
		t.Fatalf("stack should name the failing test, got %q", stack)
	}
}
