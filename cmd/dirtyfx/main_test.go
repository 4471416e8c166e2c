package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/odvcencio/dirtyfx/pkg/config"
	apperrors "github.com/odvcencio/dirtyfx/pkg/errors"
	"github.com/odvcencio/dirtyfx/pkg/storage"
	"github.com/odvcencio/dirtyfx/pkg/ui/backend/sim"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
)

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"DIRTYFX_DB", "DIRTYFX_LOG_LEVEL", "DIRTYFX_LOG_FILE", "DIRTYFX_METRICS_LISTEN", "DIRTYFX_TRACING", "DIRTYFX_TRACE_FILE", "DIRTYFX_PLAIN"} {
		t.Setenv(key, "")
	}
}

func TestParseStartupOptions(t *testing.T) {
	opts, err := parseStartupOptions([]string{"-db", "x.db", "-plain=false"}, io.Discard)
	if err != nil {
		t.Fatalf("parseStartupOptions() error = %v", err)
	}
	if opts.dbPath != "x.db" || !opts.plainModeSet || opts.plainMode {
		t.Fatalf("unexpected options: %+v", opts)
	}

	opts, err = parseStartupOptions(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseStartupOptions() error = %v", err)
	}
	if opts.plainModeSet {
		t.Fatal("plain should be unset when the flag is absent")
	}

	_, err = parseStartupOptions([]string{"extra"}, io.Discard)
	if got := exitCodeForError(err); got != exitUsage {
		t.Fatalf("exit code = %d, want %d", got, exitUsage)
	}
	_, err = parseStartupOptions([]string{"-nope"}, io.Discard)
	if got := exitCodeForError(err); got != exitUsage {
		t.Fatalf("exit code = %d, want %d", got, exitUsage)
	}
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), exitFailure},
		{"coded", withExitCode(errors.New("boom"), exitMissing), exitMissing},
		{"wrapped", errors.Join(errors.New("ctx"), withExitCode(errors.New("boom"), exitUsage)), exitUsage},
		{"zero code", exitError{err: errors.New("boom")}, exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeForError(tt.err); got != tt.want {
				t.Fatalf("exitCodeForError() = %d, want %d", got, tt.want)
			}
		})
	}
	if withExitCode(nil, 2) != nil {
		t.Fatal("withExitCode(nil) should be nil")
	}
}

func TestReportError(t *testing.T) {
	var out bytes.Buffer
	reportError(&out, apperrors.New(apperrors.ErrCodeStorageOpen, "open customer database").
		WithRemediation("check storage.path or pass -db"))
	want := "Error: [STORAGE_OPEN] open customer database\n  - check storage.path or pass -db\n"
	if out.String() != want {
		t.Fatalf("reportError() = %q, want %q", out.String(), want)
	}

	out.Reset()
	reportError(&out, errors.New("boom"))
	if out.String() != "Error: boom\n" {
		t.Fatalf("reportError() = %q", out.String())
	}
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-version"}, &out, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "dirtyfx ") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunInvalidLogLevel(t *testing.T) {
	isolateConfig(t)
	err := run(context.Background(), []string{"-plain", "-db", filepath.Join(t.TempDir(), "c.db"), "-log-level", "loud"}, io.Discard, io.Discard)
	if got := exitCodeForError(err); got != exitUsage {
		t.Fatalf("exit code = %d (%v), want %d", got, err, exitUsage)
	}
}

func TestRunPlainTranscript(t *testing.T) {
	isolateConfig(t)
	dbPath := filepath.Join(t.TempDir(), "customers.db")

	var out, logs bytes.Buffer
	if err := run(context.Background(), []string{"-plain", "-db", dbPath}, &out, &logs); err != nil {
		t.Fatalf("run() error = %v\n%s", err, logs.String())
	}

	text := out.String()
	for _, want := range []string{
		"Tracked property",
		"set 5.4",
		"rebase",
		"Customer form",
		"Ada Lovelace",
		"saved 2 field(s)",
		"rev 2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("transcript missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(logs.String(), `"msg":"form saved"`) {
		t.Errorf("expected a form saved log line, got:\n%s", logs.String())
	}

	store, err := storage.New(dbPath)
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	defer store.Close()
	customers, err := store.ListCustomers(context.Background())
	if err != nil || len(customers) != 1 {
		t.Fatalf("ListCustomers() = %d customers, %v", len(customers), err)
	}
	c := customers[0]
	if c.Visits != 13 || !c.Active || c.Revision != 2 {
		t.Fatalf("unexpected stored customer: %+v", c)
	}
}

func TestRunUnknownCustomer(t *testing.T) {
	isolateConfig(t)
	err := run(context.Background(), []string{"-plain", "-db", filepath.Join(t.TempDir(), "c.db"), "-id", "nobody"}, io.Discard, io.Discard)
	if got := exitCodeForError(err); got != exitMissing {
		t.Fatalf("exit code = %d (%v), want %d", got, err, exitMissing)
	}
}

func waitFor(t *testing.T, be *sim.Backend, text string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if be.ContainsText(text) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("screen never showed %q:\n%s", text, be.Capture())
}

func TestRunInteractive(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "customers.db")
	cfg.UI.TickRate = 0

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	env, err := newEnvironment(ctx, cfg, false, io.Discard)
	if err != nil {
		t.Fatalf("newEnvironment() error = %v", err)
	}
	defer env.Close()
	id, err := env.resolveCustomer(ctx, "")
	if err != nil {
		t.Fatalf("resolveCustomer() error = %v", err)
	}

	be := sim.New(140, 16)
	done := make(chan error, 1)
	go func() { done <- runInteractive(ctx, env, id, be, "") }()

	waitFor(t, be, "loaded "+id)
	waitFor(t, be, "○ saved")

	be.InjectKeyString("!")
	waitFor(t, be, "● unsaved")

	be.InjectKey(terminal.KeyCtrlS, 0)
	waitFor(t, be, "saved 1 field(s)")

	be.InjectKey(terminal.KeyCtrlC, 0)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runInteractive() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("runInteractive did not exit on ctrl+c")
	}

	c, err := env.store.GetCustomer(context.Background(), id)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if c.Name != "Ada Lovelace!" {
		t.Fatalf("stored name = %q", c.Name)
	}
}
