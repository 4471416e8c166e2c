package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "customers.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGetCustomer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := &Customer{
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Score:  3.2,
		Visits: 12,
		Points: 1 << 40,
		Active: true,
		Tags:   []string{"vip", "math"},
	}
	if err := store.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if len(c.ID) != 26 {
		t.Fatalf("expected a ULID id, got %q", c.ID)
	}
	if c.Revision != 1 {
		t.Fatalf("Revision = %d, want 1", c.Revision)
	}

	got, err := store.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if got.Name != c.Name || got.Email != c.Email || got.Score != c.Score ||
		got.Visits != c.Visits || got.Points != c.Points || got.Active != c.Active {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
	}
	if !reflect.DeepEqual(got.Tags, c.Tags) {
		t.Fatalf("Tags = %v, want %v", got.Tags, c.Tags)
	}
	if !got.CreatedAt.Equal(c.CreatedAt) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, c.CreatedAt)
	}
}

func TestCreateCustomerKeepsExplicitID(t *testing.T) {
	store := newTestStore(t)
	c := &Customer{ID: "fixed", Name: "Grace"}
	if err := store.CreateCustomer(context.Background(), c); err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if c.ID != "fixed" {
		t.Fatalf("ID = %q, want fixed", c.ID)
	}
	got, err := store.GetCustomer(context.Background(), "fixed")
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Fatalf("nil tags should load as an empty list, got %#v", got.Tags)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetCustomer(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetCustomer() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCustomerRevision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := &Customer{Name: "Ada"}
	if err := store.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}

	stale := *c
	c.Name = "Ada Byron"
	if err := store.UpdateCustomer(ctx, c); err != nil {
		t.Fatalf("UpdateCustomer() error = %v", err)
	}
	if c.Revision != 2 {
		t.Fatalf("Revision = %d, want 2", c.Revision)
	}

	stale.Name = "Someone else"
	if err := store.UpdateCustomer(ctx, &stale); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale update error = %v, want ErrConflict", err)
	}

	got, err := store.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if got.Name != "Ada Byron" || got.Revision != 2 {
		t.Fatalf("got %q rev %d, want Ada Byron rev 2", got.Name, got.Revision)
	}

	missing := &Customer{ID: "nope", Revision: 1}
	if err := store.UpdateCustomer(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing update error = %v, want ErrNotFound", err)
	}
}

func TestListAndDeleteCustomers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Grace", "Ada", "Linus"} {
		if err := store.CreateCustomer(ctx, &Customer{Name: name}); err != nil {
			t.Fatalf("CreateCustomer(%s) error = %v", name, err)
		}
	}

	list, err := store.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	var names []string
	for _, c := range list {
		names = append(names, c.Name)
	}
	if want := []string{"Ada", "Grace", "Linus"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	if err := store.DeleteCustomer(ctx, list[0].ID); err != nil {
		t.Fatalf("DeleteCustomer() error = %v", err)
	}
	if err := store.DeleteCustomer(ctx, list[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteCustomer() error = %v, want ErrNotFound", err)
	}
}

func TestObserversReceiveEvents(t *testing.T) {
	store := newTestStore(t)
	events := make(chan Event, 4)
	store.AddObserver(ObserverFunc(func(e Event) { events <- e }))
	store.AddObserver(nil)

	c := &Customer{Name: "Ada"}
	if err := store.CreateCustomer(context.Background(), c); err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}

	select {
	case e := <-events:
		if e.Type != EventCustomerCreated || e.EntityID != c.ID {
			t.Fatalf("event = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestMemoryStore(t *testing.T) {
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateCustomer(ctx, &Customer{ID: "m", Name: "Mem"}); err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if _, err := store.GetCustomer(ctx, "m"); err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
}
