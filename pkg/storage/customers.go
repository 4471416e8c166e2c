package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrNotFound is returned when a customer does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrConflict is returned when an update was based on a stale revision.
	ErrConflict = errors.New("storage: revision conflict")

	// ErrBusy is returned when the database stayed locked past the busy
	// timeout. The operation may succeed if repeated.
	ErrBusy = errors.New("storage: database busy")
)

// Customer is a persisted customer row.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Score     float64
	Visits    int32
	Points    int64
	Active    bool
	Tags      []string
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

const customerColumns = `id, name, email, score, visits, points, active, tags, revision, created_at, updated_at`

// CreateCustomer inserts c. An empty ID is filled with a new ULID. Revision
// and timestamps are assigned by the store.
func (s *Store) CreateCustomer(ctx context.Context, c *Customer) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("create customer: nil customer")
	}
	if strings.TrimSpace(c.ID) == "" {
		c.ID = ulid.Make().String()
	}
	tags, err := encodeTags(c.Tags)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	_, err = db.ExecContext(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		c.ID, c.Name, c.Email, c.Score, c.Visits, c.Points, c.Active, tags,
		now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert customer %s: %w", c.ID, err)
	}
	c.Revision = 1
	c.CreatedAt, c.UpdatedAt = now, now

	s.notify(newEvent(EventCustomerCreated, c.ID, *c))
	return nil
}

// GetCustomer loads a customer by ID.
func (s *Store) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	return c, nil
}

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]*Customer, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCustomer writes c if its Revision matches the stored one, then bumps
// the revision. A stale revision returns ErrConflict.
func (s *Store) UpdateCustomer(ctx context.Context, c *Customer) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("update customer: nil customer")
	}
	tags, err := encodeTags(c.Tags)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	res, err := db.ExecContext(ctx, `
		UPDATE customers
		SET name = ?, email = ?, score = ?, visits = ?, points = ?, active = ?, tags = ?,
		    revision = revision + 1, updated_at = ?
		WHERE id = ? AND revision = ?`,
		c.Name, c.Email, c.Score, c.Visits, c.Points, c.Active, tags,
		now.UnixNano(), c.ID, c.Revision,
	)
	if err != nil {
		if IsBusy(err) {
			return fmt.Errorf("update customer %s: %w: %w", c.ID, ErrBusy, err)
		}
		return fmt.Errorf("update customer %s: %w", c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update customer %s: %w", c.ID, err)
	}
	if n == 0 {
		var exists int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE id = ?`, c.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("customer %s: %w", c.ID, ErrNotFound)
		}
		return fmt.Errorf("customer %s at revision %d: %w", c.ID, c.Revision, ErrConflict)
	}
	c.Revision++
	c.UpdatedAt = now

	s.notify(newEvent(EventCustomerUpdated, c.ID, *c))
	return nil
}

// DeleteCustomer removes a customer.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	s.notify(newEvent(EventCustomerDeleted, id, nil))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*Customer, error) {
	var (
		c                Customer
		tags             string
		created, updated int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Score, &c.Visits, &c.Points, &c.Active,
		&tags, &c.Revision, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	c.CreatedAt = time.Unix(0, created).UTC()
	c.UpdatedAt = time.Unix(0, updated).UTC()
	return &c, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}
