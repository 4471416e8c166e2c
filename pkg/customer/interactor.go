package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	apperrors "github.com/odvcencio/dirtyfx/pkg/errors"
	"github.com/odvcencio/dirtyfx/pkg/logging"
	"github.com/odvcencio/dirtyfx/pkg/storage"
	"github.com/odvcencio/dirtyfx/pkg/telemetry"
)

// Store is the persistence the interactor needs.
type Store interface {
	GetCustomer(ctx context.Context, id string) (*storage.Customer, error)
	UpdateCustomer(ctx context.Context, c *storage.Customer) error
}

// Interactor loads and saves one customer for a Model. FetchData and
// Persist may run on any goroutine; every other method belongs to the UI
// thread.
type Interactor struct {
	model  *Model
	store  Store
	id     string
	logger *logging.Logger
	hub    *telemetry.Hub

	fetched    Record
	retryDelay time.Duration
}

// storeAttempts bounds how often a retryable store call is made.
const storeAttempts = 3

// NewInteractor creates an interactor for customer id.
func NewInteractor(model *Model, store Store, id string, logger *logging.Logger, hub *telemetry.Hub) *Interactor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Interactor{
		model:      model,
		store:      store,
		id:         id,
		logger:     logger.WithForm(Form, id),
		hub:        hub,
		retryDelay: 50 * time.Millisecond,
	}
}

// Model returns the model the interactor writes to.
func (i *Interactor) Model() *Model {
	return i.model
}

// FetchData reads the customer from the store.
func (i *Interactor) FetchData(ctx context.Context) error {
	return i.retry(ctx, "load", func() error {
		c, err := i.store.GetCustomer(ctx, i.id)
		if err != nil {
			return loadError(i.id, err)
		}
		i.fetched = fromStorage(c)
		return nil
	})
}

// UpdateModel loads the fetched customer into the model and rebases it.
func (i *Interactor) UpdateModel() {
	i.model.Load(i.fetched)
}

// Snapshot validates the model and captures what a save would write.
func (i *Interactor) Snapshot() (Record, error) {
	rec := i.model.Record()
	if strings.TrimSpace(rec.Name) == "" {
		return rec, apperrors.New(apperrors.ErrCodeFormInvalid, "name is required").
			WithContext("field", "name").
			WithUserMessage("name is required")
	}
	if email := strings.TrimSpace(rec.Email); email != "" && !strings.Contains(email, "@") {
		return rec, apperrors.New(apperrors.ErrCodeFormInvalid, "email is malformed").
			WithContext("field", "email").
			WithUserMessage(fmt.Sprintf("%q is not an email address", email))
	}
	return rec, nil
}

// Persist writes rec and returns the stored record. A busy database is
// retried with backoff.
func (i *Interactor) Persist(ctx context.Context, rec Record) (Record, error) {
	saved := rec
	err := i.retry(ctx, "save", func() error {
		c := rec.toStorage()
		if err := i.store.UpdateCustomer(ctx, c); err != nil {
			return saveError(rec.ID, err)
		}
		saved = fromStorage(c)
		return nil
	})
	return saved, err
}

// retry calls fn until it succeeds, fails with an error that is not
// retryable, runs out of attempts or ctx ends.
func (i *Interactor) retry(ctx context.Context, op string, fn func() error) error {
	delay := i.retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !apperrors.IsRetryable(err) || attempt == storeAttempts {
			return err
		}
		i.logger.Warn("retrying store call",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// Commit takes a persisted record as the new baseline. If the model was
// edited after snapshot was taken, those edits are kept and stay dirty
// against the saved values.
func (i *Interactor) Commit(snapshot, saved Record, dirtyFields []string) {
	if reflect.DeepEqual(i.model.Record(), snapshot) {
		i.model.Load(saved)
	} else {
		i.model.Rebase(saved)
	}
	i.logger.FormSaved(saved.ID, dirtyFields)
	i.hub.Publish(telemetry.Event{
		Type:     telemetry.EventFormSaved,
		Form:     Form,
		RecordID: saved.ID,
		Data:     map[string]any{"fields": dirtyFields},
	})
}

// Fail reports a failed save.
func (i *Interactor) Fail(err error) {
	i.logger.SaveFailed(i.id, err)
	i.hub.Publish(telemetry.Event{
		Type:     telemetry.EventFormSaveFailed,
		Form:     Form,
		RecordID: i.id,
		Data:     map[string]any{"code": string(apperrors.GetCode(err))},
	})
}

// Save persists the edits on the calling goroutine and rebases. A clean
// form is not written.
func (i *Interactor) Save(ctx context.Context) error {
	if !i.model.Form().IsDirty() {
		return nil
	}
	fields := i.model.DirtyFields()
	snapshot, err := i.Snapshot()
	if err != nil {
		i.Fail(err)
		return err
	}
	saved, err := i.Persist(ctx, snapshot)
	if err != nil {
		i.Fail(err)
		return err
	}
	i.Commit(snapshot, saved, fields)
	return nil
}

// Cancel discards every edit.
func (i *Interactor) Cancel() {
	if !i.model.Form().IsDirty() {
		return
	}
	i.model.Form().Reset()
	i.logger.FormReset(i.id, i.model.Form().Len())
}

func loadError(id string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "customer not found").
			WithContext("id", id).
			WithUserMessage(fmt.Sprintf("customer %s does not exist", id))
	case storage.IsBusy(err):
		return apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "database busy").
			WithContext("id", id).
			WithRetryable(true).
			WithUserMessage("database is busy").
			WithRemediation("close other programs using the database")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeFormLoad, "load customer").
			WithContext("id", id)
	}
}

func saveError(id string, err error) error {
	switch {
	case errors.Is(err, storage.ErrConflict):
		return apperrors.Wrap(err, apperrors.ErrCodeFormSave, "stale revision").
			WithContext("id", id).
			WithUserMessage("customer was changed elsewhere").
			WithRemediation("revert to drop your edits", "reopen the customer to load the latest revision")
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "customer not found").
			WithContext("id", id).
			WithUserMessage(fmt.Sprintf("customer %s no longer exists", id))
	case storage.IsBusy(err):
		return apperrors.Wrap(err, apperrors.ErrCodeStorageWrite, "database busy").
			WithContext("id", id).
			WithRetryable(true).
			WithUserMessage("database is busy").
			WithRemediation("close other programs using the database", "press ctrl+s to save again")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeFormSave, "save customer").
			WithContext("id", id)
	}
}
