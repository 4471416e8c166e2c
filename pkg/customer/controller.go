package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/odvcencio/dirtyfx/pkg/errors"
	"github.com/odvcencio/dirtyfx/pkg/logging"
	"github.com/odvcencio/dirtyfx/pkg/mvci"
	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/telemetry"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/widgets"
)

// Controller runs the customer form: it loads the record in the background,
// saves edits and reverts them.
type Controller struct {
	mvc        *mvci.Controller[*widgets.Form]
	model      *Model
	interactor *Interactor
	saving     bool
}

// NewController wires a model, interactor and view for customer id.
// executor is the UI thread; logger and hub may be nil.
func NewController(store Store, id string, executor observable.Executor, logger *logging.Logger, hub *telemetry.Hub) *Controller {
	model := NewModel()
	model.Instrument(hub, logger)
	interactor := NewInteractor(model, store, id, logger, hub)
	return &Controller{
		mvc: mvci.NewController[*widgets.Form](NewViewBuilder(model), interactor, executor, mvci.Options{
			Name:   Form,
			Logger: logger,
			Hub:    hub,
		}),
		model:      model,
		interactor: interactor,
	}
}

// Model returns the form model.
func (c *Controller) Model() *Model {
	return c.model
}

// Interactor returns the form interactor.
func (c *Controller) Interactor() *Interactor {
	return c.interactor
}

// View returns the form widget, building it on first use.
func (c *Controller) View() *widgets.Form {
	return c.mvc.View()
}

// Load fetches the customer in the background. after runs on the UI thread
// once the model is updated or the load failed; it may be nil.
func (c *Controller) Load(ctx context.Context, after func(error)) {
	c.model.Status.Set("loading…")
	c.mvc.Load(ctx, func(err error) {
		if err != nil {
			c.model.Status.Set(failureStatus("load failed: ", err))
		} else {
			c.model.Status.Set("loaded " + c.model.ID)
		}
		if after != nil {
			after(err)
		}
	})
}

// Save validates on the UI thread, writes in the background and rebases
// back on the UI thread. Saving a clean form or saving while a save is in
// flight does nothing.
func (c *Controller) Save(ctx context.Context) {
	if c.saving {
		return
	}
	if !c.model.Form().IsDirty() {
		c.model.Status.Set("nothing to save")
		return
	}
	fields := c.model.DirtyFields()
	snapshot, err := c.interactor.Snapshot()
	if err != nil {
		c.interactor.Fail(err)
		c.model.Status.Set(apperrors.UserMessage(err))
		return
	}

	c.saving = true
	c.model.Status.Set("saving…")
	var saved Record
	c.mvc.Go(ctx, "save", func(ctx context.Context) error {
		var err error
		saved, err = c.interactor.Persist(ctx, snapshot)
		return err
	}, func() {
		c.interactor.Commit(snapshot, saved, fields)
	}, func(err error, elapsed time.Duration) {
		c.saving = false
		if err != nil {
			c.interactor.Fail(err)
			c.model.Status.Set(failureStatus("save failed: ", err))
			return
		}
		c.model.Status.Set(fmt.Sprintf("saved %d field(s) in %s", len(fields), elapsed.Round(time.Millisecond)))
	})
}

// Revert discards every edit.
func (c *Controller) Revert() {
	if !c.model.Form().IsDirty() {
		c.model.Status.Set("nothing to revert")
		return
	}
	c.interactor.Cancel()
	c.model.Status.Set("reverted")
}

// CommandHandler returns a handler for the form's Save and Revert commands.
func (c *Controller) CommandHandler(ctx context.Context) runtime.CommandHandler {
	return func(cmd runtime.Command) bool {
		switch cmd.(type) {
		case runtime.Save:
			c.Save(ctx)
			return true
		case runtime.Revert, runtime.Cancel:
			c.Revert()
			return true
		}
		return false
	}
}

// Wait blocks until background loads and saves have handed their results
// to the UI thread.
func (c *Controller) Wait() error {
	return c.mvc.Wait()
}

// Close detaches the model's instrumentation.
func (c *Controller) Close() {
	c.model.Close()
}

// failureStatus is the status line for a failed load or save: the user
// message followed by any remediation tips.
func failureStatus(prefix string, err error) string {
	status := prefix + apperrors.UserMessage(err)
	if tips := apperrors.Remediation(err); len(tips) > 0 {
		status += " (" + strings.Join(tips, "; ") + ")"
	}
	return status
}
