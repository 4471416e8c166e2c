package customer

import (
	"github.com/odvcencio/dirtyfx/pkg/dirty"
	"github.com/odvcencio/dirtyfx/pkg/logging"
	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/telemetry"
)

// Model is the presentation model of the customer form. Every editable
// field is a dirty property and all of them belong to one composite, so the
// form as a whole knows whether it has unsaved edits.
//
// The model is owned by the UI thread.
type Model struct {
	ID       string
	Revision int64

	Name   *dirty.String
	Email  *dirty.String
	Score  *dirty.Double
	Visits *dirty.Integer
	Points *dirty.Long
	Active *dirty.Boolean
	Tags   *dirty.Value[[]string]

	// Status is the message shown in the status bar.
	Status *observable.Value[string]

	form *dirty.Composite
	subs []observable.Subscription
}

// NewModel creates an empty, clean model.
func NewModel() *Model {
	m := &Model{}
	m.Name = dirty.NewStringNamed(m, "name", "")
	m.Email = dirty.NewStringNamed(m, "email", "")
	m.Score = dirty.NewDoubleNamed(m, "score", 0)
	m.Visits = dirty.NewIntegerNamed(m, "visits", 0)
	m.Points = dirty.NewLongNamed(m, "points", 0)
	m.Active = dirty.NewBooleanNamed(m, "active", false)
	m.Tags = dirty.NewObjectNamed(m, "tags", []string{})
	m.Status = observable.NewNamed(any(m), "status", "")
	m.form = dirty.NewComposite(m.Name, m.Email, m.Score, m.Visits, m.Points, m.Active, m.Tags)
	return m
}

// Form returns the composite over every field.
func (m *Model) Form() *dirty.Composite {
	return m.form
}

// TagsText exposes Tags as editable comma separated text.
func (m *Model) TagsText() observable.Settable[string] {
	return &tagsText{
		Binding: observable.Map[[]string](m.Tags, joinTags),
		tags:    m.Tags,
	}
}

// Load replaces every field with r and takes the result as the new
// baseline.
func (m *Model) Load(r Record) {
	m.ID = r.ID
	m.Revision = r.Revision
	m.Name.Set(r.Name)
	m.Email.Set(r.Email)
	m.Score.Set(r.Score)
	m.Visits.Set(r.Visits)
	m.Points.Set(r.Points)
	m.Active.Set(r.Active)
	m.Tags.Set(normalizeTags(r.Tags))
	m.form.Rebase()
}

// Rebase takes r as the new baseline of every field while keeping the
// current values, so edits that differ from r stay dirty.
func (m *Model) Rebase(r Record) {
	m.Revision = r.Revision
	rebaseOnto(m.Name, r.Name)
	rebaseOnto(m.Email, r.Email)
	rebaseOnto(m.Score, r.Score)
	rebaseOnto(m.Visits, r.Visits)
	rebaseOnto(m.Points, r.Points)
	rebaseOnto(m.Active, r.Active)
	rebaseOnto(m.Tags, normalizeTags(r.Tags))
}

func rebaseOnto[T any](p *dirty.Value[T], baseline T) {
	current := p.Get()
	p.Set(baseline)
	p.Rebase()
	p.Set(current)
}

// Record snapshots the current field values.
func (m *Model) Record() Record {
	return Record{
		ID:       m.ID,
		Name:     m.Name.Get(),
		Email:    m.Email.Get(),
		Score:    m.Score.Get(),
		Visits:   m.Visits.Get(),
		Points:   m.Points.Get(),
		Active:   m.Active.Get(),
		Tags:     normalizeTags(m.Tags.Get()),
		Revision: m.Revision,
	}
}

// DirtyFields names the fields that differ from their baseline, in form
// order.
func (m *Model) DirtyFields() []string {
	var names []string
	for _, member := range m.form.Members() {
		if !member.IsDirty() {
			continue
		}
		if named, ok := member.(interface{ Name() string }); ok {
			names = append(names, named.Name())
		}
	}
	return names
}

// Instrument publishes the form's rebase, reset, membership and dirty
// transitions to hub and logs dirty transitions. Either argument may be nil.
func (m *Model) Instrument(hub *telemetry.Hub, logger *logging.Logger) {
	if logger == nil {
		logger = logging.Discard()
	}
	if hub != nil {
		m.form.SetHooks(telemetry.CompositeHooks(hub, Form))
		hub.Publish(telemetry.Event{
			Type: telemetry.EventMembership,
			Form: Form,
			Data: map[string]any{"members": m.form.Len()},
		})
	}
	m.subs = append(m.subs, m.form.OnChange(func(_, isDirty bool) {
		logger.DirtyChanged(Form, isDirty)
		hub.Publish(telemetry.Event{
			Type:     telemetry.EventDirtyChanged,
			Form:     Form,
			RecordID: m.ID,
			Data:     map[string]any{"dirty": isDirty},
		})
	}))
}

// Close drops instrumentation listeners.
func (m *Model) Close() {
	observable.Combine(m.subs...).Unsubscribe()
	m.subs = nil
	m.form.SetHooks(dirty.Hooks{})
}

type tagsText struct {
	*observable.Binding[string]
	tags *dirty.Value[[]string]
}

func (t *tagsText) Set(s string) {
	t.tags.Set(splitTags(s))
}
