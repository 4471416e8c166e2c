package customer

import (
	"github.com/odvcencio/dirtyfx/pkg/ui/widgets"
)

// ViewBuilder builds the customer form for a model.
type ViewBuilder struct {
	model *Model
}

// NewViewBuilder creates a builder for model.
func NewViewBuilder(model *Model) *ViewBuilder {
	return &ViewBuilder{model: model}
}

// Build returns the form widget tree.
func (b *ViewBuilder) Build() *widgets.Form {
	m := b.model

	tags := widgets.NewTextField(m.TagsText())
	tags.SetPlaceholder("comma,separated")
	email := widgets.NewTextField(m.Email)
	email.SetPlaceholder("name@example.com")

	return widgets.NewForm("Customer",
		widgets.NewStatusBar(m.Form(), m.Status),
		widgets.NewField("Name", m.Name, widgets.NewTextField(m.Name)),
		widgets.NewField("Email", m.Email, email),
		widgets.NewField("Score", m.Score, widgets.NewDoubleField(m.Score, 0.5)),
		widgets.NewField("Visits", m.Visits, widgets.NewIntegerField(m.Visits, 1)),
		widgets.NewField("Points", m.Points, widgets.NewLongField(m.Points, 10)),
		widgets.NewField("Active", m.Active, widgets.NewToggle(m.Active)),
		widgets.NewField("Tags", m.Tags, tags),
	)
}
