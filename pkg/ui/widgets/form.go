package widgets

import (
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
)

// Form frames a title, its field rows and a status bar, and turns the save,
// revert and quit keys into commands.
type Form struct {
	Base
	title  string
	fields []*Field
	status *StatusBar
	body   *runtime.Flex
}

// NewForm creates a form. Field labels are padded to a common width.
func NewForm(title string, status *StatusBar, fields ...*Field) *Form {
	width := 0
	for _, f := range fields {
		width = max(width, f.labelWidth)
	}
	children := make([]runtime.FlexChild, 0, len(fields)+2)
	for _, f := range fields {
		f.SetLabelWidth(width)
		children = append(children, runtime.Fixed(f))
	}
	body := runtime.VBox(children...)
	body.Children = append(body.Children, runtime.Expanded(&spacer{}))
	if status != nil {
		body.Children = append(body.Children, runtime.Fixed(status))
	}
	return &Form{title: title, fields: fields, status: status, body: body}
}

// Title returns the form title.
func (f *Form) Title() string {
	return f.title
}

// Fields returns the form rows in order.
func (f *Form) Fields() []*Field {
	return f.fields
}

// ChildWidgets returns the form body.
func (f *Form) ChildWidgets() []runtime.Widget {
	return []runtime.Widget{f.body}
}

// Measure fills the available space.
func (f *Form) Measure(c runtime.Constraints) runtime.Size {
	return runtime.Size{Width: c.MaxWidth, Height: c.MaxHeight}
}

// Layout places the body inside the border.
func (f *Form) Layout(bounds runtime.Rect) {
	f.bounds = bounds
	f.body.Layout(bounds.Inset(1, 2, 1, 2))
}

// Render draws the frame, title and body.
func (f *Form) Render(ctx runtime.RenderContext) {
	b := f.bounds
	if b.Width < 2 || b.Height < 2 {
		return
	}
	border := ctx.Theme.Border
	if f.status != nil && f.status.dirty.Get() {
		border = ctx.Theme.BorderFocus
	}
	ctx.Buffer.DrawRoundedBox(b, border)
	if f.title != "" {
		title := " " + f.title + " "
		ctx.Buffer.SetString(b.X+2, b.Y, truncate(title, b.Width-4), ctx.Theme.Accent.Bold(true), b.X+b.Width-2)
	}
	f.body.Render(ctx.Sub(f.body.Bounds()))
}

// HandleMessage routes keys to the body first, then maps form-level keys.
func (f *Form) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if result := f.body.HandleMessage(msg); result.Handled {
		return result
	}
	key, ok := msg.(runtime.KeyMsg)
	if !ok {
		return runtime.Unhandled()
	}
	switch key.Key {
	case terminal.KeyCtrlS:
		return runtime.WithCommand(runtime.Save{})
	case terminal.KeyCtrlR, terminal.KeyCtrlZ:
		return runtime.WithCommand(runtime.Revert{})
	case terminal.KeyEscape:
		return runtime.WithCommand(runtime.Quit{})
	case terminal.KeyDown:
		return runtime.WithCommand(runtime.FocusNext{})
	case terminal.KeyUp:
		return runtime.WithCommand(runtime.FocusPrev{})
	}
	return runtime.Unhandled()
}

type spacer struct{ Base }

func (*spacer) Measure(runtime.Constraints) runtime.Size { return runtime.Size{} }
func (*spacer) Render(runtime.RenderContext) {}
