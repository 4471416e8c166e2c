package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/dirtyfx/pkg/customer"
	"github.com/odvcencio/dirtyfx/pkg/dirty"
	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/ui/theme"
)

// transcript prints a non-interactive walk through dirty tracking. The
// calling goroutine plays the UI thread; background loads hand back to it
// through Wait.
type transcript struct {
	w      io.Writer
	styles theme.Lipgloss
}

func runPlain(ctx context.Context, env *environment, id string, stdout io.Writer) error {
	t := &transcript{w: stdout, styles: theme.DefaultTheme().Lipgloss()}
	t.property()
	return t.form(ctx, env, id)
}

func (t *transcript) title(s string) {
	fmt.Fprintln(t.w, t.styles.Title.Render(s))
}

func (t *transcript) badge(isDirty bool) string {
	if isDirty {
		return t.styles.Dirty.Render(theme.Symbols.Dirty + " dirty")
	}
	return t.styles.Clean.Render(theme.Symbols.Clean + " clean")
}

func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// property walks one tracked double through set, reset, set and rebase.
func (t *transcript) property() {
	t.title("Tracked property")
	p := dirty.NewDouble(3.2)
	step := func(action string) {
		fmt.Fprintf(t.w, "  %-12s %s %-5s %s %-5s %s\n",
			t.styles.Muted.Render(action),
			t.styles.Label.Render("value"),
			t.styles.Value.Render(formatDouble(p.Get())),
			t.styles.Label.Render("baseline"),
			t.styles.Value.Render(formatDouble(p.Baseline().Get())),
			t.badge(p.IsDirty()),
		)
	}
	step("new 3.2")
	p.Set(5.4)
	step("set 5.4")
	p.Reset()
	step("reset")
	p.Set(7.0)
	step("set 7.0")
	p.Rebase()
	step("rebase")
	fmt.Fprintln(t.w)
}

// form loads a customer, edits it, reverts one edit and saves the rest.
func (t *transcript) form(ctx context.Context, env *environment, id string) error {
	ctrl := customer.NewController(env.store, id, observable.Immediate, env.logger, env.hub)
	defer ctrl.Close()

	var loadErr error
	ctrl.Load(ctx, func(err error) { loadErr = err })
	if err := ctrl.Wait(); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}
	m := ctrl.Model()

	t.title("Customer form")
	t.snapshot(m, "loaded")

	m.Score.Set(m.Score.Get() + 2.2)
	m.Visits.Set(m.Visits.Get() + 1)
	m.Active.Set(!m.Active.Get())
	t.snapshot(m, "edited score, visits and active")

	m.Active.Reset()
	t.snapshot(m, "reset active")

	ctrl.Save(ctx)
	if err := ctrl.Wait(); err != nil {
		return err
	}
	t.snapshot(m, m.Status.Get())
	return nil
}

func (t *transcript) snapshot(m *customer.Model, caption string) {
	type row struct {
		label string
		value string
		prop  dirty.Trackable
	}
	rows := []row{
		{"Name", m.Name.Get(), m.Name},
		{"Email", m.Email.Get(), m.Email},
		{"Score", formatDouble(m.Score.Get()), m.Score},
		{"Visits", strconv.FormatInt(int64(m.Visits.Get()), 10), m.Visits},
		{"Points", strconv.FormatInt(m.Points.Get(), 10), m.Points},
		{"Active", strconv.FormatBool(m.Active.Get()), m.Active},
		{"Tags", strings.Join(m.Tags.Get(), ", "), m.Tags},
	}

	lines := make([]string, 0, len(rows)+2)
	for _, r := range rows {
		marker, label := t.styles.Clean.Render(theme.Symbols.Clean), t.styles.Label.Render(fmt.Sprintf("%-7s", r.label))
		if r.prop.IsDirty() {
			marker, label = t.styles.Dirty.Render(theme.Symbols.Dirty), t.styles.Dirty.Render(fmt.Sprintf("%-7s", r.label))
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", marker, label, t.styles.Value.Render(r.value)))
	}
	lines = append(lines, "", fmt.Sprintf("%s  %s", t.badge(m.Form().IsDirty()), t.styles.Muted.Render("rev "+strconv.FormatInt(m.Revision, 10))))

	fmt.Fprintln(t.w, t.styles.Muted.Render(caption))
	fmt.Fprintln(t.w, t.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
