package login

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/signin"
	"github.com/alexisbeaulieu97/signin/internal/ui/components"
)

const (
	defaultWidth = 48
	maxWidth     = 64
)

// View implements tea.Model.
func (m Model) View() string {
	ctx := components.NewContext(m.theme).WithWidth(m.contentWidth())
	state := m.form.State()

	sections := []string{
		m.fieldView(ctx, state, signin.FieldIdentifier, "signin.identifier.label"),
		m.fieldView(ctx, state, signin.FieldSecret, "signin.secret.label"),
		m.buttonView(ctx, state),
	}

	if state.LastError != "" {
		sections = append(sections, components.ErrorAlert(m.loc.Error(state.LastError)).ViewWithContext(ctx))
	}

	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	w := m.width - 4
	if w > maxWidth {
		w = maxWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) fieldView(ctx components.RenderContext, state signin.FormState, field signin.Field, labelID string) string {
	pos := positionOf(field)
	f := components.NewField(m.loc.T(labelID), m.inputs[pos].View())

	switch {
	case hasKind(state.Violations, field.EmptyKind()):
		f = f.WithState(components.InputStateInvalid).WithHint(m.loc.Error(field.EmptyKind()))
	case m.focus == pos:
		f = f.WithState(components.InputStateFocus)
	}
	return f.ViewWithContext(ctx)
}

func (m Model) buttonView(ctx components.RenderContext, state signin.FormState) string {
	if state.SubmissionInFlight || m.cancel != nil {
		label := m.spinner.View() + " " + m.loc.T("signin.submitting")
		return components.NewButton(label).WithDisabled(true).ViewWithContext(ctx)
	}
	return components.NewButton(m.loc.T("signin.submit")).
		WithActive(m.focus == focusSubmit).
		ViewWithContext(ctx)
}

func hasKind(kinds []auth.ErrorKind, kind auth.ErrorKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
