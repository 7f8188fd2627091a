package login

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/signin/internal/signin"
)

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case SubmittedMsg:
		return m.handleSubmitted(msg)

	case spinner.TickMsg:
		if m.cancel == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocusedInput(msg)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		// The submission settles through SubmittedMsg with a Cancelled
		// outcome; until then no new one may start.
		if m.cancel != nil {
			m.logger.Info(m.parent, "submission cancelled by user")
			m.cancel()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.form.Reset()
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.focus = focusIdentifier
		m.applyFocus()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % focusCount
		m.applyFocus()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + focusCount - 1) % focusCount
		m.applyFocus()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	return m.updateFocusedInput(msg)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		return m, nil
	}
	ctx, cancel := context.WithCancel(m.parent)
	m.cancel = cancel
	return m, tea.Batch(submitCmd(ctx, m.form), m.spinner.Tick)
}

func (m Model) handleSubmitted(msg SubmittedMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	outcome := msg.Outcome
	switch outcome.Status {
	case signin.StatusAccepted:
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.focus = focusIdentifier
		m.applyFocus()
		return m, signedInCmd(outcome.Principal)

	case signin.StatusRejected:
		if len(outcome.Kinds) > 0 {
			if field, ok := signin.FieldOf(outcome.Kinds[0]); ok {
				m.focus = positionOf(field)
				m.applyFocus()
			}
		}
	}
	return m, nil
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	field, ok := fieldAt(m.focus)
	if !ok {
		return m, nil
	}

	pos := positionOf(field)
	before := m.inputs[pos].Value()

	var cmd tea.Cmd
	m.inputs[pos], cmd = m.inputs[pos].Update(msg)

	if value := m.inputs[pos].Value(); value != before {
		m.form.SetField(field, value)
	}
	return m, cmd
}
