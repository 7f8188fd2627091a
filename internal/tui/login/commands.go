package login

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/signin"
)

// submitCmd runs the form submission off the update loop.
func submitCmd(ctx context.Context, form *signin.Form) tea.Cmd {
	return func() tea.Msg {
		return SubmittedMsg{Outcome: form.Submit(ctx)}
	}
}

// signedInCmd hands the principal to whoever hosts the screen.
func signedInCmd(principal auth.Principal) tea.Cmd {
	return func() tea.Msg {
		return SignedInMsg{Principal: principal}
	}
}
