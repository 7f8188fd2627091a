package login

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/i18n"
	"github.com/alexisbeaulieu97/signin/internal/ports"
	"github.com/alexisbeaulieu97/signin/internal/signin"
	"github.com/alexisbeaulieu97/signin/internal/ui/components"
)

func newModel(authn ports.Authenticator) Model {
	return New(components.DefaultTheme(), Options{Authenticator: authn, Localizer: i18n.MustNew("en")})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(t *testing.T, m Model, keyType tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: keyType})
}

// submittedFrom runs the commands returned by a submit key press and
// returns the SubmittedMsg among their results.
func submittedFrom(t *testing.T, cmd tea.Cmd) SubmittedMsg {
	t.Helper()
	require.NotNil(t, cmd)

	var pending []tea.Cmd
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		pending = msg
	case SubmittedMsg:
		return msg
	}
	for _, c := range pending {
		if c == nil {
			continue
		}
		if sub, ok := c().(SubmittedMsg); ok {
			return sub
		}
	}
	t.Fatal("no SubmittedMsg produced")
	return SubmittedMsg{}
}

func fillForm(t *testing.T, m Model, identifier, secret string) Model {
	t.Helper()
	m = typeText(t, m, identifier)
	m, _ = press(t, m, tea.KeyTab)
	return typeText(t, m, secret)
}

func acceptAll() ports.Authenticator {
	return ports.AuthenticatorFunc(func(_ context.Context, c auth.Credentials) (auth.Principal, error) {
		return auth.Principal{Username: c.Identifier, Role: auth.RoleUser}, nil
	})
}

func TestModel_TypingUpdatesForm(t *testing.T) {
	m := fillForm(t, newModel(acceptAll()), "alice", "pw")

	state := m.State()
	assert.Equal(t, "alice", state.Identifier)
	assert.Equal(t, "pw", state.Secret)
}

func TestModel_FocusCycles(t *testing.T) {
	m := newModel(acceptAll())
	assert.Equal(t, focusIdentifier, m.Focus())

	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, focusSecret, m.Focus())
	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, focusSubmit, m.Focus())
	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, focusIdentifier, m.Focus())
	m, _ = press(t, m, tea.KeyShiftTab)
	assert.Equal(t, focusSubmit, m.Focus())
}

func TestModel_SecretIsMasked(t *testing.T) {
	m := fillForm(t, newModel(acceptAll()), "alice", "hunter2")

	view := m.View()
	assert.Contains(t, view, "alice")
	assert.NotContains(t, view, "hunter2")
}

func TestModel_EmptySubmitShowsFieldErrors(t *testing.T) {
	m := newModel(acceptAll())
	m, _ = press(t, m, tea.KeyTab)

	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = update(t, m, submittedFrom(t, cmd))

	state := m.State()
	assert.Equal(t, []auth.ErrorKind{auth.KindEmptyIdentifier, auth.KindEmptySecret}, state.Violations)
	assert.Equal(t, focusIdentifier, m.Focus(), "focus jumps to the first invalid field")
	assert.False(t, m.Submitting())

	view := m.View()
	assert.Contains(t, view, "Please enter your username")
	assert.Contains(t, view, "Please enter your password")
}

func TestModel_AcceptedEmitsSignedIn(t *testing.T) {
	m := fillForm(t, newModel(acceptAll()), "alice", "pw")

	m, cmd := press(t, m, tea.KeyEnter)
	assert.True(t, m.Submitting())

	m, cmd = update(t, m, submittedFrom(t, cmd))
	require.NotNil(t, cmd)
	assert.Equal(t, SignedInMsg{Principal: auth.Principal{Username: "alice", Role: auth.RoleUser}}, cmd())

	assert.False(t, m.Submitting())
	assert.Equal(t, signin.FormState{}, m.State())
	assert.Equal(t, focusIdentifier, m.Focus())
	assert.NotContains(t, m.View(), "alice")
}

func TestModel_FailureShowsLocalizedAlert(t *testing.T) {
	authn := ports.AuthenticatorFunc(func(context.Context, auth.Credentials) (auth.Principal, error) {
		return auth.Principal{}, auth.ErrInvalidCredentials
	})
	m := New(components.DefaultTheme(), Options{Authenticator: authn, Localizer: i18n.MustNew("de")})
	m = fillForm(t, m, "alice", "wrong")

	m, cmd := press(t, m, tea.KeyEnter)
	m, cmd = update(t, m, submittedFrom(t, cmd))
	assert.Nil(t, cmd)

	state := m.State()
	assert.Equal(t, auth.KindInvalidCredentials, state.LastError)
	assert.Equal(t, "alice", state.Identifier)
	assert.Equal(t, "wrong", state.Secret)
	assert.Contains(t, m.View(), "Ungültiger Benutzername")

	m = typeText(t, m, "!")
	assert.Empty(t, m.State().LastError, "editing clears the submission error")
	assert.NotContains(t, m.View(), "Ungültiger Benutzername")
}

func TestModel_EscCancelsInFlightSubmission(t *testing.T) {
	entered := make(chan struct{})
	authn := ports.AuthenticatorFunc(func(ctx context.Context, _ auth.Credentials) (auth.Principal, error) {
		close(entered)
		<-ctx.Done()
		return auth.Principal{}, ctx.Err()
	})
	m := fillForm(t, newModel(authn), "alice", "pw")

	m, cmd := press(t, m, tea.KeyEnter)
	result := make(chan SubmittedMsg, 1)
	go func() { result <- submittedFrom(t, cmd) }()
	<-entered

	assert.True(t, m.State().SubmissionInFlight)
	assert.Contains(t, m.View(), "Signing in")

	// A second submit while suspended does nothing.
	m, again := press(t, m, tea.KeyEnter)
	assert.Nil(t, again)

	// Edits are accepted while suspended.
	m = typeText(t, m, "2")
	assert.Equal(t, "pw2", m.State().Secret)

	m, _ = press(t, m, tea.KeyEsc)

	var msg SubmittedMsg
	select {
	case msg = <-result:
	case <-time.After(5 * time.Second):
		t.Fatal("submission did not settle after esc")
	}
	m, _ = update(t, m, msg)

	assert.Equal(t, auth.KindCancelled, msg.Outcome.Kind())
	assert.False(t, m.Submitting())
	assert.False(t, m.State().SubmissionInFlight)
	assert.Contains(t, m.View(), "Sign-in was cancelled")
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newModel(acceptAll())

	_, cmd := press(t, m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_WindowSizeClampsWidth(t *testing.T) {
	m := newModel(acceptAll())
	assert.Equal(t, defaultWidth, m.contentWidth())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})
	assert.Equal(t, maxWidth, m.contentWidth())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 50})
	assert.Equal(t, 20, m.contentWidth())
}

func TestModel_EnterOnSubmitButton(t *testing.T) {
	m := fillForm(t, newModel(acceptAll()), "alice", "pw")
	m, _ = press(t, m, tea.KeyTab)
	require.Equal(t, focusSubmit, m.Focus())

	m = typeText(t, m, "x")
	assert.Equal(t, "pw", m.State().Secret, "typing on the button changes nothing")

	_, cmd := press(t, m, tea.KeyEnter)
	assert.Equal(t, signin.StatusAccepted, submittedFrom(t, cmd).Outcome.Status)
}

func TestModel_LongSecretIsSentAsTyped(t *testing.T) {
	var sent auth.Credentials
	authn := ports.AuthenticatorFunc(func(_ context.Context, c auth.Credentials) (auth.Principal, error) {
		sent = c
		return auth.Principal{}, auth.ErrInvalidCredentials
	})

	secret := strings.Repeat("correct horse battery staple ", 8)
	require.Greater(t, len(secret), 128)

	m := fillForm(t, newModel(authn), "alice", secret)
	assert.Equal(t, secret, m.State().Secret)

	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = update(t, m, submittedFrom(t, cmd))

	assert.Equal(t, secret, sent.Secret)
	assert.Equal(t, secret, m.State().Secret)
}

func TestModel_ResetClearsEnteredValues(t *testing.T) {
	m := fillForm(t, newModel(acceptAll()), "alice", "hunter2")
	require.Equal(t, focusSecret, m.Focus())

	m, cmd := press(t, m, tea.KeyCtrlR)
	assert.Nil(t, cmd)

	assert.Equal(t, signin.FormState{}, m.State())
	assert.Equal(t, focusIdentifier, m.Focus())
	assert.NotContains(t, m.View(), "alice")

	m = typeText(t, m, "bob")
	assert.Equal(t, "bob", m.State().Identifier)
}
