// Package login is the terminal sign-in screen: two inputs bound to a
// signin.Form, a submit button, a spinner while the authenticator runs and
// a themed alert for failures.
package login

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/signin/internal/i18n"
	"github.com/alexisbeaulieu97/signin/internal/logger"
	"github.com/alexisbeaulieu97/signin/internal/ports"
	"github.com/alexisbeaulieu97/signin/internal/signin"
	"github.com/alexisbeaulieu97/signin/internal/ui/components"
)

// focusable positions, in tab order.
const (
	focusIdentifier = iota
	focusSecret
	focusSubmit
	focusCount
)

// Options configures a Model.
type Options struct {
	Authenticator ports.Authenticator
	Localizer     *i18n.Localizer
	Logger        ports.Logger
	// Context is the parent of every submission context. Defaults to
	// context.Background.
	Context context.Context
}

// Model is the sign-in screen.
type Model struct {
	form   *signin.Form
	theme  components.Theme
	loc    *i18n.Localizer
	logger ports.Logger
	parent context.Context

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	inputs  [2]textinput.Model
	focus   int

	// cancel is set while a submission started here has not reported back.
	cancel context.CancelFunc
	width  int
}

// New builds the screen for theme. The theme is read-only here.
func New(theme components.Theme, opts Options) Model {
	loc := opts.Localizer
	if loc == nil {
		loc = i18n.MustNew("en")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}

	identifier := textinput.New()
	identifier.Prompt = ""
	identifier.Placeholder = loc.T("signin.identifier.placeholder")
	identifier.CharLimit = 0

	secret := textinput.New()
	secret.Prompt = ""
	secret.Placeholder = loc.T("signin.secret.placeholder")
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'
	// The secret reaches the authenticator exactly as typed, so no limit.
	secret.CharLimit = 0

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = components.TypographyStyle(theme, components.TypographyBase).Foreground(theme.Palette.Primary.Base)

	h := help.New()
	h.Styles.ShortKey = components.TypographyStyle(theme, components.TypographyEmphasis)
	h.Styles.ShortDesc = components.TypographyStyle(theme, components.TypographyMuted)

	m := Model{
		form:    signin.NewForm(opts.Authenticator, log),
		theme:   theme,
		loc:     loc,
		logger:  log.With("component", "tui.login"),
		parent:  parent,
		keys:    DefaultKeyMap(loc),
		help:    h,
		spinner: s,
		inputs:  [2]textinput.Model{identifier, secret},
	}
	m.applyFocus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns a snapshot of the underlying form.
func (m Model) State() signin.FormState {
	return m.form.State()
}

// Submitting reports whether a submission started by this screen is
// outstanding.
func (m Model) Submitting() bool {
	return m.cancel != nil
}

// Focus returns the focused position: 0 identifier, 1 secret, 2 submit.
func (m Model) Focus() int {
	return m.focus
}

func (m *Model) applyFocus() {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func fieldAt(pos int) (signin.Field, bool) {
	switch pos {
	case focusIdentifier:
		return signin.FieldIdentifier, true
	case focusSecret:
		return signin.FieldSecret, true
	default:
		return 0, false
	}
}

func positionOf(field signin.Field) int {
	if field == signin.FieldSecret {
		return focusSecret
	}
	return focusIdentifier
}

// Screen mounts the sign-in screen in a shell.
type Screen struct {
	Options Options
}

// Bind builds the screen for theme.
func (s Screen) Bind(theme components.Theme) tea.Model {
	return New(theme, s.Options)
}
