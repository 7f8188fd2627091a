// Package shell is the application root. It owns the Theme, hands it to the
// mounted screen once, and frames the screen with the title and, after a
// successful sign-in, a welcome banner.
package shell

import (
	"context"
	"errors"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/signin/internal/i18n"
	"github.com/alexisbeaulieu97/signin/internal/logger"
	"github.com/alexisbeaulieu97/signin/internal/ports"
	"github.com/alexisbeaulieu97/signin/internal/ui/components"
)

// ErrAlreadyRun is returned when Run is called on a shell that has already
// been run.
var ErrAlreadyRun = errors.New("shell has already been run")

// Screen produces the model rendered inside the shell. Bind is called once,
// with the shell's theme.
type Screen interface {
	Bind(theme components.Theme) tea.Model
}

// ScreenFunc adapts a function to Screen.
type ScreenFunc func(theme components.Theme) tea.Model

// Bind implements Screen.
func (f ScreenFunc) Bind(theme components.Theme) tea.Model {
	return f(theme)
}

// CreateDefaultTheme returns the default application theme. Every call
// yields an equivalent value.
func CreateDefaultTheme() components.Theme {
	return components.DefaultTheme()
}

// Option configures a Shell.
type Option func(*Shell)

// WithLocalizer sets the localizer used for the frame text.
func WithLocalizer(loc *i18n.Localizer) Option {
	return func(s *Shell) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log ports.Logger) Option {
	return func(s *Shell) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithProgramOptions passes options through to tea.NewProgram.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(s *Shell) {
		s.programOpts = append(s.programOpts, opts...)
	}
}

// Shell hosts one screen for the lifetime of the application.
type Shell struct {
	theme       components.Theme
	root        Frame
	loc         *i18n.Localizer
	logger      ports.Logger
	programOpts []tea.ProgramOption
	ran         atomic.Bool
}

// Mount binds theme into scope and renders screen inside the frame. The
// screen is bound exactly once, here.
func Mount(theme components.Theme, screen Screen, opts ...Option) *Shell {
	s := &Shell{
		theme:  theme,
		loc:    i18n.MustNew("en"),
		logger: logger.NewNoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var child tea.Model
	if screen != nil {
		child = screen.Bind(theme)
	}
	s.root = newFrame(theme, s.loc, child)
	return s
}

// Theme returns the theme the shell was mounted with.
func (s *Shell) Theme() components.Theme {
	return s.theme
}

// Model returns the root model.
func (s *Shell) Model() tea.Model {
	return s.root
}

// Run starts the terminal program and blocks until it exits or ctx is
// cancelled. A shell runs at most once.
func (s *Shell) Run(ctx context.Context) (tea.Model, error) {
	if !s.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, s.programOpts...)
	s.logger.Info(ctx, "shell started", "theme", s.theme.Name, "language", s.loc.Lang())

	final, err := tea.NewProgram(s.root, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	s.logger.Info(ctx, "shell stopped")
	return final, err
}
