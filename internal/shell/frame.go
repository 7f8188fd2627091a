package shell

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/i18n"
	"github.com/alexisbeaulieu97/signin/internal/tui/login"
	"github.com/alexisbeaulieu97/signin/internal/ui/components"
)

// Frame is the root model: header, optional welcome banner, then the
// mounted screen.
type Frame struct {
	theme     components.Theme
	loc       *i18n.Localizer
	child     tea.Model
	principal *auth.Principal
	width     int
}

func newFrame(theme components.Theme, loc *i18n.Localizer, child tea.Model) Frame {
	return Frame{theme: theme, loc: loc, child: child}
}

// Principal returns the signed-in principal, if any.
func (f Frame) Principal() (auth.Principal, bool) {
	if f.principal == nil {
		return auth.Principal{}, false
	}
	return *f.principal, true
}

// Init implements tea.Model.
func (f Frame) Init() tea.Cmd {
	if f.child == nil {
		return nil
	}
	return f.child.Init()
}

// Update implements tea.Model.
func (f Frame) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
	case login.SignedInMsg:
		p := msg.Principal
		f.principal = &p
		return f, nil
	case tea.KeyMsg:
		if f.child == nil && msg.Type == tea.KeyCtrlC {
			return f, tea.Quit
		}
	}

	if f.child == nil {
		return f, nil
	}
	var cmd tea.Cmd
	f.child, cmd = f.child.Update(msg)
	return f, cmd
}

// View implements tea.Model.
func (f Frame) View() string {
	ctx := components.NewContext(f.theme)
	if f.width > 0 {
		ctx = ctx.WithWidth(f.width - 2)
	}

	sections := []string{
		components.TitleText(f.loc.T("app.title")).ViewWithContext(ctx),
		components.SubtitleText(f.loc.T("app.subtitle")).ViewWithContext(ctx),
		"",
	}

	if f.principal != nil {
		banner := components.SuccessAlert(f.loc.Tf("app.role", map[string]any{"Role": string(f.principal.Role)})).
			WithTitle(f.loc.Tf("app.welcome", map[string]any{"Username": f.principal.Username}))
		sections = append(sections, banner.ViewWithContext(ctx), "")
	}

	if f.child != nil {
		sections = append(sections, f.child.View())
	}

	return lipgloss.NewStyle().Padding(1, 1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
