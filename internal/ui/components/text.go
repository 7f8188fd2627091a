package components

import "github.com/charmbracelet/lipgloss"

// Text renders a single styled string.
type Text struct {
	content  string
	style    lipgloss.Style
	appliers []StyleFunc
}

// NewText creates a new text component with the given content.
func NewText(content string) *Text {
	return &Text{content: content, style: lipgloss.NewStyle()}
}

// ViewWithContext renders the text with the given theme context.
func (t *Text) ViewWithContext(ctx RenderContext) string {
	style := applyAll(t.style, ctx.Theme, t.appliers)
	if ctx.Width > 0 {
		style = style.MaxWidth(ctx.Width)
	}
	return style.Render(t.content)
}

// Content returns the text content.
func (t *Text) Content() string {
	return t.content
}

// WithStyle sets the lipgloss style directly.
func (t *Text) WithStyle(style lipgloss.Style) *Text {
	t.style = style
	return t
}

// WithAppliers appends theme-based style modifiers.
func (t *Text) WithAppliers(appliers ...StyleFunc) *Text {
	t.appliers = append(t.appliers, appliers...)
	return t
}

// TitleText creates title text using theme typography.
func TitleText(content string) *Text {
	return NewText(content).WithAppliers(Typography(TypographyTitle))
}

// SubtitleText creates subtitle text using theme typography.
func SubtitleText(content string) *Text {
	return NewText(content).WithAppliers(Typography(TypographySubtitle))
}

// LabelText creates an input label.
func LabelText(content string) *Text {
	return NewText(content).WithAppliers(Typography(TypographyLabel))
}

// EmphasisText creates emphasized text using theme typography.
func EmphasisText(content string) *Text {
	return NewText(content).WithAppliers(Typography(TypographyEmphasis))
}

// MutedText creates de-emphasised text.
func MutedText(content string) *Text {
	return NewText(content).WithAppliers(Typography(TypographyMuted))
}
