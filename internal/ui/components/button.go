package components

import "github.com/charmbracelet/lipgloss"

// Button renders a labelled action. It is visual only; key handling lives
// in the screen that owns it.
type Button struct {
	label    string
	slot     PaletteSlot
	disabled bool
	active   bool
}

// NewButton creates a primary button with the given label.
func NewButton(label string) *Button {
	return &Button{label: label, slot: PalettePrimary}
}

// WithSlot sets the palette slot the button is painted with.
func (b *Button) WithSlot(slot PaletteSlot) *Button {
	if slot != nil {
		b.slot = slot
	}
	return b
}

// WithDisabled marks the button as unavailable.
func (b *Button) WithDisabled(disabled bool) *Button {
	b.disabled = disabled
	return b
}

// WithActive marks the button as focused.
func (b *Button) WithActive(active bool) *Button {
	b.active = active
	return b
}

// ViewWithContext renders the button with the given theme context.
func (b *Button) ViewWithContext(ctx RenderContext) string {
	style := lipgloss.NewStyle().Padding(0, 2)

	switch {
	case b.disabled:
		style = Background(PaletteNeutral)(style, ctx.Theme).Faint(true)
	case b.active:
		style = Background(b.slot)(style, ctx.Theme).Bold(true).Underline(true)
	default:
		cs := b.slot(ctx.Theme.Palette)
		style = style.Foreground(cs.Base).Background(ctx.Theme.Palette.Surface.Muted)
	}

	return style.Render(b.label)
}
