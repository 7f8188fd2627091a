package components

import "github.com/charmbracelet/lipgloss"

// StyleFunc applies styling transformations to a lipgloss.Style using data
// from a Theme.
type StyleFunc func(lipgloss.Style, Theme) lipgloss.Style

// PaletteSlot provides access to a semantic colour slot from a Palette.
type PaletteSlot func(Palette) ColourSet

var (
	PalettePrimary PaletteSlot = func(p Palette) ColourSet { return p.Primary }
	PaletteSurface PaletteSlot = func(p Palette) ColourSet { return p.Surface }
	PaletteSuccess PaletteSlot = func(p Palette) ColourSet { return p.Success }
	PaletteDanger  PaletteSlot = func(p Palette) ColourSet { return p.Danger }
	PaletteInfo    PaletteSlot = func(p Palette) ColourSet { return p.Info }
	PaletteNeutral PaletteSlot = func(p Palette) ColourSet { return p.Neutral }
)

// Background applies a semantic background colour and the matching foreground.
func Background(slot PaletteSlot) StyleFunc {
	return func(base lipgloss.Style, theme Theme) lipgloss.Style {
		cs := slot(theme.Palette)
		return base.Background(cs.Base).Foreground(cs.OnBase)
	}
}

// Foreground applies a semantic foreground colour without changing the background.
func Foreground(slot PaletteSlot) StyleFunc {
	return func(base lipgloss.Style, theme Theme) lipgloss.Style {
		return base.Foreground(slot(theme.Palette).Base)
	}
}

// BorderColour draws a rounded border in the slot's base colour.
func BorderColour(slot PaletteSlot) StyleFunc {
	return func(base lipgloss.Style, theme Theme) lipgloss.Style {
		return base.Border(theme.Borders.Rounded).BorderForeground(slot(theme.Palette).Base)
	}
}

// TypographyVariant represents a typography token.
type TypographyVariant int

const (
	TypographyBase TypographyVariant = iota
	TypographyTitle
	TypographySubtitle
	TypographyLabel
	TypographyEmphasis
	TypographyMuted
)

// TypographyStyle returns the specified typography style from the given theme.
func TypographyStyle(theme Theme, variant TypographyVariant) lipgloss.Style {
	typo := theme.Typography
	switch variant {
	case TypographyTitle:
		return typo.Title
	case TypographySubtitle:
		return typo.Subtitle
	case TypographyLabel:
		return typo.Label
	case TypographyEmphasis:
		return typo.Emphasis
	case TypographyMuted:
		return typo.Muted
	default:
		return typo.Base
	}
}

// Typography applies typography styling.
func Typography(variant TypographyVariant) StyleFunc {
	return func(base lipgloss.Style, theme Theme) lipgloss.Style {
		return base.Inherit(TypographyStyle(theme, variant))
	}
}

func applyAll(base lipgloss.Style, theme Theme, fns []StyleFunc) lipgloss.Style {
	for _, fn := range fns {
		if fn != nil {
			base = fn(base, theme)
		}
	}
	return base
}
