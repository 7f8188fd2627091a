package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// AlertVariant selects the colour and icon of an Alert.
type AlertVariant int

const (
	AlertInfo AlertVariant = iota
	AlertSuccess
	AlertError
)

func (v AlertVariant) icon() string {
	switch v {
	case AlertSuccess:
		return "✓"
	case AlertError:
		return "✗"
	default:
		return "ℹ"
	}
}

func (v AlertVariant) slot() PaletteSlot {
	switch v {
	case AlertSuccess:
		return PaletteSuccess
	case AlertError:
		return PaletteDanger
	default:
		return PaletteInfo
	}
}

// Alert is a bordered notification line with an icon and optional title.
type Alert struct {
	message string
	title   string
	variant AlertVariant
}

// NewAlert creates an informational alert.
func NewAlert(message string) *Alert {
	return &Alert{message: message, variant: AlertInfo}
}

// ErrorAlert creates an error alert.
func ErrorAlert(message string) *Alert {
	return NewAlert(message).WithVariant(AlertError)
}

// SuccessAlert creates a success alert.
func SuccessAlert(message string) *Alert {
	return NewAlert(message).WithVariant(AlertSuccess)
}

// WithVariant sets the alert variant.
func (a *Alert) WithVariant(variant AlertVariant) *Alert {
	a.variant = variant
	return a
}

// WithTitle adds a bold title line above the message.
func (a *Alert) WithTitle(title string) *Alert {
	a.title = title
	return a
}

// Variant reports the alert variant.
func (a *Alert) Variant() AlertVariant {
	return a.variant
}

// ViewWithContext renders the alert with the provided render context.
func (a *Alert) ViewWithContext(ctx RenderContext) string {
	theme := ctx.Theme
	slot := a.variant.slot()

	lines := make([]string, 0, 2)
	if a.title != "" {
		lines = append(lines, EmphasisText(a.title).ViewWithContext(ctx))
	}
	lines = append(lines, Foreground(slot)(lipgloss.NewStyle(), theme).Render(a.variant.icon()+" "+a.message))

	box := BorderColour(slot)(lipgloss.NewStyle().Padding(0, 1), theme)
	if ctx.Width > 0 {
		box = box.Width(ctx.Width - box.GetHorizontalBorderSize())
	}
	return box.Render(strings.Join(lines, "\n"))
}
