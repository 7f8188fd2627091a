package components

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by ThemeByName.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ColourSet represents a semantic color set with base, on-base, muted, and contrast colors:
//
//   - Base: The primary background or brand color
//   - OnBase: Text/content color that contrasts well with Base
//   - Muted: A desaturated variant of Base for subtle accents
//   - Contrast: An accent color that "pops" against Base
type ColourSet struct {
	Base     lipgloss.AdaptiveColor
	OnBase   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Contrast lipgloss.AdaptiveColor
}

// Palette describes semantic colour slots used by components.
type Palette struct {
	Primary ColourSet
	Surface ColourSet
	Success ColourSet
	Danger  ColourSet
	Info    ColourSet
	Neutral ColourSet
}

// BorderSet groups reusable border definitions.
type BorderSet struct {
	Normal  lipgloss.Border
	Rounded lipgloss.Border
	Thick   lipgloss.Border
}

// TypographyScale contains semantic typography presets.
type TypographyScale struct {
	Base     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Emphasis lipgloss.Style
	Muted    lipgloss.Style
}

// InputStyles describes the frame of a text input in each state.
type InputStyles struct {
	Default lipgloss.Style
	Focus   lipgloss.Style
	Invalid lipgloss.Style
}

// Theme is the immutable visual configuration shared by every rendered
// component. Build it once and pass it down; derive variants by copying.
type Theme struct {
	Name       string
	Palette    Palette
	Borders    BorderSet
	Typography TypographyScale
	Input      InputStyles
}

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func lightPalette() Palette {
	return Palette{
		Primary: ColourSet{
			Base:     ac("#3b82f6", "#60a5fa"),
			OnBase:   ac("#f8fafc", "#0b1120"),
			Muted:    ac("#2563eb", "#1d4ed8"),
			Contrast: ac("#facc15", "#ca8a04"),
		},
		Surface: ColourSet{
			Base:     ac("#f9fafb", "#111827"),
			OnBase:   ac("#111827", "#f9fafb"),
			Muted:    ac("#e2e8f0", "#1f2937"),
			Contrast: ac("#3b82f6", "#60a5fa"),
		},
		Success: ColourSet{
			Base:     ac("#22c55e", "#4ade80"),
			OnBase:   ac("#052e16", "#022c22"),
			Muted:    ac("#16a34a", "#15803d"),
			Contrast: ac("#f8fafc", "#f8fafc"),
		},
		Danger: ColourSet{
			Base:     ac("#ef4444", "#f87171"),
			OnBase:   ac("#7f1d1d", "#450a0a"),
			Muted:    ac("#dc2626", "#b91c1c"),
			Contrast: ac("#f8fafc", "#f8fafc"),
		},
		Info: ColourSet{
			Base:     ac("#06b6d4", "#22d3ee"),
			OnBase:   ac("#083344", "#04121a"),
			Muted:    ac("#0891b2", "#0e7490"),
			Contrast: ac("#f8fafc", "#f8fafc"),
		},
		Neutral: ColourSet{
			Base:     ac("#64748b", "#94a3b8"),
			OnBase:   ac("#f1f5f9", "#0f172a"),
			Muted:    ac("#475569", "#334155"),
			Contrast: ac("#f8fafc", "#f8fafc"),
		},
	}
}

func defaultBorders() BorderSet {
	return BorderSet{
		Normal:  lipgloss.NormalBorder(),
		Rounded: lipgloss.RoundedBorder(),
		Thick:   lipgloss.ThickBorder(),
	}
}

func defaultTypography(p Palette) TypographyScale {
	base := lipgloss.NewStyle().Foreground(p.Surface.OnBase)

	return TypographyScale{
		Base:     base,
		Title:    base.Bold(true).Foreground(p.Primary.Base),
		Subtitle: base.Foreground(p.Neutral.Base).Faint(true),
		Label:    base.Foreground(p.Neutral.Muted),
		Emphasis: base.Bold(true),
		Muted:    base.Foreground(p.Neutral.Base),
	}
}

func defaultInputs(p Palette, b BorderSet) InputStyles {
	frame := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Surface.OnBase)

	return InputStyles{
		Default: frame.BorderStyle(b.Rounded).BorderForeground(p.Neutral.Muted),
		Focus:   frame.BorderStyle(b.Thick).BorderForeground(p.Primary.Base),
		Invalid: frame.BorderStyle(b.Rounded).BorderForeground(p.Danger.Base),
	}
}

func build(name string, p Palette) Theme {
	borders := defaultBorders()
	return Theme{
		Name:       name,
		Palette:    p,
		Borders:    borders,
		Typography: defaultTypography(p),
		Input:      defaultInputs(p, borders),
	}
}

// DefaultTheme returns the light theme. It takes no inputs and always yields
// an equivalent value.
func DefaultTheme() Theme {
	return build(ThemeLight, lightPalette())
}

// DarkTheme returns the dark variant of the default theme.
func DarkTheme() Theme {
	p := lightPalette()

	p.Surface = ColourSet{
		Base:     ac("#111827", "#0b1120"),
		OnBase:   ac("#f9fafb", "#e5e7eb"),
		Muted:    ac("#1f2937", "#111827"),
		Contrast: ac("#3b82f6", "#60a5fa"),
	}
	p.Neutral = ColourSet{
		Base:     ac("#475569", "#334155"),
		OnBase:   ac("#e5e7eb", "#cbd5f5"),
		Muted:    ac("#374151", "#1f2937"),
		Contrast: ac("#f8fafc", "#f8fafc"),
	}

	return build(ThemeDark, p)
}

var themeFactories = map[string]func() Theme{
	ThemeLight: DefaultTheme,
	ThemeDark:  DarkTheme,
}

// ThemeNames lists the names accepted by ThemeByName.
func ThemeNames() []string {
	names := make([]string, 0, len(themeFactories))
	for name := range themeFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns the named theme. An empty name selects the default.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	factory, ok := themeFactories[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return factory(), nil
}

// InputState selects an input frame style.
type InputState int

const (
	InputStateDefault InputState = iota
	InputStateFocus
	InputStateInvalid
)

// InputStyle returns the input style for the given state.
func InputStyle(theme Theme, state InputState) lipgloss.Style {
	switch state {
	case InputStateFocus:
		return theme.Input.Focus
	case InputStateInvalid:
		return theme.Input.Invalid
	default:
		return theme.Input.Default
	}
}
