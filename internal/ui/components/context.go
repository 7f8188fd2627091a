package components

// RenderContext carries the theme and available width to components during
// rendering.
type RenderContext struct {
	Theme Theme
	Width int
}

// NewContext returns a render context for theme with no width limit.
func NewContext(theme Theme) RenderContext {
	return RenderContext{Theme: theme}
}

// WithTheme returns a new context with the specified theme.
func (r RenderContext) WithTheme(theme Theme) RenderContext {
	r.Theme = theme
	return r
}

// WithWidth returns a new context limited to width columns. Non-positive
// widths mean unlimited.
func (r RenderContext) WithWidth(width int) RenderContext {
	if width < 0 {
		width = 0
	}
	r.Width = width
	return r
}
