package components

import "github.com/charmbracelet/lipgloss"

// Field frames an already rendered input with a label and an optional hint
// line underneath.
type Field struct {
	label string
	input string
	hint  string
	state InputState
}

// NewField creates a field around the rendered input.
func NewField(label, input string) *Field {
	return &Field{label: label, input: input}
}

// WithState selects the frame style.
func (f *Field) WithState(state InputState) *Field {
	f.state = state
	return f
}

// WithHint sets the line shown below the input. Invalid fields paint it in
// the danger colour.
func (f *Field) WithHint(hint string) *Field {
	f.hint = hint
	return f
}

// ViewWithContext renders the field with the given theme context.
func (f *Field) ViewWithContext(ctx RenderContext) string {
	frame := InputStyle(ctx.Theme, f.state)
	if ctx.Width > 0 {
		frame = frame.Width(ctx.Width - frame.GetHorizontalBorderSize())
	}

	parts := []string{
		LabelText(f.label).ViewWithContext(ctx),
		frame.Render(f.input),
	}
	if f.hint != "" {
		hint := MutedText(f.hint)
		if f.state == InputStateInvalid {
			hint = NewText(f.hint).WithAppliers(Foreground(PaletteDanger))
		}
		parts = append(parts, hint.ViewWithContext(ctx))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
