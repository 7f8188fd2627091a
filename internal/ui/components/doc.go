// Package components provides the theme and the handful of theme-aware
// building blocks the sign-in screen renders with.
//
// Themes are immutable values passed explicitly through RenderContext; no
// package-level theme exists:
//
//	theme := components.DefaultTheme()
//	ctx := components.NewContext(theme).WithWidth(48)
//	out := components.ErrorAlert("Invalid username or password").ViewWithContext(ctx)
//
// Style modifiers (Background, Foreground, Border, Typography) are StyleFunc
// values that read their data from the theme at render time.
package components
