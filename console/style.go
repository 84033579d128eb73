package console

import "github.com/muesli/termenv"

// Style is a fluent style builder for foreground color and attributes.
type Style struct {
	fg   termenv.Color
	bold bool
}

// NewStyle creates a new empty style builder.
func NewStyle() *Style                     { return &Style{} }
func (s *Style) Fg(c termenv.Color) *Style { s.fg = c; return s }
func (s *Style) Bold() *Style              { s.bold = true; return s }

// Render styles text for profile p. The Ascii profile returns text unchanged;
// colors the profile cannot show are degraded to the closest it can.
func (s *Style) Render(p termenv.Profile, text string) string {
	if p == termenv.Ascii {
		return text
	}
	st := p.String(text)
	if s.bold {
		st = st.Bold()
	}
	if s.fg != nil {
		st = st.Foreground(p.Convert(s.fg))
	}
	return st.String()
}

// Theme provides semantic styles for help and diagnostics
type Theme struct {
	Heading, Error *Style
}

// DefaultTheme returns the theme used by help and error reporting.
func DefaultTheme() Theme {
	return Theme{
		Heading: NewStyle().Bold(),
		Error:   NewStyle().Fg(termenv.ANSIBrightRed),
	}
}
