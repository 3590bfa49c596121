package tui

import (
	"github.com/fatih/color"
)

// Theme colours the messages a session prints. Nil entries print plain text.
type Theme struct {
	Title   *color.Color
	Success *color.Color
	Error   *color.Color
	Muted   *color.Color
}

// DefaultTheme returns the bundled palette.
func DefaultTheme() Theme {
	return Theme{
		Title:   color.New(color.FgCyan, color.Bold),
		Success: color.New(color.FgGreen),
		Error:   color.New(color.FgRed),
		Muted:   color.New(color.FgHiBlack),
	}
}

// PlainTheme disables colour output.
func PlainTheme() Theme {
	return Theme{}
}

func paint(c *color.Color, msg string) string {
	if c == nil {
		return msg
	}
	return c.Sprint(msg)
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies a colour palette.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithTextRenderer overrides the renderer used to print pages.
func WithTextRenderer(renderer *Renderer) Option {
	return func(s *Session) {
		if renderer != nil {
			s.text = renderer
		}
	}
}
