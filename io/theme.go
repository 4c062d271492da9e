package snapio

import (
	"fmt"

	"github.com/fatih/color"
)

// Style is a set of terminal attributes applied together.
type Style []color.Attribute

// Sprint styles text for m, or returns it unchanged when m has no color.
func (s Style) Sprint(m *IOManager, text string) string {
	if len(s) == 0 {
		return text
	}
	c := color.New(s...)
	if m.SupportsColor() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// Sprintf formats and styles.
func (s Style) Sprintf(m *IOManager, format string, a ...any) string {
	return s.Sprint(m, fmt.Sprintf(format, a...))
}

// Theme provides semantic colors
type Theme struct {
	Primary, Success, Warning, Error, Info, Debug, Muted Style
}

// DefaultTheme uses the bright half of the 16 color palette, which every
// ANSI terminal renders.
func DefaultTheme() Theme {
	return Theme{
		Primary: Style{color.FgHiBlue},
		Success: Style{color.FgHiGreen},
		Warning: Style{color.FgHiYellow},
		Error:   Style{color.FgHiRed},
		Info:    Style{color.FgHiCyan},
		Debug:   Style{color.FgHiMagenta},
		Muted:   Style{color.FgHiBlack},
	}
}

// forLevel returns the theme style for a log level.
func (t Theme) forLevel(level LogLevel) Style {
	switch level {
	case LevelDebug:
		return t.Debug
	case LevelInfo:
		return t.Info
	case LevelSuccess:
		return t.Success
	case LevelWarning:
		return t.Warning
	case LevelError:
		return t.Error
	}
	return nil
}
