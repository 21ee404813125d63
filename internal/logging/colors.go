package logging

import "github.com/fatih/color"

// Pre-rendered ANSI escape sequences, one per level, produced via
// github.com/fatih/color so the palette stays consistent with the rest of
// the CLI (cmd/siftd and cmd/sift use the same package for their help text).
var (
	levelColor = map[Level][]byte{
		Error: colorEscape(color.FgRed, color.Bold),
		Warn:  colorEscape(color.FgYellow, color.Bold),
		Info:  colorEscape(color.FgGreen, color.Bold),
		Debug: colorEscape(color.FgCyan, color.Bold),
	}
	defaultLevelColor = colorEscape(color.FgWhite, color.Bold)

	ansiWhite = colorEscape(color.FgWhite)
	ansiReset = []byte("\033[0m")
)

func colorEscape(attrs ...color.Attribute) []byte {
	c := color.New(attrs...)
	c.EnableColor()
	// Sprint with no content yields just the escape sequence framing an
	// empty string; trim the trailing reset so callers can compose it with
	// their own ansiReset placement.
	s := c.Sprint("")
	if len(s) >= len(ansiResetString) && s[len(s)-len(ansiResetString):] == ansiResetString {
		s = s[:len(s)-len(ansiResetString)]
	}
	return []byte(s)
}

const ansiResetString = "\033[0m"

// color returns the ANSI escape sequence used to render l's letter.
func (l Level) color() []byte {
	if c, ok := levelColor[l]; ok {
		return c
	}
	return defaultLevelColor
}

// letter returns the single-character abbreviation for l (see Level.Letter).
func (l Level) letter() byte {
	return l.Letter()
}
