package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the value ramp plus fixed UI role colors.
type Theme struct {
	Palette *Palette

	fg      lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	cursor  lipgloss.Color
	warning lipgloss.Color
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		fg:      lipgloss.Color("#d8dee9"),
		muted:   lipgloss.Color("#5c6370"),
		accent:  lipgloss.Color("#e2ca56"),
		cursor:  lipgloss.Color("#f0602c"),
		warning: lipgloss.Color("#e06c75"),
	}
}

func (t *Theme) FG() lipgloss.Color      { return t.fg }
func (t *Theme) Muted() lipgloss.Color   { return t.muted }
func (t *Theme) Accent() lipgloss.Color  { return t.accent }
func (t *Theme) Cursor() lipgloss.Color  { return t.cursor }
func (t *Theme) Warning() lipgloss.Color { return t.warning }

// Value returns the ramp color for a 7-bit MIDI value.
func (t *Theme) Value(v int) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(float64(v) / 127.0))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
