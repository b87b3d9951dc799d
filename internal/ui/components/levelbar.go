package components

import (
	"github.com/charmbracelet/bubbles/progress"
)

// LevelBar renders a 0..100 loudness value as a horizontal gradient bar.
type LevelBar struct {
	bar progress.Model
}

func NewLevelBar() LevelBar {
	bar := progress.New(
		progress.WithGradient("#a6e3a1", "#f38ba8"),
		progress.WithoutPercentage(),
	)
	return LevelBar{bar: bar}
}

func (b *LevelBar) SetWidth(w int) {
	if w < 4 {
		w = 4
	}
	b.bar.Width = w
}

func (b LevelBar) View(value float64) string {
	return b.bar.ViewAs(value / 100)
}
