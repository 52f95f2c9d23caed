package chart

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
)

// Цвета оформления по умолчанию
const (
	DefaultBackground = "#FAEBD7"
	DefaultFont       = "#2F4F4F"
)

// Theme — единое оформление всех артефактов: фон и цвет текста
type Theme struct {
	Background    color.Color
	Font          color.Color
	BackgroundHex string
	FontHex       string
}

// ParseTheme разбирает цвета в формате #RRGGBB
func ParseTheme(background, font string) (Theme, error) {
	bg, err := colorful.Hex(background)
	if err != nil {
		return Theme{}, fmt.Errorf("invalid background color %q: %w", background, err)
	}
	fg, err := colorful.Hex(font)
	if err != nil {
		return Theme{}, fmt.Errorf("invalid font color %q: %w", font, err)
	}
	return Theme{
		Background:    bg,
		Font:          fg,
		BackgroundHex: bg.Hex(),
		FontHex:       fg.Hex(),
	}, nil
}

// DefaultTheme возвращает оформление по умолчанию
func DefaultTheme() Theme {
	t, _ := ParseTheme(DefaultBackground, DefaultFont)
	return t
}

// IsZero сообщает, что тема не задана
func (t Theme) IsZero() bool {
	return t.Background == nil && t.Font == nil
}

// applyPlot окрашивает фон, подписи, оси и легенду графика
func (t Theme) applyPlot(p *plot.Plot) {
	p.BackgroundColor = t.Background
	p.Title.TextStyle.Color = t.Font
	p.Legend.TextStyle.Color = t.Font

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Color = t.Font
		ax.LineStyle.Color = t.Font
		ax.Tick.Label.Color = t.Font
		ax.Tick.LineStyle.Color = t.Font
	}
}
