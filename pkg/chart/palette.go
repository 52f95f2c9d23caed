package chart

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ruslano69/gssdash/pkg/survey"
)

var (
	// цвета групп на обычных графиках
	seriesColors = map[string]string{
		survey.SexFemale: "#EF553B",
		survey.SexMale:   "#636EFA",
	}
	// на фасетной диаграмме мужчины синие, женщины красные
	facetColors = map[string]string{
		survey.SexFemale: "#FF0000",
		survey.SexMale:   "#0000FF",
	}
	fallbackColors = []string{"#00CC96", "#AB63FA", "#FFA15A", "#19D3F3"}
)

// sexColor возвращает цвет группы; неизвестные группы получают цвета по порядку
func sexColor(palette map[string]string, sex string, i int) color.Color {
	hex, ok := palette[sex]
	if !ok {
		hex = fallbackColors[i%len(fallbackColors)]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	return c
}
