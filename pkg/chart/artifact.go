// Package chart строит шесть артефактов дашборда (HTML-таблица и SVG-графики)
// и применяет к ним единое оформление.
package chart

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/ruslano69/gssdash/pkg/core/table"
	"github.com/ruslano69/gssdash/pkg/metrics"
)

// Kind — вид артефакта
type Kind string

const (
	KindTable       Kind = "table"
	KindFigure      Kind = "figure"
	KindPlaceholder Kind = "placeholder"
)

// Идентификаторы артефактов
const (
	GenderTableID           = "gender_table"
	BreadwinnerBarID        = "breadwinner_bar"
	PrestigeIncomeScatterID = "prestige_income_scatter"
	IncomeBoxID             = "income_box"
	PrestigeBoxID           = "prestige_box"
	IncomePrestigeFacetID   = "income_prestige_facet"
)

// Artifact — отображаемый элемент страницы: таблица, фигура из одного
// или нескольких графиков, либо заглушка при отсутствии данных.
type Artifact struct {
	ID     string
	Title  string
	Kind   Kind
	Width  vg.Length
	Height vg.Length

	Table  *table.Table
	Grid   [][]*plot.Plot // строки × колонки; nil-ячейки пропускаются
	Reason string         // причина заглушки

	Theme Theme
}

// Degenerate сообщает, что артефакт заменен заглушкой
func (a *Artifact) Degenerate() bool {
	return a.Kind == KindPlaceholder
}

// placeholder создает заглушку и фиксирует ErrRenderDegenerate в логе и метриках
func placeholder(id, title, reason string) *Artifact {
	log.Warn().
		Err(table.ErrRenderDegenerate).
		Str("artifact", id).
		Str("reason", reason).
		Msg("Artifact has no data, rendering placeholder")
	metrics.DegenerateArtifacts.WithLabelValues(id).Inc()

	return &Artifact{
		ID:     id,
		Title:  title,
		Kind:   KindPlaceholder,
		Width:  defaultWidth,
		Height: defaultHeight,
		Reason: reason,
	}
}

func figure(id, title string, w, h vg.Length, grid [][]*plot.Plot) *Artifact {
	return &Artifact{ID: id, Title: title, Kind: KindFigure, Width: w, Height: h, Grid: grid}
}

// ApplyTheme применяет одну тему ко всем артефактам за один проход.
// Вызывается после того, как построены все артефакты.
func ApplyTheme(artifacts []*Artifact, theme Theme) {
	for _, a := range artifacts {
		a.Theme = theme
		for _, row := range a.Grid {
			for _, p := range row {
				if p != nil {
					theme.applyPlot(p)
				}
			}
		}
	}
}

// Render возвращает HTML-фрагмент артефакта
func (a *Artifact) Render() (template.HTML, error) {
	switch a.Kind {
	case KindTable:
		return a.renderTable(), nil
	case KindFigure:
		return a.renderSVG()
	case KindPlaceholder:
		return a.renderPlaceholder(), nil
	default:
		return "", fmt.Errorf("unknown artifact kind: %s", a.Kind)
	}
}

func (a *Artifact) style() string {
	if a.Theme.IsZero() {
		return ""
	}
	return fmt.Sprintf(` style="background-color:%s;color:%s"`, a.Theme.BackgroundHex, a.Theme.FontHex)
}

func (a *Artifact) renderTable() template.HTML {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<table class="artifact artifact-table" id="%s"%s>`, html.EscapeString(a.ID), a.style())
	sb.WriteString("<thead><tr>")
	for _, f := range a.Table.Fields {
		sb.WriteString("<th>" + html.EscapeString(f.Name) + "</th>")
	}
	sb.WriteString("</tr></thead><tbody>")

	for _, row := range a.Table.Rows {
		sb.WriteString("<tr>")
		for i, v := range row {
			class := ""
			if table.IsNumericType(a.Table.Fields[i].Type) {
				class = ` class="num"`
			}
			fmt.Fprintf(&sb, "<td%s>%s</td>", class, html.EscapeString(v.String))
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")

	return template.HTML(sb.String())
}

func (a *Artifact) renderPlaceholder() template.HTML {
	return template.HTML(fmt.Sprintf(
		`<div class="artifact artifact-empty" id="%s"%s><p>No data available</p></div>`,
		html.EscapeString(a.ID), a.style(),
	))
}

func (a *Artifact) renderSVG() (template.HTML, error) {
	if len(a.Grid) == 0 || len(a.Grid[0]) == 0 {
		return "", fmt.Errorf("artifact %s has no plots", a.ID)
	}

	c := vgsvg.New(a.Width, a.Height)
	dc := draw.New(c)
	if !a.Theme.IsZero() {
		dc.SetColor(a.Theme.Background)
		dc.Fill(dc.Rectangle.Path())
	}

	if len(a.Grid) == 1 && len(a.Grid[0]) == 1 {
		a.Grid[0][0].Draw(dc)
	} else {
		tiles := draw.Tiles{
			Rows:      len(a.Grid),
			Cols:      len(a.Grid[0]),
			PadX:      vg.Millimeter * 4,
			PadY:      vg.Millimeter * 4,
			PadTop:    vg.Millimeter * 2,
			PadBottom: vg.Millimeter * 2,
			PadLeft:   vg.Millimeter * 2,
			PadRight:  vg.Millimeter * 2,
		}
		canvases := plot.Align(a.Grid, tiles, dc)
		for j, row := range a.Grid {
			for i, p := range row {
				if p != nil {
					p.Draw(canvases[j][i])
				}
			}
		}
	}

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", a.ID, err)
	}

	// XML-пролог не нужен внутри HTML
	svg := buf.String()
	if i := strings.Index(svg, "<svg"); i > 0 {
		svg = svg[i:]
	}

	return template.HTML(fmt.Sprintf(`<div class="artifact artifact-figure" id="%s">%s</div>`,
		html.EscapeString(a.ID), svg)), nil
}
