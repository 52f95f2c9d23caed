// Package layout собирает артефакты в HTML-страницу с тремя вкладками.
// Переключение вкладок выполняется только средствами CSS.
package layout

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/ruslano69/gssdash/pkg/chart"
)

//go:embed page.html.tmpl
var pageTemplate string

// DefaultContext — вводный текст вкладки Overview в формате Markdown
//
//go:embed context.md
var DefaultContext string

// DefaultTitle — заголовок страницы
const DefaultTitle = "Exploring the General Social Survey"

var page = template.Must(template.New("page").Parse(pageTemplate))

// Ширина блока
const (
	WidthFull  = "full"
	WidthLeft  = "left"
	WidthRight = "right"
)

// Options — статическое содержимое страницы
type Options struct {
	Title   string
	Context string // Markdown
	Theme   chart.Theme
}

// Tab — вкладка страницы
type Tab struct {
	ID       string
	Label    string
	Sections []Section
}

// Section — блок вкладки: заголовок и содержимое
type Section struct {
	Heading string
	Level   int
	Width   string
	Body    template.HTML
}

type pageData struct {
	Title      string
	Background template.CSS
	Font       template.CSS
	Tabs       []Tab
}

// Compose рендерит все артефакты и собирает полный HTML-документ.
// Каждый из шести артефактов должен присутствовать.
func Compose(artifacts []*chart.Artifact, opts Options) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Context == "" {
		opts.Context = DefaultContext
	}
	if opts.Theme.IsZero() {
		opts.Theme = chart.DefaultTheme()
	}

	rendered := make(map[string]*chart.Artifact, len(artifacts))
	bodies := make(map[string]template.HTML, len(artifacts))
	for _, a := range artifacts {
		body, err := a.Render()
		if err != nil {
			return nil, fmt.Errorf("failed to render artifact %s: %w", a.ID, err)
		}
		rendered[a.ID] = a
		bodies[a.ID] = body
	}

	section := func(id, width string) (Section, error) {
		a, ok := rendered[id]
		if !ok {
			return Section{}, fmt.Errorf("artifact %s is missing", id)
		}
		return Section{Heading: a.Title, Level: 2, Width: width, Body: bodies[id]}, nil
	}

	var md bytes.Buffer
	if err := goldmark.Convert([]byte(opts.Context), &md); err != nil {
		return nil, fmt.Errorf("failed to render context markdown: %w", err)
	}

	tabs := []Tab{
		{ID: "overview", Label: "Overview", Sections: []Section{
			{Heading: opts.Title, Level: 1, Width: WidthFull},
			{Width: WidthFull, Body: template.HTML(md.String())},
		}},
		{ID: "responses", Label: "Survey Responses"},
		{ID: "stats", Label: "Income and Prestige Stats"},
	}

	layout := []struct {
		tab   int
		id    string
		width string
	}{
		{0, chart.GenderTableID, WidthFull},
		{1, chart.BreadwinnerBarID, WidthLeft},
		{1, chart.PrestigeIncomeScatterID, WidthRight},
		{2, chart.IncomePrestigeFacetID, WidthFull},
		{2, chart.IncomeBoxID, WidthLeft},
		{2, chart.PrestigeBoxID, WidthRight},
	}
	for _, l := range layout {
		s, err := section(l.id, l.width)
		if err != nil {
			return nil, err
		}
		tabs[l.tab].Sections = append(tabs[l.tab].Sections, s)
	}

	var out bytes.Buffer
	if err := page.Execute(&out, pageData{
		Title:      opts.Title,
		Background: template.CSS(opts.Theme.BackgroundHex),
		Font:       template.CSS(opts.Theme.FontHex),
		Tabs:       tabs,
	}); err != nil {
		return nil, fmt.Errorf("failed to execute page template: %w", err)
	}

	return out.Bytes(), nil
}
