package chart

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ruslano69/gssdash/pkg/aggregate"
	"github.com/ruslano69/gssdash/pkg/survey"
)

const (
	defaultWidth  = 8 * vg.Inch
	defaultHeight = 6 * vg.Inch

	facetBins = 6
	facetCols = 2
)

// Подписи осей
const (
	labelIncome      = "Income"
	labelPrestige    = "Occupational Prestige"
	labelResponse    = "Breadwinner Response"
	labelCount       = "Count"
	facetTitlePrefix = "prestige_cats="
)

// BuildAll строит все шесть артефактов в порядке размещения и применяет тему
func BuildAll(summary []aggregate.GenderRow, counts []aggregate.ResponseCount, records []survey.Record, theme Theme) []*Artifact {
	artifacts := []*Artifact{
		BuildGenderTable(summary),
		BuildBreadwinnerBar(counts),
		BuildPrestigeIncomeScatter(records),
		BuildIncomeBox(records),
		BuildPrestigeBox(records),
		BuildIncomePrestigeFacet(records),
	}
	ApplyTheme(artifacts, theme)
	return artifacts
}

// BuildGenderTable — таблица средних по полу
func BuildGenderTable(summary []aggregate.GenderRow) *Artifact {
	const title = "Income and Occupational Statistics by Gender"
	if len(summary) == 0 {
		return placeholder(GenderTableID, title, "gender summary is empty")
	}
	return &Artifact{
		ID:    GenderTableID,
		Title: title,
		Kind:  KindTable,
		Table: aggregate.GenderTable(summary),
	}
}

// BuildBreadwinnerBar — сгруппированные столбцы: ответ по оси X, число по Y, группа на пол
func BuildBreadwinnerBar(counts []aggregate.ResponseCount) *Artifact {
	const title = "Responses to the Breadwinner Survey Question by Gender"
	if len(counts) == 0 {
		return placeholder(BreadwinnerBarID, title, "no breadwinner responses")
	}

	// Столбцы выстраиваются по шкале; пара без наблюдений получает нулевую высоту
	responses := survey.Responses()
	bySex := make(map[string]plotter.Values)
	var sexes []string
	for _, c := range counts {
		if !c.Response.Valid() {
			continue
		}
		if _, ok := bySex[c.Sex]; !ok {
			bySex[c.Sex] = make(plotter.Values, len(responses))
			sexes = append(sexes, c.Sex)
		}
		bySex[c.Sex][int(c.Response)-1] = float64(c.Count)
	}
	sort.Strings(sexes)

	p := plot.New()
	p.X.Label.Text = labelResponse
	p.Y.Label.Text = labelCount
	p.Legend.Top = true

	w := vg.Points(20)
	for i, sex := range sexes {
		bars, err := plotter.NewBarChart(bySex[sex], w)
		if err != nil {
			return placeholder(BreadwinnerBarID, title, err.Error())
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = sexColor(seriesColors, sex, i)
		bars.Offset = vg.Length(float64(i)-float64(len(sexes)-1)/2) * w
		p.Add(bars)
		p.Legend.Add(sex, bars)
	}
	p.NominalX(survey.ResponseLevels()...)
	p.Add(plotter.NewGrid())

	return figure(BreadwinnerBarID, title, defaultWidth, defaultHeight, [][]*plot.Plot{{p}})
}

// BuildPrestigeIncomeScatter — точки (престиж, доход) по полу и прямая МНК для каждого пола.
// Регрессия строится только по парам без пропусков своей группы.
func BuildPrestigeIncomeScatter(records []survey.Record) *Artifact {
	const title = "Occupational Prestige and Income by Gender"

	xs, ys := make(map[string][]float64), make(map[string][]float64)
	for _, r := range records {
		if r.Sex == "" || !r.JobPrestige.Valid || !r.Income.Valid {
			continue
		}
		xs[r.Sex] = append(xs[r.Sex], r.JobPrestige.Float64)
		ys[r.Sex] = append(ys[r.Sex], r.Income.Float64)
	}
	if len(xs) == 0 {
		return placeholder(PrestigeIncomeScatterID, title, "no (prestige, income) pairs")
	}

	p := plot.New()
	p.X.Label.Text = labelPrestige
	p.Y.Label.Text = labelIncome
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, sex := range sortedKeys(xs) {
		c := sexColor(seriesColors, sex, i)

		pts := make(plotter.XYs, len(xs[sex]))
		for j := range pts {
			pts[j].X, pts[j].Y = xs[sex][j], ys[sex][j]
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return placeholder(PrestigeIncomeScatterID, title, err.Error())
		}
		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = vg.Points(2)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add(sex, scatter)

		fit, err := FitOLS(xs[sex], ys[sex])
		if err != nil {
			continue // одна точка или нулевой разброс: линию не рисуем
		}
		line, err := plotter.NewLine(plotter.XYs{
			{X: fit.MinX, Y: fit.At(fit.MinX)},
			{X: fit.MaxX, Y: fit.At(fit.MaxX)},
		})
		if err != nil {
			continue
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
	}

	return figure(PrestigeIncomeScatterID, title, 6*vg.Inch, 6*vg.Inch, [][]*plot.Plot{{p}})
}

// BuildIncomeBox — горизонтальные ящики дохода по полу, без легенды
func BuildIncomeBox(records []survey.Record) *Artifact {
	return buildBox(IncomeBoxID, "Income by Gender", labelIncome, records,
		func(r survey.Record) (float64, bool) { return r.Income.Float64, r.Income.Valid })
}

// BuildPrestigeBox — горизонтальные ящики престижа по полу, без легенды
func BuildPrestigeBox(records []survey.Record) *Artifact {
	return buildBox(PrestigeBoxID, "Occupational Prestige by Gender", labelPrestige, records,
		func(r survey.Record) (float64, bool) { return r.JobPrestige.Float64, r.JobPrestige.Valid })
}

func buildBox(id, title, xLabel string, records []survey.Record, value func(survey.Record) (float64, bool)) *Artifact {
	groups := make(map[string]plotter.Values)
	for _, r := range records {
		v, ok := value(r)
		if r.Sex == "" || !ok {
			continue
		}
		groups[r.Sex] = append(groups[r.Sex], v)
	}
	if len(groups) == 0 {
		return placeholder(id, title, "no values for "+xLabel)
	}

	sexes := sortedKeys(groups)
	p, err := boxPlot(sexes, groups, seriesColors, xLabel)
	if err != nil {
		return placeholder(id, title, err.Error())
	}

	return figure(id, title, defaultWidth, 4*vg.Inch, [][]*plot.Plot{{p}})
}

// BuildIncomePrestigeFacet — ящики дохода по полу в шести равных интервалах престижа,
// по два графика в ряд. Строки с пропуском дохода, пола или престижа отбрасываются.
func BuildIncomePrestigeFacet(records []survey.Record) *Artifact {
	const title = "Income by Gender Grouped by Prestige"

	var complete []survey.Record
	var prestige []float64
	for _, r := range records {
		if r.Sex == "" || !r.Income.Valid || !r.JobPrestige.Valid {
			continue
		}
		complete = append(complete, r)
		prestige = append(prestige, r.JobPrestige.Float64)
	}
	if len(complete) == 0 {
		return placeholder(IncomePrestigeFacetID, title, "no complete (income, sex, prestige) rows")
	}

	bins, err := EqualWidthBins(prestige, facetBins)
	if err != nil {
		return placeholder(IncomePrestigeFacetID, title, err.Error())
	}

	perBin := make([]map[string]plotter.Values, bins.Len())
	for i := range perBin {
		perBin[i] = make(map[string]plotter.Values)
	}
	sexSet := make(map[string]bool)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range complete {
		k := bins.Index(r.JobPrestige.Float64)
		if k < 0 {
			continue
		}
		perBin[k][r.Sex] = append(perBin[k][r.Sex], r.Income.Float64)
		sexSet[r.Sex] = true
		lo, hi = math.Min(lo, r.Income.Float64), math.Max(hi, r.Income.Float64)
	}
	sexes := sortedKeys(sexSet)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	rows := (bins.Len() + facetCols - 1) / facetCols
	grid := make([][]*plot.Plot, rows)
	for j := range grid {
		grid[j] = make([]*plot.Plot, facetCols)
	}

	for k := 0; k < bins.Len(); k++ {
		p, err := boxPlot(sexes, perBin[k], facetColors, labelIncome)
		if err != nil {
			return placeholder(IncomePrestigeFacetID, title, err.Error())
		}
		p.Title.Text = facetTitlePrefix + bins.Label(k)
		// общая ось X для всех панелей
		p.X.Min, p.X.Max = lo, hi
		grid[k/facetCols][k%facetCols] = p
	}

	return figure(IncomePrestigeFacetID, title, 10*vg.Inch, 10*vg.Inch, grid)
}

// boxPlot рисует по горизонтальному ящику на группу; пустые группы пропускаются
func boxPlot(sexes []string, groups map[string]plotter.Values, palette map[string]string, xLabel string) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = xLabel

	for i, sex := range sexes {
		values := groups[sex]
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), values)
		if err != nil {
			return nil, fmt.Errorf("box plot for %s: %w", sex, err)
		}
		box.Horizontal = true
		box.FillColor = sexColor(palette, sex, i)
		p.Add(box)
	}
	p.NominalY(sexes...)

	return p, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
