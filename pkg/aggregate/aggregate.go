// Package aggregate считает производные таблицы дашборда:
// средние по полу и частоты ответов по полу.
//
// Каждый агрегат доступен в двух вариантах: SQL-представление над workspace
// (GenderSummary, BreadwinnerCounts) и чистая функция над []survey.Record
// (MeansBySex, CountBySexResponse). Результаты обоих путей совпадают.
package aggregate

import (
	"database/sql"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/ruslano69/gssdash/pkg/survey"
)

// GenderRow — средние показатели одной группы пола, округленные до 2 знаков.
// Valid == false, если в группе нет ни одного значения колонки.
type GenderRow struct {
	Sex                string
	Income             sql.NullFloat64
	JobPrestige        sql.NullFloat64
	SocioeconomicIndex sql.NullFloat64
	Education          sql.NullFloat64
}

// ResponseCount — число респондентов с данной парой (пол, ответ)
type ResponseCount struct {
	Sex      string
	Response survey.Response
	Count    int
}

// MeansBySex группирует записи по полу и считает средние по присутствующим значениям.
// Записи без пола отбрасываются. Строки упорядочены по полу.
func MeansBySex(records []survey.Record) []GenderRow {
	type acc struct {
		income, prestige, sei, educ []float64
	}
	groups := make(map[string]*acc)

	for _, r := range records {
		if r.Sex == "" {
			continue
		}
		g, ok := groups[r.Sex]
		if !ok {
			g = &acc{}
			groups[r.Sex] = g
		}
		g.income = appendValid(g.income, r.Income)
		g.prestige = appendValid(g.prestige, r.JobPrestige)
		g.sei = appendValid(g.sei, r.SocioeconomicIndex)
		g.educ = appendValid(g.educ, r.Education)
	}

	rows := make([]GenderRow, 0, len(groups))
	for sex, g := range groups {
		rows = append(rows, GenderRow{
			Sex:                sex,
			Income:             mean2(g.income),
			JobPrestige:        mean2(g.prestige),
			SocioeconomicIndex: mean2(g.sei),
			Education:          mean2(g.educ),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sex < rows[j].Sex })

	return rows
}

// CountBySexResponse считает наблюдавшиеся пары (пол, ответ о кормильце).
// Пары без наблюдений не выводятся; записи без пола или без ответа отбрасываются.
// Порядок: пол, затем порядок шкалы ответа.
func CountBySexResponse(records []survey.Record) []ResponseCount {
	type key struct {
		sex      string
		response survey.Response
	}
	counts := make(map[key]int)

	for _, r := range records {
		if r.Sex == "" || !r.MaleBreadwinner.Valid() {
			continue
		}
		counts[key{r.Sex, r.MaleBreadwinner}]++
	}

	rows := make([]ResponseCount, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, ResponseCount{Sex: k.sex, Response: k.response, Count: n})
	}
	SortCounts(rows)

	return rows
}

// SortCounts упорядочивает частоты по полу, затем по шкале ответа
func SortCounts(rows []ResponseCount) {
	sort.Slice(rows, func(i, j int) bool {
		if c := strings.Compare(rows[i].Sex, rows[j].Sex); c != 0 {
			return c < 0
		}
		return rows[i].Response.Less(rows[j].Response)
	})
}

func appendValid(dst []float64, v sql.NullFloat64) []float64 {
	if v.Valid {
		dst = append(dst, v.Float64)
	}
	return dst
}

func mean2(xs []float64) sql.NullFloat64 {
	if len(xs) == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: Round2(stat.Mean(xs, nil)), Valid: true}
}

// Round2 округляет до 2 знаков, половина от нуля после умножения на 100:
// 2.675 дает 2.68. ROUND в SQLite работает с двоичным значением и дает 2.67,
// поэтому SQL-путь округляет средние тоже через Round2.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
