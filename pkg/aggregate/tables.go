package aggregate

import (
	"database/sql"
	"strconv"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// Заголовки таблиц для отображения и экспорта
var (
	GenderHeaders = []string{"Sex", "Income", "Occupational Prestige", "Socioeconomic Status", "Years of Education"}
	CountHeaders  = []string{"Sex", "Breadwinner Response", "Count"}
)

// GenderTable переводит средние по полу в таблицу с заголовками для отображения
func GenderTable(rows []GenderRow) *table.Table {
	fields := []table.Field{{Name: GenderHeaders[0], Type: table.TypeText}}
	for _, h := range GenderHeaders[1:] {
		fields = append(fields, table.Field{Name: h, Type: table.TypeReal})
	}

	t := table.New("gender_summary", fields)
	for _, r := range rows {
		t.Rows = append(t.Rows, []table.Value{
			table.Str(r.Sex),
			formatMean(r.Income),
			formatMean(r.JobPrestige),
			formatMean(r.SocioeconomicIndex),
			formatMean(r.Education),
		})
	}
	return t
}

// CountsTable переводит частоты ответов в таблицу с заголовками для отображения
func CountsTable(rows []ResponseCount) *table.Table {
	t := table.New("breadwinner_counts", []table.Field{
		{Name: CountHeaders[0], Type: table.TypeText},
		{Name: CountHeaders[1], Type: table.TypeText},
		{Name: CountHeaders[2], Type: table.TypeInteger},
	})
	for _, r := range rows {
		t.Rows = append(t.Rows, []table.Value{
			table.Str(r.Sex),
			table.Str(r.Response.String()),
			table.Str(strconv.Itoa(r.Count)),
		})
	}
	return t
}

func formatMean(v sql.NullFloat64) table.Value {
	if !v.Valid {
		return table.Null
	}
	return table.Str(strconv.FormatFloat(v.Float64, 'f', 2, 64))
}
