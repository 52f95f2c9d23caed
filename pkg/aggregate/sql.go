package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/ruslano69/gssdash/pkg/core/table"
	"github.com/ruslano69/gssdash/pkg/etl"
	"github.com/ruslano69/gssdash/pkg/survey"
)

// Имена SQL-представлений в workspace
const (
	GenderSummaryView     = "gender_summary"
	BreadwinnerCountsView = "breadwinner_counts"
)

// CreateViews создает представления агрегатов над очищенной таблицей source
func CreateViews(ctx context.Context, ws *etl.Workspace, source string) error {
	views := map[string]string{
		GenderSummaryView:     genderSummarySQL(source),
		BreadwinnerCountsView: breadwinnerCountsSQL(source),
	}

	for name, query := range views {
		ddl := fmt.Sprintf(`CREATE VIEW IF NOT EXISTS "%s" AS %s`, name, query)
		if _, err := ws.DB().ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create view %s: %w", name, err)
		}
	}
	return nil
}

func genderSummarySQL(source string) string {
	return fmt.Sprintf(`SELECT
	%[2]s AS sex,
	AVG(%[3]s) AS income,
	AVG(%[4]s) AS job_prestige,
	AVG(%[5]s) AS socioeconomic_index,
	AVG(%[6]s) AS education
FROM "%[1]s"
WHERE %[2]s IS NOT NULL
GROUP BY %[2]s
ORDER BY %[2]s`,
		source, survey.ColSex, survey.ColIncome, survey.ColJobPrestige,
		survey.ColSocioeconomicIndex, survey.ColEducation)
}

// breadwinnerCountsSQL строит запрос частот; порядок шкалы задается через CASE
func breadwinnerCountsSQL(source string) string {
	var order strings.Builder
	order.WriteString("CASE " + survey.ColMaleBreadwinner)
	for _, r := range survey.Responses() {
		fmt.Fprintf(&order, " WHEN '%s' THEN %d", r.String(), int(r))
	}
	order.WriteString(" END")

	return fmt.Sprintf(`SELECT
	%[2]s AS sex,
	%[3]s AS response,
	COUNT(*) AS count
FROM "%[1]s"
WHERE %[2]s IS NOT NULL AND %[3]s IS NOT NULL
GROUP BY %[2]s, %[3]s
ORDER BY %[2]s, %[4]s`,
		source, survey.ColSex, survey.ColMaleBreadwinner, order.String())
}

// GenderSummary читает представление средних по полу.
// Представление отдает AVG без округления; Round2 применяется здесь, как и в MeansBySex.
func GenderSummary(ctx context.Context, ws *etl.Workspace) ([]GenderRow, error) {
	t, err := ws.Query(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, GenderSummaryView), GenderSummaryView)
	if err != nil {
		return nil, fmt.Errorf("failed to query gender summary: %w", err)
	}

	rows := make([]GenderRow, len(t.Rows))
	for i, row := range t.Rows {
		r := GenderRow{Sex: row[0].String}
		for j, dst := range []*sql.NullFloat64{&r.Income, &r.JobPrestige, &r.SocioeconomicIndex, &r.Education} {
			v, err := parseNullFloat(row[j+1])
			if err != nil {
				return nil, fmt.Errorf("gender summary row %d: %w", i+1, err)
			}
			if v.Valid {
				v.Float64 = Round2(v.Float64)
			}
			*dst = v
		}
		rows[i] = r
	}
	return rows, nil
}

// BreadwinnerCounts читает представление частот ответов
func BreadwinnerCounts(ctx context.Context, ws *etl.Workspace) ([]ResponseCount, error) {
	t, err := ws.Query(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, BreadwinnerCountsView), BreadwinnerCountsView)
	if err != nil {
		return nil, fmt.Errorf("failed to query breadwinner counts: %w", err)
	}

	rows := make([]ResponseCount, len(t.Rows))
	for i, row := range t.Rows {
		resp, err := survey.ParseResponse(row[1].String)
		if err != nil {
			return nil, fmt.Errorf("breadwinner counts row %d: %w", i+1, err)
		}
		n, err := strconv.Atoi(row[2].String)
		if err != nil {
			return nil, fmt.Errorf("breadwinner counts row %d: %w: %v", i+1, table.ErrValueConversion, err)
		}
		rows[i] = ResponseCount{Sex: row[0].String, Response: resp, Count: n}
	}
	return rows, nil
}

func parseNullFloat(v table.Value) (sql.NullFloat64, error) {
	if !v.Valid {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(v.String, 64)
	if err != nil {
		return sql.NullFloat64{}, fmt.Errorf("%w: %q is not a number", table.ErrValueConversion, v.String)
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}
