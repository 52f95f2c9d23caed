package dashboard

import (
	"github.com/ruslano69/gssdash/pkg/etl"
	"github.com/ruslano69/gssdash/pkg/processors"
	"github.com/ruslano69/gssdash/pkg/survey"
)

// numericColumns приводятся к REAL при очистке
var numericColumns = []string{
	survey.ColWeight,
	survey.ColEducation,
	survey.ColAge,
	survey.ColIncome,
	survey.ColJobPrestige,
	survey.ColMotherJobPrestige,
	survey.ColFatherJobPrestige,
	survey.ColSocioeconomicIndex,
}

// DefaultSource возвращает источник публичного CSV GSS 2018
func DefaultSource() etl.SourceConfig {
	return etl.SourceConfig{
		Name:     "gss",
		URL:      survey.DefaultSourceURL,
		Encoding: survey.DefaultEncoding,
		NAValues: append([]string(nil), survey.SentinelTokens...),
		Timeout:  60,
	}
}

// DefaultProcessors возвращает цепочку очистки: проекция с переименованием,
// приведение числовых колонок и порядковая шкала ответа о кормильце.
func DefaultProcessors() []processors.Config {
	rename := make(map[string]any, len(survey.Rename))
	for k, v := range survey.Rename {
		rename[k] = v
	}

	columns := make([]any, len(survey.SourceColumns))
	for i, c := range survey.SourceColumns {
		columns[i] = c
	}

	fields := make(map[string]any, len(numericColumns))
	for _, c := range numericColumns {
		fields[c] = "float"
	}

	levels := make([]any, 0, 4)
	for _, l := range survey.ResponseLevels() {
		levels = append(levels, l)
	}

	return []processors.Config{
		{
			Type: "column_projector",
			Params: map[string]any{
				"columns": columns,
				"rename":  rename,
			},
		},
		{
			Type: "field_normalizer",
			Params: map[string]any{
				"fields": fields,
				"replace": map[string]any{
					survey.ColAge: map[string]any{survey.AgeTopCode: survey.AgeTopValue},
				},
			},
		},
		{
			Type: "ordinal_validator",
			Params: map[string]any{
				"fields": map[string]any{survey.ColMaleBreadwinner: levels},
			},
		},
	}
}
