package processors

import (
	"context"
	"fmt"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// OrdinalValidator объявляет поле порядковым: проверяет, что каждое присутствующее
// значение входит в список уровней, и прикрепляет порядок уровней к схеме поля.
// Значение вне уровней — ErrSchemaMismatch. NULL допустим.
type OrdinalValidator struct {
	name   string
	levels map[string][]string // field_name -> уровни в порядке возрастания
}

// NewOrdinalValidator создает новый валидатор порядковых полей
func NewOrdinalValidator(levels map[string][]string) *OrdinalValidator {
	return &OrdinalValidator{
		name:   "ordinal_validator",
		levels: levels,
	}
}

// Name возвращает имя процессора
func (v *OrdinalValidator) Name() string {
	return v.name
}

// Process реализует интерфейс Processor
func (v *OrdinalValidator) Process(ctx context.Context, t *table.Table) (*table.Table, error) {
	result := t.Clone()

	for name, levels := range v.levels {
		col := result.Index(name)
		if col < 0 {
			return nil, fmt.Errorf("%w: column '%s' not found", table.ErrSchemaMismatch, name)
		}

		allowed := make(map[string]bool, len(levels))
		for _, l := range levels {
			allowed[l] = true
		}

		for r, row := range result.Rows {
			if !row[col].Valid {
				continue
			}
			if !allowed[row[col].String] {
				return nil, &table.FieldError{
					Field:   name,
					Row:     r + 1,
					Value:   row[col].String,
					Message: fmt.Sprintf("value is not one of %q", levels),
					Err:     table.ErrSchemaMismatch,
				}
			}
		}

		result.Fields[col].Levels = append([]string(nil), levels...)
	}

	return result, nil
}

// NewOrdinalValidatorFromConfig создает OrdinalValidator из конфигурации
//
//	params:
//	  fields:
//	    male_breadwinner: [strongly agree, agree, disagree, strongly disagree]
func NewOrdinalValidatorFromConfig(params map[string]any) (*OrdinalValidator, error) {
	levels := make(map[string][]string)

	switch fields := params["fields"].(type) {
	case map[string][]string:
		levels = fields
	case map[string]any:
		for fieldName, raw := range fields {
			list, err := stringList(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid levels for field '%s': %w", fieldName, err)
			}
			if len(list) == 0 {
				return nil, fmt.Errorf("field '%s' needs at least one level", fieldName)
			}
			levels[fieldName] = list
		}
	default:
		return nil, fmt.Errorf("missing or invalid 'fields' parameter")
	}

	return NewOrdinalValidator(levels), nil
}
