package processors

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// NormalizeRule определяет правило нормализации
type NormalizeRule string

const (
	// NormalizeFloat приводит значение к числу с плавающей точкой, поле получает тип REAL
	NormalizeFloat NormalizeRule = "float"
	// NormalizeInteger приводит значение к целому, поле получает тип INTEGER
	NormalizeInteger NormalizeRule = "integer"
	// NormalizeWhitespace убирает лишние пробелы
	NormalizeWhitespace NormalizeRule = "whitespace"
	// NormalizeLowerCase приводит к нижнему регистру
	NormalizeLowerCase NormalizeRule = "lowercase"
)

// FieldNormalizer нормализует данные в указанных полях.
// Сначала применяется таблица замен поля (replace), затем правило.
// Ключ замены сравнивается со значением без краевых пробелов.
// Ошибка приведения к числу останавливает обработку с ErrValueConversion.
type FieldNormalizer struct {
	name              string
	fieldsToNormalize map[string]NormalizeRule     // field_name -> normalize_rule
	replace           map[string]map[string]string // field_name -> {from: to}

	whitespaceRegex *regexp.Regexp
}

// NewFieldNormalizer создает новый нормализатор полей
func NewFieldNormalizer(fieldsToNormalize map[string]NormalizeRule, replace map[string]map[string]string) *FieldNormalizer {
	if replace == nil {
		replace = map[string]map[string]string{}
	}
	return &FieldNormalizer{
		name:              "field_normalizer",
		fieldsToNormalize: fieldsToNormalize,
		replace:           replace,
		whitespaceRegex:   regexp.MustCompile(`\s+`),
	}
}

// Name возвращает имя процессора
func (n *FieldNormalizer) Name() string {
	return n.name
}

// Process реализует интерфейс Processor
func (n *FieldNormalizer) Process(ctx context.Context, t *table.Table) (*table.Table, error) {
	result := t.Clone()

	for name, rule := range n.fieldsToNormalize {
		col := result.Index(name)
		if col < 0 {
			return nil, fmt.Errorf("%w: column '%s' not found", table.ErrSchemaMismatch, name)
		}
		replace := n.replace[name]

		for r, row := range result.Rows {
			v := row[col]
			if !v.Valid {
				continue
			}
			s := v.String
			if to, ok := replace[strings.TrimSpace(s)]; ok {
				s = to
			}
			normalized, err := n.normalizeValue(s, rule)
			if err != nil {
				return nil, &table.FieldError{
					Field:   name,
					Row:     r + 1,
					Value:   v.String,
					Message: err.Error(),
					Err:     table.ErrValueConversion,
				}
			}
			row[col] = table.Str(normalized)
		}

		switch rule {
		case NormalizeFloat:
			result.Fields[col].Type = table.TypeReal
		case NormalizeInteger:
			result.Fields[col].Type = table.TypeInteger
		}
	}

	return result, nil
}

// normalizeValue применяет правило нормализации к значению
func (n *FieldNormalizer) normalizeValue(value string, rule NormalizeRule) (string, error) {
	switch rule {
	case NormalizeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return value, fmt.Errorf("cannot cast to float")
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case NormalizeInteger:
		i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return value, fmt.Errorf("cannot cast to integer")
		}
		return strconv.FormatInt(i, 10), nil
	case NormalizeWhitespace:
		return n.whitespaceRegex.ReplaceAllString(strings.TrimSpace(value), " "), nil
	case NormalizeLowerCase:
		return strings.ToLower(value), nil
	default:
		return value, fmt.Errorf("unknown normalize rule: %s", rule)
	}
}

// NewFieldNormalizerFromConfig создает FieldNormalizer из конфигурации
//
//	params:
//	  fields: {age: float}
//	  replace: {age: {"89 or older": "89"}}
func NewFieldNormalizerFromConfig(params map[string]any) (*FieldNormalizer, error) {
	fieldsToNormalize := make(map[string]NormalizeRule)

	fields, err := stringMap(params["fields"])
	if err != nil {
		return nil, fmt.Errorf("missing or invalid 'fields' parameter: %w", err)
	}

	for fieldName, ruleStr := range fields {
		rule := NormalizeRule(ruleStr)
		switch rule {
		case NormalizeFloat, NormalizeInteger, NormalizeWhitespace, NormalizeLowerCase:
			fieldsToNormalize[fieldName] = rule
		default:
			return nil, fmt.Errorf("invalid normalize rule '%s' for field '%s'", rule, fieldName)
		}
	}

	replace := make(map[string]map[string]string)
	if raw, ok := params["replace"]; ok {
		switch m := raw.(type) {
		case map[string]map[string]string:
			replace = m
		case map[string]any:
			for fieldName, r := range m {
				pairs, err := stringMap(r)
				if err != nil {
					return nil, fmt.Errorf("invalid 'replace' for field '%s': %w", fieldName, err)
				}
				replace[fieldName] = pairs
			}
		default:
			return nil, fmt.Errorf("invalid 'replace' parameter: %T", raw)
		}
	}

	return NewFieldNormalizer(fieldsToNormalize, replace), nil
}
