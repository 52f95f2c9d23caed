package table

import (
	"errors"
	"fmt"
)

// Классы ошибок конвейера. Проверяются через errors.Is.
var (
	// ErrResourceUnavailable — источник данных недоступен
	ErrResourceUnavailable = errors.New("resource unavailable")
	// ErrSchemaMismatch — ожидаемая колонка или категория отсутствует либо неожиданна
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrValueConversion — значение не приводится к целевому типу
	ErrValueConversion = errors.New("value conversion failed")
	// ErrRenderDegenerate — у артефакта нет данных для отображения (не фатально)
	ErrRenderDegenerate = errors.New("no data to render")
)

// FieldError ошибка в конкретной ячейке
type FieldError struct {
	Field   string
	Row     int // номер строки, начиная с 1
	Value   string
	Message string
	Err     error // класс ошибки: ErrValueConversion или ErrSchemaMismatch
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field '%s' row %d: %s (value: '%s'): %v",
		e.Field, e.Row, e.Message, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
