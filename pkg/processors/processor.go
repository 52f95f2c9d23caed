package processors

import (
	"context"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// Processor определяет интерфейс для обработки таблицы
type Processor interface {
	// Name возвращает имя процессора
	Name() string

	// Process обрабатывает таблицу и возвращает новую.
	// Входная таблица не изменяется.
	Process(ctx context.Context, t *table.Table) (*table.Table, error)
}

// Config содержит конфигурацию процессора
type Config struct {
	Type   string         `yaml:"type"`   // Тип процессора (column_projector, field_normalizer, ordinal_validator)
	Params map[string]any `yaml:"params"` // Параметры процессора
}
