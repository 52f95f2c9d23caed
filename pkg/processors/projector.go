package processors

import (
	"context"
	"fmt"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// Projector оставляет фиксированный упорядоченный набор колонок и переименовывает их.
// Колонки без записи в rename сохраняют исходное имя; записи rename для
// непроецируемых колонок игнорируются.
type Projector struct {
	name    string
	columns []string
	rename  map[string]string
}

// NewProjector создает новый процессор проекции
func NewProjector(columns []string, rename map[string]string) *Projector {
	return &Projector{
		name:    "column_projector",
		columns: columns,
		rename:  rename,
	}
}

// Name возвращает имя процессора
func (p *Projector) Name() string {
	return p.name
}

// Process реализует интерфейс Processor
func (p *Projector) Process(ctx context.Context, t *table.Table) (*table.Table, error) {
	if len(p.columns) == 0 {
		return nil, fmt.Errorf("%w: no columns to project", table.ErrSchemaMismatch)
	}

	indices := make([]int, len(p.columns))
	fields := make([]table.Field, len(p.columns))
	seen := make(map[string]bool, len(p.columns))

	for i, col := range p.columns {
		idx := t.Index(col)
		if idx < 0 {
			return nil, fmt.Errorf("%w: column '%s' not found in source", table.ErrSchemaMismatch, col)
		}
		indices[i] = idx

		field := t.Fields[idx]
		if target, ok := p.rename[col]; ok && target != "" {
			field.Name = target
		}
		if seen[field.Name] {
			return nil, fmt.Errorf("%w: duplicate target column '%s'", table.ErrSchemaMismatch, field.Name)
		}
		seen[field.Name] = true
		fields[i] = field
	}

	result := table.New(t.Name, fields)
	result.Rows = make([][]table.Value, len(t.Rows))
	for r, row := range t.Rows {
		newRow := make([]table.Value, len(indices))
		for i, idx := range indices {
			newRow[i] = row[idx]
		}
		result.Rows[r] = newRow
	}

	return result, nil
}

// NewProjectorFromConfig создает Projector из конфигурации
//
//	params:
//	  columns: [id, wtss, sex]
//	  rename: {wtss: weight}
func NewProjectorFromConfig(params map[string]any) (*Projector, error) {
	raw, ok := params["columns"]
	if !ok {
		return nil, fmt.Errorf("missing 'columns' parameter")
	}
	columns, err := stringList(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid 'columns' parameter: %w", err)
	}

	rename := map[string]string{}
	if raw, ok := params["rename"]; ok {
		rename, err = stringMap(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid 'rename' parameter: %w", err)
		}
	}

	return NewProjector(columns, rename), nil
}
