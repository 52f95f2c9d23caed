package table

import (
	"fmt"
)

// Table — табличные данные в памяти: схема плюс строки значений.
// Порядок значений в строке совпадает с порядком Fields.
type Table struct {
	Name   string
	Fields []Field
	Rows   [][]Value
}

// New создает пустую таблицу с указанной схемой
func New(name string, fields []Field) *Table {
	return &Table{
		Name:   name,
		Fields: fields,
	}
}

// Len возвращает количество строк
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index возвращает индекс поля по имени или -1
func (t *Table) Index(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Field возвращает описание поля по имени
func (t *Table) Field(name string) (Field, bool) {
	i := t.Index(name)
	if i < 0 {
		return Field{}, false
	}
	return t.Fields[i], true
}

// FieldNames возвращает имена полей в порядке схемы
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Column возвращает все значения колонки
func (t *Table) Column(name string) ([]Value, error) {
	i := t.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: column '%s' not found in table '%s'", ErrSchemaMismatch, name, t.Name)
	}
	col := make([]Value, len(t.Rows))
	for r, row := range t.Rows {
		col[r] = row[i]
	}
	return col, nil
}

// Append добавляет строку, проверяя количество значений
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.Fields) {
		return fmt.Errorf("%w: row has %d values, expected %d", ErrSchemaMismatch, len(row), len(t.Fields))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Clone возвращает глубокую копию таблицы. Процессоры работают с копией,
// исходная таблица не изменяется.
func (t *Table) Clone() *Table {
	fields := make([]Field, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = f
		if f.Levels != nil {
			fields[i].Levels = append([]string(nil), f.Levels...)
		}
	}
	rows := make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]Value(nil), row...)
	}
	return &Table{Name: t.Name, Fields: fields, Rows: rows}
}
