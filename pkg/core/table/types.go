package table

import "database/sql"

// DataType представляет тип данных поля
type DataType string

// Поддерживаемые типы данных
const (
	TypeInteger DataType = "INTEGER"
	TypeReal    DataType = "REAL"
	TypeText    DataType = "TEXT"
)

// IsNumericType проверяет является ли тип числовым
func IsNumericType(t DataType) bool {
	return t == TypeInteger || t == TypeReal
}

// Value — значение ячейки. Valid == false означает отсутствующее значение (NULL).
type Value = sql.NullString

// Null — явный маркер отсутствующего значения
var Null = Value{}

// Str оборачивает строку в присутствующее значение
func Str(s string) Value {
	return Value{String: s, Valid: true}
}

// Field описывает одно поле таблицы
type Field struct {
	Name string
	Type DataType
	// Levels задает порядок уровней для порядкового категориального поля.
	// Пусто для обычных полей.
	Levels []string
}

// IsOrdinal проверяет является ли поле порядковым
func (f Field) IsOrdinal() bool {
	return len(f.Levels) > 0
}
