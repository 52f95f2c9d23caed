package etl

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

const driverSqlite = "sqlite"

// Workspace представляет SQLite :memory: рабочую среду.
// Очищенная таблица загружается сюда один раз, агрегаты считаются SQL-запросами.
type Workspace struct {
	db     *sql.DB
	tables map[string]bool // Список созданных таблиц
}

// NewWorkspace создает новый :memory: workspace
func NewWorkspace(ctx context.Context) (*Workspace, error) {
	db, err := sql.Open(driverSqlite, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}

	// Каждое соединение :memory: — отдельная база, держим ровно одно
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping workspace: %w", err)
	}

	return &Workspace{
		db:     db,
		tables: make(map[string]bool),
	}, nil
}

// DB возвращает прямой доступ к *sql.DB
func (w *Workspace) DB() *sql.DB {
	return w.db
}

// HasTable проверяет, создана ли таблица
func (w *Workspace) HasTable(name string) bool {
	return w.tables[name]
}

// CreateTable создает таблицу в workspace на основе схемы
func (w *Workspace) CreateTable(ctx context.Context, tableName string, fields []table.Field) error {
	if tableName == "" {
		return fmt.Errorf("table name is required")
	}

	if len(fields) == 0 {
		return fmt.Errorf("at least one field is required")
	}

	ddl := generateCreateTableDDL(tableName, fields)
	if _, err := w.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	w.tables[tableName] = true

	return nil
}

// LoadTable создает таблицу по схеме t и загружает в нее все строки одной транзакцией.
// Значения REAL/INTEGER полей приводятся к числам; NULL сохраняется как NULL.
func (w *Workspace) LoadTable(ctx context.Context, t *table.Table) error {
	if err := w.CreateTable(ctx, t.Name, t.Fields); err != nil {
		return err
	}

	if len(t.Rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(t.Fields))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s VALUES (%s)",
		quoteIdent(t.Name),
		strings.Join(placeholders, ", "),
	)

	// Начинаем транзакцию для производительности
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Fields))
	for r, row := range t.Rows {
		if len(row) != len(t.Fields) {
			return fmt.Errorf("%w: row %d has %d values, expected %d", table.ErrSchemaMismatch, r+1, len(row), len(t.Fields))
		}

		for j, val := range row {
			args[j], err = convertValue(val, t.Fields[j].Type)
			if err != nil {
				return &table.FieldError{
					Field:   t.Fields[j].Name,
					Row:     r + 1,
					Value:   val.String,
					Message: err.Error(),
					Err:     table.ErrValueConversion,
				}
			}
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", r+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Query выполняет SELECT в workspace и возвращает результат как таблицу.
// Тип колонки берется из декларации, а для выражений (AVG, COUNT) из первого непустого значения.
func (w *Workspace) Query(ctx context.Context, query string, resultTableName string, args ...any) (*table.Table, error) {
	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute SQL: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	fields := make([]table.Field, len(columns))
	declared := make([]bool, len(columns))
	for i, col := range columns {
		fields[i] = table.Field{Name: col, Type: table.TypeText}
		if name := columnTypes[i].DatabaseTypeName(); name != "" {
			fields[i].Type = mapSQLiteType(name)
			declared[i] = true
		}
	}

	result := table.New(resultTableName, fields)

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]table.Value, len(values))
		for i, val := range values {
			row[i] = formatValue(val)
			if !declared[i] && val != nil {
				result.Fields[i].Type = inferType(val)
				declared[i] = true
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return result, nil
}

// Close закрывает workspace
func (w *Workspace) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

// generateCreateTableDDL генерирует DDL для создания таблицы
func generateCreateTableDDL(tableName string, fields []table.Field) string {
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = fmt.Sprintf("%s %s", quoteIdent(field.Name), mapTableType(field.Type))
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(columns, ", "))
}

// quoteIdent экранирует идентификатор SQLite
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func mapTableType(t table.DataType) string {
	switch t {
	case table.TypeInteger:
		return "INTEGER"
	case table.TypeReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// mapSQLiteType конвертирует объявленный SQLite тип в тип поля
func mapSQLiteType(sqliteType string) table.DataType {
	sqliteType = strings.ToUpper(sqliteType)
	switch {
	case strings.Contains(sqliteType, "INT"):
		return table.TypeInteger
	case strings.Contains(sqliteType, "REAL"), strings.Contains(sqliteType, "FLOAT"), strings.Contains(sqliteType, "DOUBLE"):
		return table.TypeReal
	default:
		return table.TypeText
	}
}

func inferType(val any) table.DataType {
	switch val.(type) {
	case int64:
		return table.TypeInteger
	case float64:
		return table.TypeReal
	default:
		return table.TypeText
	}
}

// convertValue конвертирует значение ячейки в аргумент INSERT
func convertValue(val table.Value, t table.DataType) (any, error) {
	if !val.Valid {
		return nil, nil
	}

	switch t {
	case table.TypeInteger:
		i, err := strconv.ParseInt(strings.TrimSpace(val.String), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot store as INTEGER")
		}
		return i, nil
	case table.TypeReal:
		f, err := strconv.ParseFloat(strings.TrimSpace(val.String), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot store as REAL")
		}
		return f, nil
	default:
		return val.String, nil
	}
}

// formatValue конвертирует значение из SQL в ячейку таблицы
func formatValue(val any) table.Value {
	switch v := val.(type) {
	case nil:
		return table.Null
	case []byte:
		return table.Str(string(v))
	case string:
		return table.Str(v)
	case int64:
		return table.Str(strconv.FormatInt(v, 10))
	case float64:
		return table.Str(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		if v {
			return table.Str("1")
		}
		return table.Str("0")
	default:
		return table.Str(fmt.Sprintf("%v", v))
	}
}
