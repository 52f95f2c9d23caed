package survey

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// Record — одна запись очищенного набора.
// Числовые поля хранятся как sql.NullFloat64: Valid == false означает пропуск.
// Пустая строка в текстовых полях означает пропуск.
type Record struct {
	ID                 sql.NullInt64
	Weight             sql.NullFloat64
	Sex                string
	Education          sql.NullFloat64
	Region             string
	Age                sql.NullFloat64
	Income             sql.NullFloat64
	JobPrestige        sql.NullFloat64
	MotherJobPrestige  sql.NullFloat64
	FatherJobPrestige  sql.NullFloat64
	SocioeconomicIndex sql.NullFloat64
	SatJob             string
	Relationship       string
	MaleBreadwinner    Response
	MenBetterSuited    string
	ChildSuffer        string
	MenOverwork        string
}

// requiredColumns — колонки, без которых агрегаты и графики не строятся
var requiredColumns = []string{
	ColSex, ColIncome, ColJobPrestige, ColSocioeconomicIndex, ColEducation, ColMaleBreadwinner,
}

// Decode переводит очищенную таблицу в типизированные записи.
// Отсутствие обязательной колонки или неизвестный уровень ответа — ErrSchemaMismatch,
// нечисловое значение в числовой колонке — ErrValueConversion.
// Необязательные колонки, которых нет в таблице, остаются пустыми.
// Уровни ordinal_validator для male_breadwinner должны совпадать со шкалой Response.
func Decode(t *table.Table) ([]Record, error) {
	for _, name := range requiredColumns {
		if t.Index(name) < 0 {
			return nil, fmt.Errorf("%w: required column '%s' is missing", table.ErrSchemaMismatch, name)
		}
	}
	if err := checkScale(t.Fields[t.Index(ColMaleBreadwinner)]); err != nil {
		return nil, err
	}

	d := decoder{t: t}
	records := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		d.row, d.line = row, i+1
		r := Record{
			ID:                 d.integer(ColID),
			Weight:             d.number(ColWeight),
			Sex:                d.text(ColSex),
			Education:          d.number(ColEducation),
			Region:             d.text(ColRegion),
			Age:                d.age(),
			Income:             d.number(ColIncome),
			JobPrestige:        d.number(ColJobPrestige),
			MotherJobPrestige:  d.number(ColMotherJobPrestige),
			FatherJobPrestige:  d.number(ColFatherJobPrestige),
			SocioeconomicIndex: d.number(ColSocioeconomicIndex),
			SatJob:             d.text(ColSatJob),
			Relationship:       d.text(ColRelationship),
			MaleBreadwinner:    d.response(ColMaleBreadwinner),
			MenBetterSuited:    d.text(ColMenBetterSuited),
			ChildSuffer:        d.text(ColChildSuffer),
			MenOverwork:        d.text(ColMenOverwork),
		}
		if d.err != nil {
			return nil, d.err
		}
		records[i] = r
	}
	return records, nil
}

// checkScale сверяет объявленные уровни порядкового поля со шкалой Response.
// Порядок шкалы задает Response; поле без уровней принимается.
func checkScale(f table.Field) error {
	if !f.IsOrdinal() {
		return nil
	}
	scale := ResponseLevels()
	if len(f.Levels) != len(scale) {
		return fmt.Errorf("%w: column '%s' declares levels %q, want %q", table.ErrSchemaMismatch, f.Name, f.Levels, scale)
	}
	for i := range scale {
		if f.Levels[i] != scale[i] {
			return fmt.Errorf("%w: column '%s' declares levels %q, want %q", table.ErrSchemaMismatch, f.Name, f.Levels, scale)
		}
	}
	return nil
}

// decoder запоминает первую ошибку, чтобы разбор строки читался линейно
type decoder struct {
	t    *table.Table
	row  []table.Value
	line int
	err  error
}

func (d *decoder) value(name string) table.Value {
	i := d.t.Index(name)
	if i < 0 || i >= len(d.row) {
		return table.Null
	}
	return d.row[i]
}

func (d *decoder) fail(name, value, msg string, class error) {
	if d.err == nil {
		d.err = &table.FieldError{Field: name, Row: d.line, Value: value, Message: msg, Err: class}
	}
}

func (d *decoder) text(name string) string {
	return d.value(name).String
}

func (d *decoder) number(name string) sql.NullFloat64 {
	v := d.value(name)
	if !v.Valid {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(v.String, 64)
	if err != nil {
		d.fail(name, v.String, "not a number", table.ErrValueConversion)
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func (d *decoder) integer(name string) sql.NullInt64 {
	n := d.number(name)
	if !n.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n.Float64), Valid: true}
}

func (d *decoder) age() sql.NullFloat64 {
	v := d.value(ColAge)
	if !v.Valid {
		return sql.NullFloat64{}
	}
	f, err := NormalizeAge(v.String)
	if err != nil {
		d.fail(ColAge, v.String, "not a number", table.ErrValueConversion)
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func (d *decoder) response(name string) Response {
	v := d.value(name)
	if !v.Valid {
		return ResponseAbsent
	}
	r, err := ParseResponse(v.String)
	if err != nil {
		d.fail(name, v.String, "unknown response level", table.ErrSchemaMismatch)
		return ResponseAbsent
	}
	return r
}
