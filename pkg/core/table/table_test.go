package table

import (
	"errors"
	"testing"
)

func sampleTable() *Table {
	t := New("sample", []Field{
		{Name: "sex", Type: TypeText},
		{Name: "income", Type: TypeReal},
	})
	t.Rows = [][]Value{
		{Str("male"), Str("100")},
		{Str("female"), Null},
	}
	return t
}

func TestTable_Column(t *testing.T) {
	tbl := sampleTable()

	col, err := tbl.Column("income")
	if err != nil {
		t.Fatalf("Column() error = %v", err)
	}
	if len(col) != 2 || col[0].String != "100" || col[1].Valid {
		t.Errorf("Column() = %+v", col)
	}

	if _, err := tbl.Column("missing"); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Column(missing) error = %v, want ErrSchemaMismatch", err)
	}
}

func TestTable_Append(t *testing.T) {
	tbl := sampleTable()
	if err := tbl.Append([]Value{Str("male")}); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Append(short row) error = %v, want ErrSchemaMismatch", err)
	}
	if err := tbl.Append([]Value{Str("male"), Str("5")}); err != nil {
		t.Errorf("Append() error = %v", err)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tbl.Len())
	}
}

func TestTable_CloneIsDeep(t *testing.T) {
	tbl := sampleTable()
	tbl.Fields[0].Levels = []string{"female", "male"}

	cp := tbl.Clone()
	cp.Rows[0][0] = Str("changed")
	cp.Fields[0].Levels[0] = "changed"

	if tbl.Rows[0][0].String != "male" {
		t.Error("Clone() shares row storage with the original")
	}
	if tbl.Fields[0].Levels[0] != "female" {
		t.Error("Clone() shares levels with the original")
	}
}

func TestFieldError_Unwrap(t *testing.T) {
	err := error(&FieldError{Field: "age", Row: 3, Value: "abc", Message: "not a number", Err: ErrValueConversion})
	if !errors.Is(err, ErrValueConversion) {
		t.Errorf("errors.Is(FieldError, ErrValueConversion) = false")
	}
}
