package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

func TestWrite(t *testing.T) {
	gender := table.New("gender_summary", []table.Field{
		{Name: "Sex", Type: table.TypeText},
		{Name: "Income", Type: table.TypeReal},
	})
	gender.Rows = [][]table.Value{
		{table.Str("female"), table.Str("100.00")},
		{table.Str("male"), table.Null},
	}

	counts := table.New("breadwinner_counts", []table.Field{
		{Name: "Sex", Type: table.TypeText},
		{Name: "Count", Type: table.TypeInteger},
	})
	counts.Rows = [][]table.Value{{table.Str("male"), table.Str("2")}}

	var buf bytes.Buffer
	if err := Write(&buf, gender, counts); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "gender_summary" || sheets[1] != "breadwinner_counts" {
		t.Fatalf("sheets = %v", sheets)
	}

	tests := []struct {
		sheet, cell, want string
	}{
		{"gender_summary", "A1", "Sex"},
		{"gender_summary", "B1", "Income"},
		{"gender_summary", "A2", "female"},
		{"gender_summary", "B2", "100.00"},
		{"gender_summary", "B3", ""},
		{"breadwinner_counts", "B2", "2"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Errorf("GetCellValue(%s!%s) failed: %v", tt.sheet, tt.cell, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.cell, got, tt.want)
		}
	}

	// REAL хранится числом, а не строкой
	typ, err := f.GetCellType("gender_summary", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Errorf("B2 stored as string, want number")
	}
}

func TestWrite_NoTables(t *testing.T) {
	if err := Write(&bytes.Buffer{}); err == nil {
		t.Error("expected error for no tables")
	}
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{1: "A", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for in, want := range tests {
		if got := columnName(in); got != want {
			t.Errorf("columnName(%d) = %q, want %q", in, got, want)
		}
	}
}
