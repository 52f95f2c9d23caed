package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// Write - write tables to an XLSX workbook, one sheet per table
//
// Sheet names come from table.Name. Headers are bold on a blue fill,
// REAL cells use the "0.00" format and NULL cells stay empty.
//
// Example:
//
//	err := xlsx.Write(w, genderTable, countsTable)
func Write(w io.Writer, tables ...*table.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("at least one table is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	// Create header style
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	realStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	intStyle, err := f.NewStyle(&excelize.Style{NumFmt: 1}) // 0
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	for i, t := range tables {
		sheetName := t.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			// Rename default sheet
			if err := f.SetSheetName("Sheet1", sheetName); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
		}

		if err := writeSheet(f, sheetName, t, headerStyle, realStyle, intStyle); err != nil {
			return fmt.Errorf("sheet %s: %w", sheetName, err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *table.Table, headerStyle, realStyle, intStyle int) error {
	// Write headers
	for col, field := range t.Fields {
		cell := columnName(col+1) + "1"
		if err := f.SetCellValue(sheet, cell, field.Name); err != nil {
			return err
		}
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	// Write data rows
	for rowIdx, row := range t.Rows {
		for col, field := range t.Fields {
			if col >= len(row) || !row[col].Valid {
				continue
			}
			cell := columnName(col+1) + strconv.Itoa(rowIdx+2)
			value, style := cellValue(row[col].String, field.Type, realStyle, intStyle)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
			if style != 0 {
				f.SetCellStyle(sheet, cell, cell, style)
			}
		}
	}

	// Fixed column width
	for col := range t.Fields {
		colName := columnName(col + 1)
		f.SetColWidth(sheet, colName, colName, 22)
	}

	return nil
}

// cellValue - typed value for excelize; falls back to text when a number does not parse
func cellValue(s string, fieldType table.DataType, realStyle, intStyle int) (any, int) {
	switch fieldType {
	case table.TypeInteger:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, intStyle
		}
	case table.TypeReal:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, realStyle
		}
	}
	return s, 0
}

// columnName - convert column index to Excel column name (1 → A, 27 → AA)
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
