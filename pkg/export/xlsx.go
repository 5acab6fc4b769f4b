package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MaxServ/tablesync/pkg/adapters"
)

// ToXLSX выгружает таблицу в Excel файл.
//
// Заголовки - имена колонок таблицы в порядке объявления.
// Пустое sheetName заменяется именем таблицы.
//
// Пример:
//
//	err := export.ToXLSX(ctx, adapter, "fe_groups", "groups.xlsx", "", opts)
func ToXLSX(ctx context.Context, adapter adapters.Adapter, table, filePath, sheetName string, opts Options) error {
	columns, rows, err := adapter.ReadTable(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to read table %s: %w", table, err)
	}

	columns = filterColumns(columns, opts.SkipColumns)

	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = table
		if sheetName == "" {
			sheetName = "Sheet1"
		}
	}

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for col, name := range columns {
		cell := columnName(col+1) + "1"
		f.SetCellValue(sheetName, cell, name)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for col, name := range columns {
			cell := fmt.Sprintf("%s%d", columnName(col+1), rowIdx+2)
			value := row[name]
			if value == nil {
				value = ""
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for col := range columns {
		name := columnName(col + 1)
		f.SetColWidth(sheetName, name, name, 15)
	}

	return f.SaveAs(filePath)
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
