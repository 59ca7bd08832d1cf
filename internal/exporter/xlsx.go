package exporter

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"tsquality/internal/analysis"
)

// SheetName is the worksheet holding exported tables
const SheetName = "Processed Data"

const (
	xlsxDateFormat     = "yyyy-mm-dd"
	xlsxDateTimeFormat = "yyyy-mm-dd hh:mm:ss"
)

// WriteTableXLSX writes t as a single-sheet workbook. Dates are stored as
// Excel dates with a date-only or date-time number format matching the CSV
// export.
func WriteTableXLSX(w io.Writer, t *analysis.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	dateStyles := map[string]int{}
	for layout, numFmt := range map[string]string{
		analysis.DateLayout:     xlsxDateFormat,
		analysis.DateTimeLayout: xlsxDateTimeFormat,
	} {
		format := numFmt
		id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		if err != nil {
			return fmt.Errorf("failed to create date style: %w", err)
		}
		dateStyles[layout] = id
	}
	layouts := dateLayouts(t)

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]interface{}, t.Width())
	for c, name := range t.Columns {
		header[c] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := range t.Rows {
		row := make([]interface{}, t.Width())
		for c := range row {
			row[c] = xlsxCell(t.Cell(i, c), dateStyles[layouts[c]])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func xlsxCell(v analysis.Value, dateStyle int) interface{} {
	switch {
	case v.IsNull():
		return nil
	case v.Kind == analysis.KindNumber:
		if math.IsInf(v.Num, 0) {
			return formatFloat(v.Num)
		}
		return v.Num
	case v.Kind == analysis.KindDate:
		return excelize.Cell{StyleID: dateStyle, Value: v.Time}
	default:
		return v.Str
	}
}
