package docconv

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// extractSpreadsheet reads the first sheet, by position, of an OOXML (.xlsx)
// or BIFF (.xls) workbook. Row 1 is the header. Cell values are the
// workbook's displayed strings.
func extractSpreadsheet(data []byte) (Extraction, error) {
	var read func([]byte) ([][]string, error)
	switch {
	case isZip(data):
		read = readXLSX
	case isOLE2(data):
		read = readXLS
	default:
		return Extraction{}, fmt.Errorf("%w: spreadsheet: neither an OOXML nor a BIFF workbook", ErrCorrupt)
	}
	return guard("spreadsheet", func() (Extraction, error) {
		rows, err := read(data)
		if err != nil {
			return Extraction{}, err
		}
		fields, records := tabulate(rows)
		return TabularExtraction(fields, records), nil
	})
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %s", ErrCorrupt, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx: workbook has no sheets", ErrCorrupt)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: sheet %q: %s", ErrCorrupt, sheets[0], err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: xls: %s", ErrCorrupt, err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: xls: workbook has no sheets", ErrCorrupt)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: xls: first sheet unreadable", ErrCorrupt)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, max(row.LastCol(), 0))
		for c := max(row.FirstCol(), 0); c < len(cells); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
