package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads a spreadsheet batch from the first sheet of an Excel
// workbook. The first row is the header.
func ReadXLSX(r io.Reader) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: workbook has no sheets")
	}

	allRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: reading sheet %q: %w", sheets[0], err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("xlsx: sheet %q is empty", sheets[0])
	}

	columns := make([]string, len(allRows[0]))
	for i, c := range allRows[0] {
		columns[i] = strings.TrimSpace(c)
	}

	return NewBatch(columns, allRows[1:]), nil
}
