package excel

import (
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// Flatten reads the first sheet of an xlsx workbook and returns its first
// non-empty row as headers plus every following row as cells. Cells that
// parse as numbers are returned as float64 so downstream date/amount
// handling sees spreadsheet serials rather than display strings.
func Flatten(r io.Reader) ([]string, [][]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading sheet %q", sheets[0])
	}

	var headers []string
	var rows [][]any
	for _, row := range raw {
		if headers == nil {
			if isEmptyRow(row) {
				continue
			}
			headers = make([]string, len(row))
			copy(headers, row)
			continue
		}
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = typedCell(cell)
		}
		rows = append(rows, cells)
	}
	if headers == nil {
		return nil, nil, errors.New("workbook has no header row")
	}
	return headers, rows, nil
}

func typedCell(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return cell
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
