package cardgen

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// rowField assigns one cell value to its CardRow field.
type rowField func(*CardRow, string)

// headerFields maps folded header names (pt-BR and English accepted) to
// row fields. Unrecognized columns are ignored.
var headerFields = map[string]rowField{
	"ordem":       func(r *CardRow, v string) { r.Order = v },
	"order":       func(r *CardRow, v string) { r.Order = v },
	"tipo":        func(r *CardRow, v string) { r.Type = v },
	"type":        func(r *CardRow, v string) { r.Type = v },
	"texto":       func(r *CardRow, v string) { r.Text = v },
	"text":        func(r *CardRow, v string) { r.Text = v },
	"valor":       func(r *CardRow, v string) { r.Value = v },
	"value":       func(r *CardRow, v string) { r.Value = v },
	"complemento": func(r *CardRow, v string) { r.Complement = v },
	"complement":  func(r *CardRow, v string) { r.Complement = v },
	"legal":       func(r *CardRow, v string) { r.Legal = v },
	"uf":          func(r *CardRow, v string) { r.UF = v },
	"segmento":    func(r *CardRow, v string) { r.Segment = v },
	"segment":     func(r *CardRow, v string) { r.Segment = v },
	"cupom":       func(r *CardRow, v string) { r.Coupon = v },
	"coupon":      func(r *CardRow, v string) { r.Coupon = v },
	"selo":        func(r *CardRow, v string) { r.Seal = v },
	"seal":        func(r *CardRow, v string) { r.Seal = v },
	"categoria":   func(r *CardRow, v string) { r.Category = v },
	"category":    func(r *CardRow, v string) { r.Category = v },
	"logo":        func(r *CardRow, v string) { r.Logo = v },
	"urn":         func(r *CardRow, v string) { r.URN = v },
}

// ReadWorkbook loads every data row of the workbook's first sheet.
// The first row is the header; columns are matched by folded header name,
// so column order does not matter. Cells are loosely typed and coerced to
// trimmed strings; absent cells yield empty fields.
func ReadWorkbook(path string) ([]CardRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkbookOpen, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrWorkbookEmpty
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkbookOpen, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := mapColumns(rows[0])
	records := make([]CardRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		records = append(records, rowFromCells(cols, cells))
	}
	return records, nil
}

// mapColumns resolves header cells to field setters by folded name.
func mapColumns(header []string) map[int]rowField {
	cols := make(map[int]rowField, len(header))
	for i, cell := range header {
		if set, ok := headerFields[foldText(cell)]; ok {
			cols[i] = set
		}
	}
	return cols
}

// rowFromCells builds a CardRow from one sheet row. GetRows trims trailing
// empty cells, so every index is bounds-checked.
func rowFromCells(cols map[int]rowField, cells []string) CardRow {
	var r CardRow
	for i, set := range cols {
		if i < len(cells) {
			set(&r, strings.TrimSpace(cells[i]))
		}
	}
	return r
}
