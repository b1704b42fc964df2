package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// utf8BOM makes spreadsheet programs detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes one line per transaction, separated by semicolons with a
// decimal comma in amounts, as pt-BR spreadsheets expect.
func WriteCSV(w io.Writer, data Data) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range data.Rows {
		record := []string{
			brDate(r.Date),
			r.Description,
			typeLabel(r.Type),
			r.Category,
			r.Account,
			strings.Replace(r.Amount.StringFixed(2), ".", ",", 1),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
