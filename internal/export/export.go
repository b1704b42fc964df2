// Package export renders a period report and its transactions as CSV, XLSX
// or PDF downloads.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"financas/internal/core"

	"github.com/shopspring/decimal"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts csv, xlsx (or excel) and pdf, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "pdf", "":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/pdf"
	}
}

// FileName is the attachment name, e.g. relatorio_current-month_20251120.pdf.
func (f Format) FileName(period core.Period, at time.Time) string {
	return fmt.Sprintf("relatorio_%s_%s.%s", period, at.Format("20060102"), f)
}

// Row is a transaction with its category and account resolved to names.
type Row struct {
	Date        core.Date
	Description string
	Type        core.TransactionType
	Category    string
	Account     string
	Amount      decimal.Decimal
}

// Data is everything an export renders.
type Data struct {
	Report core.PeriodReport
	Rows   []Row
}

// Write renders data in format f.
func Write(w io.Writer, f Format, data Data) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, data)
	case FormatXLSX:
		return WriteXLSX(w, data)
	case FormatPDF:
		return WritePDF(w, data)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func typeLabel(t core.TransactionType) string {
	if t == core.Income {
		return "Receita"
	}
	return "Despesa"
}

var headers = []string{"Data", "Descrição", "Tipo", "Categoria", "Conta", "Valor"}

// brDate formats a date the way pt-BR readers expect (20/11/2025).
func brDate(d core.Date) string {
	return d.Format("02/01/2006")
}
