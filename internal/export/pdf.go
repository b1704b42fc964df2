package export

import (
	"fmt"
	"io"

	"financas/internal/core"

	"github.com/go-pdf/fpdf"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Data", 22, "L"},
	{"Descrição", 58, "L"},
	{"Tipo", 20, "L"},
	{"Categoria", 32, "L"},
	{"Conta", 30, "L"},
	{"Valor", 28, "R"},
}

// WritePDF writes an A4 report: summary, top expense categories and the
// transaction list.
func WritePDF(w io.Writer, data Data) error {
	r := data.Report
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Relatório Financeiro", true)
	pdf.SetAutoPageBreak(true, 15)
	// Core fonts are cp1252; translate so accents render.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Relatório Financeiro"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Período: %s", r.Period.Label())), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em %s", r.GeneratedAt.Format("02/01/2006 15:04"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := []struct {
		label string
		value string
	}{
		{"Saldo Total", core.FormatCurrency(r.Balance)},
		{"Receitas", core.FormatCurrency(r.Income)},
		{"Despesas", core.FormatCurrency(r.Expense)},
		{"Saldo Período", core.FormatCurrency(r.PeriodBalance)},
		{"Transações", fmt.Sprint(r.TransactionCount)},
	}
	for _, s := range summary {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, tr(s.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(s.value), "", 1, "L", false, 0, "")
	}

	if len(r.TopCategories) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr("Principais Categorias"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, c := range r.TopCategories {
			pdf.CellFormat(80, 6, tr(c.Name), "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, tr(core.FormatCurrency(c.Amount)), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Transações"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range data.Rows {
		values := []string{
			brDate(row.Date),
			truncate(row.Description, 34),
			typeLabel(row.Type),
			truncate(row.Category, 18),
			truncate(row.Account, 17),
			core.FormatCurrency(row.Amount),
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, tr(values[i]), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(data.Rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, tr("Nenhuma transação no período"), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
