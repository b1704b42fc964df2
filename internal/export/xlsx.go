package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet      = "Resumo"
	transactionsSheet = "Transações"
	// numFmtMoney is the built-in "#,##0.00" format.
	numFmtMoney = 4
)

// WriteXLSX writes a workbook with a summary sheet and a transactions sheet.
// Amounts are numeric cells so the workbook can be summed and charted.
func WriteXLSX(w io.Writer, data Data) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	index, err := f.NewSheet(transactionsSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeSummary(f, data, bold, money); err != nil {
		return err
	}
	if err := writeTransactions(f, data, bold, money); err != nil {
		return err
	}
	f.SetActiveSheet(index)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, data Data, bold, money int) error {
	r := data.Report
	rows := [][]any{
		{"Relatório Financeiro"},
		{"Período", r.Period.Label()},
		{"Gerado em", r.GeneratedAt.Format("02/01/2006 15:04")},
		{},
		{"Receitas", r.Income.InexactFloat64()},
		{"Despesas", r.Expense.InexactFloat64()},
		{"Saldo Período", r.PeriodBalance.InexactFloat64()},
		{"Saldo Total", r.Balance.InexactFloat64()},
		{"Transações", r.TransactionCount},
		{},
		{"Categoria", "Receitas", "Despesas"},
	}
	for _, c := range r.CategoryBreakdown {
		rows = append(rows, []any{c.Name, c.Income.InexactFloat64(), c.Expense.InexactFloat64()})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := row
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	if err := f.SetCellStyle(summarySheet, "A1", "A1", bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "B5", "B8", money); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A11", "C11", bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	if n := len(r.CategoryBreakdown); n > 0 {
		last, _ := excelize.CoordinatesToCellName(3, 11+n)
		if err := f.SetCellStyle(summarySheet, "B12", last, money); err != nil {
			return fmt.Errorf("style summary: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "C", 18)
}

func writeTransactions(f *excelize.File, data Data, bold, money int) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(transactionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(transactionsSheet, "A1", "F1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range data.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{brDate(r.Date), r.Description, typeLabel(r.Type), r.Category, r.Account, r.Amount.InexactFloat64()}
		if err := f.SetSheetRow(transactionsSheet, cell, &values); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if n := len(data.Rows); n > 0 {
		last, _ := excelize.CoordinatesToCellName(6, n+1)
		if err := f.SetCellStyle(transactionsSheet, "F2", last, money); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}

	widths := map[string]float64{"A": 12, "B": 32, "C": 10, "D": 18, "E": 18, "F": 14}
	for col, width := range widths {
		if err := f.SetColWidth(transactionsSheet, col, col, width); err != nil {
			return fmt.Errorf("set width: %w", err)
		}
	}
	return nil
}
