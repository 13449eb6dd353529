// Package report renders a viewer's transaction history as an xlsx statement.
package report

import (
	"fmt"
	"io"

	"agrimarket-backend/internal/analytics"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Transactions"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headings = []string{"Date", "Type", "Item", "Counterparty", "Status", "Payment", "Direction", "Amount"}

// WriteStatement writes one row per transaction followed by a totals row.
// Unparsable amounts are written as empty cells.
func WriteStatement(w io.Writer, list analytics.ListSummary, txs []analytics.ClassifiedTransaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}
	lastHeading, _ := excelize.CoordinatesToCellName(len(headings), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeading, bold); err != nil {
		return err
	}

	for i, t := range txs {
		row := i + 2
		var amount any
		if t.AmountValid {
			amount = t.Amount.InexactFloat64()
		}
		values := []any{
			t.CreatedAt.Format("2006-01-02"),
			t.TypeLabel,
			t.Label,
			t.CounterpartyName,
			string(t.Status),
			string(t.PaymentMethod),
			string(t.Sign),
			amount,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	totalRow := len(txs) + 2
	labelCell, _ := excelize.CoordinatesToCellName(len(headings)-1, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(len(headings), totalRow)
	if err := f.SetCellValue(SheetName, labelCell, fmt.Sprintf("Total (%d)", list.Total)); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, totalCell, list.TotalAmount.InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, labelCell, totalCell, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "B", "D", 24); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write statement: %w", err)
	}
	return nil
}
