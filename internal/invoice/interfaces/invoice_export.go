package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	invoice "nhatro-cloud/internal/invoice/domain"
	reading "nhatro-cloud/internal/reading/domain"
)

// BuildInvoicePDF renders a printable PDF for one room invoice.
func BuildInvoicePDF(inv *invoice.Invoice, currency string) ([]byte, error) {
	if inv == nil {
		return nil, invoice.ErrInvoiceNotFound
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Room Invoice")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Room: %s", inv.RoomName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %s", inv.Month.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", inv.Status))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Due: %s", inv.DueDate.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", inv.CreatedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	if !inv.PaidAt.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Paid: %s", inv.PaidAt.Format(time.RFC3339)))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, "Charge", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, fmt.Sprintf("Amount (%s)", currency), "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	lines := []struct {
		label  string
		amount int64
	}{
		{"Room rent", inv.RoomCharge},
		{"Electricity", inv.ElectricityCharge},
		{"Water", inv.WaterCharge},
		{"Garbage", inv.OtherCharges},
	}
	for _, line := range lines {
		pdf.CellFormat(80, 6, line.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, fmt.Sprintf("%d", line.amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, fmt.Sprintf("%d", inv.TotalAmount), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildMonthXLSX renders an XLSX workbook for one month's invoice batch.
func BuildMonthXLSX(month reading.Month, invoices []invoice.Invoice, summary invoice.Summary) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	invoicesSheet := "invoices"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(invoicesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Invoice Batch")
	_ = f.SetCellValue(summarySheet, "A3", "Month")
	_ = f.SetCellValue(summarySheet, "B3", month.String())
	_ = f.SetCellValue(summarySheet, "A4", "Invoices")
	_ = f.SetCellValue(summarySheet, "B4", summary.Total)
	_ = f.SetCellValue(summarySheet, "A5", "Paid")
	_ = f.SetCellValue(summarySheet, "B5", summary.Paid)
	_ = f.SetCellValue(summarySheet, "A6", "Pending")
	_ = f.SetCellValue(summarySheet, "B6", summary.Pending)
	_ = f.SetCellValue(summarySheet, "A7", "Overdue")
	_ = f.SetCellValue(summarySheet, "B7", summary.Overdue)
	_ = f.SetCellValue(summarySheet, "A8", "Total Amount")
	_ = f.SetCellValue(summarySheet, "B8", summary.TotalAmount)
	_ = f.SetCellValue(summarySheet, "A9", "Collected")
	_ = f.SetCellValue(summarySheet, "B9", summary.PaidAmount)
	_ = f.SetCellValue(summarySheet, "A10", "Outstanding")
	_ = f.SetCellValue(summarySheet, "B10", summary.PendingAmount)

	headers := []string{"Room", "Rent", "Electricity", "Water", "Other", "Total", "Status", "Due"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(invoicesSheet, cell, header)
	}
	for i, inv := range invoices {
		row := i + 2
		_ = f.SetCellValue(invoicesSheet, fmt.Sprintf("A%d", row), inv.RoomName)
		_ = f.SetCellValue(invoicesSheet, fmt.Sprintf("B%d", row), inv.RoomCharge)
		_ = f.SetCellValue(invoicesSheet, fmt.Sprintf("C%d", row), inv.ElectricityCharge)
		_ = f.SetCellValue(invoicesSheet, fmt.Sprintf("D%d", row), inv.WaterCharge)
		_ = f.SetCellValue(invoicesSheet, fmt.Sprintf("E%d", row), inv.OtherCharges)
		_ = f.SetCellValue(invoicesSheet, fmt.Sprintf("F%d", row), inv.TotalAmount)
		_ = f.SetCellValue(invoicesSheet, fmt.Sprintf("G%d", row), string(inv.Status))
		_ = f.SetCellValue(invoicesSheet, fmt.Sprintf("H%d", row), inv.DueDate.Format("2006-01-02"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
