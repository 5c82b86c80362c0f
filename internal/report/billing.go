package report

import (
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/hitoshi/careportal/internal/model"
)

const billingFooter = "For questions about this bill, please contact billing@mychart.com"

// PaymentReceipt は支払履歴1件の領収書PDFをwに書き出す。
func (r *Renderer) PaymentReceipt(w io.Writer, payment model.Payment, patient *model.User) error {
	pdf, tr := r.newDocument("Payment Receipt", billingFooter)
	r.patientLines(pdf, tr, "Receipt Generated", patient)

	section(pdf, tr, "Invoice Details")
	detail(pdf, tr, "Invoice Number: "+payment.Invoice)
	detail(pdf, tr, "Payment Date: "+longDate(payment.Date))
	detail(pdf, tr, "Department: "+payment.Department)
	pdf.Ln(2)
	color := pendingAmb
	if payment.Status == model.PaymentStatusPaid {
		color = paidGreen
	}
	badge(pdf, string(payment.Status), color)

	section(pdf, tr, "Payment Summary")
	amountTable(pdf, [][2]string{
		{"Service Charge", money(payment.Amount)},
		{"Tax", "$0.00"},
		{"Total Amount", money(payment.Amount)},
	})

	if payment.Status == model.PaymentStatusPaid {
		pdf.Ln(6)
		setText(pdf, bodyInk)
		pdf.SetFont("Helvetica", "", 10)
		detail(pdf, tr, "Payment Method: Credit Card")
		detail(pdf, tr, "Transaction ID: "+r.transactionID())
	}

	pdf.Ln(10)
	setText(pdf, brandBlue)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Thank you for your payment!", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// BillStatement は未払い請求の請求書PDFをwに書き出す。
func (r *Renderer) BillStatement(w io.Writer, bill model.Bill, patient *model.User) error {
	pdf, tr := r.newDocument("Outstanding Bill", billingFooter)
	r.patientLines(pdf, tr, "Bill Generated", patient)

	section(pdf, tr, "Bill Details")
	detail(pdf, tr, "Provider: "+bill.Provider)
	detail(pdf, tr, "Due Date: "+longDate(bill.DueDate))
	pdf.Ln(2)
	color := pendingAmb
	switch bill.Status {
	case model.BillStatusPaid:
		color = paidGreen
	case model.BillStatusOverdue:
		color = overdueRed
	}
	badge(pdf, string(bill.Status), color)

	// 請求額
	pageW, _ := pdf.GetPageSize()
	setFill(pdf, [3]int{245, 247, 250})
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "", 11)
	setText(pdf, bodyInk)
	pdf.CellFormat(pageW-40, 10, "  Amount Due", "", 1, "L", true, 0, "")
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "B", 20)
	setText(pdf, headingInk)
	pdf.CellFormat(pageW-40, 14, "  "+money(bill.Amount), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	section(pdf, tr, "Payment Instructions")
	for _, line := range []string{
		"• Pay online at mychart.com/billing",
		"• Call (555) 123-4567 to pay by phone",
		"• Mail check to: MyChart Billing, 123 Health St, Tampa FL 33602",
	} {
		detail(pdf, tr, line)
	}

	return pdf.Output(w)
}

// amountTable は説明と金額の2列の表を出力する。最終行は合計として太字にする。
func amountTable(pdf *fpdf.Fpdf, rows [][2]string) {
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "B", 10)
	setFill(pdf, brandBlue)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(120, 8, "Description", "", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Amount", "", 1, "R", true, 0, "")

	for i, row := range rows {
		style := ""
		if i == len(rows)-1 {
			style = "B"
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 247, 250)
		pdf.SetTextColor(50, 50, 50)
		pdf.SetX(20)
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(120, 8, row[0], "", 0, "L", fill, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 8, row[1], "", 1, "R", fill, 0, "")
	}
}

func (r *Renderer) transactionID() string {
	id := strings.ReplaceAll(r.newID(), "-", "")
	if len(id) > 9 {
		id = id[:9]
	}
	return strings.ToUpper(id)
}

// ReceiptFilename は領収書のファイル名を返す。
func (r *Renderer) ReceiptFilename(payment model.Payment) string {
	return filename(payment.Invoice, "", r.now(), "pdf")
}

// StatementFilename は請求書のファイル名を返す。
func (r *Renderer) StatementFilename(bill model.Bill) string {
	return filename(bill.Provider, "_Bill", r.now(), "pdf")
}
