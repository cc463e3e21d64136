package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/models"
	"estimate-backend/internal/timeutil"
)

// PDFService renders quotes and invoices as printable documents.
type PDFService struct {
	CompanyName    string
	CompanyAddress string
}

func NewPDFService(companyName, companyAddress string) *PDFService {
	if companyName == "" {
		companyName = "Estimate Backend"
	}
	return &PDFService{
		CompanyName:    companyName,
		CompanyAddress: companyAddress,
	}
}

// GenerateQuotePDF renders a quote for sending to the client.
func (s *PDFService) GenerateQuotePDF(q *models.QuoteWithDetails) ([]byte, error) {
	pdf := s.newDocument("QUOTE", q.QuoteNumber)

	s.partyBox(pdf, q.ClientName, q.ProjectName)

	pdf.SetFont("Arial", "", 10)
	if q.ValidUntil != nil {
		pdf.CellFormat(190, 6, fmt.Sprintf("Valid until: %s", q.ValidUntil.Format("02-Jan-2006")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	s.itemTable(pdf, q.Items)
	s.totalsBlock(pdf, q.Subtotal, q.DiscountAmount, q.TaxRate, q.TaxAmount, q.Total)

	if q.Terms != "" {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 6, "Terms", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 5, q.Terms, "", "L", false)
	}
	if q.Notes != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 5, q.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateInvoicePDF renders an invoice with its payment state.
func (s *PDFService) GenerateInvoicePDF(inv *models.InvoiceWithDetails) ([]byte, error) {
	pdf := s.newDocument("INVOICE", inv.InvoiceNumber)

	s.partyBox(pdf, inv.ClientName, inv.ProjectName)

	pdf.SetFont("Arial", "", 10)
	if inv.DueDate != nil {
		pdf.CellFormat(190, 6, fmt.Sprintf("Due date: %s", inv.DueDate.Format("02-Jan-2006")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	s.itemTable(pdf, inv.Items)
	s.totalsBlock(pdf, inv.Subtotal, inv.DiscountAmount, inv.TaxRate, inv.TaxAmount, inv.Total)

	pdf.Ln(3)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, fmt.Sprintf("Amount Paid: Rs. %s", inv.AmountPaid.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 8, fmt.Sprintf("Balance Due: Rs. %s", inv.AmountDue.StringFixed(2)), "1", 1, "C", false, 0, "")

	// Highlight the balance line
	if inv.AmountDue.IsPositive() {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	balanceText := fmt.Sprintf("BALANCE DUE: Rs. %s", inv.AmountDue.StringFixed(2))
	if !inv.AmountDue.IsPositive() {
		balanceText = "FULLY PAID"
	}
	pdf.CellFormat(190, 10, balanceText, "1", 1, "C", true, 0, "")

	if inv.Notes != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 5, inv.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PDFService) newDocument(docType, number string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, s.CompanyName, "", 1, "C", false, 0, "")
	if s.CompanyAddress != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(190, 5, s.CompanyAddress, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 8, fmt.Sprintf("%s %s", docType, number), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 5, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)
	return pdf
}

func (s *PDFService) partyBox(pdf *gofpdf.Fpdf, clientName, projectName string) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 7, "Billed To", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Client: %s", clientName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Project: %s", projectName), "RB", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func (s *PDFService) itemTable(pdf *gofpdf.Fpdf, items []billing.LineItem) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(75, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Unit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		desc := item.Description
		if len(desc) > 42 {
			desc = desc[:39] + "..."
		}
		pdf.CellFormat(75, 6, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, item.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, item.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
}

func (s *PDFService) totalsBlock(pdf *gofpdf.Fpdf, subtotal, discount, taxRate, tax, total decimal.Decimal) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(155, 6, "Subtotal", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("Rs. %s", subtotal.StringFixed(2)), "1", 1, "R", false, 0, "")
	if discount.IsPositive() {
		pdf.CellFormat(155, 6, "Discount", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("- Rs. %s", discount.StringFixed(2)), "1", 1, "R", false, 0, "")
	}
	pdf.CellFormat(155, 6, fmt.Sprintf("Tax (%s%%)", taxRate.String()), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("Rs. %s", tax.StringFixed(2)), "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(155, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("Rs. %s", total.StringFixed(2)), "1", 1, "R", false, 0, "")
}
