package invoice

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/domain"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/config"
)

// Walk-in sentinel used when a sale carries no customer name.
const walkInCustomer = "Walk-in"

// Page geometry in points. A4 with the 40pt margin the layout was designed
// around; the table band spans 40..555.
const (
	pageMargin = 40.0
	tableLeft  = 40.0
	tableWidth = 515.0
	rowHeight  = 22.0
	rowStep    = 24.0
)

// Renderer turns a persisted sale into the printable invoice document. It is
// a pure function of the sale: the same record always produces byte-identical
// output, in both buffer and streaming modes.
type Renderer struct {
	company  config.Company
	logo     []byte
	logoType string
}

// NewRenderer loads the letterhead assets once. A missing or unreadable logo
// degrades to a layout without one; it is never an error.
func NewRenderer(cfg config.Config) *Renderer {
	r := &Renderer{company: cfg.Company}
	r.loadLogo(cfg.LogoPath)
	return r
}

func (r *Renderer) loadLogo(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("invoice logo %s unreadable, rendering without it: %v", path, err)
		}
		return
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Printf("invoice logo %s is not a valid image, rendering without it: %v", path, err)
		return
	}
	switch format {
	case "jpeg":
		r.logoType = "JPG"
	case "png":
		r.logoType = "PNG"
	default:
		log.Printf("invoice logo %s has unsupported format %q, rendering without it", path, format)
		return
	}
	r.logo = data
}

// Render produces the invoice as an in-memory buffer, used for the base64
// payload returned right after sale creation.
func (r *Renderer) Render(sale *domain.Sale) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, sale); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo streams the invoice to w, used for the download endpoint.
func (r *Renderer) RenderTo(w io.Writer, sale *domain.Sale) error {
	pdf := r.build(sale)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice %s: %w", sale.InvoiceID, err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write invoice %s: %w", sale.InvoiceID, err)
	}
	return nil
}

func (r *Renderer) build(sale *domain.Sale) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	// Sort internal resource catalogs; gofpdf otherwise emits them in Go map
	// order, which varies between renders of the same sale.
	pdf.SetCatalogSort(true)
	// Pin both document timestamps to the sale so rendering is idempotent;
	// an unset modification date falls back to the wall clock and leaks into
	// the output bytes.
	pdf.SetCreationDate(saleTimestamp(sale))
	pdf.SetModificationDate(saleTimestamp(sale))
	pdf.AddPage()

	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - pageMargin

	r.header(pdf)
	r.metadata(pdf, sale)

	tableTop := 235.0
	r.tableHeader(pdf, tableTop)

	posY := tableTop + 30
	for i, item := range sale.Items {
		if posY+rowHeight > bottom {
			pdf.AddPage()
			posY = pageMargin
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 246, 250)
			pdf.Rect(tableLeft, posY-2, tableWidth, rowHeight, "F")
		}
		lineTotal := item.TotalPrice + item.TotalPrice*item.Vat/100

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
		cell(pdf, 50, posY, 225, "L", item.ItemDescription)
		cell(pdf, 285, posY, 40, "L", strconv.FormatInt(item.Quantity, 10))
		cell(pdf, 330, posY, 90, "L", money(item.UnitPrice))
		cell(pdf, 430, posY, 50, "L", vatPercent(item.Vat))
		cell(pdf, 455, posY, 100, "R", money(lineTotal))

		posY += rowStep
	}

	if posY+100 > bottom {
		pdf.AddPage()
		posY = pageMargin
	}
	r.totals(pdf, posY, sale)

	footerY := posY + 120
	if footerY+30 > bottom {
		pdf.AddPage()
		footerY = pageMargin
	}
	pdf.SetTextColor(68, 68, 68)
	pdf.SetFont("Helvetica", "", 10)
	cell(pdf, tableLeft, footerY, tableWidth, "L", "Thank you for your business!")
	pdf.SetTextColor(119, 119, 119)
	pdf.SetFont("Helvetica", "", 9)
	cell(pdf, tableLeft, footerY+14, tableWidth, "L",
		"This is a computer generated invoice and does not require a signature.")

	return pdf
}

func (r *Renderer) header(pdf *gofpdf.Fpdf) {
	if len(r.logo) > 0 {
		opt := gofpdf.ImageOptions{ImageType: r.logoType}
		pdf.RegisterImageOptionsReader("company-logo", opt, bytes.NewReader(r.logo))
		pdf.ImageOptions("company-logo", 40, 30, 120, 0, false, opt, 0, "")
	}

	pdf.SetTextColor(31, 60, 136)
	pdf.SetFont("Helvetica", "B", 22)
	cell(pdf, 200, 30, 300, "L", r.company.Name)

	pdf.SetFont("Helvetica", "", 10)
	cell(pdf, 200, 55, 300, "L", r.company.Address)
	cell(pdf, 200, 70, 300, "L", "Phone: "+r.company.Phone)
	cell(pdf, 200, 85, 300, "L", "Email: "+r.company.Email)

	pdf.SetFont("Helvetica", "B", 30)
	cell(pdf, tableLeft, 30, tableWidth, "R", "INVOICE")

	pdf.SetDrawColor(31, 60, 136)
	pdf.SetLineWidth(2)
	pdf.Line(40, 130, 555, 130)
}

func (r *Renderer) metadata(pdf *gofpdf.Fpdf, sale *domain.Sale) {
	customer := walkInCustomer
	if sale.CustomerName != nil && *sale.CustomerName != "" {
		customer = *sale.CustomerName
	}
	labelValue(pdf, 150, "Invoice ID: ", sale.InvoiceID)
	labelValue(pdf, 165, "Customer: ", customer)
	labelValue(pdf, 180, "Date: ", saleTimestamp(sale).Format("02 Jan 2006 15:04"))
	labelValue(pdf, 195, "Cashier: ", sale.CashierName)
	labelValue(pdf, 210, "Payment: ", sale.PaymentMethod)
}

func (r *Renderer) tableHeader(pdf *gofpdf.Fpdf, top float64) {
	pdf.SetFillColor(31, 60, 136)
	pdf.Rect(tableLeft, top, tableWidth, 25, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	cell(pdf, 50, top+7, 220, "L", "Item")
	cell(pdf, 280, top+7, 40, "L", "Qty")
	cell(pdf, 330, top+7, 90, "L", "Unit Price")
	cell(pdf, 430, top+7, 50, "L", "VAT%")
	cell(pdf, 455, top+7, 100, "R", "Total")
}

func (r *Renderer) totals(pdf *gofpdf.Fpdf, posY float64, sale *domain.Sale) {
	pdf.SetFillColor(31, 60, 136)
	pdf.Rect(300, posY+10, 255, 90, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "", 11)
	cell(pdf, 310, posY+20, 235, "L", "Subtotal: "+money(sale.Subtotal))
	cell(pdf, 310, posY+40, 235, "L", "Vat Total: "+money(sale.VatAmount))

	pdf.SetFont("Helvetica", "B", 14)
	cell(pdf, 310, posY+65, 235, "L", "Grand Total: "+money(sale.GrandTotal))
}

func cell(pdf *gofpdf.Fpdf, x, y, w float64, align, txt string) {
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 13, txt, "", 0, align, false, 0, "")
}

func labelValue(pdf *gofpdf.Fpdf, y float64, label, value string) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(40, y)
	pdf.CellFormat(pdf.GetStringWidth(label)+2, 13, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 13, value, "", 0, "L", false, 0, "")
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func vatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// saleTimestamp derives a stable timestamp from the sale record: the creation
// time when parseable, otherwise the transaction date at midnight.
func saleTimestamp(sale *domain.Sale) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, sale.CreatedAt); err == nil {
			return t
		}
	}
	if t, err := time.Parse("2006-01-02", sale.Date); err == nil {
		return t
	}
	return time.Time{}
}
