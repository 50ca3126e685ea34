// Package receipts renders placed orders as printable PDF documents.
package receipts

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/angelmondragon/tvshop-backend/internal/orders"
	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	rowHeight  = 8.0

	colItem     = 95.0
	colQuantity = 20.0
	colUnit     = 32.5
	colTotal    = 32.5
)

// Renderer writes order receipts as A4 PDFs.
type Renderer struct {
	shopName string
}

// NewRenderer returns a renderer that titles receipts with shopName.
func NewRenderer(shopName string) *Renderer {
	if shopName == "" {
		shopName = "TV Shop"
	}
	return &Renderer{shopName: shopName}
}

// ContentType is the media type of rendered receipts.
func (r *Renderer) ContentType() string {
	return "application/pdf"
}

// Filename is the download name suggested for an order receipt.
func (r *Renderer) Filename(order *orders.OrderDTO) string {
	return fmt.Sprintf("order-%s.pdf", order.ID)
}

// Render writes the receipt for order to w. Nothing is written when rendering fails.
func (r *Renderer) Render(w io.Writer, order *orders.OrderDTO) error {
	if order == nil {
		return fmt.Errorf("order required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(fmt.Sprintf("%s order %s", r.shopName, order.ID), true)
	pdf.SetCreator(r.shopName, true)
	pdf.SetCreationDate(order.PlacedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr(r.shopName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Order: "+order.ID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Placed: "+order.PlacedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Status: "+order.Status.String(), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	ship := order.Shipping
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Ship to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		ship.FirstName + " " + ship.LastName,
		ship.Address,
		ship.Zipcode + " " + ship.City,
		ship.PhoneNumber,
	} {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(colItem, rowHeight, "Television", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQuantity, rowHeight, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colUnit, rowHeight, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, rowHeight, "Line total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(colItem, rowHeight, tr(item.Name+" "+item.Model), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQuantity, rowHeight, strconv.Itoa(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colUnit, rowHeight, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, rowHeight, item.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(colItem+colQuantity+colUnit, rowHeight+2, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, rowHeight+2, order.TotalPrice.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
