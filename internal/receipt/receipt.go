// Package receipt assembles the order-confirmation document: a PDF carrying
// the order summary and a scannable code encoding the PNR and order id.
package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/xenking/shopfront/internal/domain/order"
)

const qrSize = 256

// Generate renders the confirmation PDF for a created order. It is a pure
// function of the order data.
func Generate(o *order.Order) ([]byte, error) {
	png, err := qrcode.Encode(fmt.Sprintf("%s:%s", o.PNR, o.ID), qrcode.Medium, qrSize)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr code")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Order Confirmation")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Order: %s", o.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Booking reference: %s", o.PNR))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", o.Status))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Placed: %s", o.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Items")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range o.Items {
		pdf.Cell(0, 6, fmt.Sprintf("%s  x%d", item.ProductID, item.Quantity))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s", o.Total.StringFixed(2)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Ship to: "+formatAddress(o.Shipping))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Bill to: "+formatAddress(o.Billing))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Paid by: "+formatPayment(o.Payment))
	pdf.Ln(10)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("pnr-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("pnr-qr", 150, 20, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render pdf")
	}
	return buf.Bytes(), nil
}

func formatAddress(a order.Address) string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.PostalCode, a.Country)
}

func formatPayment(p order.PaymentMethod) string {
	switch p.Kind {
	case order.MethodCard:
		if p.Card != nil {
			return "card ending " + p.Card.Last4
		}
		return "card"
	case order.MethodMobileMoney:
		if p.Mobile != nil {
			return fmt.Sprintf("%s (%s)", p.Mobile.Provider, p.Mobile.Phone)
		}
		return "mobile money"
	default:
		return string(p.Kind)
	}
}
