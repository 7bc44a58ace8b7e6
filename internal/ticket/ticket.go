// Package ticket renders the downloadable booking confirmation PDF.
package ticket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Manujapabodhana/music-project/internal/bookings"
)

// Confirmation renders a one-page PDF for the booking, with the reference
// number encoded as a QR code for door check-in.
func Confirmation(b *bookings.Booking) ([]byte, error) {
	ref := b.ReferenceNumber()

	qrPNG, err := qrcode.Encode(ref, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "Sabra Music - Booking Confirmation")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 12)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	row("Reference", ref)
	row("Event", b.EventName)
	row("Location", b.EventLocation)
	row("Date", b.RequestedDate.Format("Monday, 2 January 2006"))
	row("Time", b.Time)
	row("Status", string(b.Status))
	row("Total", fmt.Sprintf("%.2f %s", b.TotalAmount(), b.Fees.Currency))
	if len(b.AdditionalServices) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Additional services", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, svc := range b.AdditionalServices {
			pdf.CellFormat(0, 7, fmt.Sprintf("- %s (%.2f %s)", svc.Name, svc.Price, b.Fees.Currency), "", 1, "L", false, 0, "")
		}
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, opts, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", time.Now().Format(time.RFC1123)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
