package documents

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/yigit/examseating/internal/app/models"
)

const (
	detailKeyWidth   = 45
	detailValueWidth = 120
	detailLineHeight = 10

	qrX    = 165
	qrSize = 30
	qrPx   = 256

	hallTicketFooter = "Please bring this hall ticket and a valid ID card to the exam hall."
)

// HallTicketPDF renders a single-page hall ticket with a QR code of the
// student's seat next to the details table.
func HallTicketPDF(a models.SeatAssignment) ([]byte, error) {
	qrPath, err := writeQRFile(QRPayload(a))
	if err != nil {
		return nil, err
	}
	defer os.Remove(qrPath)

	pdf := newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Exam Hall Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Student Details", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 11)

	details := [][2]string{
		{"Name", a.StudentName},
		{"Roll No", a.RollNo},
		{"Department", a.Department},
		{"Subject", a.Subject},
		{"Exam Date", a.ExamDate},
		{"Exam Session", a.ExamSession},
		{"Room No", a.RoomNo},
	}

	tableTop := pdf.GetY()
	for _, d := range details {
		pdf.CellFormat(detailKeyWidth, detailLineHeight, d[0], "1", 0, "", false, 0, "")
		pdf.CellFormat(detailValueWidth, detailLineHeight, tr(d[1]), "1", 1, "", false, 0, "")
	}

	pdf.ImageOptions(qrPath, qrX, tableTop, qrSize, qrSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, hallTicketFooter, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render hall ticket for %s: %w", a.RollNo, err)
	}
	return buf.Bytes(), nil
}

// writeQRFile encodes content as a PNG in a fresh temp file and returns its
// path. The caller removes the file.
func writeQRFile(content string) (string, error) {
	f, err := os.CreateTemp("", "hallticket-qr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create qr temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to create qr temp file: %w", err)
	}

	if err := qrcode.WriteFile(content, qrcode.Medium, qrPx, path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return path, nil
}
