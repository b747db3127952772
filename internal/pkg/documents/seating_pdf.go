package documents

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/yigit/examseating/internal/app/models"
)

var (
	seatingHeaders = []string{"Seat No", "Roll No", "Student Name", "Department", "Subject"}
	seatingWidths  = []float64{20, 35, 50, 35, 50}
)

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	return pdf
}

// RoomSeatingPDF renders one page per room, rooms in sorted order. Rows keep
// their allocation order within a room. Every page carries the same meta
// header.
func RoomSeatingPDF(assignments []models.SeatAssignment, meta models.ExamMeta) ([]byte, error) {
	byRoom := make(map[string][]models.SeatAssignment)
	for _, a := range assignments {
		byRoom[a.RoomNo] = append(byRoom[a.RoomNo], a)
	}
	rooms := make([]string, 0, len(byRoom))
	for room := range byRoom {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	pdf := newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, room := range rooms {
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, tr("Room Seating Arrangement - "+room), "", 1, "C", false, 0, "")

		pdf.SetFont("Arial", "I", 12)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Exam Date: %s | Session: %s", meta.ExamDate, meta.ExamSession)), "", 1, "C", false, 0, "")
		pdf.Ln(5)

		pdf.SetFont("Arial", "B", 11)
		for i, h := range seatingHeaders {
			pdf.CellFormat(seatingWidths[i], 10, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, a := range byRoom[room] {
			pdf.CellFormat(seatingWidths[0], 8, strconv.Itoa(a.SeatNo), "1", 0, "C", false, 0, "")
			pdf.CellFormat(seatingWidths[1], 8, tr(a.RollNo), "1", 0, "C", false, 0, "")
			pdf.CellFormat(seatingWidths[2], 8, tr(a.StudentName), "1", 0, "", false, 0, "")
			pdf.CellFormat(seatingWidths[3], 8, tr(a.Department), "1", 0, "", false, 0, "")
			pdf.CellFormat(seatingWidths[4], 8, tr(a.Subject), "1", 0, "", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render room seating pdf: %w", err)
	}
	return buf.Bytes(), nil
}
