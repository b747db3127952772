// Package documents renders allocations as seating charts, hall tickets,
// archives and workbooks.
package documents

import (
	"fmt"
	"strings"

	"github.com/yigit/examseating/internal/app/models"
)

// Download names
const (
	RoomSeatingFilename    = "RoomSeating.pdf"
	HallTicketsZIPName     = "all_hall_tickets.zip"
	AllocationXLSXName     = "allocation.xlsx"
	ContentTypePDF         = "application/pdf"
	ContentTypeZIP         = "application/zip"
	ContentTypeSpreadsheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SafeRollNo makes a roll number usable in a file name: surrounding space is
// trimmed, inner spaces become underscores and anything outside
// [A-Za-z0-9_-] is dropped.
func SafeRollNo(rollNo string) string {
	rollNo = strings.ReplaceAll(strings.TrimSpace(rollNo), " ", "_")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, rollNo)
}

// HallTicketFilename is the download and archive name of one hall ticket
func HallTicketFilename(rollNo string) string {
	return fmt.Sprintf("hall_ticket_%s.pdf", SafeRollNo(rollNo))
}

// QRPayload is the text encoded in a hall ticket's QR code
func QRPayload(a models.SeatAssignment) string {
	return strings.Join([]string{a.RollNo, a.StudentName, a.Subject, a.ExamDate, a.RoomNo}, " - ")
}
