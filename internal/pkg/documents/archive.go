package documents

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"github.com/yigit/examseating/internal/app/models"
)

// HallTicketsZIP renders a hall ticket for every assignment and packs them
// into one deflate-compressed archive, one entry per assignment. The first
// rendering failure aborts the whole archive.
func HallTicketsZIP(ctx context.Context, assignments []models.SeatAssignment) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, a := range assignments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pdf, err := HallTicketPDF(a)
		if err != nil {
			return nil, err
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   HallTicketFilename(a.RollNo),
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", a.RollNo, err)
		}
		if _, err := w.Write(pdf); err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", a.RollNo, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
