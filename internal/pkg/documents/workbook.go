package documents

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/examseating/internal/app/models"
)

// AllocationSheet is the sheet name of the exported workbook
const AllocationSheet = "Allocation"

var workbookHeaders = []interface{}{
	"Room No", "Seat No", "Roll No", "Student Name", "Department", "Subject", "Exam Date", "Exam Session",
}

// AllocationWorkbook exports assignments as an XLSX workbook with a header
// row followed by one row per seat.
func AllocationWorkbook(assignments []models.SeatAssignment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), AllocationSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(AllocationSheet, "A1", &workbookHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, a := range assignments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			a.RoomNo, a.SeatNo, a.RollNo, a.StudentName, a.Department, a.Subject, a.ExamDate, a.ExamSession,
		}
		if err := f.SetSheetRow(AllocationSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
