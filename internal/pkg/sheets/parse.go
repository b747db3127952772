package sheets

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/validation"
)

// Column names after NormalizeHeader
const (
	ColRoomNo      = "RoomNo"
	ColCapacity    = "Capacity"
	ColRollNo      = "RollNo"
	ColStudentName = "StudentName"
	ColDepartment  = "Department"
	ColSubject     = "Subject"
	ColExamDate    = "ExamDate"
	ColExamSession = "ExamSession"
)

// RoomColumns are the columns a room upload must carry
var RoomColumns = []string{ColRoomNo, ColCapacity}

// TimetableColumns are the columns a timetable upload must carry
var TimetableColumns = []string{
	ColRollNo, ColStudentName, ColDepartment, ColSubject,
	ColExamDate, ColExamSession, ColRoomNo,
}

// ParseRooms reads a room inventory. Row order is preserved since it decides
// the order rooms are filled in.
func ParseRooms(filename string, r io.Reader) ([]models.Room, error) {
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, err
	}
	t, err := newTable(rows, RoomColumns)
	if err != nil {
		return nil, err
	}

	rooms := make([]models.Room, 0, len(t.rows))
	firstLine := make(map[string]int, len(t.rows))
	err = t.each(func(line int, row []string) error {
		rawCapacity := t.cell(row, ColCapacity)
		capacity, ok := parseWholeNumber(rawCapacity)
		if !ok {
			return rowError(line, map[string]string{
				ColCapacity: ColCapacity + " must be a whole number, got " + strconv.Quote(rawCapacity),
			})
		}

		room := models.Room{
			RoomNo:   t.cell(row, ColRoomNo),
			Capacity: capacity,
		}
		if err := validation.Struct(room); err != nil {
			return rowError(line, validation.FieldMessages(err))
		}
		if prev, dup := firstLine[room.RoomNo]; dup {
			return rowError(line, map[string]string{
				ColRoomNo: fmt.Sprintf("%s %s already listed on row %d", ColRoomNo, room.RoomNo, prev),
			})
		}
		firstLine[room.RoomNo] = line
		rooms = append(rooms, room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ParseTimetable reads an exam timetable
func ParseTimetable(filename string, r io.Reader) ([]models.TimetableEntry, error) {
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, err
	}
	t, err := newTable(rows, TimetableColumns)
	if err != nil {
		return nil, err
	}

	entries := make([]models.TimetableEntry, 0, len(t.rows))
	err = t.each(func(line int, row []string) error {
		e := models.TimetableEntry{
			RollNo:      t.cell(row, ColRollNo),
			StudentName: t.cell(row, ColStudentName),
			Department:  t.cell(row, ColDepartment),
			Subject:     t.cell(row, ColSubject),
			ExamDate:    t.cell(row, ColExamDate),
			ExamSession: t.cell(row, ColExamSession),
			RoomNo:      t.cell(row, ColRoomNo),
		}
		if err := validation.Struct(e); err != nil {
			return rowError(line, validation.FieldMessages(err))
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// parseWholeNumber accepts "30" as well as spreadsheet-style "30.0"
func parseWholeNumber(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
