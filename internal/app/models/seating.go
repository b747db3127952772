package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is one row of the uploaded room inventory
type Room struct {
	RoomNo   string `json:"roomNo" db:"room_no" validate:"required"`
	Capacity int    `json:"capacity" db:"capacity" validate:"gt=0"`
}

// TimetableEntry is one row of the uploaded exam timetable. RoomNo is carried
// through from the upload but ignored by the allocator.
type TimetableEntry struct {
	RollNo      string `json:"rollNo" db:"roll_no" validate:"required"`
	StudentName string `json:"studentName" db:"student_name"`
	Department  string `json:"department" db:"department"`
	Subject     string `json:"subject" db:"subject"`
	ExamDate    string `json:"examDate" db:"exam_date"`
	ExamSession string `json:"examSession" db:"exam_session"`
	RoomNo      string `json:"roomNo" db:"room_no"`
}

// SeatAssignment places one student on one seat of one room
type SeatAssignment struct {
	RollNo      string `json:"rollNo" db:"roll_no"`
	StudentName string `json:"studentName" db:"student_name"`
	Department  string `json:"department" db:"department"`
	Subject     string `json:"subject" db:"subject"`
	ExamDate    string `json:"examDate" db:"exam_date"`
	ExamSession string `json:"examSession" db:"exam_session"`
	RoomNo      string `json:"roomNo" db:"room_no"`
	SeatNo      int    `json:"seatNo" db:"seat_no"`
}

// ExamMeta is the date/session pair printed on seating chart headers
type ExamMeta struct {
	ExamDate    string `json:"examDate"`
	ExamSession string `json:"examSession"`
}

// Allocation is the outcome of one allocator run. It is replaced wholesale
// by the next run and never edited in place.
type Allocation struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	GeneratedAt time.Time        `json:"generatedAt" db:"generated_at"`
	Assignments []SeatAssignment `json:"assignments"`
	Unseated    []TimetableEntry `json:"unseated"`
}

// Meta returns the exam date/session of the first assignment; the zero value
// when the allocation is empty.
func (a *Allocation) Meta() ExamMeta {
	if a == nil || len(a.Assignments) == 0 {
		return ExamMeta{}
	}
	first := a.Assignments[0]
	return ExamMeta{ExamDate: first.ExamDate, ExamSession: first.ExamSession}
}

// FindByRollNo returns the first assignment for rollNo
func (a *Allocation) FindByRollNo(rollNo string) (SeatAssignment, bool) {
	if a == nil {
		return SeatAssignment{}, false
	}
	for _, s := range a.Assignments {
		if s.RollNo == rollNo {
			return s, true
		}
	}
	return SeatAssignment{}, false
}
