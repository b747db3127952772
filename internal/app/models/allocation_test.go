package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocationMetaAndLookup(t *testing.T) {
	var empty *Allocation
	assert.Equal(t, ExamMeta{}, empty.Meta())
	_, ok := empty.FindByRollNo("A1")
	assert.False(t, ok)

	alloc := &Allocation{Assignments: []SeatAssignment{
		{RollNo: "A1", ExamDate: "2025-05-01", ExamSession: "FN", RoomNo: "R1", SeatNo: 1},
		{RollNo: "B1", ExamDate: "2025-05-02", ExamSession: "AN", RoomNo: "R1", SeatNo: 2},
	}}

	assert.Equal(t, ExamMeta{ExamDate: "2025-05-01", ExamSession: "FN"}, alloc.Meta())

	got, ok := alloc.FindByRollNo("B1")
	assert.True(t, ok)
	assert.Equal(t, 2, got.SeatNo)

	_, ok = alloc.FindByRollNo("C9")
	assert.False(t, ok)
}
