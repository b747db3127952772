package seating

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/apperrors"
)

func entry(roll, date, session string) models.TimetableEntry {
	return models.TimetableEntry{
		RollNo:      roll,
		StudentName: "Student " + roll,
		Department:  "CSE",
		Subject:     "Maths",
		ExamDate:    date,
		ExamSession: session,
	}
}

func cohort(prefix string, n int, date, session string) []models.TimetableEntry {
	out := make([]models.TimetableEntry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, entry(fmt.Sprintf("21%s%03d", prefix, i), date, session))
	}
	return out
}

func TestAllocateSingleGroupTwoRooms(t *testing.T) {
	timetable := []models.TimetableEntry{
		entry("A1", "2024-05-01", "FN"),
		entry("A2", "2024-05-01", "FN"),
		entry("B1", "2024-05-01", "FN"),
	}
	rooms := []models.Room{{RoomNo: "R1", Capacity: 2}, {RoomNo: "R2", Capacity: 1}}

	res, err := Allocate(timetable, rooms, NewRand(1))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 3)
	assert.Empty(t, res.Unseated)

	assert.Equal(t, "R1", res.Assignments[0].RoomNo)
	assert.Equal(t, 1, res.Assignments[0].SeatNo)
	assert.Equal(t, "R1", res.Assignments[1].RoomNo)
	assert.Equal(t, 2, res.Assignments[1].SeatNo)
	assert.Equal(t, "R2", res.Assignments[2].RoomNo)
	assert.Equal(t, 1, res.Assignments[2].SeatNo)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, 3, res.Groups[0].Capacity)
	assert.Equal(t, 3, res.Groups[0].Seated)

	// round robin over {A, B}: the B student sits between or after the A students
	assert.NotEqual(t, Prefix(res.Assignments[0].RollNo), Prefix(res.Assignments[1].RollNo))
}

func TestAllocateGroupsStartFromFirstRoom(t *testing.T) {
	timetable := []models.TimetableEntry{
		entry("X1", "2024-05-01", "FN"),
		entry("Y1", "2024-05-01", "AN"),
	}
	rooms := []models.Room{{RoomNo: "R1", Capacity: 5}}

	res, err := Allocate(timetable, rooms, NewRand(3))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 2)

	for _, a := range res.Assignments {
		assert.Equal(t, "R1", a.RoomNo)
		assert.Equal(t, 1, a.SeatNo)
	}
	assert.Equal(t, "FN", res.Assignments[0].ExamSession)
	assert.Equal(t, "AN", res.Assignments[1].ExamSession)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, 1, res.Groups[0].Seated)
}

func TestAllocateSeatsAreUniqueAndWithinCapacity(t *testing.T) {
	var timetable []models.TimetableEntry
	timetable = append(timetable, cohort("CS", 25, "2024-05-01", "FN")...)
	timetable = append(timetable, cohort("EC", 10, "2024-05-01", "FN")...)
	timetable = append(timetable, cohort("ME", 5, "2024-05-01", "FN")...)
	rooms := []models.Room{{RoomNo: "101", Capacity: 15}, {RoomNo: "102", Capacity: 15}, {RoomNo: "103", Capacity: 15}}
	capacity := map[string]int{"101": 15, "102": 15, "103": 15}

	res, err := Allocate(timetable, rooms, NewRand(99))
	require.NoError(t, err)
	assert.Empty(t, res.Unseated)
	require.Len(t, res.Assignments, len(timetable))

	type seatKey struct {
		room string
		seat int
	}
	seats := map[seatKey]bool{}
	rolls := map[string]bool{}
	for _, a := range res.Assignments {
		k := seatKey{a.RoomNo, a.SeatNo}
		assert.False(t, seats[k], "seat %v assigned twice", k)
		seats[k] = true
		rolls[a.RollNo] = true
		assert.GreaterOrEqual(t, a.SeatNo, 1)
		assert.LessOrEqual(t, a.SeatNo, capacity[a.RoomNo])
	}
	for _, e := range timetable {
		assert.True(t, rolls[e.RollNo], "%s was not seated", e.RollNo)
	}
}

func TestAllocateReportsOverflow(t *testing.T) {
	timetable := cohort("CS", 7, "2024-05-01", "FN")
	rooms := []models.Room{{RoomNo: "R1", Capacity: 3}, {RoomNo: "R2", Capacity: 2}}

	res, err := Allocate(timetable, rooms, NewRand(5))
	require.NoError(t, err)
	assert.Len(t, res.Assignments, 5)
	assert.Len(t, res.Unseated, 2)
	assert.Equal(t, 5, res.Groups[0].Capacity)

	seen := map[string]bool{}
	for _, a := range res.Assignments {
		seen[a.RollNo] = true
	}
	for _, u := range res.Unseated {
		assert.False(t, seen[u.RollNo])
	}
}

func TestAllocateEqualCohortsAlternate(t *testing.T) {
	var timetable []models.TimetableEntry
	timetable = append(timetable, cohort("CS", 6, "2024-05-01", "FN")...)
	timetable = append(timetable, cohort("EC", 6, "2024-05-01", "FN")...)
	rooms := []models.Room{{RoomNo: "R1", Capacity: 12}}

	for seed := int64(1); seed <= 5; seed++ {
		res, err := Allocate(timetable, rooms, NewRand(seed))
		require.NoError(t, err)
		for i := 1; i < len(res.Assignments); i++ {
			assert.NotEqual(t, Prefix(res.Assignments[i-1].RollNo), Prefix(res.Assignments[i].RollNo))
		}
	}
}

func TestAllocateFixedSeedIsReproducible(t *testing.T) {
	timetable := append(cohort("CS", 8, "d", "s"), cohort("IT", 4, "d", "s")...)
	rooms := []models.Room{{RoomNo: "R1", Capacity: 6}, {RoomNo: "R2", Capacity: 6}}

	first, err := Allocate(append([]models.TimetableEntry(nil), timetable...), rooms, NewRand(2024))
	require.NoError(t, err)
	second, err := Allocate(append([]models.TimetableEntry(nil), timetable...), rooms, NewRand(2024))
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
}

func TestAllocateDuplicateRollsTakeTwoSeats(t *testing.T) {
	timetable := []models.TimetableEntry{entry("A1", "d", "s"), entry("A1", "d", "s")}
	rooms := []models.Room{{RoomNo: "R1", Capacity: 2}}

	res, err := Allocate(timetable, rooms, NewRand(1))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, 1, res.Assignments[0].SeatNo)
	assert.Equal(t, 2, res.Assignments[1].SeatNo)
}

func TestAllocateMissingTables(t *testing.T) {
	_, err := Allocate(nil, []models.Room{{RoomNo: "R1", Capacity: 1}}, NewRand(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingInput))

	_, err = Allocate([]models.TimetableEntry{}, nil, NewRand(1))
	assert.ErrorIs(t, err, apperrors.ErrMissingInput)
}

func TestAllocateEmptyTablesProduceNothing(t *testing.T) {
	res, err := Allocate([]models.TimetableEntry{}, []models.Room{}, NewRand(1))
	require.NoError(t, err)
	assert.Empty(t, res.Assignments)
	assert.Empty(t, res.Unseated)
}

func TestAllocateRepeatedRoomFilledOnce(t *testing.T) {
	timetable := cohort("CS", 10, "2024-05-01", "FN")
	rooms := []models.Room{{RoomNo: "R1", Capacity: 2}, {RoomNo: "R1", Capacity: 5}}

	res, err := Allocate(timetable, rooms, NewRand(5))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, a := range res.Assignments {
		key := fmt.Sprintf("%s#%d", a.RoomNo, a.SeatNo)
		assert.False(t, seen[key], "seat %s assigned twice", key)
		seen[key] = true
	}
	assert.Len(t, res.Assignments, 2)
	assert.Len(t, res.Unseated, 8)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, 2, res.Groups[0].Capacity)
}
