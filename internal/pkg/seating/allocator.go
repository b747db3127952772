package seating

import (
	"math/rand/v2"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/apperrors"
)

// ErrMissingTables is returned when either input table is absent.
var ErrMissingTables = apperrors.NewCustomError(apperrors.ErrMissingInput, "Timetable or Rooms data not provided")

// GroupSummary describes how one exam group fared
type GroupSummary struct {
	ExamDate    string `json:"examDate"`
	ExamSession string `json:"examSession"`
	Students    int    `json:"students"`
	Seated      int    `json:"seated"`
	Capacity    int    `json:"capacity"`
}

// Result is the output of Allocate
type Result struct {
	Assignments []models.SeatAssignment
	// Unseated holds students left over once every room of their group was full.
	Unseated []models.TimetableEntry
	Groups   []GroupSummary
}

type groupKey struct {
	date    string
	session string
}

// NewRand returns the random source for one allocation run. A zero seed
// draws a fresh seed so every run differs; any other seed makes the run
// reproducible.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Allocate seats every exam group of the timetable into rooms.
//
// Groups are keyed by (ExamDate, ExamSession) and processed in first-seen
// order. Within a group the students are shuffled, run through
// SeparatePrefixes, and poured into the rooms in upload order, seat 1 up to
// the room's capacity. A RoomNo listed more than once is only filled from
// its first row. Each group starts again from the first room. Entries
// that do not fit are returned in Result.Unseated. A nil table is an error;
// an empty one is not.
func Allocate(entries []models.TimetableEntry, rooms []models.Room, rng Shuffler) (*Result, error) {
	if entries == nil || rooms == nil {
		return nil, ErrMissingTables
	}

	rooms = distinctRooms(rooms)
	totalCapacity := 0
	for _, r := range rooms {
		if r.Capacity > 0 {
			totalCapacity += r.Capacity
		}
	}

	var order []groupKey
	groups := make(map[groupKey][]models.TimetableEntry)
	for _, e := range entries {
		k := groupKey{date: e.ExamDate, session: e.ExamSession}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}

	res := &Result{}
	for _, k := range order {
		students := groups[k]
		rng.Shuffle(len(students), func(i, j int) { students[i], students[j] = students[j], students[i] })

		rolls := make([]string, len(students))
		queue := make(map[string][]models.TimetableEntry, len(students))
		for i, s := range students {
			rolls[i] = s.RollNo
			queue[s.RollNo] = append(queue[s.RollNo], s)
		}

		seatOrder := make([]models.TimetableEntry, 0, len(students))
		for _, roll := range SeparatePrefixes(rolls, rng) {
			seatOrder = append(seatOrder, queue[roll][0])
			queue[roll] = queue[roll][1:]
		}

		next := 0
	rooms:
		for _, room := range rooms {
			for seat := 1; seat <= room.Capacity; seat++ {
				if next >= len(seatOrder) {
					break rooms
				}
				s := seatOrder[next]
				res.Assignments = append(res.Assignments, models.SeatAssignment{
					RollNo:      s.RollNo,
					StudentName: s.StudentName,
					Department:  s.Department,
					Subject:     s.Subject,
					ExamDate:    s.ExamDate,
					ExamSession: s.ExamSession,
					RoomNo:      room.RoomNo,
					SeatNo:      seat,
				})
				next++
			}
		}
		res.Unseated = append(res.Unseated, seatOrder[next:]...)

		res.Groups = append(res.Groups, GroupSummary{
			ExamDate:    k.date,
			ExamSession: k.session,
			Students:    len(students),
			Seated:      next,
			Capacity:    totalCapacity,
		})
	}

	return res, nil
}

// distinctRooms drops every row whose RoomNo was already listed
func distinctRooms(rooms []models.Room) []models.Room {
	seen := make(map[string]bool, len(rooms))
	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if seen[r.RoomNo] {
			continue
		}
		seen[r.RoomNo] = true
		out = append(out, r)
	}
	return out
}
