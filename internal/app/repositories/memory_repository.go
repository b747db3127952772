package repositories

import (
	"context"
	"sync"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/apperrors"
)

// MemoryRepository keeps everything in process memory. Values are copied on
// the way in and out so callers never share slices with the store.
type MemoryRepository struct {
	mu         sync.RWMutex
	rooms      []models.Room
	timetable  []models.TimetableEntry
	allocation *models.Allocation
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SaveRooms replaces the room inventory
func (r *MemoryRepository) SaveRooms(_ context.Context, rooms []models.Room) error {
	cp := make([]models.Room, len(rooms))
	copy(cp, rooms)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = cp
	return nil
}

// Rooms returns the room inventory in upload order
func (r *MemoryRepository) Rooms(_ context.Context) ([]models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.rooms == nil {
		return nil, apperrors.ErrRoomsMissing
	}
	cp := make([]models.Room, len(r.rooms))
	copy(cp, r.rooms)
	return cp, nil
}

// SaveTimetable replaces the timetable
func (r *MemoryRepository) SaveTimetable(_ context.Context, entries []models.TimetableEntry) error {
	cp := make([]models.TimetableEntry, len(entries))
	copy(cp, entries)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.timetable = cp
	return nil
}

// Timetable returns the timetable in upload order
func (r *MemoryRepository) Timetable(_ context.Context) ([]models.TimetableEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.timetable == nil {
		return nil, apperrors.ErrTimetableMissing
	}
	cp := make([]models.TimetableEntry, len(r.timetable))
	copy(cp, r.timetable)
	return cp, nil
}

// SaveAllocation replaces the latest allocation
func (r *MemoryRepository) SaveAllocation(_ context.Context, allocation *models.Allocation) error {
	cp := cloneAllocation(allocation)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocation = cp
	return nil
}

// LatestAllocation returns the most recently saved allocation
func (r *MemoryRepository) LatestAllocation(_ context.Context) (*models.Allocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.allocation == nil {
		return nil, apperrors.ErrAllocationMissing
	}
	return cloneAllocation(r.allocation), nil
}

func cloneAllocation(a *models.Allocation) *models.Allocation {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Assignments = append([]models.SeatAssignment(nil), a.Assignments...)
	cp.Unseated = append([]models.TimetableEntry(nil), a.Unseated...)
	return &cp
}
