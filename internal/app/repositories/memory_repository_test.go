package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/apperrors"
)

func TestMemoryRepositoryMissingData(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Rooms(ctx)
	assert.ErrorIs(t, err, apperrors.ErrRoomsMissing)
	assert.ErrorIs(t, err, apperrors.ErrMissingInput)

	_, err = repo.Timetable(ctx)
	assert.ErrorIs(t, err, apperrors.ErrTimetableMissing)

	_, err = repo.LatestAllocation(ctx)
	assert.ErrorIs(t, err, apperrors.ErrAllocationMissing)
}

func TestMemoryRepositoryEmptyUploadCountsAsStored(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveRooms(ctx, nil))
	rooms, err := repo.Rooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	in := []models.Room{{RoomNo: "R1", Capacity: 2}}
	require.NoError(t, repo.SaveRooms(ctx, in))
	in[0].RoomNo = "changed"

	out, err := repo.Rooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, "R1", out[0].RoomNo)

	out[0].Capacity = 99
	again, err := repo.Rooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, again[0].Capacity)
}

func TestMemoryRepositoryAllocationIsReplaced(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := &models.Allocation{ID: uuid.New(), GeneratedAt: time.Now(), Assignments: []models.SeatAssignment{{RollNo: "A1", RoomNo: "R1", SeatNo: 1}}}
	second := &models.Allocation{ID: uuid.New(), GeneratedAt: time.Now()}

	require.NoError(t, repo.SaveAllocation(ctx, first))
	require.NoError(t, repo.SaveAllocation(ctx, second))

	latest, err := repo.LatestAllocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Empty(t, latest.Assignments)
}

func TestMemoryRepositoryConcurrentAccess(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = repo.SaveTimetable(ctx, []models.TimetableEntry{{RollNo: "A1"}})
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.Timetable(ctx)
		}()
	}
	wg.Wait()

	entries, err := repo.Timetable(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewRepositories(t *testing.T) {
	repos, err := NewRepositories(DriverMemory, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, repos.SeatingRepository)

	_, err = NewRepositories(DriverPostgres, nil)
	assert.Error(t, err)

	_, err = NewRepositories("sqlite", nil)
	assert.Error(t, err)
}
