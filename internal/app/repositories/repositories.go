package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/examseating/internal/app/models"
)

// SeatingRepository stores the uploaded tables and the latest allocation.
// Reads of data that was never stored return the matching apperrors
// sentinel (ErrRoomsMissing, ErrTimetableMissing, ErrAllocationMissing).
// An upload with zero rows still counts as stored.
type SeatingRepository interface {
	SaveRooms(ctx context.Context, rooms []models.Room) error
	Rooms(ctx context.Context) ([]models.Room, error)
	SaveTimetable(ctx context.Context, entries []models.TimetableEntry) error
	Timetable(ctx context.Context) ([]models.TimetableEntry, error)
	// SaveAllocation replaces the previous allocation
	SaveAllocation(ctx context.Context, allocation *models.Allocation) error
	LatestAllocation(ctx context.Context) (*models.Allocation, error)
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Repositories holds all the repository instances
type Repositories struct {
	SeatingRepository SeatingRepository
}

// NewRepositories initializes all repositories for the given storage driver.
// db is only used by the postgres driver.
func NewRepositories(driver string, db *pgxpool.Pool) (*Repositories, error) {
	switch driver {
	case DriverMemory, "":
		return &Repositories{SeatingRepository: NewMemoryRepository()}, nil
	case DriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres storage driver requires a database pool")
		}
		return &Repositories{SeatingRepository: NewPostgresRepository(db)}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
