package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/app/repositories"
	"github.com/yigit/examseating/internal/pkg/apperrors"
	"github.com/yigit/examseating/internal/pkg/events"
	"github.com/yigit/examseating/internal/pkg/logger"
	"github.com/yigit/examseating/internal/pkg/metrics"
	"github.com/yigit/examseating/internal/pkg/seating"
	"github.com/yigit/examseating/internal/pkg/sheets"
)

const publishTimeout = 5 * time.Second

// ErrUploadsMissing is returned when an allocation is requested before both
// tables were uploaded
var ErrUploadsMissing = apperrors.NewCustomError(apperrors.ErrMissingInput, "Please upload both timetable and rooms CSV first")

// SeatingOptions tune allocation runs
type SeatingOptions struct {
	// Seed fixes the random source; zero means a fresh seed per run.
	Seed int64
	// RejectOverflow fails a run that leaves any student without a seat
	// instead of storing it.
	RejectOverflow bool
}

// SeatingService handles uploads and allocation runs
type SeatingService struct {
	repo      repositories.SeatingRepository
	publisher events.Publisher
	metrics   *metrics.Recorder
	opts      SeatingOptions

	// generateMu serializes allocation runs so the stored allocation always
	// matches a single consistent read of both tables.
	generateMu sync.Mutex
	now        func() time.Time
}

// NewSeatingService creates a new seating service instance
func NewSeatingService(repo repositories.SeatingRepository, publisher events.Publisher, recorder *metrics.Recorder, opts SeatingOptions) *SeatingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &SeatingService{
		repo:      repo,
		publisher: publisher,
		metrics:   recorder,
		opts:      opts,
		now:       time.Now,
	}
}

// UploadRooms parses and stores a room inventory, returning the row count
func (s *SeatingService) UploadRooms(ctx context.Context, filename string, r io.Reader) (int, error) {
	rooms, err := sheets.ParseRooms(filename, r)
	if err != nil {
		return 0, err
	}
	if err := s.repo.SaveRooms(ctx, rooms); err != nil {
		return 0, fmt.Errorf("error storing rooms: %w", err)
	}

	s.metrics.Uploaded("rooms")
	logger.Info().Str("file", filename).Int("rooms", len(rooms)).Msg("Rooms uploaded")
	return len(rooms), nil
}

// UploadTimetable parses and stores an exam timetable, returning the row count
func (s *SeatingService) UploadTimetable(ctx context.Context, filename string, r io.Reader) (int, error) {
	entries, err := sheets.ParseTimetable(filename, r)
	if err != nil {
		return 0, err
	}
	if err := s.repo.SaveTimetable(ctx, entries); err != nil {
		return 0, fmt.Errorf("error storing timetable: %w", err)
	}

	s.metrics.Uploaded("timetable")
	logger.Info().Str("file", filename).Int("entries", len(entries)).Msg("Timetable uploaded")
	return len(entries), nil
}

// GenerateAllocation runs the allocator over the stored tables and stores
// the result as the latest allocation. The event is published once the run
// has released the generation lock.
func (s *SeatingService) GenerateAllocation(ctx context.Context) (*models.Allocation, error) {
	allocation, err := s.generate(ctx)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, allocation)
	return allocation, nil
}

func (s *SeatingService) generate(ctx context.Context) (*models.Allocation, error) {
	s.generateMu.Lock()
	defer s.generateMu.Unlock()

	rooms, err := s.repo.Rooms(ctx)
	if err != nil {
		return nil, missingUploads(err)
	}
	timetable, err := s.repo.Timetable(ctx)
	if err != nil {
		return nil, missingUploads(err)
	}

	start := time.Now()
	res, err := seating.Allocate(timetable, rooms, seating.NewRand(s.opts.Seed))
	if err != nil {
		return nil, err
	}
	took := time.Since(start)

	if len(res.Unseated) > 0 && s.opts.RejectOverflow {
		s.metrics.ObserveAllocation("rejected", len(res.Assignments), len(res.Unseated), took)
		logger.Warn().Int("unseated", len(res.Unseated)).Msg("Allocation rejected, rooms too small")
		return nil, apperrors.NewCustomError(
			apperrors.ErrCapacityExceeded,
			fmt.Sprintf("%d students could not be seated, add rooms or capacity", len(res.Unseated)),
		).WithDetails(map[string]interface{}{"groups": res.Groups})
	}

	if len(res.Assignments) == 0 {
		return nil, apperrors.ErrNothingAllocated
	}

	allocation := &models.Allocation{
		ID:          uuid.New(),
		GeneratedAt: s.now(),
		Assignments: res.Assignments,
		Unseated:    res.Unseated,
	}
	if err := s.repo.SaveAllocation(ctx, allocation); err != nil {
		return nil, fmt.Errorf("error storing allocation: %w", err)
	}
	s.metrics.ObserveAllocation("stored", len(res.Assignments), len(res.Unseated), took)

	event := logger.Info()
	if len(res.Unseated) > 0 {
		event = logger.Warn()
	}
	event.Str("allocationID", allocation.ID.String()).
		Int("seated", len(allocation.Assignments)).
		Int("unseated", len(allocation.Unseated)).
		Int("groups", len(res.Groups)).
		Dur("took", took).
		Msg("Allocation generated")

	return allocation, nil
}

// publish announces a stored allocation. Broker failures are logged only.
func (s *SeatingService) publish(ctx context.Context, allocation *models.Allocation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishAllocationGenerated(ctx, events.NewAllocationGeneratedEvent(allocation)); err != nil {
		logger.Warn().Err(err).Str("allocationID", allocation.ID.String()).Msg("Failed to publish allocation event")
	}
}

// LatestAllocation returns the stored allocation
func (s *SeatingService) LatestAllocation(ctx context.Context) (*models.Allocation, error) {
	allocation, err := s.repo.LatestAllocation(ctx)
	if err != nil {
		return nil, err
	}
	if len(allocation.Assignments) == 0 {
		return nil, apperrors.ErrAllocationMissing
	}
	return allocation, nil
}

// FindAssignment returns the seat of rollNo in the latest allocation
func (s *SeatingService) FindAssignment(ctx context.Context, rollNo string) (models.SeatAssignment, error) {
	allocation, err := s.LatestAllocation(ctx)
	if err != nil {
		return models.SeatAssignment{}, err
	}

	assignment, ok := allocation.FindByRollNo(rollNo)
	if !ok {
		return models.SeatAssignment{}, apperrors.NewResourceNotFoundError(fmt.Sprintf("No record found for Roll No %s", rollNo))
	}
	return assignment, nil
}

func missingUploads(err error) error {
	if errors.Is(err, apperrors.ErrMissingInput) {
		return ErrUploadsMissing
	}
	return err
}
