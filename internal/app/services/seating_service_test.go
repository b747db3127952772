package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examseating/internal/app/repositories"
	"github.com/yigit/examseating/internal/pkg/apperrors"
	"github.com/yigit/examseating/internal/pkg/events"
	"github.com/yigit/examseating/internal/pkg/metrics"
)

const (
	roomsCSV     = "RoomNo,Capacity\nR1,2\nR2,1\n"
	timetableCSV = "RollNo,StudentName,Department,Subject,ExamDate,ExamSession,RoomNo\n" +
		"A1,Asha,CSE,Maths,2024-05-01,FN,\n" +
		"A2,Arun,CSE,Maths,2024-05-01,FN,\n" +
		"B1,Bala,ECE,Maths,2024-05-01,FN,\n"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.AllocationGeneratedEvent
	err    error
}

func (p *recordingPublisher) PublishAllocationGenerated(_ context.Context, ev events.AllocationGeneratedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newTestService(t *testing.T, opts SeatingOptions) (*SeatingService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewSeatingService(repositories.NewMemoryRepository(), pub, metrics.NewRecorder(), opts), pub
}

func upload(t *testing.T, s *SeatingService, rooms, timetable string) {
	t.Helper()
	ctx := context.Background()
	_, err := s.UploadRooms(ctx, "rooms.csv", strings.NewReader(rooms))
	require.NoError(t, err)
	_, err = s.UploadTimetable(ctx, "timetable.csv", strings.NewReader(timetable))
	require.NoError(t, err)
}

func TestGenerateAllocationRequiresUploads(t *testing.T) {
	s, _ := newTestService(t, SeatingOptions{Seed: 1})
	ctx := context.Background()

	_, err := s.GenerateAllocation(ctx)
	assert.ErrorIs(t, err, apperrors.ErrMissingInput)
	assert.Equal(t, "Please upload both timetable and rooms CSV first", apperrors.MessageOf(err))

	_, err = s.UploadRooms(ctx, "rooms.csv", strings.NewReader(roomsCSV))
	require.NoError(t, err)
	_, err = s.GenerateAllocation(ctx)
	assert.ErrorIs(t, err, ErrUploadsMissing)
}

func TestGenerateAllocationStoresAndPublishes(t *testing.T) {
	s, pub := newTestService(t, SeatingOptions{Seed: 42})
	upload(t, s, roomsCSV, timetableCSV)
	ctx := context.Background()

	allocation, err := s.GenerateAllocation(ctx)
	require.NoError(t, err)
	require.Len(t, allocation.Assignments, 3)
	assert.Empty(t, allocation.Unseated)

	latest, err := s.LatestAllocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, allocation.ID, latest.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, allocation.ID.String(), pub.events[0].AllocationID)
	assert.Equal(t, 3, pub.events[0].SeatedCount)
}

func TestGenerateAllocationIgnoresPublishFailure(t *testing.T) {
	s, pub := newTestService(t, SeatingOptions{Seed: 42})
	pub.err = errors.New("broker down")
	upload(t, s, roomsCSV, timetableCSV)

	_, err := s.GenerateAllocation(context.Background())
	assert.NoError(t, err)
}

func TestGenerateAllocationOverflow(t *testing.T) {
	small := "RoomNo,Capacity\nR1,2\n"

	t.Run("reported", func(t *testing.T) {
		s, pub := newTestService(t, SeatingOptions{Seed: 3})
		upload(t, s, small, timetableCSV)

		allocation, err := s.GenerateAllocation(context.Background())
		require.NoError(t, err)
		assert.Len(t, allocation.Assignments, 2)
		assert.Len(t, allocation.Unseated, 1)
		assert.Equal(t, 1, pub.events[0].UnseatedCount)
	})

	t.Run("rejected", func(t *testing.T) {
		s, pub := newTestService(t, SeatingOptions{Seed: 3, RejectOverflow: true})
		upload(t, s, small, timetableCSV)

		_, err := s.GenerateAllocation(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
		assert.Empty(t, pub.events)

		_, err = s.LatestAllocation(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrAllocationMissing)
	})
}

func TestGenerateAllocationEmptyTimetable(t *testing.T) {
	s, _ := newTestService(t, SeatingOptions{Seed: 1})
	upload(t, s, roomsCSV, "RollNo,StudentName,Department,Subject,ExamDate,ExamSession,RoomNo\n")

	_, err := s.GenerateAllocation(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNothingAllocated)
}

func TestGenerateAllocationFixedSeedRepeats(t *testing.T) {
	s, _ := newTestService(t, SeatingOptions{Seed: 77})
	upload(t, s, roomsCSV, timetableCSV)

	first, err := s.GenerateAllocation(context.Background())
	require.NoError(t, err)
	second, err := s.GenerateAllocation(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Assignments, second.Assignments)
}

func TestFindAssignment(t *testing.T) {
	s, _ := newTestService(t, SeatingOptions{Seed: 5})
	ctx := context.Background()

	_, err := s.FindAssignment(ctx, "A1")
	assert.ErrorIs(t, err, apperrors.ErrAllocationMissing)

	upload(t, s, roomsCSV, timetableCSV)
	_, err = s.GenerateAllocation(ctx)
	require.NoError(t, err)

	a, err := s.FindAssignment(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Bala", a.StudentName)
	assert.NotZero(t, a.SeatNo)

	_, err = s.FindAssignment(ctx, "Z9")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "No record found for Roll No Z9", apperrors.MessageOf(err))
}

func TestUploadRejectsInvalidFile(t *testing.T) {
	s, _ := newTestService(t, SeatingOptions{})

	_, err := s.UploadRooms(context.Background(), "rooms.csv", strings.NewReader("Room,Seats\nR1,3\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidUpload)
}

// stallingPublisher blocks its first publish until release is closed
type stallingPublisher struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *stallingPublisher) PublishAllocationGenerated(ctx context.Context, _ events.AllocationGeneratedEvent) error {
	first := false
	p.once.Do(func() { first = true })
	if !first {
		return nil
	}
	close(p.entered)
	select {
	case <-p.release:
	case <-ctx.Done():
	}
	return nil
}

func TestSlowPublishDoesNotBlockNextRun(t *testing.T) {
	pub := &stallingPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewSeatingService(repositories.NewMemoryRepository(), pub, metrics.NewRecorder(), SeatingOptions{Seed: 3})
	upload(t, s, roomsCSV, timetableCSV)

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.GenerateAllocation(context.Background())
		firstDone <- err
	}()
	<-pub.entered

	second := make(chan error, 1)
	go func() {
		_, err := s.GenerateAllocation(context.Background())
		second <- err
	}()

	select {
	case err := <-second:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("second run waited on the first run's publish")
	}

	close(pub.release)
	require.NoError(t, <-firstDone)
}
