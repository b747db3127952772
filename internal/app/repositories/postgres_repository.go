package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/apperrors"
	"github.com/yigit/examseating/internal/pkg/dberrors"
)

// Upload kinds tracked in the uploads table
const (
	uploadRooms     = "rooms"
	uploadTimetable = "timetable"
)

// PostgresRepository handles database operations for seating data
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new postgres-backed seating repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// withTx runs fn in a transaction, rolling back on any error
func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func markUploaded(ctx context.Context, tx pgx.Tx, kind string, rows int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO uploads (kind, row_count, uploaded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind) DO UPDATE SET row_count = EXCLUDED.row_count, uploaded_at = EXCLUDED.uploaded_at
	`, kind, rows, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record %s upload: %w", kind, err)
	}
	return nil
}

func (r *PostgresRepository) uploaded(ctx context.Context, kind string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM uploads WHERE kind = $1)`, kind).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s upload: %w", kind, err)
	}
	return exists, nil
}

// SaveRooms replaces the room inventory
func (r *PostgresRepository) SaveRooms(ctx context.Context, rooms []models.Room) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM rooms`); err != nil {
			return fmt.Errorf("error clearing rooms: %w", err)
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"rooms"},
			[]string{"position", "room_no", "capacity"},
			pgx.CopyFromSlice(len(rooms), func(i int) ([]any, error) {
				return []any{i, rooms[i].RoomNo, rooms[i].Capacity}, nil
			}),
		)
		if dberrors.IsCheckViolation(err, dberrors.RoomsCapacityCheck) {
			return apperrors.NewInvalidUploadError("Room capacity must be a positive whole number", nil)
		}
		if err != nil {
			return fmt.Errorf("error storing rooms: %w", err)
		}

		return markUploaded(ctx, tx, uploadRooms, len(rooms))
	})
}

// Rooms returns the room inventory in upload order
func (r *PostgresRepository) Rooms(ctx context.Context) ([]models.Room, error) {
	ok, err := r.uploaded(ctx, uploadRooms)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrRoomsMissing
	}

	rows, err := r.db.Query(ctx, `SELECT room_no, capacity FROM rooms ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.RoomNo, &room.Capacity); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}

// SaveTimetable replaces the timetable
func (r *PostgresRepository) SaveTimetable(ctx context.Context, entries []models.TimetableEntry) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM timetable_entries`); err != nil {
			return fmt.Errorf("error clearing timetable: %w", err)
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"timetable_entries"},
			[]string{"position", "roll_no", "student_name", "department", "subject", "exam_date", "exam_session", "room_no"},
			pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
				e := entries[i]
				return []any{i, e.RollNo, e.StudentName, e.Department, e.Subject, e.ExamDate, e.ExamSession, e.RoomNo}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("error storing timetable: %w", err)
		}

		return markUploaded(ctx, tx, uploadTimetable, len(entries))
	})
}

// Timetable returns the timetable in upload order
func (r *PostgresRepository) Timetable(ctx context.Context) ([]models.TimetableEntry, error) {
	ok, err := r.uploaded(ctx, uploadTimetable)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrTimetableMissing
	}

	rows, err := r.db.Query(ctx, `
		SELECT roll_no, student_name, department, subject, exam_date, exam_session, room_no
		FROM timetable_entries
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving timetable: %w", err)
	}
	defer rows.Close()

	entries := []models.TimetableEntry{}
	for rows.Next() {
		var e models.TimetableEntry
		if err := rows.Scan(
			&e.RollNo,
			&e.StudentName,
			&e.Department,
			&e.Subject,
			&e.ExamDate,
			&e.ExamSession,
			&e.RoomNo,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// SaveAllocation replaces the stored allocation. Seat rows cascade with it.
func (r *PostgresRepository) SaveAllocation(ctx context.Context, allocation *models.Allocation) error {
	unseated := allocation.Unseated
	if unseated == nil {
		unseated = []models.TimetableEntry{}
	}
	unseatedJSON, err := json.Marshal(unseated)
	if err != nil {
		return fmt.Errorf("failed to encode unseated students: %w", err)
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM allocations`); err != nil {
			return fmt.Errorf("error clearing allocations: %w", err)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO allocations (id, generated_at, unseated)
			VALUES ($1, $2, $3)
		`, allocation.ID, allocation.GeneratedAt, unseatedJSON)
		if err != nil {
			return fmt.Errorf("error storing allocation: %w", err)
		}

		seats := allocation.Assignments
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"seat_assignments"},
			[]string{"allocation_id", "position", "roll_no", "student_name", "department", "subject", "exam_date", "exam_session", "room_no", "seat_no"},
			pgx.CopyFromSlice(len(seats), func(i int) ([]any, error) {
				s := seats[i]
				return []any{allocation.ID, i, s.RollNo, s.StudentName, s.Department, s.Subject, s.ExamDate, s.ExamSession, s.RoomNo, s.SeatNo}, nil
			}),
		)
		if dberrors.IsCheckViolation(err, dberrors.SeatNoCheck) {
			return fmt.Errorf("seat numbers must start at 1: %w", err)
		}
		if err != nil {
			return fmt.Errorf("error storing seat assignments: %w", err)
		}
		return nil
	})
}

// LatestAllocation returns the stored allocation
func (r *PostgresRepository) LatestAllocation(ctx context.Context) (*models.Allocation, error) {
	var (
		allocation   models.Allocation
		unseatedJSON []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, generated_at, unseated
		FROM allocations
		ORDER BY generated_at DESC
		LIMIT 1
	`).Scan(&allocation.ID, &allocation.GeneratedAt, &unseatedJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAllocationMissing
		}
		return nil, fmt.Errorf("error retrieving allocation: %w", err)
	}

	if err := json.Unmarshal(unseatedJSON, &allocation.Unseated); err != nil {
		return nil, fmt.Errorf("failed to decode unseated students: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT roll_no, student_name, department, subject, exam_date, exam_session, room_no, seat_no
		FROM seat_assignments
		WHERE allocation_id = $1
		ORDER BY position
	`, allocation.ID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving seat assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.SeatAssignment
		if err := rows.Scan(
			&s.RollNo,
			&s.StudentName,
			&s.Department,
			&s.Subject,
			&s.ExamDate,
			&s.ExamSession,
			&s.RoomNo,
			&s.SeatNo,
		); err != nil {
			return nil, err
		}
		allocation.Assignments = append(allocation.Assignments, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &allocation, nil
}
