package dto

import (
	"time"

	"github.com/yigit/examseating/internal/app/models"
)

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email string `json:"email" form:"email"`
}

// LoginResponse echoes the identity stored in the session
type LoginResponse struct {
	Email string          `json:"email"`
	Role  models.RoleType `json:"role"`
}

// UploadResponse reports how many rows an upload stored
type UploadResponse struct {
	Rows int `json:"rows"`
}

// AllocationResponse is the JSON view of the latest allocation
type AllocationResponse struct {
	ID            string                  `json:"id"`
	GeneratedAt   time.Time               `json:"generatedAt"`
	ExamDate      string                  `json:"examDate"`
	ExamSession   string                  `json:"examSession"`
	SeatedCount   int                     `json:"seatedCount"`
	UnseatedCount int                     `json:"unseatedCount"`
	Assignments   []models.SeatAssignment `json:"assignments"`
	Unseated      []models.TimetableEntry `json:"unseated"`
}

// NewAllocationResponse converts an allocation into its response form
func NewAllocationResponse(a *models.Allocation) *AllocationResponse {
	if a == nil {
		return nil
	}
	meta := a.Meta()

	resp := &AllocationResponse{
		ID:            a.ID.String(),
		GeneratedAt:   a.GeneratedAt,
		ExamDate:      meta.ExamDate,
		ExamSession:   meta.ExamSession,
		SeatedCount:   len(a.Assignments),
		UnseatedCount: len(a.Unseated),
		Assignments:   a.Assignments,
		Unseated:      a.Unseated,
	}
	if resp.Assignments == nil {
		resp.Assignments = []models.SeatAssignment{}
	}
	if resp.Unseated == nil {
		resp.Unseated = []models.TimetableEntry{}
	}
	return resp
}
