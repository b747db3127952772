package services

import (
	"context"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/apperrors"
	"github.com/yigit/examseating/internal/pkg/documents"
	"github.com/yigit/examseating/internal/pkg/metrics"
)

// DocumentService renders allocations
type DocumentService struct {
	metrics *metrics.Recorder
}

// NewDocumentService creates a new document service instance
func NewDocumentService(recorder *metrics.Recorder) *DocumentService {
	return &DocumentService{metrics: recorder}
}

// RoomSeatingPDF renders the seating chart of every room in allocation
func (s *DocumentService) RoomSeatingPDF(allocation *models.Allocation) ([]byte, error) {
	if allocation == nil {
		return nil, apperrors.ErrAllocationMissing
	}
	pdf, err := documents.RoomSeatingPDF(allocation.Assignments, allocation.Meta())
	if err != nil {
		return nil, err
	}
	s.metrics.DocumentGenerated(metrics.KindRoomSeating)
	return pdf, nil
}

// HallTicketPDF renders the hall ticket of one student
func (s *DocumentService) HallTicketPDF(assignment models.SeatAssignment) ([]byte, error) {
	pdf, err := documents.HallTicketPDF(assignment)
	if err != nil {
		return nil, err
	}
	s.metrics.DocumentGenerated(metrics.KindHallTicket)
	return pdf, nil
}

// HallTicketsZIP renders every hall ticket of allocation into one archive
func (s *DocumentService) HallTicketsZIP(ctx context.Context, allocation *models.Allocation) ([]byte, error) {
	if allocation == nil {
		return nil, apperrors.ErrAllocationMissing
	}
	archive, err := documents.HallTicketsZIP(ctx, allocation.Assignments)
	if err != nil {
		return nil, err
	}
	s.metrics.DocumentGenerated(metrics.KindHallTickets)
	return archive, nil
}

// AllocationWorkbook exports allocation as XLSX
func (s *DocumentService) AllocationWorkbook(allocation *models.Allocation) ([]byte, error) {
	if allocation == nil {
		return nil, apperrors.ErrAllocationMissing
	}
	book, err := documents.AllocationWorkbook(allocation.Assignments)
	if err != nil {
		return nil, err
	}
	s.metrics.DocumentGenerated(metrics.KindWorkbook)
	return book, nil
}
