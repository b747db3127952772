package services

// Services defined in this package:
// - SeatingService: stores uploads, runs the allocator and keeps the latest allocation
// - DocumentService: renders allocations as PDFs, archives and workbooks

import (
	"github.com/yigit/examseating/internal/app/repositories"
	"github.com/yigit/examseating/internal/pkg/events"
	"github.com/yigit/examseating/internal/pkg/metrics"
)

// Services holds all the service instances
type Services struct {
	SeatingService  *SeatingService
	DocumentService *DocumentService
}

// NewServices wires every service on top of the repositories
func NewServices(repos *repositories.Repositories, publisher events.Publisher, recorder *metrics.Recorder, opts SeatingOptions) *Services {
	return &Services{
		SeatingService:  NewSeatingService(repos.SeatingRepository, publisher, recorder, opts),
		DocumentService: NewDocumentService(recorder),
	}
}
