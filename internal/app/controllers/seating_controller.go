package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/app/models/dto"
	"github.com/yigit/examseating/internal/app/services"
	"github.com/yigit/examseating/internal/middleware"
	"github.com/yigit/examseating/internal/pkg/documents"
)

// HeaderUnseatedCount reports students left without a seat by the last run
const HeaderUnseatedCount = "X-Unseated-Count"

// SeatingController serves allocations and the documents rendered from them
type SeatingController struct {
	seatingService  *services.SeatingService
	documentService *services.DocumentService
	logger          zerolog.Logger
}

// NewSeatingController creates a new SeatingController
func NewSeatingController(seatingService *services.SeatingService, documentService *services.DocumentService, logger zerolog.Logger) *SeatingController {
	return &SeatingController{
		seatingService:  seatingService,
		documentService: documentService,
		logger:          logger,
	}
}

// GenerateRoomSeatingPDF runs a fresh allocation and returns its seating chart
// @Summary Generate room seating
// @Description Runs the allocator over the uploaded tables, stores the result and returns one PDF page per room
// @Tags seating
// @Produce application/pdf
// @Success 200 {file} file "RoomSeating.pdf"
// @Failure 400 {object} dto.ErrorResponse "Uploads missing"
// @Failure 422 {object} dto.ErrorResponse "Capacity exceeded"
// @Router /generate_room_seating_pdf [get]
func (c *SeatingController) GenerateRoomSeatingPDF(ctx *gin.Context) {
	allocation, err := c.seatingService.GenerateAllocation(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pdf, err := c.documentService.RoomSeatingPDF(allocation)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	setUnseatedHeader(ctx, allocation)
	sendDocument(ctx, documents.RoomSeatingFilename, documents.ContentTypePDF, pdf, true)
}

// GenerateHallTicket returns the hall ticket of one roll number
// @Summary Hall ticket
// @Tags seating
// @Produce application/pdf
// @Param roll_no path string true "Roll number"
// @Success 200 {file} file "hall_ticket_<roll>.pdf"
// @Failure 400 {object} dto.ErrorResponse "Seating not generated yet"
// @Failure 404 {object} dto.ErrorResponse "No record found"
// @Router /generate_hall_ticket/{roll_no} [get]
func (c *SeatingController) GenerateHallTicket(ctx *gin.Context) {
	rollNo := ctx.Param("roll_no")

	assignment, err := c.seatingService.FindAssignment(ctx.Request.Context(), rollNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pdf, err := c.documentService.HallTicketPDF(assignment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	sendDocument(ctx, documents.HallTicketFilename(assignment.RollNo), documents.ContentTypePDF, pdf, false)
}

// DownloadAllHallTickets returns every hall ticket of the latest allocation
// as one ZIP archive
// @Summary All hall tickets
// @Tags seating
// @Produce application/zip
// @Success 200 {file} file "all_hall_tickets.zip"
// @Failure 400 {object} dto.ErrorResponse "Seating not generated yet"
// @Router /download_all_halltickets [get]
func (c *SeatingController) DownloadAllHallTickets(ctx *gin.Context) {
	allocation, err := c.seatingService.LatestAllocation(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	archive, err := c.documentService.HallTicketsZIP(ctx.Request.Context(), allocation)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int("tickets", len(allocation.Assignments)).Msg("Hall tickets archive generated")
	sendDocument(ctx, documents.HallTicketsZIPName, documents.ContentTypeZIP, archive, true)
}

// GetAllocation returns the latest allocation as JSON
// @Summary Latest allocation
// @Tags seating
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AllocationResponse}
// @Failure 400 {object} dto.ErrorResponse "Seating not generated yet"
// @Router /allocation [get]
func (c *SeatingController) GetAllocation(ctx *gin.Context) {
	allocation, err := c.seatingService.LatestAllocation(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	setUnseatedHeader(ctx, allocation)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAllocationResponse(allocation), ""))
}

// DownloadAllocationXLSX exports the latest allocation as a workbook
func (c *SeatingController) DownloadAllocationXLSX(ctx *gin.Context) {
	allocation, err := c.seatingService.LatestAllocation(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	book, err := c.documentService.AllocationWorkbook(allocation)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	sendDocument(ctx, documents.AllocationXLSXName, documents.ContentTypeSpreadsheet, book, true)
}

func setUnseatedHeader(ctx *gin.Context, allocation *models.Allocation) {
	if n := len(allocation.Unseated); n > 0 {
		ctx.Header(HeaderUnseatedCount, strconv.Itoa(n))
	}
}

func sendDocument(ctx *gin.Context, filename, contentType string, data []byte, attachment bool) {
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	ctx.Data(http.StatusOK, contentType, data)
}
