package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/examseating/internal/app/models/dto"
	"github.com/yigit/examseating/internal/app/services"
	"github.com/yigit/examseating/internal/middleware"
	"github.com/yigit/examseating/internal/pkg/apperrors"
)

const uploadField = "file"

// UploadController accepts the room and timetable files
type UploadController struct {
	seatingService *services.SeatingService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewUploadController creates a new UploadController. maxUploadBytes <= 0
// disables the size limit.
func NewUploadController(seatingService *services.SeatingService, maxUploadBytes int64, logger zerolog.Logger) *UploadController {
	return &UploadController{
		seatingService: seatingService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type uploadFunc func(ctx context.Context, filename string, r io.Reader) (int, error)

// UploadRooms stores the room inventory
// @Summary Upload rooms
// @Description Multipart upload of a CSV or XLSX file with RoomNo and Capacity columns
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Room inventory"
// @Success 200 {object} dto.APIResponse{data=dto.UploadResponse} "Rooms uploaded successfully"
// @Failure 400 {object} dto.ErrorResponse "File missing or invalid"
// @Router /upload_rooms [post]
func (c *UploadController) UploadRooms(ctx *gin.Context) {
	c.handleUpload(ctx, "rooms.csv file required", "Rooms uploaded successfully", c.seatingService.UploadRooms)
}

// UploadTimetable stores the exam timetable
// @Summary Upload timetable
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Exam timetable"
// @Success 200 {object} dto.APIResponse{data=dto.UploadResponse} "Timetable uploaded successfully"
// @Failure 400 {object} dto.ErrorResponse "File missing or invalid"
// @Router /upload_timetable [post]
func (c *UploadController) UploadTimetable(ctx *gin.Context) {
	c.handleUpload(ctx, "timetable.csv file required", "Timetable uploaded successfully", c.seatingService.UploadTimetable)
}

func (c *UploadController) handleUpload(ctx *gin.Context, missingMsg, okMsg string, store uploadFunc) {
	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	header, err := ctx.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleAPIError(ctx, apperrors.NewInvalidUploadError("file too large", map[string]interface{}{
				"limitBytes": tooLarge.Limit,
			}))
			return
		}
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrMissingInput, missingMsg))
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	rows, err := store(ctx.Request.Context(), header.Filename, file)
	if err != nil {
		c.logger.Warn().Err(err).Str("file", header.Filename).Msg("Upload rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UploadResponse{Rows: rows}, okMsg))
}
