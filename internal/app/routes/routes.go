package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/examseating/internal/app/controllers"
	"github.com/yigit/examseating/internal/middleware"
)

// Options toggles optional route behaviour
type Options struct {
	// ProtectBulkDownload puts /download_all_halltickets behind the faculty
	// session like every other document route.
	ProtectBulkDownload bool
	// Metrics serves /metrics when set
	Metrics http.Handler
	// RateLimit guards login and allocation runs when set
	RateLimit gin.HandlerFunc
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	uploadController *controllers.UploadController,
	seatingController *controllers.SeatingController,
	opts Options,
) {
	// --- Public routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	limit := opts.RateLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	router.POST("/login", limit, authController.Login)

	router.GET("/download_all_halltickets",
		middleware.FacultyRequiredIf(opts.ProtectBulkDownload),
		seatingController.DownloadAllHallTickets,
	)

	// --- Faculty routes ---
	faculty := router.Group("")
	faculty.Use(middleware.FacultyRequired())
	{
		faculty.POST("/upload_rooms", uploadController.UploadRooms)
		faculty.POST("/upload_timetable", uploadController.UploadTimetable)

		faculty.GET("/generate_room_seating_pdf", limit, seatingController.GenerateRoomSeatingPDF)
		faculty.GET("/generate_hall_ticket/:roll_no", seatingController.GenerateHallTicket)
		faculty.GET("/allocation", seatingController.GetAllocation)
		faculty.GET("/download_allocation_xlsx", seatingController.DownloadAllocationXLSX)

		faculty.POST("/logout", authController.Logout)
	}
}
