package main

import (
	"os"

	"github.com/yigit/examseating/internal/pkg/logger"
	"github.com/yigit/examseating/internal/server"
)

// Exam seating API: faculty upload a timetable and room list, generate a
// seating allocation and download room charts, hall tickets and workbooks.

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
