package main

import (
	"context"
	"os"

	"github.com/yigit/empdesk/internal/pkg/logger"
	"github.com/yigit/empdesk/internal/server"
)

// @title Employee Directory API
// @version 1.0
// @description Administrator backend for managing employee records
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
