package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/college-budget/backend/internal/config"
	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title			College Budget Backend
// @description	The backend for the college budget management system, an allocation and expenditure approval ledger.
// @securityDefinitions.apikey	BearerAuth
// @in				header
// @name			Authorization
func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	dsn := cfg.DB.DSN
	if dsn == "" {
		// Default to a local sqlite database
		dataDir := filepath.Join(".", "data")
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			log.Fatal().Msg(err.Error())
		}

		dsn = filepath.Join(dataDir, "cbms.db")
	}

	if err := models.Connect(dsn); err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(*cfg)
	defer teardown()

	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := r.Run(fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
