package main

import (
	"fmt"
	"os"

	"github.com/nurpe/marketplace-ledger/internal/auth"
	"github.com/nurpe/marketplace-ledger/internal/config"
	"github.com/nurpe/marketplace-ledger/internal/db"
	"github.com/nurpe/marketplace-ledger/internal/excel"
	httphandler "github.com/nurpe/marketplace-ledger/internal/http"
	"github.com/nurpe/marketplace-ledger/internal/http/middleware"
	"github.com/nurpe/marketplace-ledger/internal/logger"
	"github.com/nurpe/marketplace-ledger/internal/pdf"
	"github.com/nurpe/marketplace-ledger/internal/repository"
	"github.com/nurpe/marketplace-ledger/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	if cfg.DB.Seed {
		if err := db.Seed(database); err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	ledgerRepo := repository.NewLedgerRepository(database)

	accessService := service.NewAccessService(ledgerRepo)
	transferService := service.NewTransferService(ledgerRepo)
	reportService := service.NewReportService(ledgerRepo, excel.NewGenerator(), pdf.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(accessService, transferService, reportService, log)
	profileMiddleware := middleware.Profile(tokenParser, ledgerRepo)
	router := httphandler.NewRouter(handler, profileMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting ledger service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
