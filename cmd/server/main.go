package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/omri-harel/cost-ledger/internal/application/service"
	"github.com/omri-harel/cost-ledger/internal/config"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/api"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/db"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/handler"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/middleware"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	log.Info("Starting cost ledger server", map[string]interface{}{
		"store_backend": cfg.StoreBackend,
		"port":          cfg.Port,
	})

	store, err := db.OpenStore(cfg.StoreBackend, cfg.BadgerPath, cfg.SQLiteDBPath, nil)
	if err != nil {
		log.Fatal("Failed to open record store", map[string]interface{}{
			"backend": cfg.StoreBackend,
			"error":   err.Error(),
		})
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing record store", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wire the engine: store, rate source, services.
	ratesClient := api.NewRateSourceClient(nil)
	rateProvider := service.NewRateProvider(store, ratesClient, cfg.RatesAddress, log)
	expenseService := service.NewExpenseService(store, log)
	reportService := service.NewReportService(store, rateProvider, log)

	costHandler := handler.NewCostHandler(expenseService, log)
	settingsHandler := handler.NewSettingsHandler(store, log)
	reportHandler := handler.NewReportHandler(reportService, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))

	costHandler.RegisterRoutes(router)
	settingsHandler.RegisterRoutes(router)
	reportHandler.RegisterRoutes(router)

	addr := ":" + cfg.Port
	log.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
