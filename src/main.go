package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/financial-scores/src/api"
	"github.com/jiaming2012/financial-scores/src/data"
	"github.com/jiaming2012/financial-scores/src/dbutils"
	"github.com/jiaming2012/financial-scores/src/services"
	"github.com/jiaming2012/financial-scores/src/sheets"
	"github.com/jiaming2012/financial-scores/src/utils"
)

const appName = "Financial Score API"
const appVersion = "2.0.0"

func main() {
	ctx := context.Background()

	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Fatalf("failed to initialize environment variables: %v", err)
	}

	utils.InitLogger()

	// telemetry is opt-in, keyed off the standard OTLP endpoint variable
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdownTelemetry, err := utils.SetupOTelSDK(ctx, "financial-scores")
		if err != nil {
			log.Fatalf("failed to set up telemetry: %v", err)
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				log.Errorf("failed to shut down telemetry: %v", err)
			}
		}()
	}

	// setup database
	databaseUrl, err := utils.GetEnv("DATABASE_URL")
	if err != nil {
		log.Fatalf("$DATABASE_URL not set: %v", err)
	}

	db, err := dbutils.InitPostgresWithUrl(databaseUrl)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Info("database tables migrated")

	// setup google sheets
	sheetsClient, err := sheets.NewClientFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to initialize google sheets: %v", err)
	}

	// setup services
	store := data.NewStore(db)
	zscoreService := services.NewZScoreService(sheetsClient, store)
	fscoreService := services.NewFScoreService(sheetsClient, store)

	// setup router
	router := mux.NewRouter()
	handler := api.NewHandler(zscoreService, fscoreService, store, appName, appVersion)
	api.SetupHandler(router, handler)

	host := utils.GetEnvWithDefault("HOST", "0.0.0.0")
	port := utils.GetEnvWithDefault("PORT", "8000")

	// start the http server
	srv := &http.Server{
		Handler: otelhttp.NewHandler(router, "http.server"),
		Addr:    fmt.Sprintf("%s:%s", host, port),
	}

	go func() {
		log.Infof("%s v%s listening on %s:%s", appName, appVersion, host, port)
		if err := srv.ListenAndServe(); err != nil {
			if err.Error() != "http: Server closed" {
				log.Fatalf("http: failed to listen and serve: %v", err)
			}
		}
	}()

	// Create channel for shutdown signals.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	<-stop
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down server %s", err)
	} else {
		log.Println("Server gracefully stopped")
	}
}
