package main

import (
	"crypto/tls"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/username/stockledger/src/config"
	"github.com/username/stockledger/src/database"
	"github.com/username/stockledger/src/handlers"
	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/processors"
	"github.com/username/stockledger/src/reports"
	"github.com/username/stockledger/src/security"
	"github.com/username/stockledger/src/services"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Stock ledger backend server starting...")

	if len(config.Cfg.JWTSecret) < config.MinJWTSecretLength {
		logger.L.Error("JWT_SECRET configuration invalid.", "minLength", config.MinJWTSecretLength)
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	defer database.DB.Close()
	if err := database.RunMigrations(database.DB); err != nil {
		logger.L.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	renderer, err := reports.NewRenderer()
	if err != nil {
		logger.L.Error("Failed to load report template", "error", err)
		os.Exit(1)
	}

	reportCache := services.NewReportCache(config.Cfg.ReportCacheTTL)
	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)

	reportService := services.NewReportService(database.DB, processors.NewReportProcessor(), reportCache)
	tradeService := services.NewTradeService(database.DB, processors.NewValuationProcessor(), reportService)
	portfolioService := services.NewPortfolioService(database.DB, reportService)

	router := handlers.NewRouter(handlers.RouterOptions{
		Users:                handlers.NewUserHandler(database.DB, authService, config.Cfg.RefreshTokenExpiry),
		Trades:               handlers.NewTradeHandler(tradeService, reportService, renderer),
		Portfolios:           handlers.NewPortfolioHandler(portfolioService),
		AllowedOrigins:       config.Cfg.AllowedOrigins,
		RateLimitPerSecond:   config.Cfg.RateLimitPerSecond,
		RateLimitBurst:       config.Cfg.RateLimitBurst,
		ReportDownloadPublic: config.Cfg.ReportDownloadPublic,
	})
	if config.Cfg.ReportDownloadPublic {
		logger.L.Warn("Report download is served without authentication", "path", "/api/trades/download_report")
	}

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      proxyHeadersMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
