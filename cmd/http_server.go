package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/talentbridge/portal/internal"
	"github.com/talentbridge/portal/internal/access"
	"github.com/talentbridge/portal/internal/account"
	"github.com/talentbridge/portal/internal/core/events"
	"github.com/talentbridge/portal/internal/recruitment"
	"github.com/talentbridge/portal/internal/reports"
	"github.com/talentbridge/portal/internal/session"
	"github.com/talentbridge/portal/internal/storage"
	storagepostgres "github.com/talentbridge/portal/internal/storage/postgres"
	"github.com/talentbridge/portal/internal/transport/rest"
	"github.com/talentbridge/portal/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle portal API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithLevel(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	sealer, err := session.NewSealer(config.Security.SealingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build record sealer: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)
	events.RegisterAuditSubscriber(eventBus, appLogger)

	durable := storagepostgres.NewRecordTier(gormDB)
	ephemeral := storage.NewMemoryTier()

	sessionManager := session.NewManager(
		durable, ephemeral, sealer,
		config.Security.SessionSecret,
		config.Security.SessionTTL,
		eventBus, appLogger,
	)

	recruitmentClient := recruitment.NewClient(recruitment.Config{
		BaseURL: config.Upstream.BaseURL,
		Timeout: config.Upstream.Timeout,
	}, appLogger)

	reportsService := reports.NewService(recruitmentClient, appLogger)
	flowRegistry := access.NewRegistry(recruitmentClient, reportsService, config.Security.OTPSendPerMinute, eventBus, appLogger)

	accountService := account.NewService(recruitmentClient, appLogger)
	accountHandler := account.NewHandler(accountService, sessionManager, flowRegistry)
	accessHandler := access.NewHandler(flowRegistry)
	reportsHandler := reports.NewHandler(reportsService)

	router := chi.NewRouter()
	otpSendLimit := rate.Every(time.Minute / time.Duration(max(config.Security.OTPSendPerMinute, 1)))
	rest.RegisterAllRoutes(router, db.DB, sessionManager, accountHandler, accessHandler, reportsHandler, otpSendLimit, appLogger)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: appLogger,
	}, nil
}

// initDB opens the record-store connection over the pgx stdlib driver.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
