package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dentio/clinic/internal/config"
	"github.com/dentio/clinic/internal/domain/billing"
	"github.com/dentio/clinic/internal/domain/caresheet"
	"github.com/dentio/clinic/internal/domain/dashboard"
	"github.com/dentio/clinic/internal/domain/inventory"
	"github.com/dentio/clinic/internal/domain/notification"
	"github.com/dentio/clinic/internal/domain/patient"
	"github.com/dentio/clinic/internal/domain/personnel"
	"github.com/dentio/clinic/internal/domain/prescription"
	"github.com/dentio/clinic/internal/domain/scheduling"
	"github.com/dentio/clinic/internal/domain/settings"
	"github.com/dentio/clinic/internal/platform/auth"
	"github.com/dentio/clinic/internal/platform/db"
	"github.com/dentio/clinic/internal/platform/metrics"
	"github.com/dentio/clinic/internal/platform/middleware"
	"github.com/dentio/clinic/internal/platform/sequence"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Dental clinic practice-management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	runTx := db.PoolTxRunner(pool)
	seq := sequence.NewGeneratorPG(pool)
	mtr := metrics.New()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(mtr.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.JWTIssuer,
			SigningKey: []byte(cfg.JWTSigningKey),
		}))
	}

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health and metrics
	e.GET("/health", db.HealthHandler(pool))
	e.GET("/metrics", mtr.Handler())

	// -- Register Domain Handlers --

	// Patients
	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	// Personnel
	staffRepo := personnel.NewRepoPG(pool)
	staffSvc := personnel.NewService(staffRepo)
	personnel.NewHandler(staffSvc).RegisterRoutes(apiV1)

	// Appointments
	apptRepo := scheduling.NewRepoPG(pool)
	apptSvc := scheduling.NewService(apptRepo)
	scheduling.NewHandler(apptSvc).RegisterRoutes(apiV1)

	// Billing
	invoiceRepo := billing.NewInvoiceRepoPG(pool)
	billingSvc := billing.NewService(invoiceRepo, seq, runTx)
	billing.NewHandler(billingSvc).RegisterRoutes(apiV1)

	// Care sheets
	sheetRepo := caresheet.NewRepoPG(pool)
	sheetSvc := caresheet.NewService(sheetRepo, seq, runTx)
	caresheet.NewHandler(sheetSvc).RegisterRoutes(apiV1)

	// Prescriptions
	rxRepo := prescription.NewRepoPG(pool)
	rxSvc := prescription.NewService(rxRepo, seq, runTx)
	prescription.NewHandler(rxSvc).RegisterRoutes(apiV1)

	// Inventory
	productRepo := inventory.NewProductRepoPG(pool)
	supplierRepo := inventory.NewSupplierRepoPG(pool)
	inventorySvc := inventory.NewService(productRepo, supplierRepo, runTx)
	inventory.NewHandler(inventorySvc).RegisterRoutes(apiV1)

	// Notifications
	notifRepo := notification.NewRepoPG(pool)
	notifSvc := notification.NewService(notifRepo)
	notification.NewHandler(notifSvc).RegisterRoutes(apiV1)

	// Settings
	settingsRepo := settings.NewRepoPG(pool)
	settingsSvc := settings.NewService(settingsRepo)
	settings.NewHandler(settingsSvc).RegisterRoutes(apiV1)

	// Dashboard
	dashRepo := dashboard.NewRepoPG(pool)
	dashSvc := dashboard.NewService(dashRepo)
	dashboard.NewHandler(dashSvc).RegisterRoutes(apiV1)

	// Appointment reminder scanner
	scannerCtx, stopScanner := context.WithCancel(ctx)
	defer stopScanner()

	reminderCfg := scheduling.ReminderConfig{
		Interval: cfg.ReminderInterval,
		Lead:     cfg.ReminderLead,
	}
	if cfg.ReminderRecipient != "" {
		rid, err := uuid.Parse(cfg.ReminderRecipient)
		if err != nil {
			logger.Fatal().Err(err).Msg("REMINDER_RECIPIENT_ID must be a UUID")
		}
		reminderCfg.RecipientID = rid
	}
	if reminderCfg.RecipientID == uuid.Nil {
		logger.Warn().Msg("REMINDER_RECIPIENT_ID not set; appointment reminders are disabled")
	} else {
		scanner := scheduling.NewReminderScanner(apptRepo, notifSvc, runTx, reminderCfg, logger, mtr)
		go scanner.Run(scannerCtx)
		logger.Info().
			Dur("interval", cfg.ReminderInterval).
			Dur("lead", cfg.ReminderLead).
			Msg("appointment reminder scanner started")
	}

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	stopScanner()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
