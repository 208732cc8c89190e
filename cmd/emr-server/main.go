package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/burnunit/emr/internal/config"
	"github.com/burnunit/emr/internal/domain/burns"
	"github.com/burnunit/emr/internal/domain/documents"
	"github.com/burnunit/emr/internal/domain/encounter"
	"github.com/burnunit/emr/internal/domain/lab"
	"github.com/burnunit/emr/internal/domain/nutrition"
	"github.com/burnunit/emr/internal/domain/patient"
	"github.com/burnunit/emr/internal/domain/pharmacy"
	"github.com/burnunit/emr/internal/domain/surgery"
	"github.com/burnunit/emr/internal/domain/treatment"
	"github.com/burnunit/emr/internal/domain/woundcare"
	"github.com/burnunit/emr/internal/platform/auth"
	"github.com/burnunit/emr/internal/platform/db"
	"github.com/burnunit/emr/internal/platform/metrics"
	"github.com/burnunit/emr/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emr-server",
		Short: "Burn unit EMR API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the EMR API server",
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
			schema, _ := cmd.Flags().GetString("schema")
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
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
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
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
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
	statusCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

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

			fmt.Printf("Creating tenant schema: tenant_%s\n", name)
			if err := db.CreateTenantSchema(ctx, pool, name, "./migrations"); err != nil {
				return err
			}
			fmt.Println("Tenant created successfully.")
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant identifier (alphanumeric)")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
		}))
	}

	e.Use(db.TenantMiddleware(pool, cfg.DefaultTenant))
	e.Use(middleware.Audit(logger))
	e.Use(m.Middleware())

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Patient domain
	patientRepo := patient.NewRepoPG(pool)
	practRepo := patient.NewPractitionerRepoPG(pool)
	patientSvc := patient.NewService(patientRepo, practRepo)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	// Encounter domain
	encRepo := encounter.NewRepoPG(pool)
	encSvc := encounter.NewService(encRepo)
	encounter.NewHandler(encSvc).RegisterRoutes(apiV1)

	// Burns domain
	burnsRepo := burns.NewRepoPG(pool)
	burnsSvc := burns.NewService(burnsRepo, patientRepo)
	burns.NewHandler(burnsSvc, m).RegisterRoutes(apiV1)

	// Surgery domain
	theatreRepo := surgery.NewTheatreRepoPG(pool)
	theatreCaseRepo := surgery.NewCaseRepoPG(pool)
	surgerySvc := surgery.NewService(theatreRepo, theatreCaseRepo)
	surgery.NewHandler(surgerySvc).RegisterRoutes(apiV1)

	// Lab domain
	labRepo := lab.NewRepoPG(pool)
	labSvc := lab.NewService(labRepo)
	lab.NewHandler(labSvc).RegisterRoutes(apiV1)

	// Pharmacy domain
	medRepo := pharmacy.NewMedicationRepoPG(pool)
	medOrderRepo := pharmacy.NewOrderRepoPG(pool)
	pharmacySvc := pharmacy.NewService(medRepo, medOrderRepo)
	pharmacy.NewHandler(pharmacySvc).RegisterRoutes(apiV1)

	// Wound care domain
	woundRepo := woundcare.NewRepoPG(pool)
	woundSvc := woundcare.NewService(woundRepo)
	woundcare.NewHandler(woundSvc).RegisterRoutes(apiV1)

	// Treatment planning domain
	planRepo := treatment.NewRepoPG(pool)
	planSvc := treatment.NewService(planRepo)
	treatment.NewHandler(planSvc).RegisterRoutes(apiV1)

	// Nutrition domain
	nutritionRepo := nutrition.NewRepoPG(pool)
	nutritionSvc := nutrition.NewService(nutritionRepo, patientRepo, burnsRepo)
	nutrition.NewHandler(nutritionSvc).RegisterRoutes(apiV1)

	// Documents domain
	noteRepo := documents.NewNoteRepoPG(pool)
	templateRepo := documents.NewTemplateRepoPG(pool)
	renderedRepo := documents.NewRenderedRepoPG(pool)
	docSvc := documents.NewService(noteRepo, templateRepo, renderedRepo, patientRepo, burnsSvc)
	documents.NewHandler(docSvc).RegisterRoutes(apiV1)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
