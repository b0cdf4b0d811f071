package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/AnnaCarter465/zakat-tax/calculator"
	"github.com/AnnaCarter465/zakat-tax/config"
	"github.com/AnnaCarter465/zakat-tax/database"
	"github.com/AnnaCarter465/zakat-tax/handler"
	"github.com/AnnaCarter465/zakat-tax/logging"
	"github.com/AnnaCarter465/zakat-tax/metrics"
	"github.com/AnnaCarter465/zakat-tax/tax"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().String("port", "", "port to listen on")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))

	return cmd
}

func newServer(calc calculator.Calculator, db handler.Pinger, logger logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(metrics.Middleware())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())

	vl := validator.New()

	health := handler.NewHealthHandler(db)
	zakatHandler := handler.NewZakatHandler(vl, calc, logger)
	taxHandler := handler.NewTaxHandler(vl, calc, logger)

	e.GET("/", health.Healthcheck)
	e.GET("/metrics", metrics.Handler())

	e.POST("/zakat/calculations", zakatHandler.CalculateZakat)

	e.POST("/tax/calculations", taxHandler.CalculateTax)
	e.POST("/tax/calculations/upload-csv", taxHandler.CalculateTaxWithCSV)
	e.GET("/tax/slabs", taxHandler.ListSlabs)

	return e
}

// openSchedule connects to the database and reads the slab table from it,
// seeding the table with the 2024-25 slabs when it is empty.
func openSchedule(ctx context.Context, dbURL string) (*database.DB, *tax.Schedule, error) {
	db, err := database.NewDB(dbURL)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	if err := db.Migrate(ctx, tax.Pakistan2024); err != nil {
		db.Close()
		return nil, nil, err
	}

	schedule, err := db.LoadSchedule(ctx)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, schedule, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	var (
		pinger   handler.Pinger
		schedule *tax.Schedule
	)

	if cfg.DatabaseURL != "" {
		db, s, err := openSchedule(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Error("Cannot load tax slabs from database")
			return err
		}
		defer db.Close()

		pinger = db
		schedule = s

		logger.Info("Loaded tax slabs from database")
	}

	e := newServer(calculator.New(schedule), pinger, logger)

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting server")

		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down the server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}
