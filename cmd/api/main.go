// @title Temporal Analytics API
// @version 1.0
// @description Activity forecasting and replay engagement analytics.
// @BasePath /
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"temporal-analytics-service/internal/config"
	"temporal-analytics-service/internal/logging"

	activitiesHttp "temporal-analytics-service/internal/activities/adapters/http/fiber"
	activitiesRepoPg "temporal-analytics-service/internal/activities/adapters/postgres"
	activitiesUsecase "temporal-analytics-service/internal/activities/core/usecase"

	forecastHttp "temporal-analytics-service/internal/forecast/adapters/http/fiber"
	forecastRepoPg "temporal-analytics-service/internal/forecast/adapters/postgres"
	forecastUsecase "temporal-analytics-service/internal/forecast/core/usecase"

	replayHttp "temporal-analytics-service/internal/replay/adapters/http/fiber"
	replayRepoPg "temporal-analytics-service/internal/replay/adapters/postgres"
	replayUsecase "temporal-analytics-service/internal/replay/core/usecase"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "temporal-analytics-service/docs"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	loc, err := cfg.Forecast.Location()
	if err != nil {
		logging.Fatal().Err(err).Str("timezone", cfg.Forecast.Timezone).Msg("invalid forecast timezone")
	}

	// DB connection
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open postgres")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logging.Fatal().Err(err).Msg("failed to ping postgres")
	}

	// Repositories
	activityWriter := activitiesRepoPg.NewActivityRepository(activitiesRepoPg.NewSQLDB(db))
	activityReader := forecastRepoPg.NewActivityRepository(forecastRepoPg.NewSQLDB(db))
	viewRepository := replayRepoPg.NewReplayViewRepository(replayRepoPg.NewSQLDB(db))

	// Usecases
	recordActivityUC := activitiesUsecase.NewRecordActivityUseCase(activityWriter)
	getForecastUC := forecastUsecase.NewGetForecastUseCase(activityReader, forecastUsecase.Options{
		Location:           loc,
		DefaultHorizonDays: cfg.Forecast.DefaultHorizonDays,
		MaxHorizonDays:     cfg.Forecast.MaxHorizonDays,
		CacheSize:          cfg.Forecast.CacheSize,
		CacheTTL:           cfg.Forecast.CacheTTL,
	})
	replayUC := replayUsecase.NewReplayUseCase(viewRepository, replayUsecase.NewTracker())
	replayUC.BatchConcurrency = cfg.Replay.BatchConcurrency

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	app.Use(recover.New())

	// activity ingestion
	activityHandler := activitiesHttp.NewActivityHandler(recordActivityUC)
	app.Post("/activities", activityHandler.RecordActivity)
	app.Post("/activities/bulk", activityHandler.RecordActivities)

	// forecast
	forecastHandler := forecastHttp.NewForecastHandler(getForecastUC)
	app.Get("/forecast", forecastHandler.GetForecast)

	// replay views + analytics
	replayHttp.NewReplayHandler(replayUC).Register(app)

	// Prometheus + Swagger
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			logging.Error().Err(err).Msg("fiber stopped")
		}
	}()

	logging.Info().Str("addr", cfg.Addr()).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logging.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error().Err(err).Msg("fiber shutdown error")
	}

	logging.Info().Msg("server exiting")
}
