// Command app serves the flight booking REST API. The migrate sub-command
// creates the schema and seeds reference data.
//
//	./app [-c config.yaml]          # serve HTTP and gRPC health
//	./app migrate [-c config.yaml]  # create tables, seed cabin classes
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/aviaapp/api"
	"github.com/Domenick1991/aviaapp/config"
	"github.com/Domenick1991/aviaapp/internal/bootstrap"
	"github.com/Domenick1991/aviaapp/internal/cache"
	"github.com/Domenick1991/aviaapp/internal/kafka"
	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/Domenick1991/aviaapp/internal/repository"
	"github.com/Domenick1991/aviaapp/internal/service/booking"
	"github.com/Domenick1991/aviaapp/internal/service/cabins"
	"github.com/Domenick1991/aviaapp/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "app",
	Short:        "Flight booking API server",
	SilenceUsage: true,
	RunE:         serve,
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	rootCmd.AddCommand(migrateCmd)
}

// fixConfigPath falls back to CONFIG_PATH, then to config.yaml.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	if cfgPath = os.Getenv("CONFIG_PATH"); cfgPath == "" {
		cfgPath = "config.yaml"
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and installs the logger it describes.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := log.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	ttl := time.Duration(cfg.Flights.CacheTTLSeconds) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, ttl)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn(ctx, "redis unavailable, serving without a warm cache", log.Err(err))
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.Warn(ctx, "kafka unavailable, events will be dropped", log.Err(err))
	}

	cabinService := cabins.NewCabinClassService(repository.NewCabinClassRepository(pool), redisCache)
	flightService := flights.NewFlightService(
		repository.NewFlightRepository(pool),
		cabinService,
		flights.WithCache(redisCache),
		flights.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
		flights.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		flights.WithDefaultPageSize(cfg.Flights.DefaultPageSize),
	)
	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		flightService,
		cabinService,
		booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(flightService, bookingService, cabinService)

	return bootstrap.Run(ctx, cfg, router, pool)
}
