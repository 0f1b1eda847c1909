package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vpn-telemetry/pkg/analytics"
	"vpn-telemetry/pkg/database"
	"vpn-telemetry/pkg/simulation"
)

var (
	debugFlag bool
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vpn-telemetry",
	Short: "Synthetic VPN telemetry generator and analytics API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var logLevel slog.Level
		if debugFlag {
			logLevel = slog.LevelDebug
		} else {
			logLevel = slog.LevelInfo
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
		slog.SetDefault(logger)
	},
}

var initSchemaCmd = &cobra.Command{
	Use:   "init-schema",
	Short: "Create the telemetry tables and indexes",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := initDB()
		if err != nil {
			logger.Error("Error initializing database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		logger.Info("Schema initialized successfully")
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic VPN session and cost data",
	Long: `Generate fabricates a server pool, then walks the simulated calendar
day by day producing session records and the matching per-server daily
cost records. Each day is committed in its own transaction, so an
interrupted run loses at most the in-flight days.`,
	Run: func(cmd *cobra.Command, args []string) {
		servers, _ := cmd.Flags().GetInt("servers")
		days, _ := cmd.Flags().GetInt("days")
		sessionsPerDay, _ := cmd.Flags().GetInt("sessions-per-day")
		seed, _ := cmd.Flags().GetUint64("seed")
		workers, _ := cmd.Flags().GetInt("workers")
		domain, _ := cmd.Flags().GetString("domain")

		db, err := initDB()
		if err != nil {
			logger.Error("Error initializing database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		service := simulation.NewService(db, logger, simulation.Config{
			Servers:        servers,
			Days:           days,
			SessionsPerDay: sessionsPerDay,
			Seed:           seed,
			Workers:        workers,
			HostDomain:     domain,
		})

		summary, err := service.Run(ctx)
		if err != nil {
			logger.Error("Generation failed", "error", err)
			os.Exit(1)
		}

		logger.Info("Generation finished",
			"servers", summary.Servers,
			"days", summary.Days,
			"sessions", summary.Sessions,
			"costRecords", summary.CostRecords,
			"totalCost", fmt.Sprintf("$%.2f", summary.TotalCost))
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics REST API",
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = viper.GetString("api.addr")
		}
		if addr == "" {
			addr = ":8080"
		}

		db, err := database.NewDB()
		if err != nil {
			logger.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		analytics.Init(db.Std(), logger, analytics.NewMetrics(prometheus.DefaultRegisterer))
		router := analytics.NewRouter()

		logger.Info("Serving analytics API", "addr", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging")

	generateCmd.Flags().Int("servers", 150, "Number of servers to fabricate")
	generateCmd.Flags().Int("days", 365, "Number of simulated days")
	generateCmd.Flags().Int("sessions-per-day", 50000, "Target sessions per day before trend factors")
	generateCmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	generateCmd.Flags().Int("workers", 1, "Days generated concurrently")
	generateCmd.Flags().String("domain", "vpnlink.io", "Server hostname domain suffix")

	serveCmd.Flags().String("addr", "", "Listen address (defaults to api.addr from config, then :8080)")

	rootCmd.AddCommand(initSchemaCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.vpn-telemetry")
	viper.AddConfigPath("/etc/vpn-telemetry/")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.dbname", "vpn_telemetry")
	viper.SetDefault("database.sslmode", "disable")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

func initDB() (*database.DB, error) {
	db, err := database.NewDB()
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %v", err)
	}

	err = db.InitSchema(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
