// Package main provides the metno command line entry point: it prints the
// LocationForecast for a coordinate or serves it over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/devskill-org/metno/config"
	"github.com/devskill-org/metno/daily"
	"github.com/devskill-org/metno/meteo"
	"github.com/devskill-org/metno/middleware"
	"github.com/devskill-org/metno/server"
)

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "", "Configuration file path (JSON or YAML); metno.yaml/metno.json when empty")
		lat        = flag.Float64("lat", 0, "Latitude, overrides the configuration")
		lon        = flag.Float64("lon", 0, "Longitude, overrides the configuration")
		alt        = flag.Int("alt", 0, "Altitude in metres, overrides the configuration")
		days       = flag.Int("days", 0, "Number of days in the daily summary, overrides the configuration")
		showDaily  = flag.Bool("daily", false, "Print a day-by-day summary instead of the timeseries")
		serve      = flag.Bool("serve", false, "Run the web server and refresh the forecast periodically")
		dumpConfig = flag.Bool("dump-config", false, "Print the effective configuration as JSON and exit")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			cfg.Latitude = *lat
		case "lon":
			cfg.Longitude = *lon
		case "alt":
			cfg.Altitude = alt
		case "days":
			cfg.Server.Days = *days
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid configuration:", err)
		os.Exit(1)
	}

	if *dumpConfig {
		if err := cfg.SaveConfigToWriter(os.Stdout); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	client, err := newClient(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create forecast client", zap.Error(err))
	}

	if *serve {
		runServer(cfg, client, logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout)
	defer cancel()

	resp, err := client.FetchWithParams(ctx, cfg.Params())
	if err != nil {
		logger.Error("failed to fetch forecast", zap.Stringer("kind", meteo.Kind(err)), zap.Error(err))
		os.Exit(1)
	}

	loc := daily.LocationFor(cfg.Latitude, cfg.Longitude)
	if *showDaily {
		printDaily(os.Stdout, resp.Forecast, loc, cfg.Server.Days)
		return
	}
	printTimeseries(os.Stdout, resp, loc)
}

// newClient builds a meteo client whose transport respects the configured
// limits. Requests pass the concurrency limit, then retries, then the
// circuit breaker and finally the rate limiter, so every attempt is counted.
func newClient(cfg *config.Config, logger *zap.Logger) (*meteo.Client, error) {
	breaker := gobreaker.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	}

	backoff := middleware.DefaultBackoff
	backoff.MaxRetries = cfg.Limits.MaxRetries

	doer := middleware.Chain(middleware.NewHTTPClient(cfg.APITimeout),
		middleware.ConcurrencyLimit(cfg.Limits.MaxInFlight),
		middleware.Retry(backoff),
		middleware.CircuitBreaker(breaker),
		middleware.RateLimit(rate.NewLimiter(rate.Limit(cfg.Limits.RatePerSecond), cfg.Limits.Burst)),
	)

	return meteo.NewClient(cfg.UserAgent,
		meteo.WithHTTPClient(doer),
		meteo.WithBaseURL(cfg.BaseURL),
		meteo.WithProduct(meteo.Product(cfg.Product)),
		meteo.WithGzip(cfg.Gzip),
		meteo.WithLogger(logger.Named("meteo")),
	)
}

func runServer(cfg *config.Config, client *meteo.Client, logger *zap.Logger) {
	port := cfg.Server.Port
	if port <= 0 {
		port = 8080
	}

	refresher := server.NewRefresher(client, cfg.Params(), cfg.Server.RefreshInterval, logger.Named("refresher"))
	webServer := server.NewWebServer(refresher, port, cfg.Server.Days, logger.Named("server"))

	if err := webServer.Start(); err != nil {
		logger.Fatal("failed to start web server", zap.Error(err))
	}
	if err := refresher.Start(); err != nil {
		logger.Fatal("failed to start refresher", zap.Error(err))
	}

	logger.Info("serving forecast. Press Ctrl+C to stop...",
		zap.Int("port", port),
		zap.Float64("lat", cfg.Latitude),
		zap.Float64("lon", cfg.Longitude))

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutdown signal received, stopping...")

	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := webServer.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error("error stopping web server", zap.Error(err))
	}

	logger.Info("stopped successfully")
}

func showHelp() {
	fmt.Println("metno - MET Norway LocationForecast client")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Fetches the weather forecast for a coordinate from api.met.no and prints it")
	fmt.Println("  as an hourly table or a day-by-day summary, or serves it over HTTP with")
	fmt.Println("  WebSocket push updates.")
	fmt.Println()
	fmt.Println("  The API requires a User-Agent naming the application and a contact address.")
	fmt.Println("  Set it with user_agent in the configuration file or METNO_USER_AGENT.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  metno [OPTIONS]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("ENVIRONMENT:")
	fmt.Println("  Every configuration key can be set as METNO_<KEY>, nested keys joined by")
	fmt.Println("  underscores, e.g. METNO_LOG_LEVEL=debug. A .env file is loaded when present.")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Hourly forecast for Oslo")
	fmt.Println("  METNO_USER_AGENT=\"acme.com/weather ops@acme.com\" metno -lat 59.9139 -lon 10.7522")
	fmt.Println()
	fmt.Println("  # Five day summary using a configuration file")
	fmt.Println("  metno -config metno.yaml -daily -days 5")
	fmt.Println()
	fmt.Println("  # Serve the forecast on port 8080")
	fmt.Println("  metno -serve")
	fmt.Println()
	fmt.Println("  # Show the effective configuration")
	fmt.Println("  metno -dump-config")
}
