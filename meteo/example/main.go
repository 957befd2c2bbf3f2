// Package main provides an example of using the meteo client to fetch weather forecasts.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/devskill-org/metno/meteo"
	"github.com/devskill-org/metno/middleware"
)

func main() {
	identity := os.Getenv("METNO_USER_AGENT")
	if identity == "" {
		identity = "metno-example/1.0 (username@example.com)"
	}

	// Respect the API's published limits; the client itself never throttles.
	client, err := meteo.NewClient(identity,
		meteo.WithProduct(meteo.ProductComplete),
		meteo.WithHTTPClient(middleware.Chain(middleware.NewHTTPClient(30*time.Second), middleware.Default()...)),
	)
	if err != nil {
		log.Fatalf("Invalid identity: %v", err)
	}

	// Riga, Latvia
	params := meteo.Params{Latitude: 56.9496, Longitude: 24.1052, Altitude: meteo.IntPtr(14)}
	if err := params.Validate(); err != nil {
		log.Fatalf("Invalid location: %v", err)
	}

	fmt.Printf("Getting weather forecast for (%.4f, %.4f)\n\n", params.Latitude, params.Longitude)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.FetchWithParams(ctx, params)
	if err != nil {
		switch e := err.(type) {
		case *meteo.APIError:
			log.Fatalf("API error %d: %s", e.StatusCode, e.Body)
		case *meteo.InvalidCoordinateError:
			log.Fatalf("Validation error: %s", e.Message)
		case *meteo.TransportError:
			log.Fatalf("Network error: %v", e.Err)
		case *meteo.DeserializationError:
			log.Fatalf("Unexpected body: %v", e.Err)
		default:
			log.Fatalf("Unknown error: %v", err)
		}
	}

	forecast := resp.Forecast
	fmt.Printf("Forecast updated: %s\n",
		forecast.Properties.Meta.UpdatedAt.Format("2006-01-02 15:04:05 UTC"))
	if !resp.ExpiresAt.IsZero() {
		fmt.Printf("Valid until:      %s\n", resp.ExpiresAt.Local().Format("15:04:05"))
	}
	fmt.Printf("Total forecast steps: %d\n\n", len(forecast.Properties.Timeseries))

	if current := forecast.GetCurrentWeather(); current != nil {
		fmt.Println("=== CURRENT WEATHER ===")
		fmt.Printf("Time: %s\n", current.Time.Local().Format("2006-01-02 15:04"))
		if temp := current.GetTemperature(); temp != nil {
			fmt.Printf("Temperature: %.1f°C\n", *temp)
		}
		if windSpeed := current.GetWindSpeed(); windSpeed != nil {
			fmt.Printf("Wind speed: %.1f m/s\n", *windSpeed)
		}
		if uv := current.GetUVIndex(); uv != nil {
			fmt.Printf("UV index: %.1f\n", *uv)
		}
		if symbol := current.GetSymbolCode(); symbol != nil {
			fmt.Printf("Weather condition: %s", symbol.Base())
			if symbol.HasThunder() {
				fmt.Print(" [THUNDER WARNING]")
			}
			fmt.Println()
		}
	}

	fmt.Println()

	now := time.Now()
	var wet []string
	for _, step := range forecast.GetForecastForPeriod(now, now.Add(24*time.Hour)) {
		if step.HasPrecipitation() {
			wet = append(wet, step.Time.Local().Format("Mon 15:04"))
		}
	}
	if len(wet) > 0 {
		fmt.Println("=== PRECIPITATION ALERT ===")
		for _, ts := range wet {
			fmt.Printf("  - %s\n", ts)
		}
	} else {
		fmt.Println("No precipitation expected in the next 24 hours")
	}

	// A second call reuses the response until it expires.
	again, err := client.FetchWithParams(ctx, meteo.Params{
		Latitude: params.Latitude, Longitude: params.Longitude, Altitude: params.Altitude,
		LastResponse: resp,
	})
	if err == nil {
		fmt.Printf("\nSecond call reused cached response: %v\n", again == resp)
	}
}
