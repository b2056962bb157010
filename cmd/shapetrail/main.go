// Package main is the entry point for shapetrail.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_SHAPETRAIL_API_KEY available
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// The .env file may have an unexpanded variable reference that doesn't
	// work, so we construct the headers properly here
	apiKey := os.Getenv("HONEYCOMB_SHAPETRAIL_API_KEY")
	dataset := os.Getenv("HONEYCOMB_SHAPETRAIL_DATASET")
	if dataset == "" {
		dataset = "shapetrail"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
