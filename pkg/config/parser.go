package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"
)

// Load builds the effective settings: optional JSON config file first,
// then the S3_* environment variables on top. An empty configFile means
// environment-only configuration.
func Load(ctx context.Context, configFile string) (*Settings, error) {
	var settings Settings

	if configFile != "" {
		if err := Validate(configFile); err != nil {
			return nil, err
		}

		file, err := os.Open(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(&settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment wins over the file so deployments can override credentials
	// without editing checked-in configuration.
	if err := envconfig.Process(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return &settings, nil
}
