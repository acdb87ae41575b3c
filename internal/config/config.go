package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"canasim/internal/params"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTrials      = 500
	DefaultMixMin      = 0.30
	DefaultMixMax      = 0.55
	DefaultSensitivity = 0.05
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	ParamsFile          string
	Seed                int64
	Trials              int
	MixMin              float64
	MixMax              float64
	MixSensitivity      float64
	EnableMermaidCharts bool

	// Params is the parameter set after ParamsFile (if any) has been applied.
	Params params.Parameters
}

// Load loads the configuration from .env files and environment variables,
// then reads the parameter file when CANASIM_PARAMS_FILE is set.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return fromEnv(exeDir)
}

func fromEnv(exeDir string) (*AppConfig, error) {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		ParamsFile:          getEnv("CANASIM_PARAMS_FILE", ""),
		Seed:                getEnvInt64("CANASIM_SEED", 0),
		Trials:              int(getEnvInt64("CANASIM_TRIALS", DefaultTrials)),
		MixMin:              getEnvFloat("CANASIM_MIX_MIN", DefaultMixMin),
		MixMax:              getEnvFloat("CANASIM_MIX_MAX", DefaultMixMax),
		MixSensitivity:      getEnvFloat("CANASIM_MIX_SENSITIVITY", DefaultSensitivity),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		Params:              params.Defaults(),
	}

	if cfg.ParamsFile != "" {
		path := cfg.ParamsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dataPath, path)
		}
		p, err := params.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load parameters: %w", err)
		}
		cfg.Params = p
		log.Info().Str("path", path).Msg("Loaded simulation parameters")
	}
	if cfg.Trials < 1 {
		return nil, &params.ConfigurationError{Field: "CANASIM_TRIALS", Reason: fmt.Sprintf("must be >= 1, got %d", cfg.Trials)}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer setting")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}
