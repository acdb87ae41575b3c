package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"canasim/internal/params"

	"github.com/joho/godotenv"
)

func TestGodotenvQuoting(t *testing.T) {
	content := `CANASIM_PARAMS_FILE='safra "2025" params.yaml'`
	tmpfile, err := os.CreateTemp("", ".env.test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(tmpfile.Name())
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `safra "2025" params.yaml`
	if env["CANASIM_PARAMS_FILE"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["CANASIM_PARAMS_FILE"])
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("LOGS_FOLDER", "")
	os.Unsetenv("LOGS_FOLDER")

	cfg, err := fromEnv("")
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.LogDir != filepath.Join(dir, "logs") {
		t.Errorf("LogDir = %s", cfg.LogDir)
	}
	if cfg.Trials != DefaultTrials || cfg.MixMin != DefaultMixMin || cfg.MixMax != DefaultMixMax {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Params.Market.NY11 != params.DefaultMarket().NY11 {
		t.Errorf("expected default parameters, got NY11 %v", cfg.Params.Market.NY11)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "params.yaml"), []byte("NY11_INICIAL: 22.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_PATH", dir)
	t.Setenv("CANASIM_PARAMS_FILE", "params.yaml")
	t.Setenv("CANASIM_SEED", "7")
	t.Setenv("CANASIM_TRIALS", "50")
	t.Setenv("CANASIM_MIX_SENSITIVITY", "0.1")
	t.Setenv("CANASIM_MIX_MAX", "not-a-number")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")

	cfg, err := fromEnv("")
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.Seed != 7 || cfg.Trials != 50 || cfg.MixSensitivity != 0.1 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.MixMax != DefaultMixMax {
		t.Errorf("malformed value should fall back, got %v", cfg.MixMax)
	}
	if !cfg.EnableMermaidCharts {
		t.Error("charts should be enabled")
	}
	if cfg.Params.Market.NY11 != 22.5 {
		t.Errorf("parameter file not applied, NY11 = %v", cfg.Params.Market.NY11)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	t.Setenv("CANASIM_TRIALS", "0")
	if _, err := fromEnv(""); !errors.Is(err, params.ErrConfiguration) {
		t.Errorf("zero trials should be a configuration error, got %v", err)
	}

	t.Setenv("CANASIM_TRIALS", "10")
	t.Setenv("CANASIM_PARAMS_FILE", "missing.yaml")
	if _, err := fromEnv(""); err == nil {
		t.Error("missing parameter file should fail")
	}
}
