package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "bikeshare.yml"
	DefaultDataDir    = "."
	DefaultHTTPPort   = 8080
	DefaultRegion     = "us-east-1"
)

var ErrDuplicateCity = errors.New("city configured more than once")

// NormalizeCity is the canonical form of a city id: trimmed and lower-cased.
func NormalizeCity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultCities maps the three bundled CSV exports.
func DefaultCities() Cities {
	return Cities{
		{Name: "chicago", Location: "chicago.csv", Format: "csv"},
		{Name: "new york city", Location: "new_york_city.csv", Format: "csv"},
		{Name: "washington", Location: "washington.csv", Format: "csv"},
	}
}

func Default() AppConfig {
	return AppConfig{
		DataDir: DefaultDataDir,
		Server:  ServerConfig{Port: DefaultHTTPPort},
		S3:      S3Config{Region: DefaultRegion},
		Cities:  DefaultCities(),
	}
}

// LoadEnvFile loads a .env file into the environment. A missing default .env is not an error.
func LoadEnvFile(logger zerolog.Logger, path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("error loading env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg(".env file not found or could not be loaded")
	}
	return nil
}

// Load reads the YAML file at path (or CONFIG_PATH, or bikeshare.yml if present), applies env
// overrides and validates. An explicitly named file that does not exist is an error.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = utils.GetEnvOrDefault(utils.EnvConfigPath, "")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, &cfg); err != nil {
			return cfg, fmt.Errorf("error parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults
	default:
		return cfg, fmt.Errorf("error reading config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse overlays YAML onto cfg. A cities list in the YAML replaces the default mapping.
func Parse(data []byte, cfg *AppConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error in yaml.Unmarshal: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.DataDir = utils.GetEnvOrDefault(utils.EnvDataDir, cfg.DataDir)
	cfg.DB.DSN = utils.GetEnvOrDefault(utils.EnvCRDBDSN, cfg.DB.DSN)
	cfg.S3.Region = utils.GetEnvOrDefault(utils.EnvAWSRegion, cfg.S3.Region)
	cfg.S3.Endpoint = utils.GetEnvOrDefault(utils.EnvS3Endpoint, cfg.S3.Endpoint)

	port, err := utils.GetEnvOrDefaultInt(utils.EnvHTTPPort, int64(cfg.Server.Port))
	if err != nil {
		return err
	}
	cfg.Server.Port = int(port)

	sleep, err := utils.GetEnvOrDefaultInt(utils.EnvShutdownSleepSec, int64(cfg.ShutdownSleepSec))
	if err != nil {
		return err
	}
	cfg.ShutdownSleepSec = int(sleep)
	return nil
}

func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	seen := make(map[string]bool, len(cfg.Cities))
	for _, c := range cfg.Cities {
		name := NormalizeCity(c.Name)
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateCity, name)
		}
		seen[name] = true
	}
	return nil
}
