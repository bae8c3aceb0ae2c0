package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultPath = "config/local.yaml"

type Config struct {
	Env            string          `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath    string          `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	MigrationsPath string          `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTP           HTTPConfig      `yaml:"http"`
	Auth           AuthConfig      `yaml:"auth"`
	Scheduler      SchedulerConfig `yaml:"scheduler"`
	Worker         WorkerConfig    `yaml:"worker"`
	Notify         NotifyConfig    `yaml:"notify"`
}

type HTTPConfig struct {
	Port         int      `yaml:"port" env:"HTTP_PORT" env-default:"8082"`
	AllowOrigins []string `yaml:"allow_origins" env:"HTTP_ALLOW_ORIGINS" env-separator:","`
}

type AuthConfig struct {
	Secret    string        `yaml:"secret" env:"AUTH_SECRET" env-required:"true"`
	AccessTTL time.Duration `yaml:"access_ttl" env:"AUTH_ACCESS_TTL" env-default:"1h"`
}

type SchedulerConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env-default:"5s"`
	BatchSize    int           `yaml:"batch_size" env-default:"50"`
	Lease        time.Duration `yaml:"lease" env-default:"2m"`
	MaxAttempts  int           `yaml:"max_attempts" env-default:"5"`
	Backoff      time.Duration `yaml:"backoff" env:"SCHEDULER_BACKOFF" env-default:"10s"`
}

type WorkerConfig struct {
	HealthPort int `yaml:"health_port" env:"WORKER_HEALTH_PORT" env-default:"9091"`
}

type NotifyConfig struct {
	Driver       string `yaml:"driver" env:"NOTIFY_DRIVER" env-default:"log"`
	From         string `yaml:"from" env:"NOTIFY_FROM"`
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT" env-default:"25"`
	SMTPUsername string `yaml:"smtp_username" env:"SMTP_USERNAME"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	Concurrency  int    `yaml:"concurrency" env-default:"4"`
}

// Read loads an optional .env file into the environment and then reads the
// YAML config at path, letting environment variables override it.
func Read(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var config Config
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	return &config, nil
}

func Load(path string) *Config {
	config, err := Read(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return config
}

// Path picks the config path: the flag value if set, then CONFIG_PATH, then
// the local default.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return defaultPath
}
