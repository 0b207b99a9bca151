package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Driver selecciona el backend de persistencia.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Config agrupa toda la configuración del proceso, leída de env.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DBDSN         string `env:"DB_DSN"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"pet-alert.db"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	UploadsDir string `env:"UPLOADS_DIR" envDefault:"uploads"`

	// Fotos en S3 (opcional; si falta el bucket se usa disco local)
	S3Bucket   string `env:"S3_BUCKET"`
	S3Region   string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint string `env:"S3_ENDPOINT"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"pet-alert"`
}

// Load parsea la configuración y valida las combinaciones de driver.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Driver() {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(cfg.DBDSN) == "" {
			return Config{}, fmt.Errorf("DB_DSN es requerido con STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func (c Config) Driver() Driver {
	return Driver(strings.ToLower(strings.TrimSpace(c.StorageDriver)))
}

func (c Config) Addr() string {
	return ":" + c.Port
}
