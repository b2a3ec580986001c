package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreMongo = "mongo"
	StoreMySQL = "mysql"

	MediaDisk  = "disk"
	MediaMinIO = "minio"
)

type Config struct {
	Port    string `env:"PORT,default=5000"`
	GinMode string `env:"GIN_MODE,default=release"`

	JWTSecret  string        `env:"JWT_SECRET,required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,default=168h"`
	BcryptCost int           `env:"BCRYPT_COST,default=10"`

	StoreDriver    string        `env:"STORE_DRIVER,default=mongo"`
	MongoURI       string        `env:"MONGODB_URI,default=mongodb://localhost:27017"`
	MongoDatabase  string        `env:"MONGODB_DATABASE,default=chirp"`
	MySQLDSN       string        `env:"MYSQL_DSN"`
	ConnectTimeout time.Duration `env:"STORE_CONNECT_TIMEOUT,default=10s"`

	MediaDriver    string `env:"MEDIA_DRIVER,default=disk"`
	UploadDir      string `env:"UPLOAD_DIR,default=./uploads"`
	MinIOEndpoint  string `env:"MINIO_ENDPOINT,default=127.0.0.1:9000"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `env:"MINIO_BUCKET,default=chirp-media"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL,default=false"`
	MinIOPublicURL string `env:"MINIO_PUBLIC_URL"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB,default=0"`
	ThrottleRate   float64       `env:"THROTTLE_RATE,default=1"`
	ThrottleBurst  int           `env:"THROTTLE_BURST,default=10"`
	ThrottleWindow time.Duration `env:"THROTTLE_WINDOW,default=1m"`

	CORSOrigins []string `env:"CORS_ORIGINS,default=http://localhost:5173"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 bytes")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo store")
		}
	case StoreMySQL:
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is required for the mysql store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.MediaDriver {
	case MediaDisk:
		if c.UploadDir == "" {
			return errors.New("UPLOAD_DIR is required for disk media")
		}
	case MediaMinIO:
		if c.MinIOAccessKey == "" || c.MinIOSecretKey == "" {
			return errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for minio media")
		}
	default:
		return fmt.Errorf("unknown MEDIA_DRIVER %q", c.MediaDriver)
	}

	if c.ThrottleRate <= 0 || c.ThrottleBurst <= 0 {
		return errors.New("THROTTLE_RATE and THROTTLE_BURST must be positive")
	}
	return nil
}
