package config

import (
	"cloudinary-assets/internal/core/domain"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env        Env
	Cloudinary CloudinaryConfig
	Upload     UploadConfig
	NATS       NATSConfig
	Database   DatabaseConfig
	Server     ServerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

// CloudinaryConfig holds the account credentials and endpoints of one Cloudinary cloud.
type CloudinaryConfig struct {
	CloudName          string        `envconfig:"CLOUDINARY_CLOUD_NAME"`
	APIKey             string        `envconfig:"CLOUDINARY_API_KEY"`
	APISecret          string        `envconfig:"CLOUDINARY_API_SECRET"`
	APIBaseURL         string        `envconfig:"CLOUDINARY_API_BASE_URL" default:"https://api.cloudinary.com"`
	DeliveryBaseURL    string        `envconfig:"CLOUDINARY_DELIVERY_BASE_URL" default:"https://res.cloudinary.com"`
	SignatureAlgorithm string        `envconfig:"CLOUDINARY_SIGNATURE_ALGORITHM" default:"sha1"`
	Timeout            time.Duration `envconfig:"CLOUDINARY_TIMEOUT" default:"60s"`
	VerifyOnFinalize   bool          `envconfig:"CLOUDINARY_VERIFY_ON_FINALIZE" default:"false"`
	MaxResponseBytes   int64         `envconfig:"CLOUDINARY_MAX_RESPONSE_BYTES" default:"1048576"`
}

type UploadConfig struct {
	MaxFileSize   int64  `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"10485760"` // 10MB
	DefaultFolder string `envconfig:"UPLOAD_DEFAULT_FOLDER" default:""`
}

// NATSConfig is optional, an empty URL disables event publishing.
type NATSConfig struct {
	URL           string        `envconfig:"NATS_URL"`
	StreamName    string        `envconfig:"NATS_STREAM_NAME" default:"ASSETS"`
	SubjectPrefix string        `envconfig:"NATS_SUBJECT_PREFIX" default:"assets"`
	ConsumerName  string        `envconfig:"NATS_CONSUMER_NAME" default:"assetwatch"`
	DeliverGroup  string        `envconfig:"NATS_DELIVER_GROUP" default:""`
	AckWait       time.Duration `envconfig:"NATS_ACK_WAIT" default:"10s"`
	MaxDeliver    int           `envconfig:"NATS_MAX_DELIVER" default:"5"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// URL is the postgres connection URL of the database
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Enabled reports whether an event broker is configured
func (n NATSConfig) Enabled() bool {
	return n.URL != ""
}

// Validate checks that the three credentials are present
func (c CloudinaryConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.CloudName) == "" {
		missing = append(missing, "cloud name (CLOUDINARY_CLOUD_NAME)")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "API key (CLOUDINARY_API_KEY)")
	}
	if strings.TrimSpace(c.APISecret) == "" {
		missing = append(missing, "API secret (CLOUDINARY_API_SECRET)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// UploadURL is the signed upload endpoint for images
func (c CloudinaryConfig) UploadURL() string {
	return c.endpoint("image/upload")
}

// DestroyURL is the signed destroy endpoint for images
func (c CloudinaryConfig) DestroyURL() string {
	return c.endpoint("image/destroy")
}

func (c CloudinaryConfig) endpoint(action string) string {
	base := strings.TrimRight(c.APIBaseURL, "/")
	if base == "" {
		base = "https://api.cloudinary.com"
	}
	return fmt.Sprintf("%s/v1_1/%s/%s", base, c.CloudName, action)
}

// DeliveryURL returns the delivery host with the requested scheme
func (c CloudinaryConfig) DeliveryURL(secure bool) string {
	base := strings.TrimRight(c.DeliveryBaseURL, "/")
	if base == "" {
		base = "https://res.cloudinary.com"
	}
	if secure {
		return base
	}
	if rest, ok := strings.CutPrefix(base, "https://"); ok {
		return "http://" + rest
	}
	return base
}

func Load() (*Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
