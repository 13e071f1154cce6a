package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	Service    ServiceConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Password   PasswordConfig
	CORS       CORSConfig
	Eventing   EventingConfig
	GCP        GCPConfig
	PubSub     PubSubConfig
	Outbox     OutboxConfig
	AWS        AWSConfig
	Feed       FeedConfig
	Digest     DigestConfig
	Migrations MigrationsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HOMIO_APP_ENV" required:"true"`
	Port         string `envconfig:"HOMIO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HOMIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HOMIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"HOMIO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"HOMIO_DB_DSN"`
	Driver string `envconfig:"HOMIO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"HOMIO_DB_HOST"`
	Port     int    `envconfig:"HOMIO_DB_PORT" default:"5432"`
	User     string `envconfig:"HOMIO_DB_USER"`
	Password string `envconfig:"HOMIO_DB_PASSWORD"`
	Name     string `envconfig:"HOMIO_DB_NAME"`
	SSLMode  string `envconfig:"HOMIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HOMIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HOMIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HOMIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HOMIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HOMIO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HOMIO_REDIS_ADDR"`
	Password     string        `envconfig:"HOMIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"HOMIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HOMIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HOMIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HOMIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HOMIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HOMIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HOMIO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HOMIO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HOMIO_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"HOMIO_SESSION_TTL_MINUTES" default:"10080"`
}

// AccessTTL returns the lifetime of an issued access token.
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// SessionTTL returns how long a login session stays alive in Redis.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HOMIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HOMIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HOMIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HOMIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HOMIO_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"HOMIO_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"HOMIO_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"HOMIO_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"HOMIO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"HOMIO_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ConnectionTopic        string `envconfig:"HOMIO_PUBSUB_CONNECTION_TOPIC" default:"homio-connection-events"`
	ConnectionSubscription string `envconfig:"HOMIO_PUBSUB_CONNECTION_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"HOMIO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"HOMIO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"HOMIO_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"HOMIO_OUTBOX_RETENTION_DAYS" default:"30"`
}

type AWSConfig struct {
	Region           string        `envconfig:"HOMIO_AWS_REGION" default:"ap-south-1"`
	SESFromAddress   string        `envconfig:"HOMIO_SES_FROM_ADDRESS"`
	SESReplyTo       string        `envconfig:"HOMIO_SES_REPLY_TO"`
	PhotoBucket      string        `envconfig:"HOMIO_S3_PHOTO_BUCKET"`
	UploadURLExpiry  time.Duration `envconfig:"HOMIO_S3_UPLOAD_URL_EXPIRY" default:"15m"`
	PublicAssetsBase string        `envconfig:"HOMIO_S3_PUBLIC_BASE_URL"`
}

// EmailEnabled reports whether a sender address is configured for SES.
func (a AWSConfig) EmailEnabled() bool {
	return strings.TrimSpace(a.SESFromAddress) != ""
}

type FeedConfig struct {
	DefaultPageSize int `envconfig:"HOMIO_FEED_DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize     int `envconfig:"HOMIO_FEED_MAX_PAGE_SIZE" default:"50"`
}

type DigestConfig struct {
	Timezone string        `envconfig:"HOMIO_DIGEST_TIMEZONE" default:"Asia/Kolkata"`
	Interval time.Duration `envconfig:"HOMIO_DIGEST_INTERVAL" default:"24h"`
	AppURL   string        `envconfig:"HOMIO_APP_PUBLIC_URL" default:"https://homio.app"`
}

type MigrationsConfig struct {
	AutoRunDev bool   `envconfig:"HOMIO_AUTO_MIGRATE" default:"false"`
	Dir        string `envconfig:"HOMIO_MIGRATIONS_DIR" default:"pkg/migrate/migrations"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
