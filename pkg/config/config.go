package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Idempotency   IdempotencyConfig
	FeatureFlags  FeatureFlagsConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"FOODORDER_APP_ENV" required:"true"`
	Port           string   `envconfig:"FOODORDER_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"FOODORDER_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"FOODORDER_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"FOODORDER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODORDER_DB_DSN"`
	Driver string `envconfig:"FOODORDER_DB_DRIVER" default:"postgres"`

	// SQLitePath is used when the sqlite feature flag is on.
	SQLitePath string `envconfig:"FOODORDER_DB_SQLITE_PATH" default:"foodorder.db"`

	Host     string `envconfig:"FOODORDER_DB_HOST"`
	Port     int    `envconfig:"FOODORDER_DB_PORT" default:"5432"`
	User     string `envconfig:"FOODORDER_DB_USER"`
	Password string `envconfig:"FOODORDER_DB_PASSWORD"`
	Name     string `envconfig:"FOODORDER_DB_NAME"`
	SSLMode  string `envconfig:"FOODORDER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODORDER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODORDER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODORDER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODORDER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODORDER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FOODORDER_REDIS_ADDR"`
	Password     string        `envconfig:"FOODORDER_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODORDER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODORDER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODORDER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODORDER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODORDER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODORDER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FOODORDER_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FOODORDER_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FOODORDER_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"FOODORDER_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOODORDER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOODORDER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOODORDER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOODORDER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOODORDER_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FOODORDER_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FOODORDER_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FOODORDER_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FOODORDER_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FOODORDER_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FOODORDER_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"FOODORDER_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite         bool `envconfig:"FOODORDER_USE_SQLITE" default:"false"`
	AutoMigrate       bool `envconfig:"FOODORDER_AUTO_MIGRATE" default:"false"`
	AllowLegacyBcrypt bool `envconfig:"FOODORDER_ALLOW_LEGACY_BCRYPT" default:"true"`
}

type PubSubConfig struct {
	ProjectID        string `envconfig:"FOODORDER_GCP_PROJECT_ID"`
	OrderEventsTopic string `envconfig:"FOODORDER_PUBSUB_ORDER_EVENTS_TOPIC" default:"foodorder-order-events"`
	CredentialsJSON  string `envconfig:"FOODORDER_GCP_CREDENTIALS_JSON"`
	CredentialsFile  string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"FOODORDER_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"FOODORDER_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"FOODORDER_OUTBOX_MAX_ATTEMPTS" default:"10"`
	BaseBackoff    time.Duration `envconfig:"FOODORDER_OUTBOX_BASE_BACKOFF" default:"2s"`
	MaxBackoff     time.Duration `envconfig:"FOODORDER_OUTBOX_MAX_BACKOFF" default:"5m"`
}

// PollInterval returns the outbox poll interval as a duration.
func (o OutboxConfig) PollInterval() time.Duration {
	if o.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(o.PollIntervalMS) * time.Millisecond
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
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
