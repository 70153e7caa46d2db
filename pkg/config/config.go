package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	WhatsApp     WhatsAppConfig
	Oracle       OracleConfig
	Bot          BotConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"PEDIDOZ_APP_ENV" required:"true"`
	Port         string `envconfig:"PEDIDOZ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PEDIDOZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PEDIDOZ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PEDIDOZ_DB_DSN"`
	Driver string `envconfig:"PEDIDOZ_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PEDIDOZ_DB_HOST"`
	LegacyPort     int    `envconfig:"PEDIDOZ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PEDIDOZ_DB_USER"`
	LegacyPassword string `envconfig:"PEDIDOZ_DB_PASSWORD"`
	LegacyName     string `envconfig:"PEDIDOZ_DB_NAME"`
	LegacySSLMode  string `envconfig:"PEDIDOZ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PEDIDOZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PEDIDOZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PEDIDOZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PEDIDOZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PEDIDOZ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PEDIDOZ_REDIS_ADDR"`
	Password     string        `envconfig:"PEDIDOZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"PEDIDOZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PEDIDOZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PEDIDOZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PEDIDOZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PEDIDOZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PEDIDOZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type WhatsAppConfig struct {
	Token         string        `envconfig:"PEDIDOZ_WHATSAPP_TOKEN" required:"true"`
	PhoneNumberID string        `envconfig:"PEDIDOZ_WHATSAPP_PHONE_NUMBER_ID" required:"true"`
	VerifyToken   string        `envconfig:"PEDIDOZ_WHATSAPP_VERIFY_TOKEN" required:"true"`
	AppSecret     string        `envconfig:"PEDIDOZ_WHATSAPP_APP_SECRET"`
	BaseURL       string        `envconfig:"PEDIDOZ_WHATSAPP_BASE_URL" default:"https://graph.facebook.com/v19.0"`
	Timeout       time.Duration `envconfig:"PEDIDOZ_WHATSAPP_TIMEOUT" default:"10s"`
}

type OracleConfig struct {
	Enabled bool          `envconfig:"PEDIDOZ_ORACLE_ENABLED" default:"false"`
	APIKey  string        `envconfig:"PEDIDOZ_ORACLE_API_KEY"`
	BaseURL string        `envconfig:"PEDIDOZ_ORACLE_BASE_URL" default:"https://openrouter.ai/api/v1"`
	Model   string        `envconfig:"PEDIDOZ_ORACLE_MODEL" default:"moonshotai/kimi-k2:free"`
	Timeout time.Duration `envconfig:"PEDIDOZ_ORACLE_TIMEOUT" default:"15s"`
}

type BotConfig struct {
	CancelKeyword    string        `envconfig:"PEDIDOZ_BOT_CANCEL_KEYWORD" default:"cancelar"`
	ResetKeyword     string        `envconfig:"PEDIDOZ_BOT_RESET_KEYWORD" default:"reiniciar"`
	SessionTTL       time.Duration `envconfig:"PEDIDOZ_BOT_SESSION_TTL" default:"24h"`
	TurnLeaseTTL     time.Duration `envconfig:"PEDIDOZ_BOT_TURN_LEASE_TTL" default:"30s"`
	MaxButtonChoices int           `envconfig:"PEDIDOZ_BOT_MAX_BUTTON_CHOICES" default:"3"`
	MaxListChoices   int           `envconfig:"PEDIDOZ_BOT_MAX_LIST_CHOICES" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PEDIDOZ_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PEDIDOZ_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PEDIDOZ_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PEDIDOZ_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PEDIDOZ_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"PEDIDOZ_PUBSUB_ORDERS_TOPIC" default:"pedidoz-order-events"`
	OrdersSubscription string `envconfig:"PEDIDOZ_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PEDIDOZ_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PEDIDOZ_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PEDIDOZ_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
