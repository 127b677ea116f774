package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/pkg/authz"
)

var DefaultEnvFiles = []string{".env", ".env.local"}

type DatabaseOptions struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port     string `env:"DB_PORT" envDefault:"5438"`
	User     string `env:"DB_USER" envDefault:"app"`
	Password string `env:"DB_PASSWORD" envDefault:"app"`
	Name     string `env:"DB_NAME" envDefault:"orgcatalog"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	QueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	ConnectRetries uint          `env:"DB_CONNECT_RETRIES" envDefault:"5"`
}

// DSN returns DATABASE_URL when set and otherwise assembles one from DB_*.
func (d DatabaseOptions) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type PayrollDBOptions struct {
	URL string `env:"MSSQL_URL"`
}

type LogOptions struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Dir        string `env:"LOG_DIR" envDefault:"./logs"`
	File       string `env:"LOG_FILE" envDefault:"orgcatalog.log"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"10"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

type AuthzOptions struct {
	ModelPath           string `env:"AUTHZ_MODEL_PATH" envDefault:"config/access/model.conf"`
	PolicyPath          string `env:"AUTHZ_POLICY_PATH" envDefault:"config/access/policy.csv"`
	Mode                string `env:"AUTHZ_MODE" envDefault:"enforce"`
	UnsafeAllowDisabled bool   `env:"AUTHZ_UNSAFE_ALLOW_DISABLED" envDefault:"false"`
	RoleHeader          string `env:"ROLE_HEADER" envDefault:"X-Role"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type Configuration struct {
	Database   DatabaseOptions
	PayrollDB  PayrollDBOptions
	Log        LogOptions
	Authz      AuthzOptions
	Prometheus PrometheusOptions

	HTTPAddr           string   `env:"HTTP_ADDR" envDefault:":8080"`
	AllowlistPath      string   `env:"ALLOWLIST_PATH" envDefault:"config/routing/allowlist.yaml"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RequestIDHeader    string   `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`

	authzMode authz.Mode
}

// LoadEnv loads the env files that exist and reports how many were found.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if st, err := os.Stat(file); err == nil && !st.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load(envFiles ...string) (*Configuration, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("configuration: load env files: %w", err)
	}
	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Configuration) validate() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "silent", "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("invalid LOG_LEVEL=%q (expected silent|error|warn|info|debug)", c.Log.Level)
	}
	c.Log.Level = level

	mode, err := authz.ParseMode(c.Authz.Mode, c.Authz.UnsafeAllowDisabled)
	if err != nil {
		return err
	}
	c.authzMode = mode

	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("invalid DB_QUERY_TIMEOUT=%s (must be positive)", c.Database.QueryTimeout)
	}
	if strings.TrimSpace(c.Log.File) == "" || strings.ContainsAny(c.Log.File, `/\`) {
		return errors.New("invalid LOG_FILE (expected a bare file name)")
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("invalid LOG_MAX_SIZE_MB=%d (must be positive)", c.Log.MaxSizeMB)
	}
	if c.Prometheus.Enabled && !strings.HasPrefix(c.Prometheus.Path, "/") {
		return fmt.Errorf("invalid PROMETHEUS_METRICS_PATH=%q", c.Prometheus.Path)
	}
	if strings.TrimSpace(c.Authz.RoleHeader) == "" {
		c.Authz.RoleHeader = "X-Role"
	}
	return nil
}

func (c *Configuration) AuthzMode() authz.Mode {
	if c.authzMode == "" {
		return authz.ModeEnforce
	}
	return c.authzMode
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.Log.Level {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
