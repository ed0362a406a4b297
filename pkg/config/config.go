package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read via Viper from env vars
// and optionally a file).
type Config struct {
	App  AppConfig
	DB   DBConfig
	JWT  JWTConfig
	HTTP HTTPConfig
	ETax ETaxConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env      string // dev, test, prod
	Name     string
	LogLevel string
}

// ETaxConfig settings for the e-tax pipeline and the AXONS TSP gateway.
type ETaxConfig struct {
	MasterDir string // directory holding the reference master files

	// Gen-PDF rendering API. Empty URL in dev means the local renderer is used.
	GenPDFURL    string
	GenPDFAPIKey string

	// TSP gateway (OAuth2 client-credentials + submission endpoints).
	TSPBaseURL      string
	TSPTokenURL     string
	TSPClientID     string
	TSPClientSecret string

	// Seller identity stamped on every assembled document.
	SellerTaxID  string
	SellerName   string
	SellerBranch string

	// TSP delivery settings agreed with the provider.
	NotifyEmail     string
	CCACode         string
	CCAName         string
	InternalDocType string

	// Workers bounds the batch-submission pool.
	Workers int
}

// DBConfig PostgreSQL settings. When DatabaseURL is set it is used as the
// full connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns DATABASE_URL when set, otherwise the built DSN.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds the PostgreSQL connection string with URL encoding so special
// characters in the password survive.
func (c DBConfig) DSN() string {
	userInfo := url.UserPassword(c.User, c.Password)

	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}

	return u.String()
}

// JWTConfig token settings.
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// HTTPConfig server settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from environment variables (and optionally a
// .env/config.env file); env vars win. Credentials are never defaulted: when
// the app env is "test" or "prod" the gateway credentials must be present or
// Load fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "dev"),
			Name:     getString(v, "APP_NAME", "etax-pipeline"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "etax_pipeline"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "etax-pipeline"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		ETax: ETaxConfig{
			MasterDir:       getString(v, "ETAX_MASTER_DIR", "./master"),
			GenPDFURL:       getString(v, "ETAX_GENPDF_URL", ""),
			GenPDFAPIKey:    getString(v, "ETAX_GENPDF_API_KEY", ""),
			TSPBaseURL:      getString(v, "ETAX_TSP_BASE_URL", ""),
			TSPTokenURL:     getString(v, "ETAX_TSP_TOKEN_URL", ""),
			TSPClientID:     getString(v, "ETAX_TSP_CLIENT_ID", ""),
			TSPClientSecret: getString(v, "ETAX_TSP_CLIENT_SECRET", ""),
			SellerTaxID:     getString(v, "ETAX_SELLER_TAX_ID", ""),
			SellerName:      getString(v, "ETAX_SELLER_NAME", ""),
			SellerBranch:    getString(v, "ETAX_SELLER_BRANCH", ""),
			NotifyEmail:     getString(v, "ETAX_NOTIFY_EMAIL", ""),
			CCACode:         getString(v, "ETAX_CCA_CODE", ""),
			CCAName:         getString(v, "ETAX_CCA_NAME", ""),
			InternalDocType: getString(v, "ETAX_INTERNAL_DOC_TYPE", ""),
			Workers:         getInt(v, "ETAX_WORKERS", 4),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate enforces fail-fast on missing secrets. Dev runs without gateway
// credentials (local renderer, no real submission); test/prod do not.
func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.ETax.Workers < 1 {
		return fmt.Errorf("config: ETAX_WORKERS must be >= 1")
	}
	if c.App.Env == "dev" || c.App.Env == "development" {
		return nil
	}
	missing := []string{}
	if c.ETax.TSPBaseURL == "" {
		missing = append(missing, "ETAX_TSP_BASE_URL")
	}
	if c.ETax.TSPTokenURL == "" {
		missing = append(missing, "ETAX_TSP_TOKEN_URL")
	}
	if c.ETax.TSPClientID == "" {
		missing = append(missing, "ETAX_TSP_CLIENT_ID")
	}
	if c.ETax.TSPClientSecret == "" {
		missing = append(missing, "ETAX_TSP_CLIENT_SECRET")
	}
	if c.ETax.GenPDFAPIKey == "" {
		missing = append(missing, "ETAX_GENPDF_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required gateway settings for env %q: %s",
			c.App.Env, strings.Join(missing, ", "))
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
