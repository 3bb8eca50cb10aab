package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the gateway and task services.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Auth  AuthConfig
	Taskd TaskdConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type RedisConfig struct {
	Host string
	Port int
}

// AuthConfig describes the asymmetric signing setup and token lifetimes.
// Only the gateway needs the private key; it must never be logged or
// exposed through any endpoint.
type AuthConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	Algorithm      string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TaskdConfig locates the internal task CRUD service the gateway proxies to.
type TaskdConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Load reads the full gateway configuration from env.
func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	parseErrs = c.loadAppDB(parseErrs)

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.PrivateKeyPath = strings.TrimSpace(os.Getenv("JWT_PRIVATE_KEY_PATH"))
	c.Auth.PublicKeyPath = strings.TrimSpace(os.Getenv("JWT_PUBLIC_KEY_PATH"))
	c.Auth.Algorithm = strings.TrimSpace(os.Getenv("JWT_ALGORITHM"))
	c.Auth.AccessTokenTTL = minutesEnv("ACCESS_TOKEN_TTL_MINUTES")
	c.Auth.RefreshTokenTTL = daysEnv("REFRESH_TOKEN_TTL_DAYS")

	c.Taskd.Host = strings.TrimSpace(os.Getenv("TASKD_HOST"))
	{
		n, err := mustInt("TASKD_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Taskd.Port = n
	}
	c.Taskd.Timeout = durationEnv("TASKD_TIMEOUT")

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadTaskd reads only what the task CRUD service needs: app and database
// settings. The env keys are shared with the gateway deployment.
func LoadTaskd() (Config, error) {
	c := Config{}
	var parseErrs []error

	parseErrs = c.loadAppDB(parseErrs)

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := joinErrors(c.validateAppDB()); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) loadAppDB(parseErrs []error) []error {
	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	return parseErrs
}

func (c *Config) validateAppDB() []error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.DB.SSLMode == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	return errs
}

func (c *Config) Validate() error {
	errs := c.validateAppDB()

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.PrivateKeyPath == "" {
		errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required"))
	}
	if c.Auth.PublicKeyPath == "" {
		errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required"))
	}
	if c.Auth.Algorithm == "" {
		c.Auth.Algorithm = "RS256"
	}
	if !isValidAlgorithm(c.Auth.Algorithm) {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM must be one of RS256, RS384, RS512, got %q", c.Auth.Algorithm))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		// Short-lived access tokens.
		c.Auth.AccessTokenTTL = 30 * time.Minute
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		// Longer-lived refresh tokens.
		c.Auth.RefreshTokenTTL = 30 * 24 * time.Hour
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL_DAYS must exceed ACCESS_TOKEN_TTL_MINUTES"))
	}

	if c.Taskd.Host == "" {
		errs = append(errs, errors.New("TASKD_HOST is required"))
	}
	if c.Taskd.Port <= 0 || c.Taskd.Port > 65535 {
		errs = append(errs, fmt.Errorf("TASKD_PORT must be a valid port, got %d", c.Taskd.Port))
	}
	if c.Taskd.Timeout <= 0 {
		c.Taskd.Timeout = 5 * time.Second
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c Config) TaskdBaseURL() string {
	return fmt.Sprintf("http://%s:%d/tasks", c.Taskd.Host, c.Taskd.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

// minutesEnv and daysEnv return 0 when unset or malformed; defaults are
// applied in Validate().
func minutesEnv(key string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Minute
}

func daysEnv(key string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * 24 * time.Hour
}

func durationEnv(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func isValidAlgorithm(v string) bool {
	switch v {
	case "RS256", "RS384", "RS512":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
