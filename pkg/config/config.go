package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/orgsvc/orgsvc/pkg/access"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// HTTPConfig is the HTTP configuration for the server.
type HTTPConfig struct {
	// Enabled toggles the HTTP server on/off
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// PublicURL is the public URL of the HTTP server.
	// It is used as the issuer of the tokens minted by the server.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`

	// CORS is the cross-origin resource sharing configuration.
	CORS CORSConfig `envPrefix:"CORS_" yaml:"cors"`
}

// CORSConfig is the CORS configuration for the HTTP server.
type CORSConfig struct {
	AllowedHeaders []string `env:"ALLOWED_HEADERS" yaml:"allowed_headers"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	AllowedMethods []string `env:"ALLOWED_METHODS" yaml:"allowed_methods"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// Enabled toggles the Stats server on/off
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// ListenAddr is the address on which the stats server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver is the driver for the database.
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the database data source name.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// AuthConfig is the configuration for credentials and bearer tokens.
type AuthConfig struct {
	// SigningMethod is the token signing method.
	// Valid values are "hs256" and "eddsa".
	SigningMethod string `env:"SIGNING_METHOD" yaml:"signing_method"`

	// JWTSecret is the HMAC secret used with the "hs256" signing method.
	// It should be provided through the environment.
	JWTSecret string `env:"JWT_SECRET" yaml:"jwt_secret"`

	// KeyPath is the path to the Ed25519 private key used with the "eddsa"
	// signing method. The key is generated if it does not exist.
	KeyPath string `env:"KEY_PATH" yaml:"key_path"`

	// TokenTTL is the number of seconds a token is valid for.
	TokenTTL int `env:"TOKEN_TTL" yaml:"token_ttl"`

	// BcryptCost is the bcrypt cost used to hash passwords.
	BcryptCost int `env:"BCRYPT_COST" yaml:"bcrypt_cost"`
}

// MembershipConfig is the configuration for organisation memberships.
type MembershipConfig struct {
	// AddMemberPolicy decides who may add users to an organisation.
	// Valid values are "members-only" and "open".
	AddMemberPolicy access.Policy `env:"ADD_MEMBER_POLICY" yaml:"add_member_policy"`

	// UserCacheSize is the number of public user records kept in memory.
	UserCacheSize int `env:"USER_CACHE_SIZE" yaml:"user_cache_size"`
}

// Config is the configuration for orgsvc.
type Config struct {
	// Name is the name of the server.
	Name string `env:"NAME" yaml:"name"`

	// HTTP is the configuration for the HTTP server.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB is the database configuration.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// Auth is the credentials and token configuration.
	Auth AuthConfig `envPrefix:"AUTH_" yaml:"auth"`

	// Membership is the organisation membership configuration.
	Membership MembershipConfig `envPrefix:"MEMBERSHIP_" yaml:"membership"`

	// DataPath is the path to the directory where orgsvc will store its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Signing methods.
const (
	SigningMethodHS256 = "hs256"
	SigningMethodEdDSA = "eddsa"
)

var (
	// ErrNilConfig is returned when a nil config is passed to a function.
	ErrNilConfig = errors.New("nil config")

	// ErrInvalidSigningMethod is returned when the token signing method is
	// not supported.
	ErrInvalidSigningMethod = errors.New("invalid signing method")

	// ErrInvalidTokenTTL is returned when the token TTL is not positive.
	ErrInvalidTokenTTL = errors.New("token ttl must be positive")

	// ErrInvalidBcryptCost is returned when the bcrypt cost is out of range.
	ErrInvalidBcryptCost = errors.New("invalid bcrypt cost")
)

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	envs := []string{}
	if c == nil {
		return envs
	}

	// TODO: do this dynamically
	envs = append(envs, []string{
		fmt.Sprintf("ORGSVC_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("ORGSVC_NAME=%s", c.Name),
		fmt.Sprintf("ORGSVC_HTTP_ENABLED=%t", c.HTTP.Enabled),
		fmt.Sprintf("ORGSVC_HTTP_LISTEN_ADDR=%s", c.HTTP.ListenAddr),
		fmt.Sprintf("ORGSVC_HTTP_PUBLIC_URL=%s", c.HTTP.PublicURL),
		fmt.Sprintf("ORGSVC_HTTP_CORS_ALLOWED_HEADERS=%s", strings.Join(c.HTTP.CORS.AllowedHeaders, ",")),
		fmt.Sprintf("ORGSVC_HTTP_CORS_ALLOWED_ORIGINS=%s", strings.Join(c.HTTP.CORS.AllowedOrigins, ",")),
		fmt.Sprintf("ORGSVC_HTTP_CORS_ALLOWED_METHODS=%s", strings.Join(c.HTTP.CORS.AllowedMethods, ",")),
		fmt.Sprintf("ORGSVC_STATS_ENABLED=%t", c.Stats.Enabled),
		fmt.Sprintf("ORGSVC_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("ORGSVC_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("ORGSVC_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("ORGSVC_LOG_PATH=%s", c.Log.Path),
		fmt.Sprintf("ORGSVC_DB_DRIVER=%s", c.DB.Driver),
		fmt.Sprintf("ORGSVC_DB_DATA_SOURCE=%s", c.DB.DataSource),
		fmt.Sprintf("ORGSVC_AUTH_SIGNING_METHOD=%s", c.Auth.SigningMethod),
		fmt.Sprintf("ORGSVC_AUTH_KEY_PATH=%s", c.Auth.KeyPath),
		fmt.Sprintf("ORGSVC_AUTH_TOKEN_TTL=%d", c.Auth.TokenTTL),
		fmt.Sprintf("ORGSVC_AUTH_BCRYPT_COST=%d", c.Auth.BcryptCost),
		fmt.Sprintf("ORGSVC_MEMBERSHIP_ADD_MEMBER_POLICY=%s", c.Membership.AddMemberPolicy),
		fmt.Sprintf("ORGSVC_MEMBERSHIP_USER_CACHE_SIZE=%d", c.Membership.UserCacheSize),
	}...)

	return envs
}

// TTL returns the token lifetime as a duration.
func (c AuthConfig) TTL() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("ORGSVC_DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("ORGSVC_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	// Override with environment variables
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: "ORGSVC_",
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment variables.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if err := c.ParseFile(); err != nil {
		return err
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o600) // nolint: errcheck, gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the ORGSVC_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv("ORGSVC_DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file.
// ORGSVC_CONFIG_LOCATION takes precedence when it points to an existing file.
func (c *Config) ConfigPath() string { // nolint:revive
	if path := os.Getenv("ORGSVC_CONFIG_LOCATION"); exist(path) {
		return path
	}

	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	cfg := &Config{
		Name:     "orgsvc",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			Enabled:    true,
			ListenAddr: ":8080",
			PublicURL:  "http://localhost:8080",
			CORS: CORSConfig{
				AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			},
		},
		Stats: StatsConfig{
			Enabled:    true,
			ListenAddr: "localhost:8081",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DataSource: "orgsvc.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		Auth: AuthConfig{
			SigningMethod: SigningMethodHS256,
			KeyPath:       filepath.Join("keys", "orgsvc_token_ed25519"),
			TokenTTL:      3600,
			BcryptCost:    bcrypt.DefaultCost,
		},
		Membership: MembershipConfig{
			AddMemberPolicy: access.MembersOnly,
			UserCacheSize:   1000,
		},
	}

	return cfg
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")

	if strings.HasPrefix(c.DB.Driver, "sqlite") && !filepath.IsAbs(c.DB.DataSource) {
		c.DB.DataSource = filepath.Join(c.DataPath, c.DB.DataSource)
	}

	if c.Auth.KeyPath != "" && !filepath.IsAbs(c.Auth.KeyPath) {
		c.Auth.KeyPath = filepath.Join(c.DataPath, c.Auth.KeyPath)
	}

	c.Auth.SigningMethod = strings.ToLower(c.Auth.SigningMethod)
	switch c.Auth.SigningMethod {
	case SigningMethodHS256, SigningMethodEdDSA:
	case "":
		c.Auth.SigningMethod = SigningMethodHS256
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSigningMethod, c.Auth.SigningMethod)
	}

	if c.Auth.TokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}

	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = bcrypt.DefaultCost
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: %d", ErrInvalidBcryptCost, c.Auth.BcryptCost)
	}

	return nil
}
