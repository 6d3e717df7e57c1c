package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/venturelinkhq/venturelink/pkg/utils"
)

// HTTPConfig is the HTTP configuration for the server.
type HTTPConfig struct {
	// Enabled toggles the HTTP API.
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// ListenAddr is the bind address of the HTTP server.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// TLSKeyPath points at the TLS private key. TLS is served when both
	// paths are set.
	TLSKeyPath string `env:"TLS_KEY_PATH" yaml:"tls_key_path"`

	// TLSCertPath points at the TLS certificate.
	TLSCertPath string `env:"TLS_CERT_PATH" yaml:"tls_cert_path"`

	// PublicURL is the address clients reach the server at. It is also
	// the issuer and audience of session tokens.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`

	// CORS is the CORS configuration for browser clients.
	CORS CORSConfig `envPrefix:"CORS_" yaml:"cors"`
}

// CORSConfig is the CORS configuration for the HTTP API.
type CORSConfig struct {
	// Enabled toggles CORS headers.
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// AllowedOrigins lists the origins allowed to call the API.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," yaml:"allowed_origins"`

	// AllowedHeaders lists the request headers allowed on CORS requests.
	AllowedHeaders []string `env:"ALLOWED_HEADERS" envSeparator:"," yaml:"allowed_headers"`

	// AllowedMethods lists the methods allowed on CORS requests.
	AllowedMethods []string `env:"ALLOWED_METHODS" envSeparator:"," yaml:"allowed_methods"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// Enabled toggles the metrics endpoint.
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// ListenAddr is the bind address of the metrics server.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format selects the log encoding, one of "json", "logfmt", or
	// "text".
	Format string `env:"FORMAT" yaml:"format"`

	// TimeFormat is the Go time layout used for log timestamps.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path appends logs to a file instead of stderr when set.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver selects the database driver, "sqlite" or "postgres".
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the driver-specific connection string.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// JWTConfig is the configuration for session tokens.
type JWTConfig struct {
	// KeyPath is the path to the Ed25519 key pair used to sign session
	// tokens. The pair is created on first run if it does not exist.
	KeyPath string `env:"KEY_PATH" yaml:"key_path"`
}

// WebhookConfig is the configuration for roster webhooks.
type WebhookConfig struct {
	// DeliveryRetention is the number of days webhook delivery records are
	// kept before the prune job removes them.
	DeliveryRetention int `env:"DELIVERY_RETENTION" yaml:"delivery_retention"`
}

// RosterConfig is the configuration for the roster synchronizer.
type RosterConfig struct {
	// Timeout is the per-remote-call timeout in seconds.
	Timeout int `env:"TIMEOUT" yaml:"timeout"`
}

// JobsConfig is the configuration for cron jobs.
type JobsConfig struct {
	// Enabled is whether or not the cron scheduler runs.
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// PruneDeliveries is the schedule for pruning old webhook deliveries.
	PruneDeliveries string `env:"PRUNE_DELIVERIES" yaml:"prune_deliveries"`

	// PruneTokens is the schedule for pruning expired access tokens.
	PruneTokens string `env:"PRUNE_TOKENS" yaml:"prune_tokens"`
}

// Config is the configuration for VentureLink.
type Config struct {
	// Name is the server name reported to clients.
	Name string `env:"NAME" yaml:"name"`

	// HTTP configures the HTTP API server.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats configures the metrics server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log configures the logger.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB configures the database connection.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// JWT configures session token signing.
	JWT JWTConfig `envPrefix:"JWT_" yaml:"jwt"`

	// Webhook configures roster webhooks.
	Webhook WebhookConfig `envPrefix:"WEBHOOK_" yaml:"webhook"`

	// Roster configures the roster synchronizer.
	Roster RosterConfig `envPrefix:"ROSTER_" yaml:"roster"`

	// Jobs configures the cron scheduler.
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// InitialAdmins lists user handles created as admins on first run.
	InitialAdmins []string `env:"INITIAL_ADMINS" envSeparator:"," yaml:"initial_admins"`

	// DataPath is the directory all relative paths anchor to. It is never
	// read from the config file itself.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Environ renders the effective configuration as VENTURELINK_* variables in
// struct field order, driven by the same env tags the parser reads.
func (c *Config) Environ() []string {
	if c == nil {
		return nil
	}

	return environ(reflect.ValueOf(*c), "VENTURELINK_")
}

func environ(v reflect.Value, prefix string) []string {
	var envs []string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)

		if p, ok := field.Tag.Lookup("envPrefix"); ok {
			envs = append(envs, environ(value, prefix+p)...)
			continue
		}

		name, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}

		var val string
		switch value.Kind() {
		case reflect.String:
			val = value.String()
		case reflect.Bool:
			val = strconv.FormatBool(value.Bool())
		case reflect.Int:
			val = strconv.FormatInt(value.Int(), 10)
		case reflect.Slice:
			sep := field.Tag.Get("envSeparator")
			if sep == "" {
				sep = ","
			}
			parts := make([]string, value.Len())
			for j := range parts {
				parts[j] = fmt.Sprint(value.Index(j).Interface())
			}
			val = strings.Join(parts, sep)
		default:
			val = fmt.Sprint(value.Interface())
		}

		envs = append(envs, prefix+name+"="+val)
	}

	return envs
}

// IsDebug reports whether debug logging is requested through the
// environment.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("VENTURELINK_DEBUG"))
	return debug
}

// IsVerbose reports whether verbose logging is requested. Verbose has no
// effect without debug.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("VENTURELINK_VERBOSE"))
	return IsDebug() && verbose
}

// ParseFile loads the YAML config file at ConfigPath and validates the
// result.
func (c *Config) ParseFile() error {
	f, err := os.Open(c.ConfigPath())
	if err != nil {
		return err
	}
	defer f.Close() // nolint: errcheck

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return c.Validate()
}

// ParseEnv overlays VENTURELINK_* environment variables onto the config and
// validates the result. Initial admins are the union of the config file and
// the environment rather than the usual replace, so the environment can add
// admins without clobbering the file.
func (c *Config) ParseEnv() error {
	fromFile := append([]string{}, c.InitialAdmins...)

	if err := env.ParseWithOptions(c, env.Options{
		Prefix: "VENTURELINK_",
	}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if os.Getenv("VENTURELINK_INITIAL_ADMINS") != "" {
		c.InitialAdmins = append(c.InitialAdmins, fromFile...)
	}

	return c.Validate()
}

// WriteConfig writes the configuration file to ConfigPath, creating parent
// directories as needed.
func (c *Config) WriteConfig() error {
	path := c.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(newConfigFile(c)), 0o644) // nolint: gosec
}

// DefaultDataPath returns the data directory, VENTURELINK_DATA_PATH when
// set and "data" otherwise.
func DefaultDataPath() string {
	if dp := os.Getenv("VENTURELINK_DATA_PATH"); dp != "" {
		return dp
	}

	return "data"
}

// ConfigPath returns the path to the config file. A custom location can be
// set with the VENTURELINK_CONFIG_LOCATION environment variable.
func (c *Config) ConfigPath() string { // nolint:revive
	if p := os.Getenv("VENTURELINK_CONFIG_LOCATION"); p != "" && fileExists(p) {
		return p
	}

	return filepath.Join(c.DataPath, "config.yaml")
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return fileExists(c.ConfigPath())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DefaultConfig returns the default Config. Path values stay relative to
// the data directory until Validate anchors them.
func DefaultConfig() *Config {
	return &Config{
		Name:     "VentureLink",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			Enabled:    true,
			ListenAddr: ":8484",
			PublicURL:  "http://localhost:8484",
			CORS: CORSConfig{
				AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			},
		},
		Stats: StatsConfig{
			Enabled:    true,
			ListenAddr: "localhost:8485",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DataSource: "venturelink.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		JWT: JWTConfig{
			KeyPath: filepath.Join("jwt", "venturelink_jwt_ed25519"),
		},
		Webhook: WebhookConfig{
			DeliveryRetention: 30,
		},
		Roster: RosterConfig{
			Timeout: 15,
		},
		Jobs: JobsConfig{
			Enabled:         true,
			PruneDeliveries: "@every 1h",
			PruneTokens:     "@daily",
		},
	}
}

// absJoin anchors path under dir unless it is empty or already absolute.
func absJoin(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

// Validate normalizes the configuration in place. Relative paths are
// anchored under DataPath and out-of-range values fall back to their
// defaults.
func (c *Config) Validate() error {
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")
	c.HTTP.TLSKeyPath = absJoin(c.DataPath, c.HTTP.TLSKeyPath)
	c.HTTP.TLSCertPath = absJoin(c.DataPath, c.HTTP.TLSCertPath)
	c.JWT.KeyPath = absJoin(c.DataPath, c.JWT.KeyPath)

	if strings.HasPrefix(c.DB.Driver, "sqlite") {
		c.DB.DataSource = absJoin(c.DataPath, c.DB.DataSource)
	}

	if c.Webhook.DeliveryRetention <= 0 {
		c.Webhook.DeliveryRetention = 30
	}

	if c.Roster.Timeout <= 0 {
		c.Roster.Timeout = 15
	}

	// Drop invalid admin handles.
	admins := make([]string, 0, len(c.InitialAdmins))
	seen := make(map[string]struct{}, len(c.InitialAdmins))
	for _, handle := range c.InitialAdmins {
		handle = strings.TrimSpace(handle)
		if err := utils.ValidateHandle(handle); err != nil {
			continue
		}
		lower := strings.ToLower(handle)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		admins = append(admins, handle)
	}

	c.InitialAdmins = admins

	return nil
}
