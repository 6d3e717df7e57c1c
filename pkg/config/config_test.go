package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestParseInitialAdmins(t *testing.T) {
	is := is.New(t)
	is.NoErr(os.Setenv("VENTURELINK_INITIAL_ADMINS", "jane"))
	t.Cleanup(func() {
		is.NoErr(os.Unsetenv("VENTURELINK_INITIAL_ADMINS"))
	})
	cfg := &Config{
		InitialAdmins: []string{"carlos"},
	}
	is.NoErr(cfg.ParseEnv())
	is.Equal(len(cfg.InitialAdmins), 2) // should have both admins
}

func TestDropInvalidInitialAdmins(t *testing.T) {
	is := is.New(t)
	cfg := &Config{
		InitialAdmins: []string{"jane", "-nope", "jane", "", "Carlos"},
	}
	is.NoErr(cfg.Validate())
	is.Equal(cfg.InitialAdmins, []string{"jane", "Carlos"})
}

func TestParseCORSOrigins(t *testing.T) {
	is := is.New(t)
	is.NoErr(os.Setenv("VENTURELINK_HTTP_CORS_ALLOWED_ORIGINS", "https://app.example.com,https://staging.example.com"))
	t.Cleanup(func() {
		is.NoErr(os.Unsetenv("VENTURELINK_HTTP_CORS_ALLOWED_ORIGINS"))
	})
	cfg := DefaultConfig()
	is.NoErr(cfg.ParseEnv())
	// Environment variables replace the config file value.
	is.Equal(cfg.HTTP.CORS.AllowedOrigins, []string{
		"https://app.example.com",
		"https://staging.example.com",
	})
}

func TestValidateDefaultConfig(t *testing.T) {
	is := is.New(t)
	is.NoErr(os.Setenv("VENTURELINK_DATA_PATH", t.TempDir()))
	t.Cleanup(func() {
		is.NoErr(os.Unsetenv("VENTURELINK_DATA_PATH"))
	})
	cfg := DefaultConfig()
	is.NoErr(cfg.Validate())
	is.True(filepath.IsAbs(cfg.DataPath))
	is.True(filepath.IsAbs(cfg.DB.DataSource))
	is.True(filepath.IsAbs(cfg.JWT.KeyPath))
}

func TestValidateTrimsPublicURL(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.HTTP.PublicURL = "https://vl.example.com/"
	is.NoErr(cfg.Validate())
	is.Equal(cfg.HTTP.PublicURL, "https://vl.example.com")
}

func TestValidateRosterTimeout(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Roster.Timeout = -1
	is.NoErr(cfg.Validate())
	is.Equal(cfg.Roster.Timeout, 15)
}

func TestEnviron(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = "/tmp/vl"

	envs := map[string]string{}
	for _, kv := range cfg.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		is.True(ok)
		envs[k] = v
	}

	is.Equal(envs["VENTURELINK_NAME"], "VentureLink")
	is.Equal(envs["VENTURELINK_HTTP_LISTEN_ADDR"], ":8484")
	is.Equal(envs["VENTURELINK_HTTP_CORS_ALLOWED_METHODS"], "GET,POST,PUT,DELETE")
	is.Equal(envs["VENTURELINK_WEBHOOK_DELIVERY_RETENTION"], "30")
	is.Equal(envs["VENTURELINK_JOBS_ENABLED"], "true")
	is.Equal(envs["VENTURELINK_DATA_PATH"], "/tmp/vl")

	var nilCfg *Config
	is.Equal(len(nilCfg.Environ()), 0)
}

func TestCustomConfigLocation(t *testing.T) {
	is := is.New(t)
	is.NoErr(os.Setenv("VENTURELINK_CONFIG_LOCATION", filepath.Join("testdata", "config.yaml")))
	t.Cleanup(func() {
		is.NoErr(os.Unsetenv("VENTURELINK_CONFIG_LOCATION"))
	})
	cfg := DefaultConfig()
	is.NoErr(cfg.ParseFile())
	is.Equal(cfg.Name, "Test server name")
}

func TestCustomConfigLocationMissing(t *testing.T) {
	is := is.New(t)
	is.NoErr(os.Setenv("VENTURELINK_CONFIG_LOCATION", filepath.Join("testdata", "nope.yaml")))
	t.Cleanup(func() {
		is.NoErr(os.Unsetenv("VENTURELINK_CONFIG_LOCATION"))
	})
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	// Missing custom locations fall back to the data path.
	is.Equal(cfg.ConfigPath(), filepath.Join(cfg.DataPath, "config.yaml"))
}
