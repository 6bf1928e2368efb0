package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/orgsvc/orgsvc/pkg/access"
)

func TestDefaultConfigValidates(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	is.NoErr(cfg.Validate())
	is.Equal(cfg.Auth.TokenTTL, 3600)
	is.Equal(cfg.Auth.SigningMethod, SigningMethodHS256)
	is.Equal(cfg.Membership.AddMemberPolicy, access.MembersOnly)
	is.True(filepath.IsAbs(cfg.Auth.KeyPath))
	is.Equal(cfg.DB.DataSource, filepath.Join(cfg.DataPath, "orgsvc.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"))
}

func TestParseEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("ORGSVC_DATA_PATH", t.TempDir())
	t.Setenv("ORGSVC_AUTH_JWT_SECRET", "s3cr3t")
	t.Setenv("ORGSVC_AUTH_TOKEN_TTL", "120")
	t.Setenv("ORGSVC_MEMBERSHIP_ADD_MEMBER_POLICY", "open")
	cfg := DefaultConfig()
	is.NoErr(cfg.ParseEnv())
	is.Equal(cfg.Auth.JWTSecret, "s3cr3t")
	is.Equal(cfg.Auth.TokenTTL, 120)
	is.Equal(cfg.Membership.AddMemberPolicy, access.Open)
}

func TestParseEnvInvalidPolicy(t *testing.T) {
	is := is.New(t)
	t.Setenv("ORGSVC_MEMBERSHIP_ADD_MEMBER_POLICY", "everyone")
	cfg := DefaultConfig()
	is.True(cfg.ParseEnv() != nil)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
		err  error
	}{
		{"bad signing method", func(c *Config) { c.Auth.SigningMethod = "rs256" }, ErrInvalidSigningMethod},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, ErrInvalidTokenTTL},
		{"negative ttl", func(c *Config) { c.Auth.TokenTTL = -1 }, ErrInvalidTokenTTL},
		{"cost too high", func(c *Config) { c.Auth.BcryptCost = 99 }, ErrInvalidBcryptCost},
		{"upper case method", func(c *Config) { c.Auth.SigningMethod = "EdDSA" }, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataPath = t.TempDir()
			c.mod(cfg)
			err := cfg.Validate()
			if !errors.Is(err, c.err) {
				t.Errorf("Validate() => %v, want %v", err, c.err)
			}
		})
	}
}

func TestWriteAndParseConfig(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.Name = "written"
	cfg.Auth.TokenTTL = 42
	is.NoErr(cfg.WriteConfig())
	is.True(cfg.Exist())

	parsed := DefaultConfig()
	parsed.DataPath = cfg.DataPath
	is.NoErr(parsed.ParseFile())
	is.Equal(parsed.Name, "written")
	is.Equal(parsed.Auth.TokenTTL, 42)
	is.Equal(parsed.HTTP.CORS.AllowedOrigins, []string{"*"})
}

func TestCustomConfigLocation(t *testing.T) {
	is := is.New(t)
	td := t.TempDir()

	// Test that we get data from the custom file location, and not from the data dir.
	t.Setenv("ORGSVC_CONFIG_LOCATION", "testdata/config.yaml")
	t.Setenv("ORGSVC_DATA_PATH", td)
	cfg := DefaultConfig()
	is.NoErr(cfg.Parse())
	is.Equal(cfg.Name, "Test server name")
	is.Equal(cfg.Auth.SigningMethod, SigningMethodEdDSA)
	is.Equal(cfg.Auth.TokenTTL, 60)
	is.Equal(cfg.Membership.AddMemberPolicy, access.Open)

	// If we unset the custom location, then use the default location.
	is.NoErr(os.Unsetenv("ORGSVC_CONFIG_LOCATION"))
	cfg = DefaultConfig()
	is.Equal(cfg.ConfigPath(), filepath.Join(td, "config.yaml"))

	// Test that if the custom config location doesn't exist, default to datapath config.
	t.Setenv("ORGSVC_CONFIG_LOCATION", "testdata/config_nonexistent.yaml")
	cfg = DefaultConfig()
	is.Equal(cfg.ConfigPath(), filepath.Join(td, "config.yaml"))
}

func TestParseMultipleOrigins(t *testing.T) {
	is := is.New(t)
	t.Setenv("ORGSVC_HTTP_CORS_ALLOWED_ORIGINS", "http://example.com,https://example.com")
	cfg := DefaultConfig()
	is.NoErr(cfg.ParseEnv())
	is.Equal(cfg.HTTP.CORS.AllowedOrigins, []string{
		"http://example.com",
		"https://example.com",
	})
}

func TestEnviron(t *testing.T) {
	is := is.New(t)
	is.Equal(len((*Config)(nil).Environ()), 0)
	envs := DefaultConfig().Environ()
	is.True(len(envs) > 0)
	for _, e := range envs {
		if e == "ORGSVC_MEMBERSHIP_ADD_MEMBER_POLICY=members-only" {
			return
		}
	}
	t.Errorf("Environ() => %v, want add member policy", envs)
}
