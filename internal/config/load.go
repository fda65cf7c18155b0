package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Load builds a Config from args (without the program name) and the
// environment seen through getenv. It does not validate the result.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	path, err := configPath(args)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = getenv("BOARD_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(getenv); err != nil {
		return nil, err
	}

	fs := cfg.flagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configPath finds --config ahead of the full parse so the file can be
// applied underneath env and flags.
func configPath(args []string) (string, error) {
	fs := pflag.NewFlagSet("board", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	path := fs.String("config", "", "")
	fs.BoolP("help", "h", false, "")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("parse flags: %w", err)
	}
	return *path, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("BOARD_ENV", &c.Env)
	str("PORT", &c.Port)
	str("BOARD_STORAGE", &c.Storage)
	str("BOARD_DATA_DIR", &c.DataDir)
	str("MONGODB_URI", &c.MongoURI)
	str("MONGODB_DATABASE", &c.MongoDatabase)
	str("JWT_SECRET", &c.JWTSecret)
	str("JWT_ACTIVE_KID", &c.JWTActiveKid)
	str("TLS_CERT", &c.TLSCert)
	str("TLS_KEY", &c.TLSKey)

	if v := getenv("JWT_KEYS"); v != "" {
		keys, err := ParseKeys(v)
		if err != nil {
			return err
		}
		c.JWTKeys = keys
	}
	if v := getenv("RATE_LIMIT_RPM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPM: %w", err)
		}
		c.RateLimitRPM = n
	}
	if v := getenv("REQUIRE_TLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REQUIRE_TLS: %w", err)
		}
		c.RequireTLS = b
	}
	return nil
}

// ParseKeys parses "kid:secret,kid2:secret2".
func ParseKeys(s string) (map[string]string, error) {
	keys := map[string]string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kid, secret, ok := strings.Cut(p, ":")
		if !ok || kid == "" || secret == "" {
			return nil, fmt.Errorf("invalid JWT_KEYS entry %q", p)
		}
		keys[kid] = secret
	}
	return keys, nil
}

func (c *Config) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("board", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.StringVar(&c.Env, "env", c.Env, "environment (dev gives console logs)")
	fs.StringVarP(&c.Port, "port", "p", c.Port, "gRPC listen port")
	fs.StringVar(&c.Storage, "storage", c.Storage, "storage backend: file or mongo")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory holding the CSV logs")
	fs.StringVar(&c.MongoURI, "mongodb-uri", c.MongoURI, "MongoDB connection string")
	fs.StringVar(&c.MongoDatabase, "mongodb-database", c.MongoDatabase, "MongoDB database name")
	fs.StringVar(&c.JWTActiveKid, "jwt-active-kid", c.JWTActiveKid, "key id used to sign new tokens")
	fs.DurationVar(&c.TokenTTL, "token-ttl", c.TokenTTL, "session token lifetime")
	fs.IntVar(&c.RateLimitRPM, "rate-limit-rpm", c.RateLimitRPM, "Register calls per minute per email")
	fs.IntVar(&c.RateLimitBurst, "rate-limit-burst", c.RateLimitBurst, "Register burst per email")
	fs.StringVar(&c.TLSCert, "tls-cert", c.TLSCert, "TLS certificate file")
	fs.StringVar(&c.TLSKey, "tls-key", c.TLSKey, "TLS key file")
	fs.BoolVar(&c.RequireTLS, "require-tls", c.RequireTLS, "refuse to start without TLS")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "graceful stop deadline")
	return fs
}
