// Package config loads the board server settings.
//
// Values are layered: built-in defaults, then an optional YAML file named by
// --config, then environment variables, then command-line flags. The last
// layer that sets a value wins.
package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Storage backends.
const (
	StorageFile  = "file"
	StorageMongo = "mongo"
)

// Config holds runtime settings for the board server.
type Config struct {
	// Env selects the logger flavour: "dev" gives console output.
	Env  string `yaml:"env"`
	Port string `yaml:"port"`

	// Storage is StorageFile (CSV logs under DataDir) or StorageMongo.
	Storage       string `yaml:"storage"`
	DataDir       string `yaml:"data_dir"`
	MongoURI      string `yaml:"mongodb_uri"`
	MongoDatabase string `yaml:"mongodb_database"`

	// JWTKeys maps key ids to secrets for rotation. When empty JWTSecret is
	// the only key.
	JWTSecret    string            `yaml:"jwt_secret"`
	JWTKeys      map[string]string `yaml:"jwt_keys"`
	JWTActiveKid string            `yaml:"jwt_active_kid"`
	TokenTTL     time.Duration     `yaml:"token_ttl"`

	RateLimitRPM   int `yaml:"rate_limit_rpm"`
	RateLimitBurst int `yaml:"rate_limit_burst"`

	TLSCert    string `yaml:"tls_cert"`
	TLSKey     string `yaml:"tls_key"`
	RequireTLS bool   `yaml:"require_tls"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Env:             "production",
		Port:            "50051",
		Storage:         StorageFile,
		DataDir:         ".",
		MongoDatabase:   "board_db",
		TokenTTL:        24 * time.Hour,
		RateLimitRPM:    10,
		RateLimitBurst:  3,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Dev reports whether development logging was requested.
func (c *Config) Dev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// TLSEnabled reports whether a certificate pair is configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Validate reports every inconsistency in c at once.
func (c *Config) Validate() error {
	var err error
	switch c.Storage {
	case StorageFile:
		if c.DataDir == "" {
			err = multierr.Append(err, errors.New("data_dir is required for file storage"))
		}
	case StorageMongo:
		if c.MongoURI == "" {
			err = multierr.Append(err, errors.New("MONGODB_URI must be set for mongo storage"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown storage backend %q", c.Storage))
	}

	if len(c.JWTKeys) == 0 && c.JWTSecret == "" {
		err = multierr.Append(err, errors.New("either JWT_SECRET or JWT_KEYS must be set"))
	}
	if len(c.JWTKeys) > 0 {
		if _, ok := c.JWTKeys[c.JWTActiveKid]; !ok {
			err = multierr.Append(err, fmt.Errorf("JWT_ACTIVE_KID %q is not one of JWT_KEYS", c.JWTActiveKid))
		}
	}
	if c.TokenTTL <= 0 {
		err = multierr.Append(err, errors.New("token_ttl must be positive"))
	}
	if c.RateLimitRPM <= 0 {
		err = multierr.Append(err, errors.New("RATE_LIMIT_RPM must be positive"))
	}

	if (c.TLSCert == "") != (c.TLSKey == "") {
		err = multierr.Append(err, errors.New("TLS_CERT and TLS_KEY must be set together"))
	}
	if c.RequireTLS && !c.TLSEnabled() {
		err = multierr.Append(err, errors.New("REQUIRE_TLS is true but TLS_CERT/TLS_KEY are not configured"))
	}
	return err
}
