package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for file decoding. Durations accept "90m" or
// integer nanoseconds. Only fields present in the file override the current
// values.
type FileConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn" yaml:"database_dsn"`
	RedisAddr                   *string         `json:"redis_addr" yaml:"redis_addr"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	MinPasswordLength           *int            `json:"min_password_length" yaml:"min_password_length"`
	PasswordHashAlgorithm       *string         `json:"password_hash_algorithm" yaml:"password_hash_algorithm"`
	BcryptCost                  *int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	CORSAllowedOrigins          []string        `json:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	LogLevel                    *string         `json:"log_level" yaml:"log_level"`
	TrustProxyHeaders           *bool           `json:"trust_proxy_headers" yaml:"trust_proxy_headers"`
}

// parseFile overlays the file given with -c/-config. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON. No flag, no change.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("error decoding config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.RedisAddr != nil {
		config.RedisAddr = *c.RedisAddr
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.MinPasswordLength != nil {
		config.MinPasswordLength = *c.MinPasswordLength
	}
	if c.PasswordHashAlgorithm != nil {
		config.PasswordHashAlgorithm = *c.PasswordHashAlgorithm
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.TrustProxyHeaders != nil {
		config.TrustProxyHeaders = *c.TrustProxyHeaders
	}
}
