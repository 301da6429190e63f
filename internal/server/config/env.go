package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// loadEnvFile loads the dotenv file named by -e/-env-file, or ./.env when it
// exists. Variables already set in the process environment win.
func loadEnvFile(args []string) error {
	path := flagx.EnvFileFlag(args)
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error loading env file %s: %w", path, err)
}

// parseEnv overlays AUTH_* variables.
//
//	AUTH_ADDRESS               HTTP bind address
//	AUTH_DATABASE_DSN          PostgreSQL DSN, empty for the in-memory store
//	AUTH_REDIS_ADDR            redis address, empty for the in-memory registry
//	AUTH_TOKEN_TTL             "90m" or integer minutes
//	AUTH_MIN_PASSWORD_LENGTH   integer
//	AUTH_PASSWORD_HASH         bcrypt | argon2id
//	AUTH_BCRYPT_COST           integer
//	AUTH_CORS_ORIGINS          comma separated origins
//	AUTH_LOG_LEVEL             debug | info | warn | error
//	AUTH_TRUST_PROXY           true | false
func parseEnv(config *Config, args []string) error {
	if err := loadEnvFile(args); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("AUTH_ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("AUTH_DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("AUTH_REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := os.LookupEnv("AUTH_TOKEN_TTL"); ok {
		d, err := parseMinutes(v)
		if err != nil {
			return fmt.Errorf("AUTH_TOKEN_TTL: %w", err)
		}
		config.AccessTokenValidityDuration = d
	}
	if v, ok := os.LookupEnv("AUTH_MIN_PASSWORD_LENGTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUTH_MIN_PASSWORD_LENGTH: %w", err)
		}
		config.MinPasswordLength = n
	}
	if v, ok := os.LookupEnv("AUTH_PASSWORD_HASH"); ok {
		config.PasswordHashAlgorithm = v
	}
	if v, ok := os.LookupEnv("AUTH_BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUTH_BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv("AUTH_CORS_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("AUTH_LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv("AUTH_TRUST_PROXY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUTH_TRUST_PROXY: %w", err)
		}
		config.TrustProxyHeaders = b
	}
	return nil
}

// parseMinutes accepts a Go duration string or a bare integer of minutes.
func parseMinutes(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
