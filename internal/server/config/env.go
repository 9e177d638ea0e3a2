package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "INTELSHARE_"

var lookupEnv = os.LookupEnv

type envSetter func(c *Config, v string) error

func envString(field func(c *Config) *string) envSetter {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func envInt(field func(c *Config) *int) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func envDuration(field func(c *Config) *time.Duration) envSetter {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

var envVars = map[string]envSetter{
	"GRPC_ADDR":        envString(func(c *Config) *string { return &c.EndpointAddrGRPC }),
	"DATABASE_DSN":     envString(func(c *Config) *string { return &c.DatabaseDSN }),
	"SECRET_KEY":       envString(func(c *Config) *string { return &c.SecretKey }),
	"ACCESS_TOKEN_TTL": envDuration(func(c *Config) *time.Duration { return &c.AccessTokenValidityDuration }),
	"SESSION_BACKEND":  envString(func(c *Config) *string { return &c.SessionBackend }),
	"SESSION_TTL":      envDuration(func(c *Config) *time.Duration { return &c.SessionTTL }),
	"REDIS_ADDR":       envString(func(c *Config) *string { return &c.RedisAddr }),
	"REDIS_PASSWORD":   envString(func(c *Config) *string { return &c.RedisPassword }),
	"REDIS_DB":         envInt(func(c *Config) *int { return &c.RedisDB }),
	"AUDIT_BUCKET":     envString(func(c *Config) *string { return &c.AuditBucket }),
	"AUDIT_PREFIX":     envString(func(c *Config) *string { return &c.AuditPrefix }),
	"AUDIT_BATCH_SIZE": envInt(func(c *Config) *int { return &c.AuditBatchSize }),
	"S3_ACCESS_KEY":    envString(func(c *Config) *string { return &c.S3AccessKey }),
	"S3_SECRET_KEY":    envString(func(c *Config) *string { return &c.S3SecretKey }),
	"S3_REGION":        envString(func(c *Config) *string { return &c.S3Region }),
	"S3_BASE_ENDPOINT": envString(func(c *Config) *string { return &c.S3BaseEndpoint }),
	"LOG_LEVEL":        envString(func(c *Config) *string { return &c.LogLevel }),
}

// parseEnv applies INTELSHARE_* variables. Values from envFile fill in what
// the process environment does not set.
func parseEnv(config *Config, envFile string) error {
	fileVars := map[string]string{}
	if envFile != "" {
		var err error
		fileVars, err = godotenv.Read(envFile)
		if err != nil {
			return fmt.Errorf("read env file: %w", err)
		}
	}

	for name, set := range envVars {
		key := envPrefix + name
		v, ok := lookupEnv(key)
		if !ok {
			v, ok = fileVars[key]
		}
		if !ok {
			continue
		}
		if err := set(config, v); err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
	}
	return nil
}
