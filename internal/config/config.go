package config

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8080"`

	// Supabase Postgres
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	DBMaxConns         int32  `envconfig:"DB_MAX_CONNS" default:"25"`

	// Supabase auth. JWTSecret verifies HS256 tokens, JWTPublicKey (PEM) verifies ES256/RS256.
	JWTSecret     string `envconfig:"SUPABASE_JWT_SECRET"`
	JWTPublicKey  string `envconfig:"SUPABASE_JWT_PUBLIC_KEY"`
	JWTSecretName string `envconfig:"SUPABASE_JWT_SECRET_NAME"`

	// Supabase storage (S3 compatible) for course media
	S3URL             string `envconfig:"SUPABASE_S3_URL"`
	S3Bucket          string `envconfig:"SUPABASE_S3_BUCKET" default:"course-media"`
	S3Region          string `envconfig:"SUPABASE_S3_REGION" default:"us-east-1"`
	S3AccessKey       string `envconfig:"SUPABASE_S3_ACCESS_KEY"`
	S3SecretKey       string `envconfig:"SUPABASE_S3_SECRET_KEY"`
	S3SecretKeyName   string `envconfig:"SUPABASE_S3_SECRET_KEY_NAME"`
	MediaURLExpiryMin int    `envconfig:"MEDIA_URL_EXPIRY_MIN" default:"15"`

	// Entitlement cache, disabled when RedisAddr is empty
	RedisAddr         string `envconfig:"REDIS_ADDR"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD"`
	RedisDB           int    `envconfig:"REDIS_DB" default:"0"`
	EntitlementTTLMin int    `envconfig:"ENTITLEMENT_CACHE_TTL_MIN" default:"60"`

	// GCP
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	GCPCredentialsFile string `envconfig:"GCP_CREDENTIALS_FILE"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`

	// Purchase events outbox, written in the same transaction as the purchase row.
	// Leave PurchaseEventsQueueName empty to disable.
	PurchaseEventsQueueName      string `envconfig:"PURCHASE_EVENTS_QUEUE_NAME" default:"purchase_events"`
	PurchaseEventsTopic          string `envconfig:"PUBSUB_PURCHASE_EVENTS_TOPIC" default:"purchase-events"`
	PurchaseEventsPollTimeoutSec int    `envconfig:"PURCHASE_EVENTS_POLL_TIMEOUT_SEC" default:"30"`
	PurchaseEventsPollMaxMsg     int    `envconfig:"PURCHASE_EVENTS_POLL_MAX_MSG" default:"10"`
	PurchaseEventsVisibilitySec  int    `envconfig:"PURCHASE_EVENTS_VISIBILITY_SEC" default:"60"`
	PurchaseEventsMaxRetries     int    `envconfig:"PURCHASE_EVENTS_MAX_RETRIES" default:"5"`
	PurchaseEventsBackoffInitSec int    `envconfig:"PURCHASE_EVENTS_BACKOFF_INITIAL_SEC" default:"1"`
	PurchaseEventsBackoffMaxSec  int    `envconfig:"PURCHASE_EVENTS_BACKOFF_MAX_SEC" default:"60"`
	PurchaseEventsDLQName        string `envconfig:"PURCHASE_EVENTS_DEAD_LETTER_QUEUE_NAME" default:"purchase_events_dlq"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the app runs against local Supabase.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// StorageEnabled reports whether S3 credentials are present for presigning media.
func (c *Config) StorageEnabled() bool {
	return c.S3URL != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// NeedsSecrets reports whether any value must be fetched from Secret Manager.
func (c *Config) NeedsSecrets() bool {
	return (c.JWTSecret == "" && c.JWTSecretName != "") || (c.S3SecretKey == "" && c.S3SecretKeyName != "")
}

// ResolveSecrets fills secrets left empty in the environment from their
// *_SECRET_NAME counterparts. Values already set are kept.
func (c *Config) ResolveSecrets(ctx context.Context, get func(ctx context.Context, name string) (string, error)) error {
	targets := []struct {
		value *string
		name  string
	}{
		{&c.JWTSecret, c.JWTSecretName},
		{&c.S3SecretKey, c.S3SecretKeyName},
	}
	for _, t := range targets {
		if *t.value != "" || t.name == "" {
			continue
		}
		v, err := get(ctx, t.name)
		if err != nil {
			return fmt.Errorf("resolve secret %s: %w", t.name, err)
		}
		*t.value = v
	}
	return nil
}
