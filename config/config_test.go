package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mini-rec/backend/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/minirec?sslmode=disable")
	t.Setenv("FIREBASE_API_KEY", "test-key")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("S3_BUCKET", "test-bucket")
}

func TestLoadWithRequiredEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRESIGN_EXPIRE_MINUTES", "30")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "test-bucket", cfg.AWS.Bucket)
	assert.Equal(t, 30, cfg.AWS.PresignExpireMinutes)
	assert.Equal(t, "postgres://localhost:5432/minirec?sslmode=disable", cfg.Database.DSN())
}

func TestLoadFailsFastOnMissingValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("S3_BUCKET", "")
	t.Setenv("FIREBASE_API_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
	assert.Contains(t, err.Error(), "FIREBASE_API_KEY")
}

func TestDSNFromComponents(t *testing.T) {
	db := config.DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "secret",
		DBName: "minirec", SSLMode: "require",
	}
	assert.Equal(t, "postgres://app:secret@db:5432/minirec?sslmode=require", db.DSN())
}
