package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/config"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func Test_FromEnv_When_NothingIsSet_Then_DefaultsAreUsed(t *testing.T) {
	// act
	cfg, err := config.FromEnv(envFrom(nil))

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.AdapterPGXPool, cfg.AdapterType)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, circulation.RowLocking, cfg.Isolation)
	assert.Equal(t, circulation.DefaultStatusPolicy(), cfg.StatusPolicy)
	assert.Equal(t, "loan-history", cfg.LoanArchivePrefix)
	assert.False(t, cfg.LoanArchiveEnabled())
	assert.False(t, cfg.TracingEnabled())
}

func Test_FromEnv_When_EverythingIsSet_Then_ValuesAreUsed(t *testing.T) {
	// arrange
	env := envFrom(map[string]string{
		"DATABASE_URL":                "postgres://u:p@db:5432/lib",
		"ADAPTER_TYPE":                "SQLX.DB",
		"HTTP_ADDR":                   ":9090",
		"LOG_LEVEL":                   "debug",
		"ISOLATION":                   "serializable",
		"ALLOW_PENDING_TO_RETURNED":   "true",
		"ENABLE_REJECTED_STATUS":      "1",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4317",
		"LOAN_ARCHIVE_BUCKET":         "archive",
		"LOAN_ARCHIVE_PREFIX":         "deleted",
		"AWS_REGION":                  "eu-central-1",
		"AWS_S3_ENDPOINT":             "http://minio:9000",
		"AWS_ACCESS_KEY_ID":           "minio",
		"AWS_SECRET_ACCESS_KEY":       "minio123",
	})

	// act
	cfg, err := config.FromEnv(env)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/lib", cfg.DatabaseURL)
	assert.Equal(t, config.AdapterSQLXDB, cfg.AdapterType)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, circulation.Serializable, cfg.Isolation)
	assert.True(t, cfg.StatusPolicy.AllowPendingToReturned)
	assert.True(t, cfg.StatusPolicy.EnableRejected)
	assert.True(t, cfg.TracingEnabled())
	assert.True(t, cfg.LoanArchiveEnabled())
	assert.Equal(t, "deleted", cfg.LoanArchivePrefix)
	assert.Equal(t, "eu-central-1", cfg.AWSRegion)
	assert.Equal(t, "http://minio:9000", cfg.AWSS3Endpoint)
	assert.Equal(t, "minio", cfg.AWSAccessKeyID)
	assert.Equal(t, "minio123", cfg.AWSSecretAccessKey)
}

func Test_FromEnv_When_ValueIsUnsupported_Then_ItFails(t *testing.T) {
	testCases := []struct {
		key   string
		value string
	}{
		{key: "ADAPTER_TYPE", value: "mysql"},
		{key: "LOG_LEVEL", value: "loud"},
		{key: "ISOLATION", value: "snapshot"},
		{key: "ALLOW_PENDING_TO_RETURNED", value: "maybe"},
		{key: "ENABLE_REJECTED_STATUS", value: "yes please"},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			// act
			_, err := config.FromEnv(envFrom(map[string]string{tc.key: tc.value}))

			// assert
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.ErrorContains(t, err, tc.key)
		})
	}
}

func Test_Load_When_EnvFileExists_Then_ItsValuesAreApplied(t *testing.T) {
	// setup
	const key = "LOAN_ARCHIVE_PREFIX"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	// arrange
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=from-file\n"), 0o600))

	// act
	cfg, err := config.Load(envFile)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.LoanArchivePrefix)
}

func Test_Load_When_EnvFileIsMissing_Then_TheEnvironmentIsUsed(t *testing.T) {
	// setup
	t.Setenv("HTTP_ADDR", ":7070")

	// act
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
}
