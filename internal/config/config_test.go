package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile writes content to a temporary config.yaml, or returns a path that does not exist
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	if content == "" {
		return filepath.Join(tmpDir, "nonexistent.yaml")
	}

	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	return configFile
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 5
  write_timeout: 6
  idle_timeout: 60
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
auth:
  jwt_public_key: "-----BEGIN PUBLIC KEY-----"
  api_keys:
    - key-1
    - key-2
feed:
  retry_initial_interval: "50ms"
  retry_max_elapsed_time: "3s"
notification:
  url: "nats://localhost:4222"
  subject_prefix: "feed-changes"
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5, cfg.Server.ReadTimeout)
				assert.Equal(t, 6, cfg.Server.WriteTimeout)
				assert.Equal(t, 60, cfg.Server.IdleTimeout)
				assert.Equal(t, "testdb", cfg.Database.DBName)
				assert.Equal(t, "-----BEGIN PUBLIC KEY-----", cfg.Auth.JWTPublicKey)
				assert.Equal(t, []string{"key-1", "key-2"}, cfg.Auth.APIKeys)
				assert.Equal(t, 50*time.Millisecond, cfg.Feed.RetryInitialInterval)
				assert.Equal(t, 3*time.Second, cfg.Feed.RetryMaxElapsedTime)
				assert.Equal(t, "nats://localhost:4222", cfg.Notification.URL)
				assert.Equal(t, "feed-changes", cfg.Notification.SubjectPrefix)
				assert.Equal(t, "FEED_CHANGES", cfg.Notification.StreamName)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  dbname: testdb
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.False(t, cfg.Debug)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 10, cfg.Server.ReadTimeout)
				assert.Equal(t, 120, cfg.Server.IdleTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 20, cfg.Database.MaxOpenConns)
				assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
				assert.Equal(t, 100*time.Millisecond, cfg.Feed.RetryInitialInterval)
				assert.Equal(t, 10*time.Second, cfg.Feed.RetryMaxElapsedTime)
				assert.Empty(t, cfg.Notification.URL)
				assert.Equal(t, "feeds", cfg.Notification.SubjectPrefix)
			},
		},
		{
			name:       "missing config file",
			configFile: "",
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, 8080, cfg.Server.Port)
			},
		},
		{
			name: "invalid port",
			configFile: `
server:
  port: invalid
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadAPIConfig(writeConfigFile(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadEventBridgeConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *EventBridgeConfig)
	}{
		{
			name: "valid config file",
			configFile: `
database:
  host: localhost
  dbname: testdb
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  consumer_name: "test-consumer"
  subject_prefix: "test.events"
  max_reconnects: 5
  reconnect_wait: "5s"
  ack_wait: "1m"
  max_deliver: 3
worker:
  pool_size: 16
`,
			validate: func(t *testing.T, cfg *EventBridgeConfig) {
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, "test-consumer", cfg.NATS.ConsumerName)
				assert.Equal(t, "test.events", cfg.NATS.SubjectPrefix)
				assert.Equal(t, 5, cfg.NATS.MaxReconnects)
				assert.Equal(t, 5*time.Second, cfg.NATS.ReconnectWait)
				assert.Equal(t, time.Minute, cfg.NATS.AckWait)
				assert.Equal(t, 3, cfg.NATS.MaxDeliver)
				assert.Equal(t, 16, cfg.Worker.WorkerPoolSize)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  dbname: testdb
nats:
  url: "nats://localhost:4222"
`,
			validate: func(t *testing.T, cfg *EventBridgeConfig) {
				assert.Equal(t, "AUTHORING_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, "feed-event-bridge", cfg.NATS.ConsumerName)
				assert.Equal(t, "authoring.events", cfg.NATS.SubjectPrefix)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, "2s", cfg.NATS.ReconnectWait.String())
				assert.Equal(t, 30*time.Second, cfg.NATS.AckWait)
				assert.Equal(t, 5, cfg.NATS.MaxDeliver)
				assert.Equal(t, 8, cfg.Worker.WorkerPoolSize)
				assert.Equal(t, "FEED_CHANGES", cfg.Notification.StreamName)
			},
		},
		{
			name: "missing nats url",
			configFile: `
database:
  host: localhost
  dbname: testdb
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadEventBridgeConfig(writeConfigFile(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadSweeperConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *SweeperConfig)
	}{
		{
			name: "valid config file",
			configFile: `
database:
  host: localhost
  dbname: testdb
has_ended_sweeper:
  enabled: false
  batch_size: 50
  interval: "30s"
feed_consistency_sweeper:
  batch_size: 20
  interval: "5m"
  worker:
    pool_size: 2
`,
			validate: func(t *testing.T, cfg *SweeperConfig) {
				assert.False(t, cfg.HasEndedSweeper.Enabled)
				assert.Equal(t, 50, cfg.HasEndedSweeper.BatchSize)
				assert.Equal(t, 30*time.Second, cfg.HasEndedSweeper.Interval)
				assert.True(t, cfg.FeedConsistencySweeper.Enabled)
				assert.Equal(t, 20, cfg.FeedConsistencySweeper.BatchSize)
				assert.Equal(t, 5*time.Minute, cfg.FeedConsistencySweeper.Interval)
				assert.Equal(t, 2, cfg.FeedConsistencySweeper.Worker.WorkerPoolSize)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  dbname: testdb
`,
			validate: func(t *testing.T, cfg *SweeperConfig) {
				assert.Equal(t, 5, cfg.Database.MaxOpenConns)
				assert.Equal(t, 2, cfg.Database.MaxIdleConns)
				assert.True(t, cfg.HasEndedSweeper.Enabled)
				assert.Equal(t, 500, cfg.HasEndedSweeper.BatchSize)
				assert.Equal(t, time.Minute, cfg.HasEndedSweeper.Interval)
				assert.Equal(t, 200, cfg.FeedConsistencySweeper.BatchSize)
				assert.Equal(t, 15*time.Minute, cfg.FeedConsistencySweeper.Interval)
				assert.Equal(t, 4, cfg.FeedConsistencySweeper.Worker.WorkerPoolSize)
			},
		},
		{
			name: "missing database host",
			configFile: `
database:
  dbname: testdb
`,
			expectError: true,
		},
		{
			name: "missing database name",
			configFile: `
database:
  host: localhost
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadSweeperConfig(writeConfigFile(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadWorkerMigrationConfig(t *testing.T) {
	configFile := writeConfigFile(t, `
database:
  host: localhost
  dbname: testdb
temporal:
  host_port: "temporal:7233"
  namespace: "feeds"
  max_concurrent_activity_execution_size: 2
migration:
  batch_size: 1000
  workers: 8
`)

	cfg, err := LoadWorkerMigrationConfig(configFile, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "temporal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "feeds", cfg.Temporal.Namespace)
	assert.Equal(t, "feed-migration", cfg.Temporal.MigrationTaskQueue)
	assert.Equal(t, 2, cfg.Temporal.MaxConcurrentActivityExecutionSize)
	assert.Equal(t, float64(10), cfg.Temporal.WorkerActivitiesPerSecond)
	assert.Equal(t, 1000, cfg.Migration.BatchSize)
	assert.Equal(t, 8, cfg.Migration.Workers)
	assert.Equal(t, 1970, cfg.Migration.BadYearsFrom)
	assert.Equal(t, 1971, cfg.Migration.BadYearsTo)
}

func TestLoadMigrateConfig(t *testing.T) {
	cfg, err := LoadMigrateConfig(writeConfigFile(t, ""), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "default", cfg.Temporal.Namespace)
	assert.Equal(t, 200, cfg.Migration.BatchSize)
	assert.Equal(t, 4, cfg.Migration.Workers)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "with special characters in password",
			config: DatabaseConfig{
				Host:     "db.internal",
				Port:     6543,
				User:     "feeds",
				Password: "p@ssw0rd!",
				DBName:   "feeds",
				SSLMode:  "disable",
			},
			expected: "host=db.internal port=6543 user=feeds password=p@ssw0rd! dbname=feeds sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	envDir := filepath.Join(tmpDir, "env")
	require.NoError(t, os.MkdirAll(envDir, 0750))

	// The .env file is applied with godotenv.Overload and picked up through the FF_FEED_ prefix
	envContent := `FF_FEED_DEBUG=true
FF_FEED_DATABASE_HOST=env-host
FF_FEED_DATABASE_PORT=6432
FF_FEED_DATABASE_DBNAME=env-db
FF_FEED_SERVER_PORT=9999
`
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte(envContent), 0600))

	// The per-service file wins over the shared one
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env.api.local"), []byte("FF_FEED_DATABASE_DBNAME=api-db\n"), 0600))

	t.Cleanup(func() {
		for _, key := range []string{
			"FF_FEED_DEBUG",
			"FF_FEED_DATABASE_HOST",
			"FF_FEED_DATABASE_PORT",
			"FF_FEED_DATABASE_DBNAME",
			"FF_FEED_SERVER_PORT",
		} {
			_ = os.Unsetenv(key)
		}
	})

	configPath := writeConfigFile(t, `
debug: false
server:
  port: 8080
database:
  host: file-host
  port: 5432
  dbname: file-db
`)

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "api-db", cfg.Database.DBName)
	assert.Equal(t, 9999, cfg.Server.Port)
}
