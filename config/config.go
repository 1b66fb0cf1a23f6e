// Package config loads process configuration for spanpump from environment
// variables, using viper the way the teacher's am package does: a single
// process-lifetime Config struct, each key bound to an explicit env var
// name (no env prefix), with typed defaults for everything optional.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/spanpump/errors"
)

// PollerConfig governs the span ingestion poller loop.
type PollerConfig struct {
	PollIntervalSeconds int  `mapstructure:"poll_interval_seconds"`
	BatchSize           int  `mapstructure:"batch_size"`
	StrictMode          bool `mapstructure:"strict_mode"`
}

// IngestionConfig addresses the upstream span-producing service the
// reader polls.
type IngestionConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig locates the two on-disk stores.
type StorageConfig struct {
	RowStorePath      string `mapstructure:"row_store_path"`
	ColumnarStorePath string `mapstructure:"columnar_store_path"`
}

// AuthServerConfig governs the internal API-key validation RPC server.
type AuthServerConfig struct {
	Port int `mapstructure:"grpc_port"`
}

// Config is the root configuration object, unmarshaled once per process.
type Config struct {
	Poller     PollerConfig     `mapstructure:"poller"`
	Ingestion  IngestionConfig  `mapstructure:"ingestion"`
	Storage    StorageConfig    `mapstructure:"storage"`
	AuthServer AuthServerConfig `mapstructure:"auth_server"`
	JSONLogs   bool             `mapstructure:"json_logs"`
}

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads configuration from the environment, caching the result for
// the lifetime of the process. Use Reset in tests that need a fresh read.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// GetViper returns the shared Viper instance for advanced access.
func GetViper() *viper.Viper {
	return initViper()
}

// Reset clears the cached configuration. For tests only.
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	viperInstance = v
	return v
}

// bindEnvVars maps the flat operator-facing env var names from the
// external interface contract onto the nested mapstructure keys above.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("poller.poll_interval_seconds", "SPAN_POLL_INTERVAL")
	_ = v.BindEnv("poller.batch_size", "SPAN_BATCH_SIZE")
	_ = v.BindEnv("poller.strict_mode", "SPAN_STRICT_MODE")
	_ = v.BindEnv("ingestion.host", "INGESTION_HOST")
	_ = v.BindEnv("ingestion.port", "INGESTION_PORT")
	_ = v.BindEnv("storage.row_store_path", "SPAN_ROW_STORE_PATH")
	_ = v.BindEnv("storage.columnar_store_path", "SPAN_COLUMNAR_STORE_PATH")
	_ = v.BindEnv("auth_server.grpc_port", "GRPC_PORT")
	_ = v.BindEnv("json_logs", "SPAN_JSON_LOGS")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("poller.poll_interval_seconds", 5)
	v.SetDefault("poller.batch_size", 100)
	v.SetDefault("poller.strict_mode", false)
	v.SetDefault("ingestion.host", "localhost")
	v.SetDefault("ingestion.port", 50051)
	v.SetDefault("storage.row_store_path", "./data/spanpump.db")
	v.SetDefault("storage.columnar_store_path", "./data/spans.duckdb")
	v.SetDefault("auth_server.grpc_port", 50053)
	v.SetDefault("json_logs", false)
}
