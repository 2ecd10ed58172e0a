package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finledger/dbrouter/pkg/dbrouter"
)

// Config the application's configuration structure
type Config struct {
	DatabaseURL           string
	DatabaseReplicaURLs   string
	MaxReplicaLagMS       int
	ConsistencyWindowMS   int
	DBHealthCheckInterval int
	DBConnectionTimeout   int
	PreferReplicas        bool
	AdminListenPort       int
	WindowStore           string
	WindowStoreURL        string
	Profiling             bool
}

// LoadConfig loads the config from a file if specified, otherwise from the environment
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	// Setting defaults for this application
	viper.SetDefault("maxReplicaLagMs", 1000)
	viper.SetDefault("consistencyWindowMs", 5000)
	viper.SetDefault("dbHealthCheckInterval", 30000)
	viper.SetDefault("dbConnectionTimeout", 5000)
	viper.SetDefault("preferReplicas", true)
	viper.SetDefault("adminListenPort", 8090)
	viper.SetDefault("windowStore", "memory")
	viper.SetDefault("windowStoreUrl", "")
	viper.SetDefault("profiling", false)

	// Read Config from ENV
	bindEnvs := map[string]string{
		"databaseUrl":           "DATABASE_URL",
		"databaseReplicaUrls":   "DATABASE_REPLICA_URLS",
		"maxReplicaLagMs":       "MAX_REPLICA_LAG_MS",
		"consistencyWindowMs":   "CONSISTENCY_WINDOW_MS",
		"dbHealthCheckInterval": "DB_HEALTH_CHECK_INTERVAL",
		"dbConnectionTimeout":   "DB_CONNECTION_TIMEOUT",
		"preferReplicas":        "PREFER_REPLICAS",
		"adminListenPort":       "ADMIN_LISTEN_PORT",
		"windowStore":           "WINDOW_STORE",
		"windowStoreUrl":        "WINDOW_STORE_URL",
		"profiling":             "PROFILING",
	}
	for key, env := range bindEnvs {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	// Read Config from Flags
	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}

	// Read Config from file
	if configFile, err := cmd.Flags().GetString("config-file"); err == nil && configFile != "" {
		viper.SetConfigFile(configFile)

		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config

	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// RouterConfig converts the environment-facing configuration into the
// router's immutable config.
func (c *Config) RouterConfig() dbrouter.Config {
	var replicaURLs []string
	if c.DatabaseReplicaURLs != "" {
		for _, url := range strings.Split(c.DatabaseReplicaURLs, ",") {
			replicaURLs = append(replicaURLs, strings.TrimSpace(url))
		}
	}

	return dbrouter.Config{
		PrimaryURL:          c.DatabaseURL,
		ReplicaURLs:         replicaURLs,
		MaxReplicaLag:       time.Duration(c.MaxReplicaLagMS) * time.Millisecond,
		ConsistencyWindow:   time.Duration(c.ConsistencyWindowMS) * time.Millisecond,
		HealthCheckInterval: time.Duration(c.DBHealthCheckInterval) * time.Millisecond,
		ConnectionTimeout:   time.Duration(c.DBConnectionTimeout) * time.Millisecond,
		PreferReplicas:      c.PreferReplicas,
	}
}
