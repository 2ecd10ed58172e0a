package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis"
	"github.com/pkg/profile"

	"github.com/finledger/dbrouter/internal/backend/postgres"
	"github.com/finledger/dbrouter/internal/metrics"
	"github.com/finledger/dbrouter/internal/monitor"
	"github.com/finledger/dbrouter/internal/registry"
	"github.com/finledger/dbrouter/internal/router"
	"github.com/finledger/dbrouter/internal/transport/httpadmin"
	memoryWindow "github.com/finledger/dbrouter/internal/window/memory"
	redisWindow "github.com/finledger/dbrouter/internal/window/redis"
	"github.com/finledger/dbrouter/pkg/dbrouter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start Router",
	Run:   serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) {
	config := loadConfigOrPanic(cmd)

	if config.Profiling {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	routerConfig := routerConfigOrPanic(config)

	backends := connectBackendsOrPanic(routerConfig)
	m := metrics.New()
	mon := monitor.New(backends.Replicas(), routerConfig, monitor.WithRecorder(m))
	windows := makeWindowTrackerOrPanic(config, routerConfig)

	svc := router.New(backends, mon, windows, m, routerConfig)

	server := httpadmin.New(svc, config.AdminListenPort, m.Handler())
	startServerOrPanic(server)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	shutdownServerOrPanic(server)
	shutdownRouterOrPanic(svc)
}

func loadConfigOrPanic(cmd *cobra.Command) *Config {
	config, err := LoadConfig(cmd)
	if err != nil {
		log.WithError(err).Panic("Failed to load configurations")
	}
	return config
}

func routerConfigOrPanic(config *Config) dbrouter.Config {
	routerConfig := config.RouterConfig()
	if err := routerConfig.Validate(); err != nil {
		log.WithError(err).Panic("invalid router configuration")
	}
	return routerConfig
}

func connectBackendsOrPanic(config dbrouter.Config) dbrouter.Registry {
	backends, err := registry.New(context.Background(), config, postgres.Connect)
	if err != nil {
		panicWithError(err, "failed to initialize backend registry")
	}
	return backends
}

func makeWindowTrackerOrPanic(config *Config,
	routerConfig dbrouter.Config) dbrouter.WindowTracker {

	switch config.WindowStore {
	case "memory":
		return memoryWindow.New(routerConfig.ConsistencyWindow)

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: config.WindowStoreURL})
		if err := client.Ping().Err(); err != nil {
			panicWithError(err, "failed to reach consistency window store")
		}
		return redisWindow.New(client, routerConfig.ConsistencyWindow)

	default:
		log.Panicf("unknown window store: %v", config.WindowStore)
		return nil
	}
}

func startServerOrPanic(server dbrouter.Server) {
	err := server.Start()
	if err != nil {
		panicWithError(err, "failed to start server")
	}
}

func shutdownServerOrPanic(server dbrouter.Server) {
	if err := server.Close(); err != nil {
		panicWithError(err, "failed to close server")
	}
}

func shutdownRouterOrPanic(svc dbrouter.Router) {
	if err := svc.Close(); err != nil {
		panicWithError(err, "failed to close router")
	}
}

func panicWithError(err error, format string, args ...interface{}) {
	log.WithError(err).Panicf(format, args...)
}
