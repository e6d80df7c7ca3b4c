package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/piwi3910/MeshSlicer/internal/logging"
	"github.com/piwi3910/MeshSlicer/internal/metrics"
	"github.com/piwi3910/MeshSlicer/internal/model"
	"github.com/piwi3910/MeshSlicer/internal/project"
)

var (
	configPath  string
	logLevel    string
	metricsAddr string

	appConfig    model.AppConfig
	logger       = logging.NewNop()
	sliceMetrics *metrics.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "meshslicer",
	Short: "MeshSlicer turns triangle meshes into layers and G-code",
	Long: `MeshSlicer cuts STL, OBJ and PLY meshes into horizontal layers, builds
contours, perimeters and rectilinear infill, and writes G-code, JSON layer
data and printable reports.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", project.DefaultConfigPath(), "Application config file (YAML, or JSON by extension)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :2112")
}

// setup loads the application config and custom profiles, then builds the
// logger and metrics shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	appConfig, err = project.LoadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := appConfig.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger = logging.New(logging.ParseLevel(level))

	skipped, err := project.InstallCustomProfiles(project.DefaultProfilesPath())
	if err != nil {
		logger.Warn("custom profiles not loaded", "error", err)
	}
	for _, name := range skipped {
		logger.Warn("custom profile ignored, name clashes with a built-in profile", "profile", name)
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		sliceMetrics = metrics.New(reg)
		serveMetrics(metricsAddr, reg, logger)
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
}
