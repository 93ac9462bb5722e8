package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/imgpdf/internal/audit"
	"github.com/mrlokans/imgpdf/internal/config"
	"github.com/mrlokans/imgpdf/internal/converter"
	http_controllers "github.com/mrlokans/imgpdf/internal/http"
	"github.com/mrlokans/imgpdf/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests for at most the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger logrus.FieldLogger, onShutdown ShutdownFunc) error {
	quit := make(chan os.Signal, 1)
	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serveUntil(router, cfg, logger, onShutdown, quit)
}

func serveUntil(router *gin.Engine, cfg *config.Config, logger logrus.FieldLogger, onShutdown ShutdownFunc, quit <-chan os.Signal) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server at %s", addr)
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err, ok := <-listenErr:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case sig := <-quit:
		logger.Infof("Received %v, shutting down server, waiting %v before killing", sig, timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}

// Components is the fully wired service, ready to be served.
type Components struct {
	Router  *gin.Engine
	Janitor *scheduler.JanitorScheduler
}

// Run wires the converter, upload stager, auditor, janitor and router from
// cfg and serves until interrupted.
func Run(cfg *config.Config, logger *logrus.Logger, version string) error {
	logger.Infof("Starting Image to PDF Converter v%s", version)

	components, err := Build(cfg, logger, version)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Orphans from a previous crash are most likely right after a restart
	components.Janitor.RunNow()
	if err := components.Janitor.Start(ctx); err != nil {
		return err
	}

	return Serve(components.Router, cfg, logger, func(ctx context.Context) {
		components.Janitor.Stop()
	})
}

// Build constructs every service component without starting anything.
func Build(cfg *config.Config, logger *logrus.Logger, version string) (*Components, error) {
	if !logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	tempDir := cfg.Upload.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := checkTempDir(tempDir); err != nil {
		return nil, err
	}
	logger.Infof("Upload scratch directory: %s", tempDir)

	encoder, err := converter.NewPDFCPUEncoder(cfg.PDF.ImportDescription)
	if err != nil {
		return nil, err
	}

	stager := converter.NewStager(converter.StagerConfig{
		TempDir:     tempDir,
		MaxFileSize: cfg.Upload.MaxFileSizeBytes(),
		MaxFiles:    cfg.Upload.MaxFiles,
	}, logger)

	var auditor *audit.Auditor
	var pruner scheduler.AuditPruner
	if cfg.Audit.Dir != "" {
		auditor = audit.NewAuditor(cfg.Audit.Dir, logger)
		pruner = auditor
		logger.Infof("Audit records will be written to %s", cfg.Audit.Dir)
	}

	janitor := scheduler.NewJanitorScheduler(scheduler.JanitorConfig{
		Schedule:       cfg.Janitor.Schedule,
		ScratchMaxAge:  time.Duration(cfg.Janitor.ScratchMaxAgeMinutes) * time.Minute,
		AuditRetention: time.Duration(cfg.Janitor.AuditRetentionDays) * 24 * time.Hour,
	}, stager, pruner, logger)

	rateLimit := http_controllers.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	}
	if rateLimit.Enabled() {
		logger.Infof("Rate limiting conversions to %.2f req/s per client (burst %d)", rateLimit.RequestsPerSecond, rateLimit.Burst)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Converter:      converter.NewConverter(encoder, logger),
		Stager:         stager,
		Auditor:        auditor,
		Logger:         logger,
		Version:        version,
		MaxUploadBytes: cfg.Upload.MaxRequestBytes(),
		TempDir:        tempDir,
		RateLimit:      rateLimit,
	})

	return &Components{Router: router, Janitor: janitor}, nil
}

// checkTempDir verifies the scratch parent exists and is writable by
// creating and removing a probe file.
func checkTempDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("temp directory %s does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("temp directory %s is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("temp directory %s is not a directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".imgpdf-*")
	if err != nil {
		return fmt.Errorf("temp directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}
