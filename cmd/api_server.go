package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"workday-poller/internal"
	"workday-poller/internal/logging"
	"workday-poller/internal/routes"

	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

// ApiServer runs the poller on a cron schedule and serves the operational
// HTTP API: snapshot queries, healthcheck, Prometheus metrics and (with
// --debug) pprof. SIGINT/SIGTERM drain in-flight requests and exit 0.
func ApiServer(configPath, schedule string, port int, debug bool) error {
	app, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	poller := internal.NewPoller(app.client, app.repo, app.logger, app.cfg.PollInterval())
	c, err := internal.StartCron(schedule, poller, app.repo, app.logger)
	if err != nil {
		return errors.Wrap(err, "failed to start CRON jobs")
	}
	defer c.Stop()

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		app.repo.Check(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize healthcheck")
	}

	v1 := r.Group("/v1/workday")
	v1.GET("/snapshots/latest", routes.LatestSnapshot(app.repo))
	v1.GET("/snapshots", routes.ListSnapshots(app.repo))
	v1.GET("/stats", routes.Stats(app.repo))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := serveUntilShutdown(ctx, srv, app.logger); err != nil {
		return errors.Wrapf(err, "HTTP API Server failed on port %d", port)
	}

	return nil
}

// serveUntilShutdown runs srv until it fails or ctx is cancelled, then
// drains in-flight requests before returning.
func serveUntilShutdown(ctx context.Context, srv *http.Server, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("Received signal to terminate. Exiting gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
