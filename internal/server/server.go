package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/preston-bernstein/husker-kiosk/internal/config"
	"github.com/preston-bernstein/husker-kiosk/internal/feed"
	"github.com/preston-bernstein/husker-kiosk/internal/feed/fixture"
	httpserver "github.com/preston-bernstein/husker-kiosk/internal/http"
	"github.com/preston-bernstein/husker-kiosk/internal/http/handlers"
	"github.com/preston-bernstein/husker-kiosk/internal/http/middleware"
	"github.com/preston-bernstein/husker-kiosk/internal/hub"
	"github.com/preston-bernstein/husker-kiosk/internal/imagery"
	"github.com/preston-bernstein/husker-kiosk/internal/kiosk"
	"github.com/preston-bernstein/husker-kiosk/internal/layout"
	"github.com/preston-bernstein/husker-kiosk/internal/layout/browser"
	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/metrics"
	"github.com/preston-bernstein/husker-kiosk/internal/render"
	"github.com/preston-bernstein/husker-kiosk/internal/rotation"
	"github.com/preston-bernstein/husker-kiosk/internal/store"
)

var metricsSetup = metrics.Setup

// Server owns the kiosk controller and the HTTP surfaces around it.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	kiosk         *kiosk.Controller
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	watchFiles    []string
	closers       []func()
}

// New constructs a server wired from cfg.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(cfg, logger, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	client := &http.Client{Timeout: cfg.Feed.Timeout}
	scheduleSrc := feed.NewSource(cfg.Feed.ScheduleSource, fixture.Schedule, client)
	manifestSrc := feed.NewSource(cfg.Feed.ManifestSource, fixture.Manifest, client)
	loader := feed.NewLoader(scheduleSrc, manifestSrc, cfg.Feed.Timeout, logger, recorder)

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		watchFiles:    watchedFiles(scheduleSrc, manifestSrc),
	}

	measurer := srv.buildMeasurer(cfg)
	engine := layout.NewEngine(
		layout.NewStrategy(cfg.Layout.Strategy),
		measurer,
		layout.Size{Width: float64(cfg.Layout.StageWidth), Height: float64(cfg.Layout.StageHeight)},
		float64(cfg.Layout.SafePx),
		logger,
		recorder,
	)

	events := hub.New(logger)
	k := kiosk.New(kiosk.Options{
		Team:     cfg.Display.TeamName,
		Loader:   loader,
		Resolver: imagery.NewResolver(buildProber(cfg, client), imagery.DefaultImagesPath, logger, recorder),
		Engine:   engine,
		Rotation: rotation.New(cfg.Display.RotateInterval, cfg.Display.ViewLock, logger, recorder),
		Store:    store.NewMemoryStore(),
		Hub:      events,
		Logger:   logger,
	})
	events.OnJoin(k.JoinEvents)
	srv.kiosk = k

	httpSrv, err := buildHTTPServer(cfg, k, events, logger, recorder)
	if err != nil {
		srv.close()
		return nil, err
	}
	srv.httpServer = httpSrv
	return srv, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, k *kiosk.Controller, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics.NewRecorder(),
		kiosk:      k,
		httpServer: httpSrv,
	}
}

func (s *Server) buildMeasurer(cfg config.Config) layout.Measurer {
	if cfg.Layout.Measurer != "browser" {
		return layout.NewEstimateMeasurer()
	}
	m := browser.New(browser.Options{
		RemoteURL: cfg.Layout.ChromeURL,
		PageURL:   "http://127.0.0.1:" + cfg.Port + "/",
		Viewport:  layout.Size{Width: float64(cfg.Layout.StageWidth), Height: float64(cfg.Layout.StageHeight)},
	})
	s.closers = append(s.closers, m.Close)
	logging.Info(s.logger, "using browser measurer", slog.String(logging.FieldURL, cfg.Layout.ChromeURL))
	return m
}

func buildProber(cfg config.Config, client *http.Client) imagery.Prober {
	if cfg.Display.ImageProbe == "http" {
		base := cfg.Display.ImageBaseURL
		if base == "" {
			base = "http://127.0.0.1:" + cfg.Port
		}
		return imagery.NewHTTPProber(base, client)
	}
	return imagery.NewFSProber(cfg.Display.AssetsDir)
}

func buildHTTPServer(cfg config.Config, k *kiosk.Controller, events *hub.Hub, logger *slog.Logger, recorder *metrics.Recorder) (httpServer, error) {
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("build renderer: %w", err)
	}
	router := httpserver.NewRouter(httpserver.Routes{
		Handler: handlers.NewHandler(k, renderer, logger),
		Admin:   handlers.NewAdminHandler(k, cfg.AdminToken, logger),
		Events:  events,
		Assets:  render.Assets(),
		Images:  imagesFS(cfg.Display.AssetsDir),
	})
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return netHTTPServer{srv: srv}, nil
}

// imagesFS serves <assets>/images, which mirrors the URLs the resolver emits.
func imagesFS(assetsDir string) fs.FS {
	if assetsDir == "" {
		return nil
	}
	return os.DirFS(filepath.Join(assetsDir, "images"))
}

func watchedFiles(sources ...feed.Source) []string {
	var files []string
	for _, src := range sources {
		if fileSrc, ok := src.(*feed.FileSource); ok {
			files = append(files, fileSrc.Path())
		}
	}
	return files
}

// Run starts the HTTP servers, performs the initial load and view rotation,
// then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	if _, err := s.kiosk.Reload(ctx); err != nil {
		logging.Warn(s.logger, "initial load failed; serving not-ready until a reload succeeds", slog.Any("error", err))
	}
	s.kiosk.Start(ctx)
	if s.cfg.Feed.Watch && len(s.watchFiles) > 0 {
		go func() {
			if err := s.kiosk.Watch(ctx, s.watchFiles); err != nil {
				logging.Warn(s.logger, "feed watcher stopped", slog.Any("error", err))
			}
		}()
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", slog.Any("error", err))
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", slog.Any("error", err))
		}
	}

	// Drain requests first so no reload can start probes on a stopped kiosk.
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if err := s.kiosk.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop kiosk", err)
	}

	s.close()
	logging.Info(s.logger, "shutdown complete")
}

func (s *Server) close() {
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.Any("error", err))
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", handler)
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           mux,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", slog.Any("error", err))
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Kiosk exposes the controller (useful for tests).
func (s *Server) Kiosk() *kiosk.Controller {
	return s.kiosk
}
