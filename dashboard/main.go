package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/newspulse/sentiment-dashboard/internal/aggregate"
	"github.com/newspulse/sentiment-dashboard/internal/config"
	"github.com/newspulse/sentiment-dashboard/internal/elasticsearch"
	"github.com/newspulse/sentiment-dashboard/internal/logger"
	"github.com/newspulse/sentiment-dashboard/internal/models"
	"github.com/newspulse/sentiment-dashboard/internal/render"
	"github.com/newspulse/sentiment-dashboard/internal/snapshot"
)

type articleStore interface {
	FetchRecent(ctx context.Context, limit int) ([]models.Article, error)
	Health(ctx context.Context) error
}

func main() {
	log := logger.New("dashboard")
	cfg, err := config.LoadDashboard()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	esClient, err := connectWithRetry(ctx, log, cfg)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	renderer, err := render.New(cfg.PageSize, cfg.FontPath, log)
	if err != nil {
		log.Error("init renderer", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{
		log:      log,
		cfg:      cfg,
		store:    esClient,
		cache:    snapshot.NewCache(cfg.CacheTTL),
		renderer: renderer,
		now:      time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", srv.handleDashboard)
	r.Get("/healthz", srv.handleHealth)
	r.Get("/api/articles", srv.handleArticles)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info("dashboard starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

// connectWithRetry distinguishes an unreachable backend at startup from a
// valid empty dataset later: the former is retried with backoff and then
// fatal, the latter renders an empty-state page.
func connectWithRetry(ctx context.Context, log *slog.Logger, cfg *config.Dashboard) (*elasticsearch.Client, error) {
	esClient, err := elasticsearch.New(cfg.Common, log)
	if err != nil {
		return nil, err
	}

	retryDelay := 2 * time.Second
	const maxRetries = 10

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr := esClient.Ping(pingCtx)
		cancel()
		if pingErr == nil {
			log.Info("connected to elasticsearch", slog.String("addr", cfg.ElasticsearchAddr))
			return esClient, nil
		}
		if attempt >= maxRetries {
			return nil, pingErr
		}

		log.Warn("elasticsearch ping failed, retrying",
			slog.Any("err", pingErr),
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", retryDelay),
		)
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		retryDelay *= 2
		if retryDelay > 30*time.Second {
			retryDelay = 30 * time.Second
		}
	}
}

type server struct {
	log      *slog.Logger
	cfg      *config.Dashboard
	store    articleStore
	cache    *snapshot.Cache
	renderer *render.Renderer
	now      func() time.Time
}

type errorResponse struct {
	Error string `json:"error"`
}

// currentSnapshot returns the cached snapshot or loads, filters and
// aggregates a fresh one.
func (s *server) currentSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	if snap, ok := s.cache.Get(s.now()); ok {
		return snap, nil
	}

	articles, err := s.store.FetchRecent(ctx, s.cfg.FetchLimit)
	if err != nil {
		return nil, err
	}

	loadedAt := s.now()
	snap := &snapshot.Snapshot{
		Summary:  aggregate.BuildSummary(articles, loadedAt, s.cfg.WindowDays),
		LoadedAt: loadedAt,
	}
	s.cache.Put(snap)
	return snap, nil
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	snap, err := s.currentSnapshot(ctx)
	if err != nil {
		s.log.Error("load snapshot", slog.Any("err", err))
		http.Error(w, "dashboard data unavailable", http.StatusServiceUnavailable)
		return
	}

	pageNum := clampInt(r.URL.Query().Get("page"), 1, 10_000)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Page(w, snap.Summary, pageNum); err != nil {
		s.log.Error("render page", slog.Any("err", err))
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type articlesResponse struct {
	Total int              `json:"total"`
	Items []models.Article `json:"items"`
}

// handleArticles exposes the current snapshot as JSON with from/size paging.
func (s *server) handleArticles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	snap, err := s.currentSnapshot(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	articles := snap.Summary.Articles
	from := clampInt(r.URL.Query().Get("from"), 0, len(articles))
	size := clampInt(r.URL.Query().Get("size"), s.cfg.PageSize, config.MaxFetchLimit)

	end := from + size
	if from > len(articles) {
		from = len(articles)
	}
	if end > len(articles) {
		end = len(articles)
	}

	writeJSON(w, http.StatusOK, articlesResponse{
		Total: len(articles),
		Items: articles[from:end],
	})
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
