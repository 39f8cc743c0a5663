package main

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "svw.info/changemaker/internal/adapters/http"
	"svw.info/changemaker/internal/cache"
	"svw.info/changemaker/internal/config"
	"svw.info/changemaker/internal/domain"
	"svw.info/changemaker/internal/infrastructure/storage"
	"svw.info/changemaker/internal/machine"
	"svw.info/changemaker/internal/server"
	"svw.info/changemaker/internal/solver"
	"svw.info/changemaker/internal/usecase"
	"svw.info/changemaker/internal/validator"
	"svw.info/changemaker/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(2)
	}
	lvl, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire solver → cache → machine → use cases → HTTP adapter
	s, err := cache.NewSolver(solver.NewBoundedSolver(cfg.SolverLimits()), cfg.Cache.Size)
	if err != nil {
		logger.Error("cache", "err", err)
		os.Exit(1)
	}
	seed, err := loadSeed(ctx, cfg.Machine.StateFile)
	if err != nil {
		logger.Error("state file", "path", cfg.Machine.StateFile, "err", err)
		os.Exit(1)
	}
	v := validator.New(cfg.Limits.MaxDenominations, cfg.Limits.MaxAmount)
	m, err := machine.New(s, v, seed)
	if err != nil {
		logger.Error("machine", "err", err)
		os.Exit(1)
	}
	uc := usecase.NewService(s, v, m, logger)
	h := httpadapter.New(uc)

	tmpl := web.Templates()

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		st := m.Snapshot(r.Context())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.ExecuteTemplate(w, "index.tmpl", map[string]any{
			"Products": st.Products,
			"Register": st.Register,
			"Balance":  st.Register.Total(0),
		}); err != nil {
			http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		}
	})
	h.Register(mux)

	srv := server.New(cfg.Server.Addr, server.RequestLogger(logger, mux), logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "err", err)
		}
	}()

	logger.Info("starting", "cache", cfg.Cache.Size, "state", cfg.Machine.StateFile, "maxAmount", cfg.Limits.MaxAmount)
	if err := srv.Start(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

// loadSeed reads the configured state file, or the default machine when
// none is set.
func loadSeed(ctx context.Context, path string) (domain.State, error) {
	if path == "" {
		return machine.DefaultState(), nil
	}
	return storage.NewFS(path).Load(ctx)
}
