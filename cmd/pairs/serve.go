package main

import (
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	httpadapter "svw.info/pairs/internal/adapters/http"
	"svw.info/pairs/internal/adapters/sse"
	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/generator"
	"svw.info/pairs/internal/hint"
	"svw.info/pairs/internal/infrastructure/storage"
	"svw.info/pairs/internal/session"
	"svw.info/pairs/internal/usecase"
	"svw.info/pairs/internal/validator"
	"svw.info/pairs/web"
)

var (
	addr        string
	persistPath string
	matcherKind string
	targets     string
	adds        int
	genTimeout  time.Duration
	gameTTL     time.Duration
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP",
		Long: `Serve the browser game and its JSON API.

Examples:
  pairs serve --addr :8080
  pairs serve --targets 3,2,1 --adds 6 --matcher exhaustive`,
		RunE: runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&persistPath, "persist-path", "./data", "save directory")
	serveCmd.Flags().StringVar(&matcherKind, "matcher", "first", "pair counter: first|exhaustive")
	serveCmd.Flags().StringVar(&targets, "targets", domain.DefaultSchedule.String(), "pairs per stage, last entry repeats")
	serveCmd.Flags().IntVar(&adds, "adds", session.DefaultOptions().AddsPerStage, "add charges per stage")
	serveCmd.Flags().DurationVar(&genTimeout, "gen-timeout", generator.DefaultOptions().Timeout, "stage generation timeout")
	serveCmd.Flags().DurationVar(&gameTTL, "game-ttl", 2*time.Hour, "drop live games idle this long (0 keeps them)")
	rootCmd.AddCommand(serveCmd)
}

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush keeps event streams working through the logger.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// requestLogger logs method, path, status, bytes, and duration in a human-readable format.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		dur := time.Since(start)
		logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"dur", dur.Round(time.Millisecond),
		)
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	schedule, err := domain.ParseSchedule(targets)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(persistPath, 0o755); err != nil {
		return err
	}

	// Wire providers → use cases → HTTP adapter
	opts := generator.DefaultOptions()
	opts.Timeout = genTimeout
	gen := generator.New(newMatcher(matcherKind), opts)
	events := sse.NewBroadcaster(logger)

	sopts := session.DefaultOptions()
	sopts.Schedule = schedule
	sopts.AddsPerStage = adds

	uc := usecase.NewService(gen, validator.New(), hint.NewFirstPair(), storage.NewFS(persistPath), events, sopts, logger)
	if gameTTL > 0 {
		uc.StartSweeper(cmd.Context(), time.Minute, gameTTL)
	}
	h := httpadapter.New(uc, events)

	tmpl := web.Templates()

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := map[string]any{"Targets": schedule.String(), "Adds": adds}
		if err := tmpl.ExecuteTemplate(w, "index.tmpl", data); err != nil {
			http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		}
	})
	h.Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("listening", "addr", addr, "persist", persistPath, "matcher", matcherKind, "targets", schedule.String(), "gameTTL", gameTTL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
		return err
	}
	return nil
}
