package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
)

// Options wraps handler with CORS for the given browser origins.
func Options(handler http.Handler, origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	})
	return c.Handler(handler)
}

// Start serves until ctx is cancelled, then shuts down gracefully. The write
// timeout does not apply to the change stream, which clears its own deadline.
func Start(ctx context.Context, addr string, handler http.Handler, origins []string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Options(handler, origins),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown", "err", err)
		}
	}()

	return srv.Serve(ln)
}
