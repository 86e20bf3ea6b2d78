// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux builds the debug HTTP surface: /metrics, /healthz, and pprof,
// adapted from iamvalenciia-kick-game-stream's internal/api/router.go chi
// wiring, stripped of that router's auth/proxy/admin-panel routes since this
// endpoint is meant to bind loopback-only (spec §4.13 ambient observability,
// no public API surface in scope).
func NewMux() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Get("/{profile}", func(w http.ResponseWriter, req *http.Request) {
			pprof.Handler(chi.URLParam(req, "profile")).ServeHTTP(w, req)
		})
	})

	return r
}

// ListenAddr resolves the debug server's bind address, defaulting to
// loopback-only the way observability.go's StartDebugServer does unless
// explicitly overridden (its ALLOW_DEBUG_EXTERNAL escape hatch, renamed
// here to stay out of band from gameplay config).
func ListenAddr() string {
	if addr := os.Getenv("FORGEHOLD_DEBUG_ADDR"); addr != "" {
		return addr
	}
	return "127.0.0.1:9090"
}
