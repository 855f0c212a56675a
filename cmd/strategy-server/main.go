// Package main provides the HTTP server for the strategy graph compiler.
package main

import (
	"log"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; a missing file is not an error.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	srv := newServer()

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	// Prometheus-compatible metrics endpoint (no external deps)
	mux.HandleFunc("/metrics", promMetricsHandler)

	// Compiler API
	mux.HandleFunc("/v1/validate", srv.handleValidate)
	mux.HandleFunc("/v1/compile", srv.handleCompile)
	mux.HandleFunc("/v1/rules", srv.handleRules)
	mux.HandleFunc("/v1/drafts", srv.handleDrafts)

	// expvar and pprof register themselves on the default mux
	mux.Handle("/debug/", http.DefaultServeMux)

	addr := ":8080"
	if v := os.Getenv("STRATEGYGRAPH_ADDR"); v != "" {
		addr = v
	}
	log.Printf("Starting strategy graph server on %s", addr)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
