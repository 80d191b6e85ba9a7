package rest

import (
	"net/http"
	"os"

	"surveysync/internal/cache"
	"surveysync/internal/logger"
	"surveysync/internal/repository"
	"surveysync/internal/service"
	"surveysync/internal/transport/rest/handler"

	"github.com/gorilla/mux"
)

// Deps holds all dependencies for the router.
type Deps struct {
	Reconciler *service.Reconciler
	Records    repository.RecordRepo
	Reports    cache.ReportCache
	Log        *logger.Logger
}

// NewRouter creates the API router with all endpoints.
func NewRouter(d *Deps) http.Handler {
	r := mux.NewRouter()

	containerHandler := handler.NewContainerHandler(d.Reconciler, d.Records, d.Reports, d.Log)

	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/containers/{containerId}", containerHandler.Upsert).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/containers/{containerId}/reconcile", containerHandler.Reconcile).Methods("POST", "OPTIONS")
	v1.HandleFunc("/containers/{containerId}/report", containerHandler.Report).Methods("GET", "OPTIONS")
	v1.HandleFunc("/containers/{containerId}/records", containerHandler.Records).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
