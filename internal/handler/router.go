package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(comparisonHandler *ComparisonHandler, authMiddleware func(http.Handler) http.Handler) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"pdf-diff"}`))
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/comparisons", comparisonHandler.StartComparison).Methods("POST")
	api.HandleFunc("/comparisons", comparisonHandler.ListComparisons).Methods("GET")
	api.HandleFunc("/comparisons/{id}", comparisonHandler.GetComparison).Methods("GET")
	api.HandleFunc("/comparisons/{id}/results", comparisonHandler.GetComparisonResults).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:4173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
