package handlers

import (
	"net/http"
)

func respondText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// Root handles GET /
func Root(w http.ResponseWriter, r *http.Request) {
	respondText(w, "Campus Connect API is running!")
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	respondText(w, "Health UP")
}

// AuthHealth handles GET /auth/health
func AuthHealth(w http.ResponseWriter, r *http.Request) {
	respondText(w, "AUTH health working")
}
