package api

import (
	"fmt"
	"net/http"
	"time"
)

// NewServer creates the HTTP server for the XP slots API
func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second, // purchases block while the payment is polled
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
