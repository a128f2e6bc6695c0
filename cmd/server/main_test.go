package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"diet-tracker/internal/config"
	"diet-tracker/internal/handlers"
	"diet-tracker/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := handlers.NewHandlers(db, logger, false)
	server := newServer(&config.Config{Port: "8080"}, h)

	assert.Equal(t, ":8080", server.Addr)

	// Verify routes
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "Register succeeds",
			method:     "POST",
			path:       "/user",
			body:       `{"name":"Jane Doe","email":"jane@example.com"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "List meals requires auth",
			method:     "GET",
			path:       "/meal",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Metrics requires auth",
			method:     "GET",
			path:       "/meal/metrics",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			server.Handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code,
				"%s %s returned unexpected status", tt.method, tt.path)
		})
	}
}
