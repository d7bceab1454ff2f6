package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewHTTPServerAppliesTimeouts(t *testing.T) {
	cfg := &config.Configuration{
		Server: config.ServerConfig{
			Port:         "9000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}

	srv := newHTTPServer(cfg, http.NewServeMux())

	assert.Equal(t, ":9000", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, srv.IdleTimeout)
}
