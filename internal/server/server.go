package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/dzhoz0/fun-typeracer/internal/game"
)

type Server struct {
	port     int
	registry *game.Registry
	hub      *game.Hub
}

// NewServer wires the HTTP surface around the registry and hub. PORT comes
// from the environment (a .env file is honored via godotenv autoload).
func NewServer(registry *game.Registry, hub *game.Hub) *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 3000
	}

	s := &Server{
		port:     port,
		registry: registry,
		hub:      hub,
	}

	// No write timeout: websocket connections outlive any sane value.
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}
}
