package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/dzhoz0/fun-typeracer/internal/game"
	"github.com/dzhoz0/fun-typeracer/internal/server"
	"github.com/dzhoz0/fun-typeracer/internal/words"
)

func main() {
	ctx := context.Background()

	var src words.Source = words.Embedded{}
	if dsn := os.Getenv("WORDS_DATABASE_URL"); dsn != "" {
		store, err := words.NewPGStore(ctx, dsn)
		if err != nil {
			log.Fatalf("connect word store: %v", err)
		}
		defer store.Close()
		src = store
		log.Println("serving word sets from postgres")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	registry := game.NewRegistry(src, rng)
	hub := game.NewHub()

	srv := server.NewServer(registry, hub)
	log.Printf("server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server error: %v", err)
	}
}
