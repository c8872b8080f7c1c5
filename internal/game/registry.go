package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/dzhoz0/fun-typeracer/internal/words"
)

const (
	roomIDLength   = 6
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var ErrRoomNotFound = errors.New("room does not exist")

// Registry owns every live room. It is handed to the HTTP and websocket
// handlers by reference; rooms live until the process exits.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	words words.Source
	rng   *rand.Rand
	newID func() string
}

func NewRegistry(src words.Source, rng *rand.Rand) *Registry {
	r := &Registry{
		rooms: make(map[string]*Room),
		words: src,
		rng:   rng,
	}
	r.newID = r.randomID
	return r
}

func (r *Registry) randomID() string {
	var b strings.Builder
	for i := 0; i < roomIDLength; i++ {
		b.WriteByte(roomIDAlphabet[r.rng.Intn(len(roomIDAlphabet))])
	}
	return b.String()
}

// CreateRoom builds a new room with a unique id and the given admin, and
// returns the id. Id generation retries on collision against live rooms; the
// namespace is large enough that this terminates immediately in practice.
func (r *Registry) CreateRoom(ctx context.Context, adminName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, exists := r.rooms[id]; exists; _, exists = r.rooms[id] {
		id = r.newID()
	}

	room, err := NewRoom(ctx, id, adminName, RandomMode(r.rng), r.words, r.rng)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	r.rooms[id] = room
	return id, nil
}

// GetRoom resolves a live room by id. It never creates implicitly.
func (r *Registry) GetRoom(id string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", id, ErrRoomNotFound)
	}
	return room, nil
}
