package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dzhoz0/fun-typeracer/internal/game"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HelloWorldHandler)

	r.HandleFunc("/createRoom", s.CreateRoomHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/getRoom/{roomId}", s.GetRoomHandler).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/ws", game.HandleWebSocket(s.registry, s.hub))

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS Headers
		w.Header().Set("Access-Control-Allow-Origin", "*") // Wildcard allows all origins
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false") // Credentials not allowed with wildcard origins

		// If it's a websocket upgrade, skip further CORS checks
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"message": "Hello World"}

	jsonResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("error handling JSON marshal. Err: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	_, _ = w.Write(jsonResp)
}

// CreateRoomHandler allocates a room. The body is the admin's name as plain
// text; the response body is the new room id as plain text.
func (s *Server) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	adminName := strings.TrimSpace(string(body))
	if adminName == "" {
		http.Error(w, "admin name required", http.StatusBadRequest)
		return
	}

	roomID, err := s.registry.CreateRoom(r.Context(), adminName)
	if err != nil {
		log.Printf("[CreateRoomHandler] %v", err)
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}
	log.Printf("[CreateRoomHandler] room %s created by admin %s", roomID, adminName)

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(roomID))
}

// GetRoomHandler is the lobby page's existence probe. It answers the current
// snapshot for a live room and 404 otherwise.
func (s *Server) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	room, err := s.registry.GetRoom(roomID)
	if err != nil {
		if errors.Is(err, game.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		log.Printf("[GetRoomHandler] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(room.Snapshot()); err != nil {
		log.Printf("[GetRoomHandler] error encoding response: %v", err)
	}
}
