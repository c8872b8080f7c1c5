package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/dzhoz0/fun-typeracer/internal/prank"
	"github.com/dzhoz0/fun-typeracer/internal/words"
)

const (
	// TextWordCount is how many words are sampled into a room's text.
	TextWordCount = 20
	// PrankModeCount is the number of prank modes a room can be assigned.
	PrankModeCount = 5
)

var ErrNotAdmin = errors.New("only admin can start the game")

type Player struct {
	Name  string `json:"name"`
	Typed string `json:"typed"`
}

// Room is the authoritative state of one game session. All mutation goes
// through its methods, which serialize on the room mutex; the broadcast
// layer only ever sees Snapshot values taken under that same lock.
type Room struct {
	mu sync.RWMutex

	id        string
	adminName string
	prankMode int
	started   bool

	// Immutable after construction.
	text     string
	layout   string
	keyboard [][]string

	players  []*Player
	rankings []string
}

// RandomMode picks a prank mode uniformly from the available modes.
func RandomMode(rng *rand.Rand) int {
	return rng.Intn(PrankModeCount)
}

// NewRoom builds a room with the given identity and prank mode. The mode is
// a plain parameter (not sampled here) so callers and tests control it; rng
// drives layout shuffling and text sampling only.
func NewRoom(ctx context.Context, id, adminName string, mode int, src words.Source, rng *rand.Rand) (*Room, error) {
	layout := prank.StandardLayout
	if mode == int(prank.ModeRemap) {
		layout = shuffleLetters(layout, rng)
	}
	// Space is always the last key and never shuffled.
	layout += " "

	setName := words.SetEnglish1k
	if mode == int(prank.ModeMisspell) {
		setName = words.SetMisspelled
	}
	set, err := src.Lookup(ctx, setName)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", id, err)
	}

	return &Room{
		id:        id,
		adminName: adminName,
		prankMode: mode,
		text:      words.Sample(set, TextWordCount, rng),
		layout:    layout,
		keyboard:  keyboardRows(layout),
	}, nil
}

func shuffleLetters(layout string, rng *rand.Rand) string {
	letters := []rune(layout)
	rng.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	return string(letters)
}

// keyboardRows slices the layout into the three physical letter rows plus
// the space row, for on-screen keyboard rendering.
func keyboardRows(layout string) [][]string {
	return [][]string{
		splitKeys(layout[0:10]),
		splitKeys(layout[10:19]),
		splitKeys(layout[19:26]),
		{" "},
	}
}

func splitKeys(row string) []string {
	keys := make([]string, 0, len(row))
	for _, r := range row {
		keys = append(keys, string(r))
	}
	return keys
}

// AddPlayer admits a player with empty typed text. Joining again under an
// existing name is a no-op; the caller still broadcasts afterwards so the
// rejoining client receives the current snapshot.
func (r *Room) AddPlayer(name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Name == name {
			return
		}
	}
	r.players = append(r.players, &Player{Name: name})
}

// DeletePlayer removes the named player; absent names are a no-op.
func (r *Room) DeletePlayer(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.players {
		if p.Name == name {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return
		}
	}
}

// ModifyTyped replaces the named player's typed text. When the new text
// matches the room text byte for byte, the player is appended to the
// rankings exactly once; insertion order is the finish order. Unknown names
// are a no-op.
func (r *Room) ModifyTyped(name, typed string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Name != name {
			continue
		}
		p.Typed = typed
		if p.Typed == r.text && !r.ranked(name) {
			r.rankings = append(r.rankings, name)
		}
		return
	}
}

func (r *Room) ranked(name string) bool {
	for _, n := range r.rankings {
		if n == name {
			return true
		}
	}
	return false
}

// MakeGameStart flips started to true. Only the admin may do so; starting an
// already-started room is harmless.
func (r *Room) MakeGameStart(requesterName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if requesterName != r.adminName {
		return fmt.Errorf("room %s: %w", r.id, ErrNotAdmin)
	}
	r.started = true
	return nil
}

// Snapshot is the serialized room state sent to clients on every mutation.
// Field names are the wire contract and match what the frontend consumes.
type Snapshot struct {
	ID             string     `json:"id"`
	Players        []Player   `json:"players"`
	Text           string     `json:"text"`
	PrankMode      int        `json:"prankMode"`
	Started        bool       `json:"started"`
	AdminName      string     `json:"adminName"`
	Layout         string     `json:"layout"`
	KeyboardLayout [][]string `json:"keyboardLayout"`
	Rankings       []string   `json:"rankings"`
}

// Snapshot returns a consistent copy of the room state.
func (r *Room) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	rankings := make([]string, 0, len(r.rankings))
	rankings = append(rankings, r.rankings...)
	return Snapshot{
		ID:             r.id,
		Players:        players,
		Text:           r.text,
		PrankMode:      r.prankMode,
		Started:        r.started,
		AdminName:      r.adminName,
		Layout:         r.layout,
		KeyboardLayout: r.keyboard,
		Rankings:       rankings,
	}
}
