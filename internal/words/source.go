package words

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

//go:embed word_sets/*.json
var setsFS embed.FS

// Word set names known to the game. The frontend always asks for sets that
// exist, but Lookup still reports ErrUnknownSet for anything else.
const (
	SetEnglish1k  = "english_1k"
	SetMisspelled = "english_commonly_misspelled"
)

var ErrUnknownSet = errors.New("unknown word set")

type Set struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// Source resolves a word set by name.
type Source interface {
	Lookup(ctx context.Context, name string) (*Set, error)
}

// Embedded serves the word sets compiled into the binary.
type Embedded struct{}

func (Embedded) Lookup(_ context.Context, name string) (*Set, error) {
	data, err := setsFS.ReadFile("word_sets/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse word set %q: %w", name, err)
	}
	if len(set.Words) == 0 {
		return nil, fmt.Errorf("%w: %q has no words", ErrUnknownSet, name)
	}
	return &set, nil
}

// Sample draws n words uniformly with replacement and joins them with single
// spaces. The rng is injected so room text generation can be deterministic in
// tests.
func Sample(set *Set, n int, rng *rand.Rand) string {
	if n <= 0 || len(set.Words) == 0 {
		return ""
	}
	picked := make([]string, n)
	for i := range picked {
		picked[i] = set.Words[rng.Intn(len(set.Words))]
	}
	return strings.Join(picked, " ")
}
