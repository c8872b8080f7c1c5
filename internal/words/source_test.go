package words

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestEmbeddedLookup(t *testing.T) {
	for _, name := range []string{SetEnglish1k, SetMisspelled} {
		set, err := Embedded{}.Lookup(context.Background(), name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if set.Name != name {
			t.Errorf("set name %q, want %q", set.Name, name)
		}
		if len(set.Words) == 0 {
			t.Errorf("set %q is empty", name)
		}
		for _, w := range set.Words {
			for _, r := range w {
				if r < 'a' || r > 'z' {
					t.Fatalf("set %q word %q contains %q, want lowercase letters only", name, w, r)
				}
			}
		}
	}
}

func TestEmbeddedLookupUnknownSet(t *testing.T) {
	_, err := Embedded{}.Lookup(context.Background(), "klingon_2k")
	if !errors.Is(err, ErrUnknownSet) {
		t.Fatalf("error = %v, want ErrUnknownSet", err)
	}
}

func TestSample(t *testing.T) {
	set := &Set{Name: "tiny", Words: []string{"alpha", "beta", "gamma"}}
	rng := rand.New(rand.NewSource(9))

	text := Sample(set, 50, rng)
	fields := strings.Fields(text)
	if len(fields) != 50 {
		t.Fatalf("sampled %d words, want 50", len(fields))
	}
	seen := make(map[string]bool)
	for _, w := range fields {
		if w != "alpha" && w != "beta" && w != "gamma" {
			t.Fatalf("sampled %q, not in set", w)
		}
		seen[w] = true
	}
	// 50 draws with replacement from 3 words hits repeats.
	if len(seen) > len(set.Words) {
		t.Fatalf("saw %d distinct words from a %d-word set", len(seen), len(set.Words))
	}
	if strings.Contains(text, "  ") || strings.HasPrefix(text, " ") || strings.HasSuffix(text, " ") {
		t.Errorf("text %q not joined by single spaces", text)
	}
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	set, err := Embedded{}.Lookup(context.Background(), SetEnglish1k)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	first := Sample(set, 20, rand.New(rand.NewSource(4)))
	second := Sample(set, 20, rand.New(rand.NewSource(4)))
	if first != second {
		t.Errorf("same seed produced different texts:\n%q\n%q", first, second)
	}
}

func TestSampleZeroWords(t *testing.T) {
	set := &Set{Name: "tiny", Words: []string{"alpha"}}
	if got := Sample(set, 0, rand.New(rand.NewSource(1))); got != "" {
		t.Errorf("Sample(0) = %q, want empty", got)
	}
}
