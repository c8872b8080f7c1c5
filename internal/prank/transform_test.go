package prank

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func shuffledLayout(seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	letters := []rune(StandardLayout)
	rng.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	return string(letters)
}

// inverseLayout builds the layout that undoes a remap through layout.
func inverseLayout(layout string) string {
	inv := make([]byte, len(StandardLayout))
	for i := 0; i < len(StandardLayout); i++ {
		j := strings.IndexByte(StandardLayout, layout[i])
		inv[j] = StandardLayout[i]
	}
	return string(inv)
}

func TestRemapIsBijectionOverLetters(t *testing.T) {
	layout := shuffledLayout(42)
	inv := inverseLayout(layout)

	for _, key := range StandardLayout {
		mapped := Remap(layout, key)
		if !strings.ContainsRune(StandardLayout, mapped) {
			t.Fatalf("Remap(%q) = %q, not a standard letter", key, mapped)
		}
		if got := Remap(inv, mapped); got != key {
			t.Fatalf("inverse remap of %q gave %q, want %q", mapped, got, key)
		}
	}
}

func TestRemapPreservesCase(t *testing.T) {
	layout := shuffledLayout(7)
	lower := Remap(layout, 'q')
	upper := Remap(layout, 'Q')
	if upper != lower-'a'+'A' {
		t.Errorf("Remap('Q') = %q, want uppercase of Remap('q') = %q", upper, lower)
	}
}

func TestRemapPassThrough(t *testing.T) {
	layout := shuffledLayout(3) + " "
	if got := Remap(layout, ' '); got != ' ' {
		t.Errorf("space remapped to %q, want space", got)
	}
	if got := Remap(layout, '7'); got != '7' {
		t.Errorf("digit remapped to %q, want unchanged", got)
	}
}

func TestInvertCase(t *testing.T) {
	if got := InvertCase('a'); got != 'A' {
		t.Errorf("InvertCase('a') = %q", got)
	}
	if got := InvertCase('Z'); got != 'z' {
		t.Errorf("InvertCase('Z') = %q", got)
	}
	if got := InvertCase(' '); got != ' ' {
		t.Errorf("InvertCase(' ') = %q", got)
	}
}

func TestBackspace(t *testing.T) {
	typed, ok := Backspace("cat")
	if !ok || typed != "ca" {
		t.Errorf("Backspace(cat) = %q, %v", typed, ok)
	}
	typed, ok = Backspace("")
	if ok || typed != "" {
		t.Errorf("Backspace on empty should be a no-op, got %q, %v", typed, ok)
	}
}

func newFakeClockDebouncer() (*Debouncer, *time.Time) {
	now := time.Unix(0, 0)
	d := NewDebouncer()
	d.now = func() time.Time { return now }
	return d, &now
}

func TestDebouncerDoublePressWithinWindow(t *testing.T) {
	d, now := newFakeClockDebouncer()

	if _, ok := d.Press('a'); ok {
		t.Fatal("first press should be swallowed")
	}
	*now = now.Add(400 * time.Millisecond)
	key, ok := d.Press('a')
	if !ok || key != 'a' {
		t.Fatalf("second press within window should commit 'a', got %q, %v", key, ok)
	}
}

func TestDebouncerLatePressSwallowed(t *testing.T) {
	d, now := newFakeClockDebouncer()

	d.Press('a')
	*now = now.Add(600 * time.Millisecond)
	if _, ok := d.Press('a'); ok {
		t.Fatal("press after the window should be swallowed")
	}
	// The late press restarted the sequence, so a quick follow-up commits.
	*now = now.Add(100 * time.Millisecond)
	if _, ok := d.Press('a'); !ok {
		t.Fatal("in-window pair after a late press should commit")
	}
}

func TestDebouncerCommitResetsSequence(t *testing.T) {
	d, now := newFakeClockDebouncer()

	d.Press('a')
	*now = now.Add(100 * time.Millisecond)
	if _, ok := d.Press('a'); !ok {
		t.Fatal("second press should commit")
	}
	// Third press starts fresh instead of chaining off the second.
	*now = now.Add(100 * time.Millisecond)
	if _, ok := d.Press('a'); ok {
		t.Fatal("third press should start a new sequence, not commit")
	}
	*now = now.Add(100 * time.Millisecond)
	if _, ok := d.Press('a'); !ok {
		t.Fatal("fourth press should complete the new pair")
	}
}

func TestDebouncerDifferentKeySwallowed(t *testing.T) {
	d, now := newFakeClockDebouncer()

	d.Press('a')
	*now = now.Add(100 * time.Millisecond)
	if _, ok := d.Press('b'); ok {
		t.Fatal("different key should be swallowed")
	}
	*now = now.Add(100 * time.Millisecond)
	if key, ok := d.Press('B'); !ok || key != 'B' {
		t.Fatalf("matching is case-insensitive, got %q, %v", key, ok)
	}
}

func TestDelayBufferFlushesOnce(t *testing.T) {
	commits := make(chan string, 4)
	b := NewDelayBuffer(30*time.Millisecond, func(s string) { commits <- s })

	b.Press('c')
	b.Press('a')
	b.Press('t')

	select {
	case got := <-commits:
		if got != "cat" {
			t.Fatalf("flush = %q, want %q", got, "cat")
		}
	case <-time.After(time.Second):
		t.Fatal("buffer never flushed")
	}

	select {
	case got := <-commits:
		t.Fatalf("unexpected second flush %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDelayBufferTimerNotReset(t *testing.T) {
	commits := make(chan string, 4)
	b := NewDelayBuffer(50*time.Millisecond, func(s string) { commits <- s })

	start := time.Now()
	b.Press('h')
	time.Sleep(25 * time.Millisecond)
	b.Press('i')

	select {
	case got := <-commits:
		if got != "hi" {
			t.Fatalf("flush = %q, want %q", got, "hi")
		}
		if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
			t.Fatalf("flush took %v, timer should fire from the first key", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("buffer never flushed")
	}
}

func collectSession(mode Mode, layout string) (*Session, *[]string) {
	var commits []string
	s := NewSession(mode, layout, func(c string) { commits = append(commits, c) })
	return s, &commits
}

func TestSessionIgnoresNonCommittableKeys(t *testing.T) {
	s, commits := collectSession(ModeMisspell, "")
	for _, key := range []rune{'1', '!', '\t', 'é'} {
		s.HandleKey(key)
	}
	if len(*commits) != 0 {
		t.Fatalf("expected no commits, got %v", *commits)
	}
}

func TestSessionModeDispatch(t *testing.T) {
	layout := shuffledLayout(11) + " "

	s, commits := collectSession(ModeRemap, layout)
	s.HandleKey('q')
	if len(*commits) != 1 || (*commits)[0] != string(layout[0]) {
		t.Errorf("remap session commits %v, want [%q]", *commits, layout[0])
	}

	s, commits = collectSession(ModeCaseInvert, "")
	s.HandleKey('g')
	if len(*commits) != 1 || (*commits)[0] != "G" {
		t.Errorf("case-invert session commits %v, want [G]", *commits)
	}

	s, commits = collectSession(ModeMisspell, "")
	s.HandleKey('x')
	s.HandleKey(' ')
	if len(*commits) != 2 || (*commits)[0] != "x" || (*commits)[1] != " " {
		t.Errorf("misspell session commits %v, want keys unchanged", *commits)
	}

	s, commits = collectSession(ModeDoublePress, "")
	s.HandleKey('k')
	if len(*commits) != 0 {
		t.Errorf("single press should not commit in double-press mode, got %v", *commits)
	}
	s.HandleKey('k')
	if len(*commits) != 1 || (*commits)[0] != "k" {
		t.Errorf("double press commits %v, want [k]", *commits)
	}
}
