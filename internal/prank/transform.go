// Package prank implements the per-keystroke transforms a typing session
// runs before a character is committed to the player's typed text. Which
// transform applies is decided by the room's prank mode; the stateful ones
// (double press, delay) live entirely in the client session and reset on
// reconnect.
package prank

import (
	"strings"
	"sync"
	"time"
	"unicode"
)

type Mode int

const (
	// ModeRemap substitutes keys through the room's shuffled layout.
	ModeRemap Mode = iota
	// ModeCaseInvert swaps upper and lower case.
	ModeCaseInvert
	// ModeDoublePress only commits a key pressed twice in quick succession.
	ModeDoublePress
	// ModeDelay buffers keys and flushes them as one commit.
	ModeDelay
	// ModeMisspell has no client-side effect; the server picks the
	// commonly-misspelled word set for the room text instead.
	ModeMisspell
)

// StandardLayout is the 26-letter qwerty order used for remap lookups and as
// the base for shuffled room layouts. Space is handled separately and never
// takes part in the shuffle.
const StandardLayout = "qwertyuiopasdfghjklzxcvbnm"

const (
	// DoublePressWindow is how close two presses of the same key must be
	// for ModeDoublePress to commit the key.
	DoublePressWindow = 500 * time.Millisecond
	// DelayFlushAfter is how long ModeDelay buffers keystrokes before
	// flushing them as a single commit.
	DelayFlushAfter = 300 * time.Millisecond
)

// Committable reports whether a key may end up in typed text. Only letters
// and space qualify; everything else (arrows, punctuation, modifiers) is
// ignored before any transform runs.
func Committable(key rune) bool {
	return key == ' ' || (key >= 'a' && key <= 'z') || (key >= 'A' && key <= 'Z')
}

// Remap looks the pressed key up by its lowercase form in StandardLayout and
// substitutes the character at the same index in the room's layout, keeping
// the original case. Keys outside the standard layout (including space) pass
// through unchanged.
func Remap(layout string, key rune) rune {
	idx := strings.IndexRune(StandardLayout, unicode.ToLower(key))
	if idx < 0 || idx >= len(layout) {
		return key
	}
	mapped := rune(layout[idx])
	if unicode.IsUpper(key) {
		return unicode.ToUpper(mapped)
	}
	return mapped
}

// InvertCase makes lowercase uppercase and vice versa.
func InvertCase(key rune) rune {
	if unicode.IsUpper(key) {
		return unicode.ToLower(key)
	}
	if unicode.IsLower(key) {
		return unicode.ToUpper(key)
	}
	return key
}

// Backspace removes the trailing character from typed, bypassing every
// transform. It reports false when typed is already empty.
func Backspace(typed string) (string, bool) {
	if typed == "" {
		return typed, false
	}
	return typed[:len(typed)-1], true
}

// Debouncer implements ModeDoublePress. A key commits only when it matches
// the previous press (case-insensitively) and arrives within the window.
// Every press updates the tracked state; a committing press clears it, so a
// third press starts a fresh sequence instead of chaining off the second.
type Debouncer struct {
	window  time.Duration
	now     func() time.Time
	lastKey rune
	lastAt  time.Time
}

func NewDebouncer() *Debouncer {
	return &Debouncer{window: DoublePressWindow, now: time.Now}
}

// Press feeds one keystroke through the debounce. It returns the key and
// true when the press commits; swallowed presses return false.
func (d *Debouncer) Press(key rune) (rune, bool) {
	at := d.now()
	lower := unicode.ToLower(key)
	if d.lastKey != 0 && lower == d.lastKey && at.Sub(d.lastAt) <= d.window {
		d.lastKey = 0
		d.lastAt = time.Time{}
		return key, true
	}
	d.lastKey = lower
	d.lastAt = at
	return 0, false
}

// DelayBuffer implements ModeDelay. Accepted keystrokes accumulate in a
// buffer; a single-shot timer started on the first buffered key flushes the
// whole buffer as one commit. Later keys do not reset the timer.
type DelayBuffer struct {
	mu    sync.Mutex
	delay time.Duration
	flush func(string)
	buf   []rune
	timer *time.Timer
}

func NewDelayBuffer(delay time.Duration, flush func(string)) *DelayBuffer {
	return &DelayBuffer{delay: delay, flush: flush}
}

func (b *DelayBuffer) Press(key rune) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, key)
	if b.timer == nil {
		b.timer = time.AfterFunc(b.delay, b.fire)
	}
}

func (b *DelayBuffer) fire() {
	b.mu.Lock()
	out := string(b.buf)
	b.buf = nil
	b.timer = nil
	b.mu.Unlock()
	if out != "" {
		b.flush(out)
	}
}

// Session composes the transforms for one connection. Commits (possibly
// multi-character for ModeDelay) are delivered through the commit callback.
type Session struct {
	mode     Mode
	layout   string
	commit   func(string)
	debounce *Debouncer
	delay    *DelayBuffer
}

// NewSession builds a session for the room's prank mode. layout is the
// room's (possibly shuffled) layout string and only matters for ModeRemap.
func NewSession(mode Mode, layout string, commit func(string)) *Session {
	s := &Session{mode: mode, layout: layout, commit: commit}
	switch mode {
	case ModeDoublePress:
		s.debounce = NewDebouncer()
	case ModeDelay:
		s.delay = NewDelayBuffer(DelayFlushAfter, commit)
	}
	return s
}

// HandleKey runs one raw keystroke through the session's transform.
// Non-committable keys are dropped before any mode logic runs.
func (s *Session) HandleKey(key rune) {
	if !Committable(key) {
		return
	}
	switch s.mode {
	case ModeRemap:
		s.commit(string(Remap(s.layout, key)))
	case ModeCaseInvert:
		s.commit(string(InvertCase(key)))
	case ModeDoublePress:
		if committed, ok := s.debounce.Press(key); ok {
			s.commit(string(committed))
		}
	case ModeDelay:
		s.delay.Press(key)
	default:
		s.commit(string(key))
	}
}
