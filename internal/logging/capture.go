package logging

import (
	"strings"
	"sync"
)

type nop struct{}

func (nop) Log(Level, string) {}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }

// Entry is one recorded log call.
type Entry struct {
	Level   Level
	Message string
}

// Capture records entries in memory.
type Capture struct {
	mu      sync.Mutex
	entries []Entry
}

// NewCapture returns an empty Capture.
func NewCapture() *Capture { return &Capture{} }

func (c *Capture) Log(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of everything logged so far.
func (c *Capture) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contains reports whether an entry at level contains substr.
func (c *Capture) Contains(level Level, substr string) bool {
	for _, e := range c.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
