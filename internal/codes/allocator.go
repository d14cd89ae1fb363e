// Package codes issues sequential per-letter inventory codes ("A-001",
// "B-014", ...) and recovers counter state from existing records.
package codes

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ollisal/flipstack/internal/taxonomy"
	"github.com/rs/zerolog/log"
)

// CounterTable maps a category letter to the highest issued sequence number.
type CounterTable map[string]int

// Allocator owns the per-letter counters. Allocation is serialized per
// letter so two concurrent calls for the same letter can never return the
// same code; allocations for different letters proceed in parallel.
type Allocator struct {
	mu      sync.Mutex // guards the letters map itself
	letters map[string]*letterCounter
}

type letterCounter struct {
	mu  sync.Mutex
	max int
}

// NewAllocator returns an allocator with all counters at zero.
func NewAllocator() *Allocator {
	return &Allocator{letters: make(map[string]*letterCounter)}
}

func (a *Allocator) counter(letter string) *letterCounter {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.letters[letter]
	if !ok {
		c = &letterCounter{}
		a.letters[letter] = c
	}
	return c
}

// Allocate resolves the category to its letter, increments that letter's
// counter and returns the formatted code. At-most-once: no two calls return
// the same code.
func (a *Allocator) Allocate(category string) string {
	letter := taxonomy.Classify(category).Letter
	return a.AllocateLetter(letter)
}

// AllocateLetter issues the next code for an explicit letter.
func (a *Allocator) AllocateLetter(letter string) string {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	c := a.counter(letter)

	c.mu.Lock()
	c.max++
	seq := c.max
	c.mu.Unlock()

	code := FormatCode(letter, seq)
	log.Debug().Str("code", code).Msg("allocated inventory code")
	return code
}

// Merge raises each counter to at least the value in the table. Counters
// never regress: a smaller incoming value is ignored.
func (a *Allocator) Merge(table CounterTable) {
	for letter, n := range table {
		c := a.counter(letter)
		c.mu.Lock()
		if n > c.max {
			c.max = n
		}
		c.mu.Unlock()
	}
}

// Snapshot returns a copy of the current counters for diagnostics. The copy
// is detached; mutating it has no effect on the allocator.
func (a *Allocator) Snapshot() CounterTable {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(CounterTable, len(a.letters))
	for letter, c := range a.letters {
		c.mu.Lock()
		if c.max > 0 {
			out[letter] = c.max
		}
		c.mu.Unlock()
	}
	return out
}

// FormatCode renders a letter and sequence as an inventory code with the
// sequence zero-padded to three digits.
func FormatCode(letter string, seq int) string {
	return fmt.Sprintf("%s-%03d", letter, seq)
}

// RebuildFromCodes derives a counter table from existing inventory codes,
// used to recover state after data loss. Malformed codes (wrong segment
// count, non-numeric suffix) are skipped, not fatal. The result per letter
// is the max parsed sequence, so a subsequent Merge + Allocate can never
// collide with any code in the input.
func RebuildFromCodes(existing []string) CounterTable {
	table := make(CounterTable)
	for _, code := range existing {
		letter, seq, ok := ParseCode(code)
		if !ok {
			log.Warn().Str("code", code).Msg("skipping malformed inventory code during rebuild")
			continue
		}
		if seq > table[letter] {
			table[letter] = seq
		}
	}
	return table
}

// ParseCode splits an inventory code into letter and sequence. ok is false
// for anything not shaped like "<letter>-<number>".
func ParseCode(code string) (letter string, seq int, ok bool) {
	parts := strings.Split(strings.TrimSpace(code), "-")
	if len(parts) != 2 {
		return "", 0, false
	}
	letter = strings.ToUpper(parts[0])
	if letter == "" {
		return "", 0, false
	}
	seq, err := strconv.Atoi(parts[1])
	if err != nil || seq < 0 {
		return "", 0, false
	}
	return letter, seq, true
}
