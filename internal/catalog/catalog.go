// Package catalog holds the reference data the chain game walks through:
// an ordered list of stages (albums, each with accepted spellings and an
// ordered track list) and a parallel ordered list of number tokens.
//
// The ordering is shared process-wide. Completing a full cycle in any
// channel flips the traversal direction for every channel, so Reverse and
// all reads are serialized through a single RWMutex.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

//go:embed albums.json
var albumsJSON []byte

//go:embed numbers.json
var numbersJSON []byte

// Song is one track: the canonical name recorded for duplicate detection,
// plus every accepted spelling of it (normalized: lower-case, no
// punctuation).
type Song struct {
	Name         string   `json:"name"`
	AllowedNames []string `json:"allowedNames"`
}

// Stage is one album slot in the chain.
type Stage struct {
	Name         string   `json:"name"`
	AllowedNames []string `json:"allowedNames"`
	Songs        []Song   `json:"songs"`
}

// NumberToken is the spoken form of a stage position. It is matched by
// exact set membership, never fuzzily — bigram overlap on one- or
// two-character strings produces nothing but false positives.
type NumberToken struct {
	Number       string   `json:"number"`
	AllowedNames []string `json:"allowedNames"`
}

// Catalog is the shared, direction-mutable reference sequence.
type Catalog struct {
	mu       sync.RWMutex
	stages   []Stage
	numbers  []NumberToken
	reversed bool
}

// New builds a catalog from explicit stage and number-token sequences.
// Both must be non-empty and the same length.
func New(stages []Stage, numbers []NumberToken) (*Catalog, error) {
	if len(stages) == 0 {
		return nil, errors.New("catalog: no stages")
	}
	if len(stages) != len(numbers) {
		return nil, fmt.Errorf("catalog: %d stages but %d number tokens", len(stages), len(numbers))
	}
	return &Catalog{stages: stages, numbers: numbers}, nil
}

// Load builds the catalog from the embedded reference data.
func Load() (*Catalog, error) {
	var stages []Stage
	if err := json.Unmarshal(albumsJSON, &stages); err != nil {
		return nil, fmt.Errorf("parse albums.json: %w", err)
	}
	var numbers []NumberToken
	if err := json.Unmarshal(numbersJSON, &numbers); err != nil {
		return nil, fmt.Errorf("parse numbers.json: %w", err)
	}
	return New(stages, numbers)
}

// Len returns N, the number of stages in one full cycle. It never changes
// after construction.
func (c *Catalog) Len() int {
	return len(c.stages)
}

// LogicalStage maps an unbounded 1-based stage counter to its position
// within one cycle, always in [1, N].
func (c *Catalog) LogicalStage(stage int) int {
	return (stage-1)%len(c.stages) + 1
}

// StageAt returns the stage at logical position ls (1-based) under the
// current direction. The returned value is a consistent snapshot: Reverse
// swaps whole elements and never mutates a stage's interior.
func (c *Catalog) StageAt(ls int) Stage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stages[ls-1]
}

// NumberAt returns the number token at logical position ls (1-based) under
// the current direction.
func (c *Catalog) NumberAt(ls int) NumberToken {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.numbers[ls-1]
}

// Names returns the album names in current traversal order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name
	}
	return names
}

// Reverse flips the traversal direction: the stage sequence and the number
// token sequence are both reversed in place. The synonym set inside each
// number token keeps its order. This affects every channel in the process.
func (c *Catalog) Reverse() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, j := 0, len(c.stages)-1; i < j; i, j = i+1, j-1 {
		c.stages[i], c.stages[j] = c.stages[j], c.stages[i]
	}
	for i, j := 0, len(c.numbers)-1; i < j; i, j = i+1, j-1 {
		c.numbers[i], c.numbers[j] = c.numbers[j], c.numbers[i]
	}
	c.reversed = !c.reversed
}

// Reversed reports whether the catalog is currently traversed
// back-to-front relative to the embedded order.
func (c *Catalog) Reversed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reversed
}
