package boost

import (
	"fmt"
	"sort"
	"strings"
)

type EffectKind string

const (
	EffectMultiplier EffectKind = "MULTIPLIER"
	EffectFlatBonus  EffectKind = "FLAT_BONUS"
	EffectExactBonus EffectKind = "EXACT_BONUS"
)

// Effect transforms a round's base points. Value is the factor for
// multipliers and the bonus for the additive kinds.
type Effect struct {
	Kind  EffectKind
	Value int
}

type transformFunc func(basePoints, exactScores, value int) int

var transforms = map[EffectKind]transformFunc{
	EffectMultiplier: func(base, _, factor int) int { return base * factor },
	EffectFlatBonus:  func(base, _, bonus int) int { return base + bonus },
	EffectExactBonus: func(base, exact, bonus int) int { return base + exact*bonus },
}

func (e Effect) Validate() error {
	if _, ok := transforms[e.Kind]; !ok {
		return fmt.Errorf("%w: kind=%q", ErrUnknownEffect, e.Kind)
	}
	if e.Kind == EffectMultiplier && e.Value < 1 {
		return fmt.Errorf("multiplier must be >= 1, got %d", e.Value)
	}
	if e.Value < 0 {
		return fmt.Errorf("bonus must be >= 0, got %d", e.Value)
	}
	return nil
}

func (e Effect) Transform(basePoints, exactScores int) (int, error) {
	fn, ok := transforms[e.Kind]
	if !ok {
		return 0, fmt.Errorf("%w: kind=%q", ErrUnknownEffect, e.Kind)
	}
	return fn(basePoints, exactScores, e.Value), nil
}

// CatalogEntry pairs a definition with its point effect.
type CatalogEntry struct {
	Definition Definition
	Effect     Effect
}

// Catalog is the boost lookup keyed by code. New boost types are configuration,
// not code.
type Catalog struct {
	entries map[string]CatalogEntry
}

func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	out := make(map[string]CatalogEntry, len(entries))
	for _, entry := range entries {
		code := NormalizeCode(entry.Definition.Code)
		if code == "" {
			return nil, fmt.Errorf("boost code is required")
		}
		if _, exists := out[code]; exists {
			return nil, fmt.Errorf("duplicate boost code %q", code)
		}
		if err := entry.Effect.Validate(); err != nil {
			return nil, fmt.Errorf("boost %s: %w", code, err)
		}
		entry.Definition.Code = code
		out[code] = entry
	}
	return &Catalog{entries: out}, nil
}

// DefaultCatalog is used when no catalog file is configured.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog([]CatalogEntry{
		{
			Definition: Definition{Code: "DOUBLE_DOWN", Name: "Double Down", Description: "Doubles your points for the round."},
			Effect:     Effect{Kind: EffectMultiplier, Value: 2},
		},
		{
			Definition: Definition{Code: "TRIPLE_DOWN", Name: "Triple Down", Description: "Triples your points for the round."},
			Effect:     Effect{Kind: EffectMultiplier, Value: 3},
		},
		{
			Definition: Definition{Code: "BONUS_FIVE", Name: "Bonus Five", Description: "Adds five points to your round."},
			Effect:     Effect{Kind: EffectFlatBonus, Value: 5},
		},
		{
			Definition: Definition{Code: "EXACT_HUNTER", Name: "Exact Hunter", Description: "Two extra points for every exact score."},
			Effect:     Effect{Kind: EffectExactBonus, Value: 2},
		},
	})
	if err != nil {
		panic(err)
	}
	return catalog
}

func (c *Catalog) Lookup(code string) (CatalogEntry, bool) {
	if c == nil {
		return CatalogEntry{}, false
	}
	entry, ok := c.entries[NormalizeCode(code)]
	return entry, ok
}

func (c *Catalog) Effect(code string) (Effect, error) {
	entry, ok := c.Lookup(code)
	if !ok {
		return Effect{}, fmt.Errorf("%w: code=%s", ErrUnknownEffect, strings.TrimSpace(code))
	}
	return entry.Effect, nil
}

// Codes returns catalog codes in a stable order.
func (c *Catalog) Codes() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.entries))
	for code := range c.entries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
