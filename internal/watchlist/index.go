package watchlist

import (
	"strings"

	"NewsPull/internal/domain/models"
)

// AliasIndex is the read-only alias lookup built once at startup.
// Safe for concurrent use.
type AliasIndex struct {
	entries []models.TickerEntry
	byAlias map[string][]int // lowercased alias -> entry indexes
}

func newAliasIndex(entries []models.TickerEntry) *AliasIndex {
	idx := &AliasIndex{
		entries: entries,
		byAlias: make(map[string][]int),
	}
	for i, e := range entries {
		for _, a := range e.Aliases {
			k := strings.ToLower(a)
			idx.byAlias[k] = append(idx.byAlias[k], i)
		}
	}
	return idx
}

// Entries returns all watched tickers. Callers must not mutate the result.
func (x *AliasIndex) Entries() []models.TickerEntry { return x.entries }

// EntriesContainingAlias returns the tickers that list the given alias,
// compared case-insensitively.
func (x *AliasIndex) EntriesContainingAlias(alias string) []models.TickerEntry {
	idxs, ok := x.byAlias[strings.ToLower(alias)]
	if !ok {
		return nil
	}
	out := make([]models.TickerEntry, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, x.entries[i])
	}
	return out
}

// Entry returns the entry for a symbol.
func (x *AliasIndex) Entry(symbol string) (models.TickerEntry, bool) {
	for _, e := range x.entries {
		if e.Symbol == symbol {
			return e, true
		}
	}
	return models.TickerEntry{}, false
}

// Symbols returns the watched symbols in file order.
func (x *AliasIndex) Symbols() []string {
	out := make([]string, 0, len(x.entries))
	for _, e := range x.entries {
		out = append(out, e.Symbol)
	}
	return out
}
