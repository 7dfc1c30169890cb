package watchlist

import (
	"errors"
	"testing"
)

func TestParseValid(t *testing.T) {
	idx, err := Parse([]byte(`
tickers:
  - symbol: OPEN
    name: Opendoor Technologies
    aliases: [OPEN, Opendoor]
    policies:
      - alias: OPEN
        require_context: [Opendoor]
        window: 40
        exclude: [OpenAI]
  - symbol: TSLA
    name: Tesla
    aliases: [TSLA, Tesla]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(idx.Entries()))
	}
	entry, ok := idx.Entry("OPEN")
	if !ok {
		t.Fatalf("expected OPEN entry")
	}
	p, ok := entry.PolicyFor("open")
	if !ok || p.Window != 40 {
		t.Fatalf("expected policy with window 40, got %+v ok=%v", p, ok)
	}
	if got := idx.EntriesContainingAlias("tesla"); len(got) != 1 || got[0].Symbol != "TSLA" {
		t.Fatalf("alias lookup failed: %v", got)
	}
}

func TestParseEmptyAliases(t *testing.T) {
	_, err := Parse([]byte(`
tickers:
  - symbol: OPEN
    name: Opendoor
    aliases: []
`))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestParseDuplicateSymbol(t *testing.T) {
	_, err := Parse([]byte(`
tickers:
  - symbol: OPEN
    name: Opendoor
    aliases: [OPEN]
  - symbol: OPEN
    name: Opendoor again
    aliases: [Opendoor]
`))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError for duplicate symbol, got %v", err)
	}
}

func TestParsePolicyConflict(t *testing.T) {
	_, err := Parse([]byte(`
tickers:
  - symbol: OPEN
    name: Opendoor
    aliases: [OPEN]
    policies:
      - alias: OPEN
        require_context: [Opendoor]
        exclude: [opendoor]
`))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError for require/exclude overlap, got %v", err)
	}
}

func TestParsePolicyUnknownAlias(t *testing.T) {
	_, err := Parse([]byte(`
tickers:
  - symbol: OPEN
    name: Opendoor
    aliases: [OPEN]
    policies:
      - alias: Opendoor
        exclude: [OpenAI]
`))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError for unknown policy alias, got %v", err)
	}
}
