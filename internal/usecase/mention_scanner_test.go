package usecase

import (
	"testing"

	"NewsPull/internal/domain/models"
	"NewsPull/internal/watchlist"
)

func testIndex(t *testing.T, yaml string) *watchlist.AliasIndex {
	t.Helper()
	idx, err := watchlist.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("parse watchlist: %v", err)
	}
	return idx
}

const openWatchlist = `
tickers:
  - symbol: OPEN
    name: Opendoor Technologies
    aliases: [OPEN, Open, Opendoor, Opendoor Technologies]
    policies:
      - alias: OPEN
        require_context: [Opendoor, Technologies]
        window: 40
        exclude: [OpenAI]
      - alias: Open
        require_context: [Opendoor, Technologies]
        window: 40
        exclude: [OpenAI]
`

func TestScanMentionsEmptyText(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	got := ScanMentions(models.Article{ID: "a1"}, idx)
	if len(got) != 0 {
		t.Fatalf("expected no mentions for empty text, got %v", got)
	}
}

func TestScanMentionsNoInteriorMatch(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	a := models.Article{ID: "a1", Title: "The mall reopened after renovations"}
	if got := ScanMentions(a, idx); len(got) != 0 {
		t.Fatalf("alias must not match inside a larger word, got %v", got)
	}
}

func TestScanMentionsOverlapKeepsLongestAlias(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	a := models.Article{ID: "a1", Title: "Opendoor Technologies beats earnings"}
	got := ScanMentions(a, idx)
	if len(got) != 1 {
		t.Fatalf("expected one deduplicated mention, got %v", got)
	}
	if got[0].MatchedAlias != "Opendoor Technologies" {
		t.Fatalf("expected longest alias, got %q", got[0].MatchedAlias)
	}
	if got[0].Symbol != "OPEN" {
		t.Fatalf("unexpected symbol %q", got[0].Symbol)
	}
}

func TestScanMentionsCamelCaseCandidate(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	a := models.Article{ID: "a1", Title: "OpenAI releases new model"}
	got := ScanMentions(a, idx)
	if len(got) != 1 {
		t.Fatalf("expected one candidate from OpenAI, got %v", got)
	}
	if got[0].Accepted {
		t.Fatalf("scanner must leave Accepted unset")
	}
}

func TestScanMentionsDistinctSpans(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	a := models.Article{ID: "a1", Title: "OPEN stock rises as Opendoor expands"}
	got := ScanMentions(a, idx)
	if len(got) != 2 {
		t.Fatalf("expected two mentions for distinct spans, got %v", got)
	}
}
