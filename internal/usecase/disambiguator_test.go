package usecase

import (
	"testing"

	"NewsPull/internal/domain/models"
)

func TestValidateAcceptsWithContext(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	d := NewDisambiguator(idx, 30)
	a := models.Article{ID: "a1", Title: "Opendoor Technologies beats earnings"}

	mentions := ScanMentions(a, idx)
	if len(mentions) != 1 {
		t.Fatalf("expected one mention, got %v", mentions)
	}
	ok, reason := d.Validate(mentions[0], a)
	if !ok || reason != "" {
		t.Fatalf("expected accept, got ok=%v reason=%q", ok, reason)
	}
}

func TestValidateNegativeMatch(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	d := NewDisambiguator(idx, 30)
	a := models.Article{ID: "a1", Title: "OpenAI releases new model"}

	mentions := ScanMentions(a, idx)
	if len(mentions) != 1 {
		t.Fatalf("expected one candidate, got %v", mentions)
	}
	ok, reason := d.Validate(mentions[0], a)
	if ok || reason != ReasonNegativeMatch {
		t.Fatalf("expected negative_match rejection, got ok=%v reason=%q", ok, reason)
	}
}

func TestValidateNoContext(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	d := NewDisambiguator(idx, 30)
	a := models.Article{ID: "a1", Title: "Futures open higher as markets rally"}

	mentions := ScanMentions(a, idx)
	if len(mentions) != 1 {
		t.Fatalf("expected one candidate, got %v", mentions)
	}
	ok, reason := d.Validate(mentions[0], a)
	if ok || reason != ReasonNoContext {
		t.Fatalf("expected no_context rejection, got ok=%v reason=%q", ok, reason)
	}
}

// A negative pattern wins even when a required-context term is present.
func TestValidateNegativeOverridesContext(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	d := NewDisambiguator(idx, 30)
	a := models.Article{ID: "a1", Title: "OpenAI partners with Opendoor Technologies"}

	mentions := ScanMentions(a, idx)
	var candidate *models.Mention
	for i := range mentions {
		if mentions[i].SpanStart == 0 {
			candidate = &mentions[i]
		}
	}
	if candidate == nil {
		t.Fatalf("expected a candidate inside OpenAI, got %v", mentions)
	}
	ok, reason := d.Validate(*candidate, a)
	if ok || reason != ReasonNegativeMatch {
		t.Fatalf("negative pattern must win, got ok=%v reason=%q", ok, reason)
	}
}

func TestValidateDeterministic(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	d := NewDisambiguator(idx, 30)
	a := models.Article{ID: "a1", Title: "Futures open higher as markets rally"}
	mentions := ScanMentions(a, idx)
	if len(mentions) != 1 {
		t.Fatalf("expected one candidate, got %v", mentions)
	}
	okFirst, reasonFirst := d.Validate(mentions[0], a)
	for i := 0; i < 50; i++ {
		ok, reason := d.Validate(mentions[0], a)
		if ok != okFirst || reason != reasonFirst {
			t.Fatalf("verdict changed on iteration %d", i)
		}
	}
}

func TestValidateNoPolicyAccepts(t *testing.T) {
	idx := testIndex(t, `
tickers:
  - symbol: TSLA
    name: Tesla
    aliases: [TSLA, Tesla]
`)
	d := NewDisambiguator(idx, 30)
	a := models.Article{ID: "a1", Title: "Tesla deliveries climb"}
	mentions := ScanMentions(a, idx)
	if len(mentions) != 1 {
		t.Fatalf("expected one mention, got %v", mentions)
	}
	ok, reason := d.Validate(mentions[0], a)
	if !ok || reason != "" {
		t.Fatalf("policy-free alias must be accepted, got ok=%v reason=%q", ok, reason)
	}
}

// A protected alias is accepted when a required term appears in the window.
func TestValidateRequiredContextAccepts(t *testing.T) {
	idx := testIndex(t, openWatchlist)
	d := NewDisambiguator(idx, 30)
	a := models.Article{ID: "a1", Title: "OPEN gains after Opendoor earnings beat"}

	mentions := ScanMentions(a, idx)
	var candidate *models.Mention
	for i := range mentions {
		if mentions[i].SpanStart == 0 {
			candidate = &mentions[i]
		}
	}
	if candidate == nil {
		t.Fatalf("expected an OPEN candidate, got %v", mentions)
	}
	ok, reason := d.Validate(*candidate, a)
	if !ok || reason != "" {
		t.Fatalf("expected accept with context, got ok=%v reason=%q", ok, reason)
	}
}
