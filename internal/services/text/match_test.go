package text

import "testing"

func TestFindWordsNoInteriorMatch(t *testing.T) {
	if got := FindWords("the store reopened today", "open"); len(got) != 0 {
		t.Fatalf("expected no match inside 'reopened', got %v", got)
	}
	if got := FindWords("an unopened letter", "open"); len(got) != 0 {
		t.Fatalf("expected no match inside 'unopened', got %v", got)
	}
}

func TestFindWordsWholeWord(t *testing.T) {
	got := FindWords("markets open higher", "open")
	if len(got) != 1 {
		t.Fatalf("expected one match, got %v", got)
	}
	if got[0].Start != 8 || got[0].End != 12 {
		t.Fatalf("unexpected span %v", got[0])
	}
}

func TestFindWordsCaseInsensitive(t *testing.T) {
	if got := FindWords("OPEN rallies", "open"); len(got) != 1 {
		t.Fatalf("expected one match, got %v", got)
	}
}

func TestFindWordsCamelBoundary(t *testing.T) {
	got := FindWords("OpenAI releases new model", "Open")
	if len(got) != 1 {
		t.Fatalf("expected camel-case boundary match, got %v", got)
	}
	if got[0].Start != 0 || got[0].End != 4 {
		t.Fatalf("unexpected span %v", got[0])
	}
	if ai := FindWords("OpenAI releases new model", "AI"); len(ai) != 1 {
		t.Fatalf("expected AI match, got %v", ai)
	}
}

func TestFindAllSubstring(t *testing.T) {
	got := FindAll("the market is open today", "market is open")
	if len(got) != 1 {
		t.Fatalf("expected substring match, got %v", got)
	}
}

func TestFindStems(t *testing.T) {
	if got := FindStems("S&P 500 Surges to Record High", "surge"); len(got) != 1 {
		t.Fatalf("expected stem match on 'Surges', got %v", got)
	}
	if got := FindStems("up again today", "gain"); len(got) != 0 {
		t.Fatalf("'gain' must not match inside 'again', got %v", got)
	}
}

func TestSpanOverlaps(t *testing.T) {
	a := Span{Start: 0, End: 4}
	if !a.Overlaps(Span{Start: 4, End: 8}) {
		t.Fatalf("touching spans must overlap")
	}
	if a.Overlaps(Span{Start: 5, End: 8}) {
		t.Fatalf("disjoint spans must not overlap")
	}
}

func TestWordDistance(t *testing.T) {
	s := "Opendoor Technologies beats earnings estimates"
	// "Opendoor" is word 0, "beats" is word 2
	if d := WordDistance(s, 0, 22); d != 2 {
		t.Fatalf("expected distance 2, got %d", d)
	}
	if d := WordDistance(s, 22, 0); d != 2 {
		t.Fatalf("distance must be symmetric, got %d", d)
	}
}
