package usecase

import (
	"NewsPull/internal/domain/models"
	"NewsPull/internal/services/text"
	"NewsPull/internal/watchlist"
)

// Rejection reasons recorded on vetoed mentions.
const (
	ReasonNegativeMatch = "negative_match"
	ReasonNoContext     = "no_context"
)

// Disambiguator applies per-alias policies to candidate mentions.
// Deterministic: the same text and policy always produce the same verdict.
type Disambiguator struct {
	index         *watchlist.AliasIndex
	defaultWindow int
}

func NewDisambiguator(index *watchlist.AliasIndex, defaultWindow int) *Disambiguator {
	if defaultWindow <= 0 {
		defaultWindow = 30
	}
	return &Disambiguator{index: index, defaultWindow: defaultWindow}
}

// Validate decides whether a candidate mention is genuine. Exclusion phrases
// are checked first and always win; required-context terms are only
// consulted when no exclusion fires. A mention without a policy is accepted
// unconditionally.
func (d *Disambiguator) Validate(m models.Mention, a models.Article) (bool, string) {
	entry, ok := d.index.Entry(m.Symbol)
	if !ok {
		return true, ""
	}
	policy, ok := entry.PolicyFor(m.MatchedAlias)
	if !ok {
		return true, ""
	}

	body := a.Text()
	span := text.Span{Start: m.SpanStart, End: m.SpanEnd}

	for _, phrase := range policy.Exclude {
		for _, occ := range text.FindAll(body, phrase) {
			if occ.Overlaps(span) {
				return false, ReasonNegativeMatch
			}
		}
	}

	if len(policy.RequireContext) == 0 {
		return true, ""
	}
	window := policy.Window
	if window <= 0 {
		window = d.defaultWindow
	}
	for _, term := range policy.RequireContext {
		for _, occ := range text.FindWords(body, term) {
			if text.WordDistance(body, occ.Start, span.Start) <= window {
				return true, ""
			}
		}
	}
	return false, ReasonNoContext
}
