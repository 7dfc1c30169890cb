package usecase

import (
	"sort"

	"NewsPull/internal/domain/models"
	"NewsPull/internal/services/text"
	"NewsPull/internal/watchlist"
)

// ScanMentions finds every candidate alias occurrence in an article's
// combined title and summary. Matching is case-insensitive and word-boundary
// anchored. Per ticker, overlapping candidate spans collapse to the longest
// matched alias. Pure function: no I/O, no mutation of inputs.
func ScanMentions(a models.Article, idx *watchlist.AliasIndex) []models.Mention {
	body := a.Text()
	if body == "" {
		return nil
	}

	var out []models.Mention
	for _, entry := range idx.Entries() {
		out = append(out, scanEntry(a.ID, body, entry)...)
	}
	return out
}

type candidate struct {
	alias string
	span  text.Span
}

func scanEntry(articleID, body string, entry models.TickerEntry) []models.Mention {
	var cands []candidate
	for _, alias := range entry.Aliases {
		for _, sp := range text.FindWords(body, alias) {
			cands = append(cands, candidate{alias: alias, span: sp})
		}
	}
	if len(cands) == 0 {
		return nil
	}

	// longest span wins on overlap; earlier start breaks ties
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].span.Len() != cands[j].span.Len() {
			return cands[i].span.Len() > cands[j].span.Len()
		}
		return cands[i].span.Start < cands[j].span.Start
	})

	var kept []candidate
	for _, c := range cands {
		clash := false
		for _, k := range kept {
			if c.span.Start < k.span.End && k.span.Start < c.span.End {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, c)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].span.Start < kept[j].span.Start })

	mentions := make([]models.Mention, 0, len(kept))
	for _, c := range kept {
		mentions = append(mentions, models.Mention{
			ArticleID:    articleID,
			Symbol:       entry.Symbol,
			MatchedAlias: c.alias,
			SpanStart:    c.span.Start,
			SpanEnd:      c.span.End,
		})
	}
	return mentions
}
