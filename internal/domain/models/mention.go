package models

// Mention is a candidate or confirmed occurrence of a ticker alias in an
// article. Created by the scanner, finalized by the disambiguator and not
// mutated afterwards. Span offsets are byte offsets into Article.Text().
type Mention struct {
	ArticleID       string `json:"article_id"`
	Symbol          string `json:"symbol"`
	MatchedAlias    string `json:"matched_alias"`
	SpanStart       int    `json:"span_start"`
	SpanEnd         int    `json:"span_end"`
	Accepted        bool   `json:"accepted"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}
