package models

// ArticlesRequest filters the scored-article archive.
type ArticlesRequest struct {
	Symbol string `query:"symbol" validate:"omitempty,max=12"`
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  int    `query:"limit" default:"50" validate:"gte=1,lte=500"`
}
