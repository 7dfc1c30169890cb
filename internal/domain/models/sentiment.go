package models

// Label is the discrete sentiment classification.
type Label string

const (
	VeryBullish Label = "VERY_BULLISH"
	Bullish     Label = "BULLISH"
	Neutral     Label = "NEUTRAL"
	Bearish     Label = "BEARISH"
	VeryBearish Label = "VERY_BEARISH"
)

// Strategy identifies which scorer produced a result.
type Strategy string

const (
	StrategyLexical Strategy = "LEXICAL"
	StrategyModel   Strategy = "MODEL"
)

// SentimentResult is produced once per article; immutable.
// Score is normalized to [-1, +1] regardless of strategy.
type SentimentResult struct {
	Score    float64  `json:"score"`
	Label    Label    `json:"label"`
	Strategy Strategy `json:"strategy"`
}
