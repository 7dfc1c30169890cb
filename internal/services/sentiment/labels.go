package sentiment

import "NewsPull/internal/domain/models"

// LabelFromRaw classifies a raw keyword delta (bullish minus bearish counts).
func LabelFromRaw(raw int) models.Label {
	switch {
	case raw > 2:
		return models.VeryBullish
	case raw > 0:
		return models.Bullish
	case raw == 0:
		return models.Neutral
	case raw < -2:
		return models.VeryBearish
	default:
		return models.Bearish
	}
}

// LabelFromScore classifies a normalized score in [-1, +1].
func LabelFromScore(score float64) models.Label {
	switch {
	case score > 0.5:
		return models.VeryBullish
	case score > 0.1:
		return models.Bullish
	case score < -0.5:
		return models.VeryBearish
	case score < -0.1:
		return models.Bearish
	default:
		return models.Neutral
	}
}

// NormalizeRaw clamps a raw delta to [-5, +5] and scales it to [-1, +1].
func NormalizeRaw(raw int) float64 {
	if raw > 5 {
		raw = 5
	}
	if raw < -5 {
		raw = -5
	}
	return float64(raw) / 5
}

// Clamp bounds a model score to [-1, +1].
func Clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
