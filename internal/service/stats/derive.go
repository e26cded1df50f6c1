package stats

import (
	"github.com/Oumar3/sidat/internal/domain"
	"github.com/shopspring/decimal"
)

// TrendDirection compare les deux dernières valeurs chronologiques d'une
// série. Moins de deux points : stable.
func TrendDirection(values []float64) domain.Trend {
	if len(values) < 2 {
		return domain.TrendStable
	}

	latest, previous := values[len(values)-1], values[len(values)-2]
	switch {
	case latest > previous:
		return domain.TrendUp
	case latest < previous:
		return domain.TrendDown
	default:
		return domain.TrendStable
	}
}

// GrowthRate — (latest - earliest) / earliest / yearSpan, en pourcentage.
// Dénominateur nul (yearSpan ou earliest) : 0.
func GrowthRate(earliest, latest float64, yearSpan int) float64 {
	if yearSpan == 0 || earliest == 0 {
		return 0
	}

	rate := decimal.NewFromFloat(latest).
		Sub(decimal.NewFromFloat(earliest)).
		Div(decimal.NewFromFloat(earliest)).
		Div(decimal.NewFromInt(int64(yearSpan))).
		Mul(decimal.NewFromInt(100))

	result, _ := rate.Float64()
	return result
}

// TargetProgress — (latest - ref) / (target - ref) * 100, non borné.
// Cible égale à la référence : indéfini, rapporté nil.
func TargetProgress(refValue, targetValue, latest float64) *float64 {
	if targetValue == refValue {
		return nil
	}

	progress := decimal.NewFromFloat(latest).
		Sub(decimal.NewFromFloat(refValue)).
		Div(decimal.NewFromFloat(targetValue).Sub(decimal.NewFromFloat(refValue))).
		Mul(decimal.NewFromInt(100))

	result, _ := progress.Float64()
	return &result
}
