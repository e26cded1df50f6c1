package stats_test

import (
	"testing"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/service/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendDirection(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   domain.Trend
	}{
		{"rising", []float64{10, 20}, domain.TrendUp},
		{"falling", []float64{20, 10}, domain.TrendDown},
		{"flat", []float64{10, 10}, domain.TrendStable},
		{"single point", []float64{10}, domain.TrendStable},
		{"empty", nil, domain.TrendStable},
		{"only last two matter", []float64{5, 30, 10, 20}, domain.TrendUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.TrendDirection(tt.values))
		})
	}
}

func TestGrowthRate(t *testing.T) {
	// (100-50)/50/5*100
	assert.InDelta(t, 20.0, stats.GrowthRate(50, 100, 5), 1e-9)

	assert.Zero(t, stats.GrowthRate(50, 100, 0))
	assert.Zero(t, stats.GrowthRate(0, 100, 5))

	// baisse : taux négatif
	assert.InDelta(t, -10.0, stats.GrowthRate(100, 50, 5), 1e-9)
}

func TestTargetProgress(t *testing.T) {
	progress := stats.TargetProgress(10, 20, 15)
	require.NotNil(t, progress)
	assert.InDelta(t, 50.0, *progress, 1e-9)

	// dépassement de cible : non borné
	progress = stats.TargetProgress(10, 20, 25)
	require.NotNil(t, progress)
	assert.InDelta(t, 150.0, *progress, 1e-9)

	// cible == référence : indéfini
	assert.Nil(t, stats.TargetProgress(10, 10, 15))
}
