package stats_test

import (
	"context"
	"testing"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/domain/dto"
	"github.com/Oumar3/sidat/internal/pkg/store/storetest"
	"github.com/Oumar3/sidat/internal/service/followup"
	"github.com/Oumar3/sidat/internal/service/geo"
	"github.com/Oumar3/sidat/internal/service/indicator"
	"github.com/Oumar3/sidat/internal/service/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const provinceID = int64(1)

type fixture struct {
	indicators *indicator.Service
	followups  *followup.Service
	stats      *stats.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := storetest.New()
	geoService := geo.NewService(st)

	require.NoError(t, st.UpsertGeoEntities(context.Background(), []*domain.GeoEntity{
		{ID: provinceID, Code: "PR-01", Name: "Logone Occidental", Level: domain.GeoLevelProvince},
		{ID: 2, Code: "PR-02", Name: "Mayo-Kebbi Est", Level: domain.GeoLevelProvince},
	}))

	return &fixture{
		indicators: indicator.NewService(st, geoService),
		followups:  followup.NewService(st),
		stats:      stats.NewService(st, geoService),
	}
}

func (f *fixture) createIndicator(t *testing.T, code string) *domain.Indicator {
	t.Helper()

	created, err := f.indicators.Create(context.Background(), &dto.CreateIndicatorRequest{
		Code:        code,
		Name:        "Taux d'alphabetisation",
		Type:        domain.IndicatorTypeImpact,
		Polarity:    domain.PolarityPositive,
		ProgrammeID: 7,
		SourceIDs:   []int64{11},
	})
	require.NoError(t, err)

	return created
}

func globalSlice() *dto.DataSliceRequest {
	return &dto.DataSliceRequest{
		GeoLocation:    domain.GeoLocation{Type: domain.GeoLevelGlobal},
		AgeRange:       domain.AgeRangeAll,
		Gender:         domain.GenderBoth,
		SocialCategory: domain.SocialCategoryAll,
	}
}

func provinceSlice(entityID int64) *dto.DataSliceRequest {
	return &dto.DataSliceRequest{
		GeoLocation:    domain.GeoLocation{Type: domain.GeoLevelProvince, ReferenceID: &entityID},
		AgeRange:       domain.AgeRangeAll,
		Gender:         domain.GenderBoth,
		SocialCategory: domain.SocialCategoryAll,
	}
}

func (f *fixture) addFollowup(t *testing.T, indicatorID int64, dataIndex int, year domain.Year, value float64) {
	t.Helper()

	_, err := f.followups.Create(context.Background(), indicatorID, &dto.CreateFollowupRequest{
		DataIndex: dataIndex,
		Year:      year,
		Value:     value,
	})
	require.NoError(t, err)
}

// Scénario de bout en bout : une tranche Global, une tranche Province.
func setupScenario(t *testing.T, f *fixture) *domain.Indicator {
	t.Helper()
	ctx := context.Background()

	created := f.createIndicator(t, "EDU-001")

	position, _, err := f.indicators.AppendSlice(ctx, created.ID, globalSlice())
	require.NoError(t, err)
	require.Equal(t, 0, position)

	position, _, err = f.indicators.AppendSlice(ctx, created.ID, provinceSlice(provinceID))
	require.NoError(t, err)
	require.Equal(t, 1, position)

	f.addFollowup(t, created.ID, 0, 2020, 100)
	f.addFollowup(t, created.ID, 0, 2021, 110)
	f.addFollowup(t, created.ID, 1, 2020, 40)

	return created
}

func TestGetFilteredChartData_Global(t *testing.T) {
	f := newFixture(t)
	ind := setupScenario(t, f)

	chart, err := f.stats.GetFilteredChartData(context.Background(), ind.ID, stats.Filter{GeoLevel: domain.GeoLevelGlobal})
	require.NoError(t, err)

	assert.Equal(t, []domain.Year{2020, 2021}, chart.Labels)
	require.Len(t, chart.Datasets, 1)
	assert.Equal(t, "National", chart.Datasets[0].Label)

	require.Len(t, chart.Datasets[0].Data, 2)
	require.NotNil(t, chart.Datasets[0].Data[0])
	require.NotNil(t, chart.Datasets[0].Data[1])
	assert.Equal(t, 100.0, *chart.Datasets[0].Data[0])
	assert.Equal(t, 110.0, *chart.Datasets[0].Data[1])
}

func TestGetFilteredStatistics_Province(t *testing.T) {
	f := newFixture(t)
	ind := setupScenario(t, f)

	observations, err := f.stats.GetFilteredStatistics(context.Background(), ind.ID, stats.Filter{
		GeoLevel:  domain.GeoLevelProvince,
		EntityIDs: []int64{provinceID},
	})
	require.NoError(t, err)

	require.Len(t, observations, 1)
	assert.Equal(t, 2020, observations[0].Year)
	assert.Equal(t, 40.0, observations[0].Value)
	assert.Equal(t, 1, observations[0].DataIndex)
	assert.Equal(t, domain.GeoLevelProvince, observations[0].GeoLocation.Type)
}

func TestGetFilteredStatistics_Idempotent(t *testing.T) {
	f := newFixture(t)
	ind := setupScenario(t, f)

	filter := stats.Filter{GeoLevel: domain.GeoLevelGlobal}
	first, err := f.stats.GetFilteredStatistics(context.Background(), ind.ID, filter)
	require.NoError(t, err)
	second, err := f.stats.GetFilteredStatistics(context.Background(), ind.ID, filter)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetFilteredStatistics_YearBounds(t *testing.T) {
	f := newFixture(t)
	ind := setupScenario(t, f)

	start, end := 2021, 2021
	observations, err := f.stats.GetFilteredStatistics(context.Background(), ind.ID, stats.Filter{
		GeoLevel:  domain.GeoLevelGlobal,
		StartYear: &start,
		EndYear:   &end,
	})
	require.NoError(t, err)

	require.Len(t, observations, 1)
	assert.Equal(t, 2021, observations[0].Year)
}

func TestGetFilteredStatistics_NoMatchIsEmpty(t *testing.T) {
	f := newFixture(t)
	ind := setupScenario(t, f)

	observations, err := f.stats.GetFilteredStatistics(context.Background(), ind.ID, stats.Filter{
		GeoLevel: domain.GeoLevelCommune,
	})
	require.NoError(t, err)
	assert.Empty(t, observations)
}

func TestGetFilteredChartData_NullGaps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ind := f.createIndicator(t, "EDU-002")
	_, _, err := f.indicators.AppendSlice(ctx, ind.ID, provinceSlice(provinceID))
	require.NoError(t, err)
	_, _, err = f.indicators.AppendSlice(ctx, ind.ID, provinceSlice(2))
	require.NoError(t, err)

	f.addFollowup(t, ind.ID, 0, 2020, 10)
	f.addFollowup(t, ind.ID, 1, 2021, 20)

	chart, err := f.stats.GetFilteredChartData(ctx, ind.ID, stats.Filter{GeoLevel: domain.GeoLevelProvince})
	require.NoError(t, err)

	assert.Equal(t, []domain.Year{2020, 2021}, chart.Labels)
	require.Len(t, chart.Datasets, 2)
	assert.Equal(t, "Logone Occidental", chart.Datasets[0].Label)
	assert.Equal(t, "Mayo-Kebbi Est", chart.Datasets[1].Label)

	// les trous restent nil, pas d'interpolation
	require.NotNil(t, chart.Datasets[0].Data[0])
	assert.Nil(t, chart.Datasets[0].Data[1])
	assert.Nil(t, chart.Datasets[1].Data[0])
	require.NotNil(t, chart.Datasets[1].Data[1])
}

func TestGetSummary_MeanPerYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ind := f.createIndicator(t, "EDU-003")
	_, _, err := f.indicators.AppendSlice(ctx, ind.ID, provinceSlice(provinceID))
	require.NoError(t, err)
	_, _, err = f.indicators.AppendSlice(ctx, ind.ID, provinceSlice(2))
	require.NoError(t, err)

	f.addFollowup(t, ind.ID, 0, 2020, 40)
	f.addFollowup(t, ind.ID, 1, 2020, 60)
	f.addFollowup(t, ind.ID, 0, 2021, 70)

	report, err := f.stats.GetSummary(ctx, ind.ID, stats.Filter{GeoLevel: domain.GeoLevelProvince})
	require.NoError(t, err)

	require.Len(t, report.Years, 2)
	assert.Equal(t, domain.YearSummary{Year: 2020, Mean: 50, Count: 2}, report.Years[0])
	assert.Equal(t, domain.YearSummary{Year: 2021, Mean: 70, Count: 1}, report.Years[1])

	assert.Equal(t, domain.TrendUp, report.Trend)
	// (70-50)/50/1*100
	assert.InDelta(t, 40.0, report.GrowthRatePct, 1e-9)
}

func TestGetComparison(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ind := f.createIndicator(t, "EDU-004")
	_, _, err := f.indicators.AppendSlice(ctx, ind.ID, provinceSlice(provinceID))
	require.NoError(t, err)
	_, _, err = f.indicators.AppendSlice(ctx, ind.ID, provinceSlice(2))
	require.NoError(t, err)

	f.addFollowup(t, ind.ID, 0, 2020, 10)
	f.addFollowup(t, ind.ID, 1, 2020, 30)

	comparison, err := f.stats.GetComparison(ctx, ind.ID, []dto.ComparisonSpec{
		{GeoLevel: domain.GeoLevelProvince, GeoEntityID: provinceID},
		{GeoLevel: domain.GeoLevelProvince, GeoEntityID: 2},
	}, nil, nil)
	require.NoError(t, err)

	require.Len(t, comparison, 2)
	require.Contains(t, comparison, "Province:1")
	require.Contains(t, comparison, "Province:2")

	first := comparison["Province:1"]
	require.Len(t, first.Datasets, 1)
	require.NotNil(t, first.Datasets[0].Data[0])
	assert.Equal(t, 10.0, *first.Datasets[0].Data[0])
}

func TestGetAvailableYears(t *testing.T) {
	f := newFixture(t)
	ind := setupScenario(t, f)
	ctx := context.Background()

	t.Run("no geographic filter counts all positions", func(t *testing.T) {
		available, err := f.stats.GetAvailableYears(ctx, ind.ID, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, []domain.Year{2020, 2021}, available.Years)
		assert.Equal(t, 2020, available.MinYear)
		assert.Equal(t, 2021, available.MaxYear)
		assert.Equal(t, 2, available.TotalYears)
	})

	t.Run("province filter", func(t *testing.T) {
		level := domain.GeoLevelProvince
		available, err := f.stats.GetAvailableYears(ctx, ind.ID, &level, nil)
		require.NoError(t, err)

		assert.Equal(t, []domain.Year{2020}, available.Years)
		assert.Equal(t, 1, available.TotalYears)
	})

	t.Run("no matching slice stays empty", func(t *testing.T) {
		level := domain.GeoLevelCommune
		available, err := f.stats.GetAvailableYears(ctx, ind.ID, &level, nil)
		require.NoError(t, err)

		assert.Empty(t, available.Years)
		assert.Zero(t, available.MinYear)
		assert.Zero(t, available.MaxYear)
		assert.Zero(t, available.TotalYears)
	})
}

func TestGetTargetProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ind := f.createIndicator(t, "EDU-005")

	refValue, targetValue := 10.0, 20.0
	refYear, targetYear := 2020, 2025
	slice := globalSlice()
	slice.RefYear, slice.RefValue = &refYear, &refValue
	slice.TargetYear, slice.TargetValue = &targetYear, &targetValue

	_, _, err := f.indicators.AppendSlice(ctx, ind.ID, slice)
	require.NoError(t, err)

	f.addFollowup(t, ind.ID, 0, 2021, 12)
	f.addFollowup(t, ind.ID, 0, 2022, 15)

	progresses, err := f.stats.GetTargetProgress(ctx, ind.ID, stats.Filter{GeoLevel: domain.GeoLevelGlobal})
	require.NoError(t, err)

	require.Len(t, progresses, 1)
	require.NotNil(t, progresses[0].LatestYear)
	assert.Equal(t, 2022, *progresses[0].LatestYear)
	require.NotNil(t, progresses[0].ProgressPct)
	assert.InDelta(t, 50.0, *progresses[0].ProgressPct, 1e-9)
}

func TestGetTargetProgress_TargetEqualsRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ind := f.createIndicator(t, "EDU-006")

	value := 10.0
	slice := globalSlice()
	slice.RefValue, slice.TargetValue = &value, &value

	_, _, err := f.indicators.AppendSlice(ctx, ind.ID, slice)
	require.NoError(t, err)
	f.addFollowup(t, ind.ID, 0, 2021, 15)

	progresses, err := f.stats.GetTargetProgress(ctx, ind.ID, stats.Filter{GeoLevel: domain.GeoLevelGlobal})
	require.NoError(t, err)

	require.Len(t, progresses, 1)
	assert.Nil(t, progresses[0].ProgressPct)
}
