package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/domain/dto"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/pkg/store"
	"github.com/Oumar3/sidat/internal/service/geo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Service — moteur d'agrégation : sélection des tranches par filtre
// géographique, jointure aux followups, mise en forme (liste, séries,
// comparaison). Aucune écriture : toutes les lectures sont rejouables.
type Service struct {
	store store.Store
	geo   geo.Provider
}

func NewService(store store.Store, geo geo.Provider) *Service {
	return &Service{store: store, geo: geo}
}

// Filter — filtre géographique et temporel d'une requête de statistiques.
// EntityIDs vide = toutes les entités du niveau demandé.
type Filter struct {
	GeoLevel  domain.GeoLevel
	EntityIDs []int64
	StartYear *domain.Year
	EndYear   *domain.Year
}

// matchingPositions calcule les positions des tranches retenues par le
// filtre. Niveau Global : tranches Global uniquement ; sinon tranches du
// niveau demandé, restreintes à EntityIDs s'il est non vide.
func matchingPositions(indicator *domain.Indicator, geoLevel domain.GeoLevel, entityIDs []int64) []int {
	wanted := make(map[int64]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		wanted[id] = struct{}{}
	}

	positions := make([]int, 0, len(indicator.Data))
	for p, slice := range indicator.Data {
		if slice.GeoLocation.Type != geoLevel {
			continue
		}
		if geoLevel != domain.GeoLevelGlobal && len(wanted) > 0 {
			if slice.GeoLocation.ReferenceID == nil {
				continue
			}
			if _, ok := wanted[*slice.GeoLocation.ReferenceID]; !ok {
				continue
			}
		}
		positions = append(positions, p)
	}

	return positions
}

func (s *Service) resolve(ctx context.Context, indicatorID int64, filter Filter) (*domain.Indicator, []int, []*domain.Followup, error) {
	if !filter.GeoLevel.Valid() {
		return nil, nil, nil, constants.ValidationError("geo_level", "invalid geo level %q", filter.GeoLevel)
	}

	indicator, err := s.store.GetIndicatorByID(ctx, indicatorID)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, nil, nil, constants.NotFoundError("indicator %d not found", indicatorID)
		}
		return nil, nil, nil, fmt.Errorf("store.GetIndicatorByID: %w", err)
	}

	positions := matchingPositions(indicator, filter.GeoLevel, filter.EntityIDs)

	followups, err := s.store.ListFollowups(ctx, store.ListFollowupsOpts{
		IndicatorID: indicatorID,
		Positions:   positions,
		StartYear:   filter.StartYear,
		EndYear:     filter.EndYear,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("store.ListFollowups: %w", err)
	}

	return indicator, positions, followups, nil
}

// GetFilteredStatistics retourne les followups retenus par le filtre,
// joints aux champs de leur tranche, triés par année croissante.
func (s *Service) GetFilteredStatistics(ctx context.Context, indicatorID int64, filter Filter) ([]*domain.Observation, error) {
	indicator, _, followups, err := s.resolve(ctx, indicatorID, filter)
	if err != nil {
		return nil, err
	}

	observations := make([]*domain.Observation, 0, len(followups))
	for _, followup := range followups {
		slice := indicator.Data[followup.DataIndex]
		observations = append(observations, &domain.Observation{
			FollowupID:     followup.ID,
			DataIndex:      followup.DataIndex,
			Year:           followup.Year,
			Value:          followup.Value,
			GeoLocation:    slice.GeoLocation,
			AgeRange:       slice.AgeRange,
			Gender:         slice.Gender,
			SocialCategory: slice.SocialCategory,
			RefYear:        slice.RefYear,
			RefValue:       slice.RefValue,
			TargetYear:     slice.TargetYear,
			TargetValue:    slice.TargetValue,
		})
	}

	return observations, nil
}

// GetFilteredChartData construit une série par position retenue. Les
// années en abscisse sont l'union des années observées ; un point absent
// d'une série reste nil.
func (s *Service) GetFilteredChartData(ctx context.Context, indicatorID int64, filter Filter) (*domain.ChartData, error) {
	indicator, positions, followups, err := s.resolve(ctx, indicatorID, filter)
	if err != nil {
		return nil, err
	}

	yearSet := make(map[domain.Year]struct{})
	for _, followup := range followups {
		yearSet[followup.Year] = struct{}{}
	}
	years := make([]domain.Year, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Ints(years)

	yearIndex := make(map[domain.Year]int, len(years))
	for i, year := range years {
		yearIndex[year] = i
	}

	chart := &domain.ChartData{Labels: years, Datasets: make([]domain.Dataset, 0, len(positions))}

	byPosition := make(map[int][]*domain.Followup, len(positions))
	for _, followup := range followups {
		byPosition[followup.DataIndex] = append(byPosition[followup.DataIndex], followup)
	}

	for _, position := range positions {
		dataset := domain.Dataset{
			Label: s.sliceLabel(ctx, indicator.Data[position]),
			Data:  make([]*float64, len(years)),
		}
		for _, followup := range byPosition[position] {
			value := followup.Value
			dataset.Data[yearIndex[followup.Year]] = &value
		}
		chart.Datasets = append(chart.Datasets, dataset)
	}

	return chart, nil
}

// GetSummary groupe les followups retenus par année et calcule la moyenne
// arithmétique simple de chaque année (non pondérée), années croissantes,
// avec tendance et taux de croissance dérivés de la série des moyennes.
func (s *Service) GetSummary(ctx context.Context, indicatorID int64, filter Filter) (*domain.SummaryReport, error) {
	_, _, followups, err := s.resolve(ctx, indicatorID, filter)
	if err != nil {
		return nil, err
	}

	sums := make(map[domain.Year]decimal.Decimal)
	counts := make(map[domain.Year]int)
	for _, followup := range followups {
		sums[followup.Year] = sums[followup.Year].Add(decimal.NewFromFloat(followup.Value))
		counts[followup.Year]++
	}

	years := make([]domain.Year, 0, len(sums))
	for year := range sums {
		years = append(years, year)
	}
	sort.Ints(years)

	report := &domain.SummaryReport{Years: make([]domain.YearSummary, 0, len(years))}
	means := make([]float64, 0, len(years))
	for _, year := range years {
		mean, _ := sums[year].Div(decimal.NewFromInt(int64(counts[year]))).Float64()
		report.Years = append(report.Years, domain.YearSummary{Year: year, Mean: mean, Count: counts[year]})
		means = append(means, mean)
	}

	report.Trend = TrendDirection(means)
	if len(years) > 0 {
		report.GrowthRatePct = GrowthRate(means[0], means[len(means)-1], years[len(years)-1]-years[0])
	}

	return report, nil
}

// GetComparison exécute le filtrage indépendamment pour chaque entrée de
// comparaison et retourne les séries par clé "niveau:id".
func (s *Service) GetComparison(ctx context.Context, indicatorID int64, specs []dto.ComparisonSpec, startYear, endYear *domain.Year) (map[string]*domain.ChartData, error) {
	result := make(map[string]*domain.ChartData, len(specs))
	resultMx := sync.Mutex{}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, spec := range specs {
		spec := spec
		eg.Go(func() error {
			chart, err := s.GetFilteredChartData(egCtx, indicatorID, Filter{
				GeoLevel:  spec.GeoLevel,
				EntityIDs: []int64{spec.GeoEntityID},
				StartYear: startYear,
				EndYear:   endYear,
			})
			if err != nil {
				return fmt.Errorf("comparison %s:%d: %w", spec.GeoLevel, spec.GeoEntityID, err)
			}

			resultMx.Lock()
			defer resultMx.Unlock()
			result[fmt.Sprintf("%s:%d", spec.GeoLevel, spec.GeoEntityID)] = chart
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// GetAvailableYears liste les années distinctes observées aux positions
// retenues. Sans filtre géographique, toutes les positions comptent ; un
// filtre sans tranche correspondante donne un résultat vide, jamais un
// élargissement silencieux.
func (s *Service) GetAvailableYears(ctx context.Context, indicatorID int64, geoLevel *domain.GeoLevel, entityID *int64) (*domain.AvailableYears, error) {
	indicator, err := s.store.GetIndicatorByID(ctx, indicatorID)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.NotFoundError("indicator %d not found", indicatorID)
		}
		return nil, fmt.Errorf("store.GetIndicatorByID: %w", err)
	}

	opts := store.ListFollowupsOpts{IndicatorID: indicatorID}
	if geoLevel != nil {
		if !geoLevel.Valid() {
			return nil, constants.ValidationError("geo_level", "invalid geo level %q", *geoLevel)
		}
		var entityIDs []int64
		if entityID != nil {
			entityIDs = []int64{*entityID}
		}
		opts.Positions = matchingPositions(indicator, *geoLevel, entityIDs)
	}

	years, err := s.store.ListFollowupYears(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListFollowupYears: %w", err)
	}

	available := &domain.AvailableYears{Years: years, TotalYears: len(years)}
	if len(years) > 0 {
		available.MinYear = years[0]
		available.MaxYear = years[len(years)-1]
	}

	return available, nil
}

// GetTargetProgress calcule, pour chaque tranche retenue, l'avancement de
// la dernière observation vers la cible de la tranche.
func (s *Service) GetTargetProgress(ctx context.Context, indicatorID int64, filter Filter) ([]*domain.SliceProgress, error) {
	indicator, positions, followups, err := s.resolve(ctx, indicatorID, filter)
	if err != nil {
		return nil, err
	}

	latest := make(map[int]*domain.Followup, len(positions))
	for _, followup := range followups {
		current, ok := latest[followup.DataIndex]
		if !ok || followup.Year > current.Year {
			latest[followup.DataIndex] = followup
		}
	}

	progresses := make([]*domain.SliceProgress, 0, len(positions))
	for _, position := range positions {
		slice := indicator.Data[position]
		progress := &domain.SliceProgress{
			DataIndex: position,
			Label:     s.sliceLabel(ctx, slice),
		}

		if followup, ok := latest[position]; ok {
			year, value := followup.Year, followup.Value
			progress.LatestYear = &year
			progress.LatestValue = &value
			if slice.RefValue != nil && slice.TargetValue != nil {
				progress.ProgressPct = TargetProgress(*slice.RefValue, *slice.TargetValue, value)
			}
		}

		progresses = append(progresses, progress)
	}

	return progresses, nil
}

// sliceLabel décrit une tranche pour les légendes de graphique :
// géographie puis dimensions démographiques non agrégées.
func (s *Service) sliceLabel(ctx context.Context, slice domain.DataSlice) string {
	parts := make([]string, 0, 4)

	if slice.GeoLocation.Type == domain.GeoLevelGlobal {
		parts = append(parts, "National")
	} else if slice.GeoLocation.ReferenceID != nil {
		if entity, err := s.geo.LookupEntity(ctx, slice.GeoLocation.Type, *slice.GeoLocation.ReferenceID); err == nil {
			parts = append(parts, entity.Name)
		} else {
			parts = append(parts, fmt.Sprintf("%s #%d", slice.GeoLocation.Type, *slice.GeoLocation.ReferenceID))
		}
	} else {
		parts = append(parts, string(slice.GeoLocation.Type))
	}

	if !slice.AgeRange.IsAggregate() {
		parts = append(parts, string(slice.AgeRange))
	}
	if !slice.Gender.IsAggregate() {
		parts = append(parts, string(slice.Gender))
	}
	if !slice.SocialCategory.IsAggregate() {
		parts = append(parts, string(slice.SocialCategory))
	}

	return strings.Join(parts, " · ")
}
