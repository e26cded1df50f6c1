package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/pkg/store"
)

// Store — implémentation mémoire de store.Store pour les tests des
// services et du moteur d'agrégation. Mêmes politiques que le store
// postgres : bornes de dataIndex vérifiées à l'écriture, réindexation à
// la suppression d'une tranche, unicité (indicateur, tranche, année).
type Store struct {
	mu sync.Mutex

	indicators map[int64]*domain.Indicator
	followups  map[int64]*domain.Followup
	geo        map[int64]*domain.GeoEntity

	nextIndicatorID int64
	nextFollowupID  int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		indicators: make(map[int64]*domain.Indicator),
		followups:  make(map[int64]*domain.Followup),
		geo:        make(map[int64]*domain.GeoEntity),
	}
}

func cloneIndicator(indicator *domain.Indicator) *domain.Indicator {
	c := *indicator
	c.SourceIDs = append([]int64(nil), indicator.SourceIDs...)
	c.Data = append([]domain.DataSlice(nil), indicator.Data...)
	return &c
}

func (s *Store) CreateIndicator(_ context.Context, indicator *domain.Indicator) (*domain.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.indicators {
		if existing.Code == indicator.Code {
			return nil, constants.ConflictError("duplicate: indicators_code_key")
		}
	}

	s.nextIndicatorID++
	created := cloneIndicator(indicator)
	created.ID = s.nextIndicatorID
	s.indicators[created.ID] = created

	return cloneIndicator(created), nil
}

func (s *Store) GetIndicatorByID(_ context.Context, id int64) (*domain.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indicator, ok := s.indicators[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return cloneIndicator(indicator), nil
}

func (s *Store) GetIndicatorByCode(_ context.Context, code string) (*domain.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, indicator := range s.indicators {
		if indicator.Code == code {
			return cloneIndicator(indicator), nil
		}
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) ListIndicators(_ context.Context) ([]*domain.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listed := make([]*domain.Indicator, 0, len(s.indicators))
	for _, indicator := range s.indicators {
		listed = append(listed, cloneIndicator(indicator))
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].Code < listed[j].Code })

	return listed, nil
}

func (s *Store) UpdateIndicator(_ context.Context, indicator *domain.Indicator) (*domain.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.indicators[indicator.ID]
	if !ok {
		return nil, constants.ErrDBNotFound
	}

	existing.Name = indicator.Name
	existing.Type = indicator.Type
	existing.Polarity = indicator.Polarity
	existing.UniteDeMesure = indicator.UniteDeMesure
	existing.SourceIDs = append([]int64(nil), indicator.SourceIDs...)
	existing.MetadataURL = indicator.MetadataURL

	return cloneIndicator(existing), nil
}

func (s *Store) DeleteIndicator(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.indicators[id]; !ok {
		return constants.ErrDBNotFound
	}
	delete(s.indicators, id)
	for fid, followup := range s.followups {
		if followup.IndicatorID == id {
			delete(s.followups, fid)
		}
	}

	return nil
}

func (s *Store) AppendDataSlice(_ context.Context, indicatorID int64, slice domain.DataSlice) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indicator, ok := s.indicators[indicatorID]
	if !ok {
		return 0, constants.ErrDBNotFound
	}

	indicator.Data = append(indicator.Data, slice)
	return len(indicator.Data) - 1, nil
}

func (s *Store) UpdateDataSlice(_ context.Context, indicatorID int64, position int, slice domain.DataSlice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	indicator, ok := s.indicators[indicatorID]
	if !ok {
		return constants.ErrDBNotFound
	}
	if position < 0 || position >= len(indicator.Data) {
		return constants.IntegrityError("data index %d out of bounds, indicator has %d slices", position, len(indicator.Data))
	}

	slice.ID = indicator.Data[position].ID
	indicator.Data[position] = slice

	return nil
}

func (s *Store) RemoveDataSlice(_ context.Context, indicatorID int64, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	indicator, ok := s.indicators[indicatorID]
	if !ok {
		return constants.ErrDBNotFound
	}
	if position < 0 || position >= len(indicator.Data) {
		return constants.IntegrityError("data index %d out of bounds, indicator has %d slices", position, len(indicator.Data))
	}

	removed := indicator.Data[position]
	for fid, followup := range s.followups {
		if followup.IndicatorID != indicatorID {
			continue
		}
		if followup.SliceID == removed.ID {
			delete(s.followups, fid)
		} else if followup.DataIndex > position {
			followup.DataIndex--
		}
	}

	indicator.Data = append(indicator.Data[:position], indicator.Data[position+1:]...)

	return nil
}

func (s *Store) CreateFollowup(_ context.Context, indicatorID int64, dataIndex int, year domain.Year, value float64) (*domain.Followup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indicator, ok := s.indicators[indicatorID]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	if dataIndex < 0 || dataIndex >= len(indicator.Data) {
		return nil, constants.IntegrityError("data index %d out of bounds, indicator has %d slices", dataIndex, len(indicator.Data))
	}

	sliceID := indicator.Data[dataIndex].ID
	for _, followup := range s.followups {
		if followup.IndicatorID == indicatorID && followup.SliceID == sliceID && followup.Year == year {
			return nil, constants.ConflictError("duplicate: followups_indicator_slice_year_key")
		}
	}

	s.nextFollowupID++
	created := &domain.Followup{
		ID:          s.nextFollowupID,
		IndicatorID: indicatorID,
		DataIndex:   dataIndex,
		SliceID:     sliceID,
		Year:        year,
		Value:       value,
	}
	s.followups[created.ID] = created

	c := *created
	return &c, nil
}

func (s *Store) GetFollowupByID(_ context.Context, id int64) (*domain.Followup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	followup, ok := s.followups[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	c := *followup
	return &c, nil
}

func (s *Store) UpdateFollowup(_ context.Context, id int64, year domain.Year, value float64) (*domain.Followup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	followup, ok := s.followups[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}

	followup.Year = year
	followup.Value = value

	c := *followup
	return &c, nil
}

func (s *Store) DeleteFollowup(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.followups[id]; !ok {
		return constants.ErrDBNotFound
	}
	delete(s.followups, id)

	return nil
}

func matches(followup *domain.Followup, opts store.ListFollowupsOpts) bool {
	if followup.IndicatorID != opts.IndicatorID {
		return false
	}
	if opts.Positions != nil {
		found := false
		for _, position := range opts.Positions {
			if followup.DataIndex == position {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if opts.StartYear != nil && followup.Year < *opts.StartYear {
		return false
	}
	if opts.EndYear != nil && followup.Year > *opts.EndYear {
		return false
	}
	return true
}

func (s *Store) ListFollowups(_ context.Context, opts store.ListFollowupsOpts) ([]*domain.Followup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listed []*domain.Followup
	for _, followup := range s.followups {
		if matches(followup, opts) {
			c := *followup
			listed = append(listed, &c)
		}
	}
	sort.Slice(listed, func(i, j int) bool {
		if listed[i].Year != listed[j].Year {
			return listed[i].Year < listed[j].Year
		}
		return listed[i].DataIndex < listed[j].DataIndex
	})

	return listed, nil
}

func (s *Store) ListFollowupYears(_ context.Context, opts store.ListFollowupsOpts) ([]domain.Year, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[domain.Year]struct{})
	for _, followup := range s.followups {
		if matches(followup, opts) {
			seen[followup.Year] = struct{}{}
		}
	}

	years := make([]domain.Year, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)

	return years, nil
}

func (s *Store) GetGeoEntity(_ context.Context, level domain.GeoLevel, id int64) (*domain.GeoEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, ok := s.geo[id]
	if !ok || entity.Level != level {
		return nil, constants.ErrDBNotFound
	}
	c := *entity
	return &c, nil
}

func (s *Store) ListGeoEntities(_ context.Context, level *domain.GeoLevel) ([]*domain.GeoEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listed []*domain.GeoEntity
	for _, entity := range s.geo {
		if level == nil || entity.Level == *level {
			c := *entity
			listed = append(listed, &c)
		}
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].Name < listed[j].Name })

	return listed, nil
}

func (s *Store) UpsertGeoEntities(_ context.Context, entities []*domain.GeoEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entity := range entities {
		c := *entity
		s.geo[entity.ID] = &c
	}

	return nil
}
