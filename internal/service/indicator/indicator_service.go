package indicator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/domain/dto"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/pkg/logger"
	"github.com/Oumar3/sidat/internal/pkg/store"
	"github.com/Oumar3/sidat/internal/service/geo"
	"github.com/google/uuid"
)

type Service struct {
	store store.Store
	geo   geo.Provider
}

func NewService(store store.Store, geo geo.Provider) *Service {
	return &Service{store: store, geo: geo}
}

func (s *Service) Create(ctx context.Context, req *dto.CreateIndicatorRequest) (*domain.Indicator, error) {
	if !req.Type.Valid() {
		return nil, constants.ValidationError("type", "invalid indicator type %q", req.Type)
	}
	if !req.Polarity.Valid() {
		return nil, constants.ValidationError("polarity", "invalid polarity %q", req.Polarity)
	}
	if req.ProgrammeID == 0 {
		return nil, constants.ValidationError("programme_id", "programme is required")
	}
	if len(req.SourceIDs) == 0 {
		return nil, constants.ValidationError("source_ids", "at least one source is required")
	}

	// collision de code, comparaison exacte sensible à la casse
	if _, err := s.store.GetIndicatorByCode(ctx, req.Code); err == nil {
		return nil, constants.ConflictError("indicator code %q already exists", req.Code)
	} else if !errors.Is(err, constants.ErrDBNotFound) {
		return nil, fmt.Errorf("store.GetIndicatorByCode: %w", err)
	}

	created, err := s.store.CreateIndicator(ctx, &domain.Indicator{
		Code:          req.Code,
		Name:          req.Name,
		Type:          req.Type,
		Polarity:      req.Polarity,
		ProgrammeID:   req.ProgrammeID,
		UniteDeMesure: req.UniteDeMesure,
		SourceIDs:     req.SourceIDs,
		MetadataURL:   req.MetadataURL,
		Data:          []domain.DataSlice{},
	})
	if err != nil {
		logger.Errorf(ctx, "store.CreateIndicator: %s", err.Error())
		return nil, fmt.Errorf("store.CreateIndicator: %w", err)
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Indicator, error) {
	indicator, err := s.store.GetIndicatorByID(ctx, id)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.NotFoundError("indicator %d not found", id)
		}
		return nil, fmt.Errorf("store.GetIndicatorByID: %w", err)
	}

	return indicator, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Indicator, error) {
	return s.store.ListIndicators(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, req *dto.UpdateIndicatorRequest) (*domain.Indicator, error) {
	indicator, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		indicator.Name = *req.Name
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, constants.ValidationError("type", "invalid indicator type %q", *req.Type)
		}
		indicator.Type = *req.Type
	}
	if req.Polarity != nil {
		if !req.Polarity.Valid() {
			return nil, constants.ValidationError("polarity", "invalid polarity %q", *req.Polarity)
		}
		indicator.Polarity = *req.Polarity
	}
	if req.UniteDeMesure != nil {
		indicator.UniteDeMesure = req.UniteDeMesure
	}
	if req.SourceIDs != nil {
		if len(req.SourceIDs) == 0 {
			return nil, constants.ValidationError("source_ids", "at least one source is required")
		}
		indicator.SourceIDs = req.SourceIDs
	}
	if req.MetadataURL != nil {
		indicator.MetadataURL = req.MetadataURL
	}

	return s.store.UpdateIndicator(ctx, indicator)
}

// Delete supprime l'indicateur avec ses tranches et tous ses followups.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteIndicator(ctx, id); err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return constants.NotFoundError("indicator %d not found", id)
		}
		return fmt.Errorf("store.DeleteIndicator: %w", err)
	}

	return nil
}

// AppendSlice valide la tranche puis l'ajoute en fin de séquence.
// Retourne la position attribuée (longueur précédente) et la tranche avec
// son identifiant généré.
func (s *Service) AppendSlice(ctx context.Context, indicatorID int64, req *dto.DataSliceRequest) (int, *domain.DataSlice, error) {
	slice, err := s.buildSlice(ctx, req)
	if err != nil {
		return 0, nil, err
	}

	position, err := s.store.AppendDataSlice(ctx, indicatorID, *slice)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return 0, nil, constants.NotFoundError("indicator %d not found", indicatorID)
		}
		return 0, nil, fmt.Errorf("store.AppendDataSlice: %w", err)
	}

	return position, slice, nil
}

func (s *Service) UpdateSlice(ctx context.Context, indicatorID int64, position int, req *dto.DataSliceRequest) error {
	slice, err := s.buildSlice(ctx, req)
	if err != nil {
		return err
	}

	if err = s.store.UpdateDataSlice(ctx, indicatorID, position, *slice); err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return constants.NotFoundError("indicator %d not found", indicatorID)
		}
		return err
	}

	return nil
}

// RemoveSlice retire la tranche à la position donnée. Les followups de la
// tranche disparaissent, ceux des positions supérieures sont réindexés
// d'un cran vers le bas (voir store.RemoveDataSlice).
func (s *Service) RemoveSlice(ctx context.Context, indicatorID int64, position int) error {
	if err := s.store.RemoveDataSlice(ctx, indicatorID, position); err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return constants.NotFoundError("indicator %d not found", indicatorID)
		}
		return err
	}

	return nil
}

func (s *Service) buildSlice(ctx context.Context, req *dto.DataSliceRequest) (*domain.DataSlice, error) {
	if !req.GeoLocation.Type.Valid() {
		return nil, constants.ValidationError("geo_location.type", "invalid geo level %q", req.GeoLocation.Type)
	}

	if req.GeoLocation.Type == domain.GeoLevelGlobal {
		if req.GeoLocation.ReferenceID != nil {
			return nil, constants.ValidationError("geo_location.reference_id", "must be empty for the Global level")
		}
	} else {
		if req.GeoLocation.ReferenceID == nil {
			return nil, constants.ValidationError("geo_location.reference_id", "required for level %q", req.GeoLocation.Type)
		}
		if _, err := s.geo.LookupEntity(ctx, req.GeoLocation.Type, *req.GeoLocation.ReferenceID); err != nil {
			return nil, constants.ValidationError("geo_location.reference_id", "unknown %s entity %d", req.GeoLocation.Type, *req.GeoLocation.ReferenceID)
		}
	}

	if !req.AgeRange.Valid() {
		return nil, constants.ValidationError("age_range", "invalid age range %q", req.AgeRange)
	}
	if !req.Gender.Valid() {
		return nil, constants.ValidationError("gender", "invalid gender %q", req.Gender)
	}
	if !req.SocialCategory.Valid() {
		return nil, constants.ValidationError("social_category", "invalid social category %q", req.SocialCategory)
	}

	if err := validateYear("ref_year", req.RefYear); err != nil {
		return nil, err
	}
	if err := validateYear("target_year", req.TargetYear); err != nil {
		return nil, err
	}
	if err := validateValue("ref_value", req.RefValue); err != nil {
		return nil, err
	}
	if err := validateValue("target_value", req.TargetValue); err != nil {
		return nil, err
	}

	return &domain.DataSlice{
		ID:             uuid.NewString(),
		GeoLocation:    req.GeoLocation,
		AgeRange:       req.AgeRange,
		Gender:         req.Gender,
		SocialCategory: req.SocialCategory,
		RefYear:        req.RefYear,
		RefValue:       req.RefValue,
		TargetYear:     req.TargetYear,
		TargetValue:    req.TargetValue,
	}, nil
}

func validateYear(field string, year *domain.Year) error {
	if year == nil {
		return nil
	}
	maxYear := time.Now().Year() + domain.MaxYearOffset
	if *year < domain.MinYear || *year > maxYear {
		return constants.ValidationError(field, "year %d out of range [%d;%d]", *year, domain.MinYear, maxYear)
	}
	return nil
}

func validateValue(field string, value *float64) error {
	if value == nil {
		return nil
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return constants.ValidationError(field, "value must be a finite number")
	}
	return nil
}
