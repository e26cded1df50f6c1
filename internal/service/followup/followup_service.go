package followup

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/domain/dto"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewService(store store.Store) *Service {
	return &Service{store: store}
}

// Create rattache une observation annuelle à la tranche adressée par
// dataIndex. Les bornes sont vérifiées à l'écriture, sous le verrou de
// l'indicateur ; un doublon (indicateur, tranche, année) est refusé.
func (s *Service) Create(ctx context.Context, indicatorID int64, req *dto.CreateFollowupRequest) (*domain.Followup, error) {
	if err := validateObservation(req.Year, req.Value); err != nil {
		return nil, err
	}

	created, err := s.store.CreateFollowup(ctx, indicatorID, req.DataIndex, req.Year, req.Value)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.NotFoundError("indicator %d not found", indicatorID)
		}
		return nil, err
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Followup, error) {
	followup, err := s.store.GetFollowupByID(ctx, id)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.NotFoundError("followup %d not found", id)
		}
		return nil, fmt.Errorf("store.GetFollowupByID: %w", err)
	}

	return followup, nil
}

func (s *Service) List(ctx context.Context, opts store.ListFollowupsOpts) ([]*domain.Followup, error) {
	return s.store.ListFollowups(ctx, opts)
}

func (s *Service) Update(ctx context.Context, id int64, req *dto.UpdateFollowupRequest) (*domain.Followup, error) {
	if err := validateObservation(req.Year, req.Value); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateFollowup(ctx, id, req.Year, req.Value)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.NotFoundError("followup %d not found", id)
		}
		return nil, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteFollowup(ctx, id); err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return constants.NotFoundError("followup %d not found", id)
		}
		return err
	}

	return nil
}

func validateObservation(year domain.Year, value float64) error {
	maxYear := time.Now().Year() + domain.MaxYearOffset
	if year < domain.MinYear || year > maxYear {
		return constants.ValidationError("year", "year %d out of range [%d;%d]", year, domain.MinYear, maxYear)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return constants.ValidationError("value", "value must be a finite number")
	}
	return nil
}
