package dto

import "github.com/Oumar3/sidat/internal/domain"

// ComparisonSpec — une entrée de comparaison côte à côte : un niveau
// administratif et l'entité à comparer.
type ComparisonSpec struct {
	GeoLevel    domain.GeoLevel `json:"geo_level" validate:"required"`
	GeoEntityID int64           `json:"geo_entity_id" validate:"required"`
}

type ComparisonRequest struct {
	Comparisons []ComparisonSpec `json:"comparisons" validate:"required,min=1,dive"`
}
