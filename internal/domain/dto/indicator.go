package dto

import "github.com/Oumar3/sidat/internal/domain"

type CreateIndicatorRequest struct {
	Code          string               `json:"code" validate:"required"`
	Name          string               `json:"name" validate:"required"`
	Type          domain.IndicatorType `json:"type" validate:"required"`
	Polarity      domain.Polarity      `json:"polarity" validate:"required"`
	ProgrammeID   int64                `json:"programme_id" validate:"required"`
	UniteDeMesure *string              `json:"unite_de_mesure,omitempty"`
	SourceIDs     []int64              `json:"source_ids" validate:"required,min=1"`
	MetadataURL   *string              `json:"metadata_url,omitempty"`
}

type UpdateIndicatorRequest struct {
	Name          *string               `json:"name,omitempty"`
	Type          *domain.IndicatorType `json:"type,omitempty"`
	Polarity      *domain.Polarity      `json:"polarity,omitempty"`
	UniteDeMesure *string               `json:"unite_de_mesure,omitempty"`
	SourceIDs     []int64               `json:"source_ids,omitempty"`
	MetadataURL   *string               `json:"metadata_url,omitempty"`
}

// DataSliceRequest — tranche telle que soumise par le client ; l'ID est
// attribué côté serveur.
type DataSliceRequest struct {
	GeoLocation    domain.GeoLocation    `json:"geo_location" validate:"required"`
	AgeRange       domain.AgeRange       `json:"age_range" validate:"required"`
	Gender         domain.Gender         `json:"gender" validate:"required"`
	SocialCategory domain.SocialCategory `json:"social_category" validate:"required"`
	RefYear        *domain.Year          `json:"ref_year,omitempty"`
	RefValue       *float64              `json:"ref_value,omitempty"`
	TargetYear     *domain.Year          `json:"target_year,omitempty"`
	TargetValue    *float64              `json:"target_value,omitempty"`
}
