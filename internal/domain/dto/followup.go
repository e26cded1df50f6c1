package dto

import "github.com/Oumar3/sidat/internal/domain"

type CreateFollowupRequest struct {
	DataIndex int         `json:"data_index" validate:"gte=0"`
	Year      domain.Year `json:"year" validate:"required"`
	Value     float64     `json:"value"`
}

type UpdateFollowupRequest struct {
	Year  domain.Year `json:"year" validate:"required"`
	Value float64     `json:"value"`
}
