package domain

import "time"

type Year = int

// Bornes de plausibilité des années de référence et de cible.
const (
	MinYear       = 1900
	MaxYearOffset = 50
)

type IndicatorType string

const (
	IndicatorTypeImpact   IndicatorType = "impact-socio-economique"
	IndicatorTypeResultat IndicatorType = "resultat-programme"
)

func (t IndicatorType) Valid() bool {
	return t == IndicatorTypeImpact || t == IndicatorTypeResultat
}

// Polarity — sens d'une évolution favorable de l'indicateur.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

func (p Polarity) Valid() bool {
	return p == PolarityPositive || p == PolarityNegative
}

type AgeRange string

const AgeRangeAll AgeRange = "Tout"

var ageRanges = map[AgeRange]struct{}{
	"0-4": {}, "5-9": {}, "10-14": {}, "15-19": {}, "20-24": {},
	"25-34": {}, "35-44": {}, "45-54": {}, "55-64": {}, "65+": {},
	AgeRangeAll: {},
}

func (a AgeRange) Valid() bool {
	_, ok := ageRanges[a]
	return ok
}

func (a AgeRange) IsAggregate() bool { return a == AgeRangeAll }

type Gender string

const (
	GenderMale   Gender = "Masculin"
	GenderFemale Gender = "Feminin"
	GenderBoth   Gender = "Les deux"
	GenderOther  Gender = "Autre"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderBoth, GenderOther:
		return true
	}
	return false
}

func (g Gender) IsAggregate() bool { return g == GenderBoth }

type SocialCategory string

const SocialCategoryAll SocialCategory = "Toutes categories"

var socialCategories = map[SocialCategory]struct{}{
	"Urbain": {}, "Rural": {}, "Pauvre": {}, "Non pauvre": {}, "Vulnerable": {},
	SocialCategoryAll: {},
}

func (c SocialCategory) Valid() bool {
	_, ok := socialCategories[c]
	return ok
}

func (c SocialCategory) IsAggregate() bool { return c == SocialCategoryAll }

// DataSlice — une tranche dimensionnelle d'un indicateur
// (géographie × âge × genre × catégorie sociale) avec valeurs de
// référence et de cible. L'ID est généré à l'ajout et jamais réutilisé ;
// l'adressage externe des tranches reste positionnel.
type DataSlice struct {
	ID             string         `json:"id"`
	GeoLocation    GeoLocation    `json:"geo_location"`
	AgeRange       AgeRange       `json:"age_range"`
	Gender         Gender         `json:"gender"`
	SocialCategory SocialCategory `json:"social_category"`
	RefYear        *Year          `json:"ref_year,omitempty"`
	RefValue       *float64       `json:"ref_value,omitempty"`
	TargetYear     *Year          `json:"target_year,omitempty"`
	TargetValue    *float64       `json:"target_value,omitempty"`
}

type Indicator struct {
	ID            int64         `db:"id"`
	Code          string        `db:"code"`
	Name          string        `db:"name"`
	Type          IndicatorType `db:"type"`
	Polarity      Polarity      `db:"polarity"`
	ProgrammeID   int64         `db:"programme_id"`
	UniteDeMesure *string       `db:"unite_de_mesure"`
	SourceIDs     []int64       `db:"source_ids"`
	MetadataURL   *string       `db:"metadata_url"`
	Data          []DataSlice   `db:"data"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}
