package domain

// Observation — un followup joint aux champs de sa tranche, tel que
// renvoyé par les statistiques filtrées.
type Observation struct {
	FollowupID     int64          `json:"followup_id"`
	DataIndex      int            `json:"data_index"`
	Year           Year           `json:"year"`
	Value          float64        `json:"value"`
	GeoLocation    GeoLocation    `json:"geo_location"`
	AgeRange       AgeRange       `json:"age_range"`
	Gender         Gender         `json:"gender"`
	SocialCategory SocialCategory `json:"social_category"`
	RefYear        *Year          `json:"ref_year,omitempty"`
	RefValue       *float64       `json:"ref_value,omitempty"`
	TargetYear     *Year          `json:"target_year,omitempty"`
	TargetValue    *float64       `json:"target_value,omitempty"`
}

// Dataset — une série prête pour le graphique. Les points manquants
// restent nil : les trous ne sont pas interpolés.
type Dataset struct {
	Label string     `json:"label"`
	Data  []*float64 `json:"data"`
}

type ChartData struct {
	Labels   []Year    `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// YearSummary — moyenne arithmétique des valeurs d'une année,
// toutes positions confondues (non pondérée).
type YearSummary struct {
	Year  Year    `json:"year"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

type AvailableYears struct {
	Years      []Year `json:"years"`
	MinYear    Year   `json:"min_year"`
	MaxYear    Year   `json:"max_year"`
	TotalYears int    `json:"total_years"`
}

// SummaryReport — résumé national/filtré : moyennes annuelles, tendance
// sur les deux dernières années et taux de croissance annualisé.
type SummaryReport struct {
	Years         []YearSummary `json:"years"`
	Trend         Trend         `json:"trend"`
	GrowthRatePct float64       `json:"growth_rate_pct"`
}

// SliceProgress — avancement d'une tranche vers sa cible. ProgressPct est
// absent quand la cible égale la référence ou qu'aucune observation
// n'existe ; la valeur rapportée n'est pas bornée à [0;100].
type SliceProgress struct {
	DataIndex   int      `json:"data_index"`
	Label       string   `json:"label"`
	LatestYear  *Year    `json:"latest_year,omitempty"`
	LatestValue *float64 `json:"latest_value,omitempty"`
	ProgressPct *float64 `json:"progress_pct,omitempty"`
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
