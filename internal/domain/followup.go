package domain

import "time"

// Followup — une observation annuelle rattachée à une tranche d'un
// indicateur. DataIndex est la position de la tranche dans Indicator.Data
// au moment de l'écriture ; SliceID mémorise l'identité de la tranche
// pour garder la jointure exacte quand les positions sont décalées.
type Followup struct {
	ID          int64     `db:"id"`
	IndicatorID int64     `db:"indicator_id"`
	DataIndex   int       `db:"data_index"`
	SliceID     string    `db:"slice_id"`
	Year        Year      `db:"year"`
	Value       float64   `db:"value"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
