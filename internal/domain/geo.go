package domain

import "time"

// GeoLevel — niveau administratif. L'ordre est fixe :
// Province > Departement > {Sous-prefecture > Canton | Commune} > Village.
type GeoLevel string

const (
	GeoLevelGlobal         GeoLevel = "Global"
	GeoLevelProvince       GeoLevel = "Province"
	GeoLevelDepartement    GeoLevel = "Departement"
	GeoLevelSousPrefecture GeoLevel = "Sous-prefecture"
	GeoLevelCanton         GeoLevel = "Canton"
	GeoLevelCommune        GeoLevel = "Commune"
	GeoLevelVillage        GeoLevel = "Village"
)

var geoLevelRank = map[GeoLevel]int{
	GeoLevelGlobal:         0,
	GeoLevelProvince:       1,
	GeoLevelDepartement:    2,
	GeoLevelSousPrefecture: 3,
	GeoLevelCanton:         4,
	GeoLevelCommune:        3,
	GeoLevelVillage:        5,
}

func (l GeoLevel) Valid() bool {
	_, ok := geoLevelRank[l]
	return ok
}

// Rank retourne la profondeur du niveau dans la hiérarchie (Global = 0).
func (l GeoLevel) Rank() int {
	return geoLevelRank[l]
}

type GeoEntity struct {
	ID        int64     `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	Level     GeoLevel  `db:"level"`
	ParentID  *int64    `db:"parent_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GeoLocation — rattachement géographique d'une tranche de données.
// ReferenceID est obligatoire sauf pour le niveau Global.
type GeoLocation struct {
	Type        GeoLevel `json:"type"`
	ReferenceID *int64   `json:"reference_id,omitempty"`
}
