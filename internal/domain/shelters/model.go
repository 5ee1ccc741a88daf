package shelters

import (
	"time"

	"pet-shelter-directory/internal/domain/geo"
)

// Type define las categorías de refugio soportadas.
// @Enum companion, accompany
type Type string

const (
	// TypeCompanion: evacuación conjunta, animales en espacio separado dentro del refugio.
	TypeCompanion Type = "companion"
	// TypeAccompany: animales alojados junto a sus dueños.
	TypeAccompany Type = "accompany"
)

func (t Type) Valid() bool {
	return t == TypeCompanion || t == TypeAccompany
}

// CrowdLevel define los niveles de ocupación aceptados en escrituras.
// El storage guarda texto libre; solo la mutación valida contra este set.
// @Enum empty, few, full
type CrowdLevel string

const (
	CrowdEmpty CrowdLevel = "empty"
	CrowdFew   CrowdLevel = "few"
	CrowdFull  CrowdLevel = "full"
)

func ValidCrowdLevel(s string) bool {
	switch CrowdLevel(s) {
	case CrowdEmpty, CrowdFew, CrowdFull:
		return true
	default:
		return false
	}
}

// Shelter representa un refugio de evacuación para personas con mascotas.
type Shelter struct {
	ID      string
	Name    string
	Address string

	Type     Type
	Capacity int
	Location geo.Point

	// Ocupación reportada; vacío = sin reporte.
	CrowdLevel string

	Phone      string
	WebsiteURL string
	Notes      string

	// Flags de emergencia: para qué tipo de desastre está habilitado.
	IsEmergencyFlood     bool
	IsEmergencyLandslide bool
	IsEmergencyTidalwave bool
	IsEmergencyLargeFire bool

	// Flags de instalaciones.
	HasParking           bool
	HasBarrierFreeToilet bool
	HasPetSpace          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
