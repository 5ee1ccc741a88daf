package favorites

import (
	"time"

	"pet-shelter-directory/internal/domain/geo"
	"pet-shelter-directory/internal/domain/shelters"
)

// Favorite es una fila de relación usuario↔refugio, no una entidad propia:
// su identidad es la clave compuesta (UserID, ShelterID).
type Favorite struct {
	UserID    string
	ShelterID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FavoriteWithShelter es la proyección con datos del refugio (inner join):
// un favorito cuyo refugio ya no existe no aparece aquí.
type FavoriteWithShelter struct {
	ShelterID string
	Name      string
	Address   string
	Type      shelters.Type
	Location  geo.Point
}
