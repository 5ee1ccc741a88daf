package favorites

import (
	"context"
	"time"
)

type Repository interface {
	// Add inserta si no existe, en un solo statement atómico (nunca
	// check-then-insert): dos Adds concurrentes del mismo par no pueden
	// duplicar la fila. Par ya existente = éxito silencioso.
	// ErrShelterMissing si el refugio referenciado no existe (FK estricta).
	Add(ctx context.Context, userID, shelterID string, now time.Time) error

	// Remove borra por clave y devuelve filas afectadas (0 o 1).
	// 0 es éxito, no error.
	Remove(ctx context.Context, userID, shelterID string) (int64, error)

	// ListByUser: favoritos del usuario, created_at desc (sin fecha al final).
	ListByUser(ctx context.Context, userID string) ([]Favorite, error)

	// ListByUserWithShelter: join contra shelters, orden por name asc.
	ListByUserWithShelter(ctx context.Context, userID string) ([]FavoriteWithShelter, error)
}
