package shelters

import "context"

type Repository interface {
	// Search ejecuta una Query ya planeada y devuelve una página de refugios
	// en el orden que dicta q.Order.
	Search(ctx context.Context, q Query) ([]Shelter, error)

	GetByID(ctx context.Context, id string) (Shelter, error)

	// SetCrowdLevel actualiza solo crowd_level (nil = limpiar) y devuelve
	// la fila resultante. ErrNotFound si el id no existe.
	SetCrowdLevel(ctx context.Context, id string, level *string) (Shelter, error)

	// Upsert inserta o reemplaza por id (ruta de ingesta).
	Upsert(ctx context.Context, s Shelter) error
}
