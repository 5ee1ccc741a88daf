package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-shelter-directory/internal/domain/favorites"
	"pet-shelter-directory/internal/domain/shelters"
)

type favoriteKey struct {
	userID    string
	shelterID string
}

// FavoriteRepo replica la FK estricta del adapter Postgres consultando el
// repo de refugios antes de insertar. Bajo el mutex el "insert si no existe"
// es atómico, igual que el ON CONFLICT DO NOTHING.
type FavoriteRepo struct {
	mu       sync.RWMutex
	rows     map[favoriteKey]favorites.Favorite
	shelters shelters.Repository
}

func NewFavoriteRepo(shelterRepo shelters.Repository) *FavoriteRepo {
	return &FavoriteRepo{
		rows:     make(map[favoriteKey]favorites.Favorite),
		shelters: shelterRepo,
	}
}

func (r *FavoriteRepo) Add(ctx context.Context, userID, shelterID string, now time.Time) error {
	if _, err := r.shelters.GetByID(ctx, shelterID); err != nil {
		if errors.Is(err, shelters.ErrNotFound) {
			return favorites.ErrShelterMissing
		}
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := favoriteKey{userID: userID, shelterID: shelterID}
	if _, exists := r.rows[key]; exists {
		// par ya existente: éxito silencioso
		return nil
	}
	r.rows[key] = favorites.Favorite{
		UserID:    userID,
		ShelterID: shelterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (r *FavoriteRepo) Remove(ctx context.Context, userID, shelterID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := favoriteKey{userID: userID, shelterID: shelterID}
	if _, exists := r.rows[key]; !exists {
		return 0, nil
	}
	delete(r.rows, key)
	return 1, nil
}

func (r *FavoriteRepo) ListByUser(ctx context.Context, userID string) ([]favorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]favorites.Favorite, 0)
	for _, f := range r.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}

	// created_at desc; sin fecha (cero) al final, igual que NULLS LAST
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CreatedAt.IsZero() != b.CreatedAt.IsZero() {
			return !a.CreatedAt.IsZero()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ShelterID < b.ShelterID
	})

	return out, nil
}

func (r *FavoriteRepo) ListByUserWithShelter(ctx context.Context, userID string) ([]favorites.FavoriteWithShelter, error) {
	r.mu.RLock()
	keys := make([]favoriteKey, 0)
	for key := range r.rows {
		if key.userID == userID {
			keys = append(keys, key)
		}
	}
	r.mu.RUnlock()

	out := make([]favorites.FavoriteWithShelter, 0, len(keys))
	for _, key := range keys {
		s, err := r.shelters.GetByID(ctx, key.shelterID)
		if err != nil {
			if errors.Is(err, shelters.ErrNotFound) {
				// semántica de inner join: refugio borrado => fila afuera
				continue
			}
			return nil, err
		}
		out = append(out, favorites.FavoriteWithShelter{
			ShelterID: s.ID,
			Name:      s.Name,
			Address:   s.Address,
			Type:      s.Type,
			Location:  s.Location,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ShelterID < out[j].ShelterID
	})

	return out, nil
}
