package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-shelter-directory/internal/domain/shelters"
)

// ShelterRepo es el adapter in-memory para dev y tests. Replica la semántica
// del adapter Postgres: radio inclusivo en el borde, desempates por id.
type ShelterRepo struct {
	mu   sync.RWMutex
	byID map[string]shelters.Shelter
}

func NewShelterRepo() *ShelterRepo {
	return &ShelterRepo{
		byID: make(map[string]shelters.Shelter),
	}
}

func (r *ShelterRepo) Search(ctx context.Context, q shelters.Query) ([]shelters.Shelter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword := strings.ToLower(q.Keyword)

	matched := make([]shelters.Shelter, 0)
	for _, s := range r.byID {
		if q.Type != "" && string(s.Type) != q.Type {
			continue
		}
		if q.CrowdLevel != "" && s.CrowdLevel != q.CrowdLevel {
			continue
		}
		if keyword != "" {
			name := strings.ToLower(s.Name)
			addr := strings.ToLower(s.Address)
			if !strings.Contains(name, keyword) && !strings.Contains(addr, keyword) {
				continue
			}
		}
		if q.Center != nil {
			// <= : la distancia exactamente igual al radio queda adentro,
			// igual que ST_DWithin.
			if q.Center.DistanceMeters(s.Location) > q.RadiusM {
				continue
			}
		}
		matched = append(matched, s)
	}

	switch q.Order {
	case shelters.OrderByDistance:
		c := *q.Center
		sort.Slice(matched, func(i, j int) bool {
			di := c.DistanceMeters(matched[i].Location)
			dj := c.DistanceMeters(matched[j].Location)
			if di != dj {
				return di < dj
			}
			return matched[i].ID < matched[j].ID
		})
	default:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Name != matched[j].Name {
				return matched[i].Name < matched[j].Name
			}
			return matched[i].ID < matched[j].ID
		})
	}

	// paginación
	if q.Offset >= len(matched) {
		return []shelters.Shelter{}, nil
	}
	matched = matched[q.Offset:]
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]shelters.Shelter, len(matched))
	copy(out, matched)
	return out, nil
}

func (r *ShelterRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return shelters.Shelter{}, shelters.ErrNotFound
	}
	return s, nil
}

func (r *ShelterRepo) SetCrowdLevel(ctx context.Context, id string, level *string) (shelters.Shelter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return shelters.Shelter{}, shelters.ErrNotFound
	}

	if level == nil {
		s.CrowdLevel = ""
	} else {
		s.CrowdLevel = *level
	}
	r.byID[id] = s
	return s, nil
}

func (r *ShelterRepo) Upsert(ctx context.Context, s shelters.Shelter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return shelters.ErrInvalidInput
	}
	if prev, ok := r.byID[s.ID]; ok {
		// preserva created_at y el crowd_level reportado, igual que el upsert SQL
		s.CreatedAt = prev.CreatedAt
		s.CrowdLevel = prev.CrowdLevel
	}
	r.byID[s.ID] = s
	return nil
}

// remove existe para simular borrados fuera de core (ingesta externa);
// no es parte del port shelters.Repository.
func (r *ShelterRepo) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}
