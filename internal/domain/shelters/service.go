package shelters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-shelter-directory/internal/domain/geo"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("shelter not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Search planea el filtro y lo ejecuta. El repo recibe entradas ya sanas.
func (s *Service) Search(ctx context.Context, f SearchFilter) ([]Shelter, error) {
	q, err := f.Plan()
	if err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, q)
}

func (s *Service) GetByID(ctx context.Context, id string) (Shelter, error) {
	return s.repo.GetByID(ctx, id)
}

type UpdateCrowdLevelInput struct {
	// Level nil = limpiar el reporte de ocupación.
	Level *string

	// Decisión de autorización ya tomada por el colaborador externo (claims).
	// El service no introspecciona al caller.
	Admin bool
}

// UpdateCrowdLevel es la única mutación in-core sobre Shelter: escribe solo
// crowd_level, validado contra el enum cerrado (empty/few/full).
func (s *Service) UpdateCrowdLevel(ctx context.Context, id string, in UpdateCrowdLevelInput) (Shelter, error) {
	if !in.Admin {
		return Shelter{}, ErrForbidden
	}
	if strings.TrimSpace(id) == "" {
		return Shelter{}, ErrNotFound
	}
	if in.Level != nil {
		lvl := strings.TrimSpace(*in.Level)
		if !ValidCrowdLevel(lvl) {
			return Shelter{}, fmt.Errorf("%w: crowd_level %q", ErrInvalidInput, lvl)
		}
		in.Level = &lvl
	}
	return s.repo.SetCrowdLevel(ctx, id, in.Level)
}

type UpsertInput struct {
	ID       string // vacío = id determinista por name|address|type
	Name     string
	Address  string
	Type     string
	Capacity int
	Location geo.Point

	Phone      string
	WebsiteURL string
	Notes      string

	IsEmergencyFlood     bool
	IsEmergencyLandslide bool
	IsEmergencyTidalwave bool
	IsEmergencyLargeFire bool
	HasParking           bool
	HasBarrierFreeToilet bool
	HasPetSpace          bool
}

// Upsert es la ruta de ingesta/seeding: idempotente por id.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (Shelter, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Shelter{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	typ := Type(strings.TrimSpace(in.Type))
	if !typ.Valid() {
		return Shelter{}, fmt.Errorf("%w: type %q", ErrInvalidInput, in.Type)
	}
	if in.Capacity < 0 {
		return Shelter{}, fmt.Errorf("%w: capacity %d", ErrInvalidInput, in.Capacity)
	}
	if err := in.Location.Validate(); err != nil {
		return Shelter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = DeterministicID(name, strings.TrimSpace(in.Address), string(typ))
	}

	now := s.now()
	sh := Shelter{
		ID:       id,
		Name:     name,
		Address:  strings.TrimSpace(in.Address),
		Type:     typ,
		Capacity: in.Capacity,
		Location: in.Location,

		Phone:      strings.TrimSpace(in.Phone),
		WebsiteURL: strings.TrimSpace(in.WebsiteURL),
		Notes:      strings.TrimSpace(in.Notes),

		IsEmergencyFlood:     in.IsEmergencyFlood,
		IsEmergencyLandslide: in.IsEmergencyLandslide,
		IsEmergencyTidalwave: in.IsEmergencyTidalwave,
		IsEmergencyLargeFire: in.IsEmergencyLargeFire,
		HasParking:           in.HasParking,
		HasBarrierFreeToilet: in.HasBarrierFreeToilet,
		HasPetSpace:          in.HasPetSpace,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Upsert(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}

// DeterministicID deriva un UUID v5 estable a partir de name|address|type,
// para filas de catálogo que vienen sin id propio.
func DeterministicID(name, address, typ string) string {
	return uuid.NewSHA1(uuid.Nil, []byte(name+"|"+address+"|"+typ)).String()
}
