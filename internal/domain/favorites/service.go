package favorites

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrShelterMissing: violación de integridad referencial al agregar
	// un favorito contra un refugio inexistente. Se surfacea al caller,
	// no se traga: indica una referencia genuinamente mala.
	ErrShelterMissing = errors.New("shelter does not exist")
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

// Add es idempotente: repetirlo para el mismo par deja exactamente una fila
// y ambas llamadas reportan éxito.
func (s *Service) Add(ctx context.Context, userID, shelterID string) error {
	userID = strings.TrimSpace(userID)
	shelterID = strings.TrimSpace(shelterID)
	if userID == "" || shelterID == "" {
		return ErrInvalidInput
	}
	return s.repo.Add(ctx, userID, shelterID, s.now())
}

// Remove es idempotente: borrar un par inexistente devuelve 0 y éxito.
func (s *Service) Remove(ctx context.Context, userID, shelterID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	shelterID = strings.TrimSpace(shelterID)
	if userID == "" || shelterID == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.Remove(ctx, userID, shelterID)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListByUserWithShelter(ctx context.Context, userID string) ([]FavoriteWithShelter, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUserWithShelter(ctx, userID)
}
