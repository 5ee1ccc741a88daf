package favorites

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type pairKey struct {
	userID    string
	shelterID string
}

type testRepo struct {
	shelters map[string]struct{} // ids existentes, para la FK estricta
	rows     map[pairKey]Favorite
}

func newTestRepo(shelterIDs ...string) *testRepo {
	r := &testRepo{
		shelters: map[string]struct{}{},
		rows:     map[pairKey]Favorite{},
	}
	for _, id := range shelterIDs {
		r.shelters[id] = struct{}{}
	}
	return r
}

func (r *testRepo) Add(ctx context.Context, userID, shelterID string, now time.Time) error {
	if _, ok := r.shelters[shelterID]; !ok {
		return ErrShelterMissing
	}
	key := pairKey{userID, shelterID}
	if _, exists := r.rows[key]; exists {
		return nil
	}
	r.rows[key] = Favorite{UserID: userID, ShelterID: shelterID, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (r *testRepo) Remove(ctx context.Context, userID, shelterID string) (int64, error) {
	key := pairKey{userID, shelterID}
	if _, exists := r.rows[key]; !exists {
		return 0, nil
	}
	delete(r.rows, key)
	return 1, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	out := make([]Favorite, 0)
	for _, f := range r.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *testRepo) ListByUserWithShelter(ctx context.Context, userID string) ([]FavoriteWithShelter, error) {
	out := make([]FavoriteWithShelter, 0)
	for _, f := range r.rows {
		if f.UserID != userID {
			continue
		}
		if _, ok := r.shelters[f.ShelterID]; !ok {
			continue
		}
		out = append(out, FavoriteWithShelter{ShelterID: f.ShelterID})
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestAdd_TwiceLeavesOneRow(t *testing.T) {
	repo := newTestRepo("s1")
	svc := NewService(repo)

	if err := svc.Add(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("Add #1 error: %v", err)
	}
	if err := svc.Add(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("Add #2 must also succeed, got: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(repo.rows))
	}
}

func TestAdd_MissingShelterSurfacesIntegrityError(t *testing.T) {
	repo := newTestRepo("s1")
	svc := NewService(repo)

	err := svc.Add(context.Background(), "u1", "ghost")
	if !errors.Is(err, ErrShelterMissing) {
		t.Fatalf("expected ErrShelterMissing, got %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("no row must be created on integrity error")
	}
}

func TestAdd_RejectsEmptyIDs(t *testing.T) {
	svc := NewService(newTestRepo("s1"))

	if err := svc.Add(context.Background(), "", "s1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty user, got %v", err)
	}
	if err := svc.Add(context.Background(), "u1", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty shelter, got %v", err)
	}
}

func TestRemove_MissingPairIsSuccessWithZero(t *testing.T) {
	repo := newTestRepo("s1")
	svc := NewService(repo)

	n, err := svc.Remove(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("Remove on missing pair must succeed, got: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows affected, got %d", n)
	}
}

func TestRemove_ExistingPairReturnsOne(t *testing.T) {
	repo := newTestRepo("s1")
	svc := NewService(repo)

	if err := svc.Add(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	n, err := svc.Remove(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}

	// idempotente: repetir devuelve 0 sin error
	n, err = svc.Remove(context.Background(), "u1", "s1")
	if err != nil || n != 0 {
		t.Fatalf("expected (0, nil) on repeat, got (%d, %v)", n, err)
	}
}

func TestAdd_UsesInjectedClock(t *testing.T) {
	repo := newTestRepo("s1")
	svc := NewService(repo)

	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if err := svc.Add(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	got := repo.rows[pairKey{"u1", "s1"}]
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("expected CreatedAt %v, got %v", now, got.CreatedAt)
	}
}
