package shelters

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-shelter-directory/internal/domain/geo"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID      map[string]Shelter
	lastQuery *Query
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Shelter{}}
}

func (r *testRepo) Search(ctx context.Context, q Query) ([]Shelter, error) {
	cp := q
	r.lastQuery = &cp
	return []Shelter{}, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Shelter, error) {
	s, ok := r.byID[id]
	if !ok {
		return Shelter{}, ErrNotFound
	}
	return s, nil
}

func (r *testRepo) SetCrowdLevel(ctx context.Context, id string, level *string) (Shelter, error) {
	s, ok := r.byID[id]
	if !ok {
		return Shelter{}, ErrNotFound
	}
	if level == nil {
		s.CrowdLevel = ""
	} else {
		s.CrowdLevel = *level
	}
	r.byID[id] = s
	return s, nil
}

func (r *testRepo) Upsert(ctx context.Context, s Shelter) error {
	r.byID[s.ID] = s
	return nil
}

// -------------------------
// Plan
// -------------------------

func TestPlan_Defaults(t *testing.T) {
	q, err := SearchFilter{}.Plan()
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if q.Order != OrderByName {
		t.Fatalf("expected OrderByName without center")
	}
	if q.Limit != DefaultLimit || q.Offset != 0 {
		t.Fatalf("expected default pagination, got limit=%d offset=%d", q.Limit, q.Offset)
	}
	if q.Center != nil || q.RadiusM != 0 {
		t.Fatalf("expected no spatial filter without center")
	}
}

func TestPlan_CenterSwitchesToDistanceOrder(t *testing.T) {
	q, err := SearchFilter{Center: &geo.Point{Lat: 35, Lng: 139}}.Plan()
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if q.Order != OrderByDistance {
		t.Fatalf("expected OrderByDistance with center")
	}
	// default 5km => 5000m
	if q.RadiusM != 5000 {
		t.Fatalf("expected default radius 5000m, got %v", q.RadiusM)
	}
}

func TestPlan_RadiusZeroIsAllowed(t *testing.T) {
	r := 0.0
	q, err := SearchFilter{Center: &geo.Point{Lat: 35, Lng: 139}, RadiusKm: &r}.Plan()
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if q.RadiusM != 0 {
		t.Fatalf("expected radius 0, got %v", q.RadiusM)
	}
}

func TestPlan_RadiusWithoutCenterIsIgnored(t *testing.T) {
	r := 10.0
	q, err := SearchFilter{RadiusKm: &r}.Plan()
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if q.Center != nil || q.RadiusM != 0 || q.Order != OrderByName {
		t.Fatalf("expected no spatial filter without center, got %+v", q)
	}
}

func TestPlan_RejectsBadInputs(t *testing.T) {
	bigRadius := 50.1
	negRadius := -1.0
	zeroLimit := 0
	bigLimit := 201
	negOffset := -1
	badLat := &geo.Point{Lat: 91, Lng: 0}

	cases := []struct {
		name string
		f    SearchFilter
	}{
		{"unknown type", SearchFilter{Type: "tents"}},
		{"radius too big", SearchFilter{Center: &geo.Point{Lat: 35, Lng: 139}, RadiusKm: &bigRadius}},
		{"negative radius", SearchFilter{Center: &geo.Point{Lat: 35, Lng: 139}, RadiusKm: &negRadius}},
		{"limit zero", SearchFilter{Limit: &zeroLimit}},
		{"limit too big", SearchFilter{Limit: &bigLimit}},
		{"negative offset", SearchFilter{Offset: &negOffset}},
		{"center out of range", SearchFilter{Center: badLat}},
	}
	for _, c := range cases {
		if _, err := c.f.Plan(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", c.name, err)
		}
	}
}

func TestSearch_InvalidFilterNeverHitsRepo(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Search(context.Background(), SearchFilter{Type: "nope"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.lastQuery != nil {
		t.Fatalf("repo should not be queried with invalid filter")
	}
}

// -------------------------
// UpdateCrowdLevel
// -------------------------

func TestUpdateCrowdLevel_ForbiddenWithoutAdmin(t *testing.T) {
	repo := newTestRepo()
	repo.byID["s1"] = Shelter{ID: "s1", Name: "A", Type: TypeCompanion}
	svc := NewService(repo)

	lvl := "few"
	_, err := svc.UpdateCrowdLevel(context.Background(), "s1", UpdateCrowdLevelInput{Level: &lvl, Admin: false})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.byID["s1"].CrowdLevel != "" {
		t.Fatalf("crowd level must not change on forbidden call")
	}
}

func TestUpdateCrowdLevel_RejectsUnknownLevel(t *testing.T) {
	repo := newTestRepo()
	repo.byID["s1"] = Shelter{ID: "s1", Name: "A", Type: TypeCompanion}
	svc := NewService(repo)

	lvl := "packed"
	_, err := svc.UpdateCrowdLevel(context.Background(), "s1", UpdateCrowdLevelInput{Level: &lvl, Admin: true})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateCrowdLevel_SetsAndClears(t *testing.T) {
	repo := newTestRepo()
	repo.byID["s1"] = Shelter{ID: "s1", Name: "A", Type: TypeCompanion}
	svc := NewService(repo)

	lvl := "full"
	got, err := svc.UpdateCrowdLevel(context.Background(), "s1", UpdateCrowdLevelInput{Level: &lvl, Admin: true})
	if err != nil {
		t.Fatalf("UpdateCrowdLevel error: %v", err)
	}
	if got.CrowdLevel != "full" {
		t.Fatalf("expected full, got %q", got.CrowdLevel)
	}

	got, err = svc.UpdateCrowdLevel(context.Background(), "s1", UpdateCrowdLevelInput{Level: nil, Admin: true})
	if err != nil {
		t.Fatalf("UpdateCrowdLevel clear error: %v", err)
	}
	if got.CrowdLevel != "" {
		t.Fatalf("expected cleared crowd level, got %q", got.CrowdLevel)
	}
}

func TestUpdateCrowdLevel_NotFound(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	lvl := "few"
	_, err := svc.UpdateCrowdLevel(context.Background(), "missing", UpdateCrowdLevelInput{Level: &lvl, Admin: true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// -------------------------
// Upsert
// -------------------------

func TestUpsert_DeterministicFallbackID(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	in := UpsertInput{
		Name:     "Refugio Central",
		Address:  "Calle 1",
		Type:     string(TypeAccompany),
		Location: geo.Point{Lat: 35.25, Lng: 139.25},
	}

	s1, err := svc.Upsert(context.Background(), in)
	if err != nil {
		t.Fatalf("Upsert #1 error: %v", err)
	}
	s2, err := svc.Upsert(context.Background(), in)
	if err != nil {
		t.Fatalf("Upsert #2 error: %v", err)
	}

	if s1.ID == "" || s1.ID != s2.ID {
		t.Fatalf("expected stable fallback id, got %q vs %q", s1.ID, s2.ID)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 row after re-seed, got %d", len(repo.byID))
	}

	other := in
	other.Name = "Refugio Norte"
	s3, err := svc.Upsert(context.Background(), other)
	if err != nil {
		t.Fatalf("Upsert #3 error: %v", err)
	}
	if s3.ID == s1.ID {
		t.Fatalf("different name must derive a different id")
	}
}

func TestUpsert_RejectsInvalidInput(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name string
		in   UpsertInput
	}{
		{"empty name", UpsertInput{Type: "companion", Location: geo.Point{Lat: 1, Lng: 1}}},
		{"bad type", UpsertInput{Name: "X", Type: "other", Location: geo.Point{Lat: 1, Lng: 1}}},
		{"negative capacity", UpsertInput{Name: "X", Type: "companion", Capacity: -1, Location: geo.Point{Lat: 1, Lng: 1}}},
		{"bad location", UpsertInput{Name: "X", Type: "companion", Location: geo.Point{Lat: 91, Lng: 0}}},
	}
	for _, c := range cases {
		if _, err := svc.Upsert(context.Background(), c.in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", c.name, err)
		}
	}
}
