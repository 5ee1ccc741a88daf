package main

import (
	"context"
	"strings"
	"testing"

	mem "pet-shelter-directory/internal/adapters/storage/memory"
	"pet-shelter-directory/internal/domain/shelters"
	"pet-shelter-directory/internal/platform/logger"
)

const sampleCSV = `id,name,address,type,capacity,lat,lng,has_pet_space,is_emergency_flood
s1,Refugio Central,Av. Central 100,accompany,120.0,35.0,139.0,○,1
,Refugio Anexo,Calle 2,companion,40,35.01,139.01,yes,0
s3,Sin Coordenadas,Calle 3,accompany,10,,,true,1
bad1,Tipo Raro,Calle 4,hotel,5,35.02,139.02,0,0
`

func TestSeedRun(t *testing.T) {
	repo := mem.NewShelterRepo()
	svc := shelters.NewService(repo)
	log := logger.New(logger.Options{Level: logger.Error})

	upserted, skipped, err := run(context.Background(), svc, strings.NewReader(sampleCSV), log)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if upserted != 2 {
		t.Fatalf("expected 2 upserted, got %d", upserted)
	}
	// sin coordenadas + tipo inválido
	if skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", skipped)
	}

	s, err := repo.GetByID(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get s1: %v", err)
	}
	if s.Capacity != 120 || !s.HasPetSpace || !s.IsEmergencyFlood {
		t.Fatalf("unexpected s1: %+v", s)
	}
	if s.Location.Lat != 35.0 || s.Location.Lng != 139.0 {
		t.Fatalf("unexpected s1 location: %+v", s.Location)
	}
}

// Sin id en el CSV, el upsert genera uno determinista: re-correr el seed
// no debe duplicar la fila.
func TestSeedRunIsIdempotent(t *testing.T) {
	repo := mem.NewShelterRepo()
	svc := shelters.NewService(repo)
	log := logger.New(logger.Options{Level: logger.Error})

	csv := "name,address,type,lat,lng\nRefugio Anexo,Calle 2,companion,35.01,139.01\n"
	for i := 0; i < 2; i++ {
		if _, _, err := run(context.Background(), svc, strings.NewReader(csv), log); err != nil {
			t.Fatalf("run #%d: %v", i+1, err)
		}
	}

	items, err := repo.Search(context.Background(), shelters.Query{Limit: 10, Order: shelters.OrderByName})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 shelter after re-seed, got %d", len(items))
	}
}

func TestParseHelpers(t *testing.T) {
	if parseInt("120.0") != 120 || parseInt("") != 0 || parseInt("x") != 0 {
		t.Fatal("parseInt mismatch")
	}
	for _, v := range []string{"1", "true", "yes", "○", "Y"} {
		if !parseBool(v) {
			t.Fatalf("parseBool(%q) should be true", v)
		}
	}
	for _, v := range []string{"", "0", "no", "false"} {
		if parseBool(v) {
			t.Fatalf("parseBool(%q) should be false", v)
		}
	}
}
