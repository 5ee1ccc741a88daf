package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pet-shelter-directory/internal/adapters/storage/postgres"
	"pet-shelter-directory/internal/domain/geo"
	"pet-shelter-directory/internal/domain/shelters"
	"pet-shelter-directory/internal/platform/logger"
)

// Ingesta de catálogo desde CSV. Idempotente: upsert por id, y las filas sin
// id reciben uno determinista (name|address|type), así re-correr el seed no
// duplica refugios.
func main() {
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	csvPath := flag.String("csv", os.Getenv("CSV_PATH"), "ruta del CSV de refugios")
	flag.Parse()

	if strings.TrimSpace(*csvPath) == "" {
		log.Error("missing -csv flag (or CSV_PATH)", nil)
		os.Exit(1)
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Error("DB_DSN is required", nil)
		os.Exit(1)
	}

	db, err := postgres.Open(dsn)
	if err != nil {
		log.Error("postgres open failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("ensure schema failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("open csv failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer f.Close()

	svc := shelters.NewService(postgres.NewSheltersRepo(db))

	upserted, skipped, err := run(ctx, svc, f, log)
	if err != nil {
		log.Error("seed failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log.Info("seed done", map[string]any{"upserted": upserted, "skipped": skipped})
}

func run(ctx context.Context, svc *shelters.Service, src io.Reader, log logger.Logger) (upserted, skipped int, err error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1 // filas cortas se toleran, los campos faltantes quedan vacíos

	header, err := r.Read()
	if err != nil {
		return 0, 0, err
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return upserted, skipped, err
		}
		line++

		lat, latErr := strconv.ParseFloat(field(row, "lat"), 64)
		lng, lngErr := strconv.ParseFloat(field(row, "lng"), 64)
		if latErr != nil || lngErr != nil {
			// filas sin geocodificar no sirven para búsqueda por radio
			log.Warn("row skipped: bad coordinates", map[string]any{"line": line})
			skipped++
			continue
		}

		in := shelters.UpsertInput{
			ID:       field(row, "id"),
			Name:     field(row, "name"),
			Address:  field(row, "address"),
			Type:     field(row, "type"),
			Capacity: parseInt(field(row, "capacity")),
			Location: geo.Point{Lat: lat, Lng: lng},

			Phone:      field(row, "phone"),
			WebsiteURL: field(row, "website_url"),
			Notes:      field(row, "notes"),

			IsEmergencyFlood:     parseBool(field(row, "is_emergency_flood")),
			IsEmergencyLandslide: parseBool(field(row, "is_emergency_landslide")),
			IsEmergencyTidalwave: parseBool(field(row, "is_emergency_tidalwave")),
			IsEmergencyLargeFire: parseBool(field(row, "is_emergency_large_fire")),
			HasParking:           parseBool(field(row, "has_parking")),
			HasBarrierFreeToilet: parseBool(field(row, "has_barrier_free_toilet")),
			HasPetSpace:          parseBool(field(row, "has_pet_space")),
		}

		if _, err := svc.Upsert(ctx, in); err != nil {
			log.Warn("row skipped", map[string]any{"line": line, "error": err.Error()})
			skipped++
			continue
		}
		upserted++
	}

	return upserted, skipped, nil
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	// acepta "120.0" además de "120", como viene en algunos CSV municipales
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "t", "yes", "y", "on", "○":
		return true
	default:
		return false
	}
}
