package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-shelter-directory/internal/domain/shelters"
)

// Columnas en el orden que espera scanShelter.
const shelterColumns = `
	id::text, name, address, type, capacity,
	ST_Y(geom::geometry) AS lat, ST_X(geom::geometry) AS lng,
	crowd_level, phone, website_url, notes,
	is_emergency_flood, is_emergency_landslide, is_emergency_tidalwave, is_emergency_large_fire,
	has_parking, has_barrier_free_toilet, has_pet_space,
	created_at, updated_at`

type SheltersRepo struct {
	db *sql.DB
}

func NewSheltersRepo(db *sql.DB) *SheltersRepo {
	return &SheltersRepo{db: db}
}

// Search arma el WHERE a partir de la Query ya planeada. La elección de
// ORDER BY viene decidida en q.Order, acá solo se traduce a SQL.
func (r *SheltersRepo) Search(ctx context.Context, q shelters.Query) ([]shelters.Shelter, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Type != "" {
		conds = append(conds, "type = "+arg(q.Type))
	}
	if q.CrowdLevel != "" {
		conds = append(conds, "crowd_level = "+arg(q.CrowdLevel))
	}
	if q.Keyword != "" {
		kw := arg("%" + q.Keyword + "%")
		conds = append(conds, "(name ILIKE "+kw+" OR address ILIKE "+kw+")")
	}

	orderBy := "name ASC, id ASC"
	if q.Center != nil {
		center := fmt.Sprintf(
			"ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography",
			arg(q.Center.Lng), arg(q.Center.Lat),
		)
		conds = append(conds, fmt.Sprintf("ST_DWithin(geom, %s, %s)", center, arg(q.RadiusM)))
		orderBy = fmt.Sprintf("ST_Distance(geom, %s) ASC, id ASC", center)
	}

	sqlStr := "SELECT " + shelterColumns + " FROM shelters"
	if len(conds) > 0 {
		sqlStr += " WHERE " + strings.Join(conds, " AND ")
	}
	sqlStr += " ORDER BY " + orderBy
	sqlStr += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(q.Limit), arg(q.Offset))

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shelters.Shelter, 0)
	for rows.Next() {
		s, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shelters.Shelter{}, shelters.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT "+shelterColumns+" FROM shelters WHERE id = $1", id)

	s, err := scanShelter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return shelters.Shelter{}, shelters.ErrNotFound
		}
		return shelters.Shelter{}, err
	}
	return s, nil
}

func (r *SheltersRepo) SetCrowdLevel(ctx context.Context, id string, level *string) (shelters.Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shelters.Shelter{}, shelters.ErrNotFound
	}

	var lvl sql.NullString
	if level != nil {
		lvl = sql.NullString{String: *level, Valid: true}
	}

	// Un solo statement: escribe crowd_level y devuelve la fila resultante.
	row := r.db.QueryRowContext(ctx, `
		UPDATE shelters
		SET crowd_level = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+shelterColumns,
		id, lvl,
	)

	s, err := scanShelter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return shelters.Shelter{}, shelters.ErrNotFound
		}
		return shelters.Shelter{}, err
	}
	return s, nil
}

func (r *SheltersRepo) Upsert(ctx context.Context, s shelters.Shelter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shelters (
			id, name, address, type, capacity, geom, crowd_level,
			phone, website_url, notes,
			is_emergency_flood, is_emergency_landslide, is_emergency_tidalwave, is_emergency_large_fire,
			has_parking, has_barrier_free_toilet, has_pet_space,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography,
			$8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18,
			$19, $20
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			type = EXCLUDED.type,
			capacity = EXCLUDED.capacity,
			geom = EXCLUDED.geom,
			phone = EXCLUDED.phone,
			website_url = EXCLUDED.website_url,
			notes = EXCLUDED.notes,
			is_emergency_flood = EXCLUDED.is_emergency_flood,
			is_emergency_landslide = EXCLUDED.is_emergency_landslide,
			is_emergency_tidalwave = EXCLUDED.is_emergency_tidalwave,
			is_emergency_large_fire = EXCLUDED.is_emergency_large_fire,
			has_parking = EXCLUDED.has_parking,
			has_barrier_free_toilet = EXCLUDED.has_barrier_free_toilet,
			has_pet_space = EXCLUDED.has_pet_space,
			updated_at = EXCLUDED.updated_at
	`,
		s.ID,
		s.Name,
		toNullString(s.Address),
		string(s.Type),
		s.Capacity,
		s.Location.Lng,
		s.Location.Lat,
		toNullString(s.CrowdLevel),
		toNullString(s.Phone),
		toNullString(s.WebsiteURL),
		toNullString(s.Notes),
		s.IsEmergencyFlood,
		s.IsEmergencyLandslide,
		s.IsEmergencyTidalwave,
		s.IsEmergencyLargeFire,
		s.HasParking,
		s.HasBarrierFreeToilet,
		s.HasPetSpace,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

// scanShelter acepta tanto *sql.Row como *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanShelter(row rowScanner) (shelters.Shelter, error) {
	var (
		s          shelters.Shelter
		address    sql.NullString
		crowdLevel sql.NullString
		phone      sql.NullString
		website    sql.NullString
		notes      sql.NullString
	)

	if err := row.Scan(
		&s.ID,
		&s.Name,
		&address,
		&s.Type,
		&s.Capacity,
		&s.Location.Lat,
		&s.Location.Lng,
		&crowdLevel,
		&phone,
		&website,
		&notes,
		&s.IsEmergencyFlood,
		&s.IsEmergencyLandslide,
		&s.IsEmergencyTidalwave,
		&s.IsEmergencyLargeFire,
		&s.HasParking,
		&s.HasBarrierFreeToilet,
		&s.HasPetSpace,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return shelters.Shelter{}, err
	}

	s.Address = address.String
	s.CrowdLevel = crowdLevel.String
	s.Phone = phone.String
	s.WebsiteURL = website.String
	s.Notes = notes.String

	return s, nil
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
