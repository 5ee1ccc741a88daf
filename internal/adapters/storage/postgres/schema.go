package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema crea extensiones, tablas e índices si no existen.
// Seguro de ejecutar varias veces; lo corre cmd/seed antes de ingestar.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const schema = `
CREATE EXTENSION IF NOT EXISTS postgis;
CREATE EXTENSION IF NOT EXISTS pg_trgm;

-- Catálogo de refugios. geom guarda el punto como geography(4326) para que
-- ST_DWithin/ST_Distance trabajen en metros reales.
CREATE TABLE IF NOT EXISTS shelters (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    address TEXT,
    type TEXT NOT NULL CHECK (type IN ('companion', 'accompany')),
    capacity INTEGER NOT NULL DEFAULT 0 CHECK (capacity >= 0),
    geom geography(Point, 4326) NOT NULL,
    crowd_level TEXT,

    phone TEXT,
    website_url TEXT,
    notes TEXT,

    is_emergency_flood BOOLEAN NOT NULL DEFAULT FALSE,
    is_emergency_landslide BOOLEAN NOT NULL DEFAULT FALSE,
    is_emergency_tidalwave BOOLEAN NOT NULL DEFAULT FALSE,
    is_emergency_large_fire BOOLEAN NOT NULL DEFAULT FALSE,
    has_parking BOOLEAN NOT NULL DEFAULT FALSE,
    has_barrier_free_toilet BOOLEAN NOT NULL DEFAULT FALSE,
    has_pet_space BOOLEAN NOT NULL DEFAULT FALSE,

    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_shelters_geom ON shelters USING GIST (geom);
CREATE INDEX IF NOT EXISTS idx_shelters_name_trgm ON shelters USING GIN (name gin_trgm_ops);
CREATE INDEX IF NOT EXISTS idx_shelters_address_trgm ON shelters USING GIN (address gin_trgm_ops);

-- Relación de favoritos: la PK compuesta es la que garantiza "a lo sumo una
-- fila por par" incluso bajo requests concurrentes; no hay check de aplicación.
CREATE TABLE IF NOT EXISTS favorites (
    user_id TEXT NOT NULL,
    shelter_id UUID NOT NULL REFERENCES shelters(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, shelter_id)
);

CREATE INDEX IF NOT EXISTS idx_favorites_user_id ON favorites(user_id);
CREATE INDEX IF NOT EXISTS idx_favorites_shelter_id ON favorites(shelter_id);
`
