package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"pet-shelter-directory/internal/domain/favorites"
)

// Código SQLSTATE de violación de foreign key.
const pgForeignKeyViolation = "23503"

type FavoritesRepo struct {
	db *sql.DB
}

func NewFavoritesRepo(db *sql.DB) *FavoritesRepo {
	return &FavoritesRepo{db: db}
}

// Add es un solo INSERT con ON CONFLICT DO NOTHING: la PK compuesta absorbe
// el duplicado y dos requests concurrentes del mismo par no compiten.
func (r *FavoritesRepo) Add(ctx context.Context, userID, shelterID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, shelter_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id, shelter_id) DO NOTHING
	`, userID, shelterID, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return favorites.ErrShelterMissing
		}
		return err
	}
	return nil
}

func (r *FavoritesRepo) Remove(ctx context.Context, userID, shelterID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1 AND shelter_id = $2
	`, userID, shelterID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *FavoritesRepo) ListByUser(ctx context.Context, userID string) ([]favorites.Favorite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, shelter_id::text, created_at, updated_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC NULLS LAST, shelter_id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]favorites.Favorite, 0)
	for rows.Next() {
		var f favorites.Favorite
		if err := rows.Scan(&f.UserID, &f.ShelterID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FavoritesRepo) ListByUserWithShelter(ctx context.Context, userID string) ([]favorites.FavoriteWithShelter, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	// Inner join: un favorito cuyo refugio ya no existe queda afuera.
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			f.shelter_id::text,
			s.name,
			s.address,
			s.type,
			ST_Y(s.geom::geometry) AS lat,
			ST_X(s.geom::geometry) AS lng
		FROM favorites f
		JOIN shelters s ON s.id = f.shelter_id
		WHERE f.user_id = $1
		ORDER BY s.name ASC, s.id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]favorites.FavoriteWithShelter, 0)
	for rows.Next() {
		var (
			it      favorites.FavoriteWithShelter
			address sql.NullString
		)
		if err := rows.Scan(
			&it.ShelterID,
			&it.Name,
			&address,
			&it.Type,
			&it.Location.Lat,
			&it.Location.Lng,
		); err != nil {
			return nil, err
		}
		it.Address = address.String
		out = append(out, it)
	}
	return out, rows.Err()
}
