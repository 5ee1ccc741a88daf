package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "pet-shelter-directory/internal/adapters/storage/memory"
	pg "pet-shelter-directory/internal/adapters/storage/postgres"
	"pet-shelter-directory/internal/domain/favorites"
	"pet-shelter-directory/internal/domain/shelters"
	"pet-shelter-directory/internal/middleware"
	"pet-shelter-directory/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Overrides de repos (para tests); nil = elegir por DB/env.
	ShelterRepo  shelters.Repository
	FavoriteRepo favorites.Repository
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// UI de swagger; el doc.json se genera con swag init.
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	shelterRepo := opts.ShelterRepo
	favoriteRepo := opts.FavoriteRepo

	if shelterRepo == nil || favoriteRepo == nil {
		// Si no te pasan DB explícita, intenta por env (para dev/handoff)
		db := opts.DB
		if db == nil {
			if dsn := os.Getenv("DB_DSN"); dsn != "" {
				opened, err := pg.Open(dsn)
				if err == nil {
					db = opened
				}
			}
		}

		if db != nil {
			shelterRepo = pg.NewSheltersRepo(db)
			favoriteRepo = pg.NewFavoritesRepo(db)
		} else {
			memShelters := mem.NewShelterRepo()
			shelterRepo = memShelters
			favoriteRepo = mem.NewFavoriteRepo(memShelters)
		}
	}

	// Services por módulo
	sheltersSvc := shelters.NewService(shelterRepo)
	favoritesSvc := favorites.NewService(favoriteRepo)

	// Rutas por módulo
	shelters.RegisterRoutes(r, sheltersSvc)
	favorites.RegisterRoutes(r, favoritesSvc)

	return r
}
