package favorites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-shelter-directory/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Todo el módulo es user-scoped: sin claims => 401.
	r.Route("/favorites", func(fr chi.Router) {
		fr.Get("/", listFavoritesHandler(svc))
		fr.Put("/{shelterID}", putFavoriteHandler(svc))
		fr.Delete("/{shelterID}", deleteFavoriteHandler(svc))
	})
}

type favoriteItem struct {
	ShelterID string     `json:"shelter_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type favoriteWithShelterItem struct {
	ShelterID string  `json:"shelter_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Type      string  `json:"type"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

type favoriteListResponse struct {
	Items []favoriteItem `json:"items"`
}

type favoriteWithShelterListResponse struct {
	Items []favoriteWithShelterItem `json:"items"`
}

type putFavoriteResponse struct {
	OK bool `json:"ok"`
}

func listFavoritesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		includeShelter := false
		if v := strings.TrimSpace(r.URL.Query().Get("include_shelter")); v != "" {
			includeShelter = v == "true" || v == "1"
		}

		if includeShelter {
			items, err := svc.ListByUserWithShelter(r.Context(), claims.UserID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			out := make([]favoriteWithShelterItem, 0, len(items))
			for _, it := range items {
				out = append(out, favoriteWithShelterItem{
					ShelterID: it.ShelterID,
					Name:      it.Name,
					Address:   it.Address,
					Type:      string(it.Type),
					Lat:       it.Location.Lat,
					Lng:       it.Location.Lng,
				})
			}
			writeJSON(w, http.StatusOK, favoriteWithShelterListResponse{Items: out})
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]favoriteItem, 0, len(items))
		for _, it := range items {
			item := favoriteItem{ShelterID: it.ShelterID}
			if !it.CreatedAt.IsZero() {
				t := it.CreatedAt
				item.CreatedAt = &t
			}
			out = append(out, item)
		}
		writeJSON(w, http.StatusOK, favoriteListResponse{Items: out})
	}
}

func putFavoriteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		shelterID := chi.URLParam(r, "shelterID")
		if err := svc.Add(r.Context(), claims.UserID, shelterID); err != nil {
			switch {
			case errors.Is(err, ErrShelterMissing):
				http.Error(w, "shelter does not exist", http.StatusBadRequest)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		// 200 también en duplicado: el PUT es idempotente.
		writeJSON(w, http.StatusOK, putFavoriteResponse{OK: true})
	}
}

func deleteFavoriteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		shelterID := chi.URLParam(r, "shelterID")
		if _, err := svc.Remove(r.Context(), claims.UserID, shelterID); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// 204 exista o no la fila: el DELETE es idempotente.
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (shelters/favorites); si aparece en más módulos conviene extraerlo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
