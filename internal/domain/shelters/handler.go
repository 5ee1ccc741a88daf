package shelters

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pet-shelter-directory/internal/domain/geo"
	"pet-shelter-directory/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/shelters", func(sr chi.Router) {
		// Búsqueda anónima (sin auth)
		sr.Get("/", listSheltersHandler(svc))
		sr.Get("/{shelterID}", getShelterHandler(svc))

		// Reporte de ocupación (solo admin)
		sr.Patch("/{shelterID}/crowd-level", updateCrowdLevelHandler(svc))
	})
}

type shelterResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address,omitempty"`
	Type       string  `json:"type"`
	Capacity   int     `json:"capacity"`
	CrowdLevel string  `json:"crowd_level,omitempty"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

type shelterListResponse struct {
	Items []shelterResponse `json:"items"`
}

type updateCrowdLevelRequest struct {
	CrowdLevel *string `json:"crowd_level"`
}

func listSheltersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseSearchFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.Search(r.Context(), f)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]shelterResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toShelterResponse(s))
		}
		writeJSON(w, http.StatusOK, shelterListResponse{Items: out})
	}
}

func getShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "shelterID")
		s, err := svc.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "shelter not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toShelterResponse(s))
	}
}

func updateCrowdLevelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Exigimos el campo presente en el body para distinguir
		// "limpiar" (null explícito) de un body malformado.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if _, exists := raw["crowd_level"]; !exists {
			http.Error(w, "crowd_level is required (string or null)", http.StatusBadRequest)
			return
		}

		var req updateCrowdLevelRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		id := chi.URLParam(r, "shelterID")
		s, err := svc.UpdateCrowdLevel(r.Context(), id, UpdateCrowdLevelInput{
			Level: req.CrowdLevel,
			Admin: claims.Admin,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "shelter not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toShelterResponse(s))
	}
}

// parseSearchFilter valida el shape de los query params antes de tocar el
// planner: un "lat=x" devuelve 400 sin llegar nunca al store.
func parseSearchFilter(r *http.Request) (SearchFilter, error) {
	qp := r.URL.Query()

	f := SearchFilter{
		Type:       qp.Get("type"),
		CrowdLevel: qp.Get("crowd_level"),
		Keyword:    qp.Get("q"),
	}

	lat, err := parseFloatParam(qp.Get("lat"))
	if err != nil {
		return SearchFilter{}, errors.New("lat must be a number")
	}
	lng, err := parseFloatParam(qp.Get("lng"))
	if err != nil {
		return SearchFilter{}, errors.New("lng must be a number")
	}
	// Centro solo cuando vienen ambas coordenadas; una sola no activa
	// el filtro espacial.
	if lat != nil && lng != nil {
		f.Center = &geo.Point{Lat: *lat, Lng: *lng}
	}

	radius, err := parseFloatParam(qp.Get("radius"))
	if err != nil {
		return SearchFilter{}, errors.New("radius must be a number")
	}
	f.RadiusKm = radius

	limit, err := parseIntParam(qp.Get("limit"))
	if err != nil {
		return SearchFilter{}, errors.New("limit must be an integer")
	}
	f.Limit = limit

	offset, err := parseIntParam(qp.Get("offset"))
	if err != nil {
		return SearchFilter{}, errors.New("offset must be an integer")
	}
	f.Offset = offset

	return f, nil
}

func parseFloatParam(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseIntParam(v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func toShelterResponse(s Shelter) shelterResponse {
	return shelterResponse{
		ID:         s.ID,
		Name:       s.Name,
		Address:    s.Address,
		Type:       string(s.Type),
		Capacity:   s.Capacity,
		CrowdLevel: s.CrowdLevel,
		Lat:        s.Location.Lat,
		Lng:        s.Location.Lng,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (shelters/favorites); si aparece en más módulos conviene extraerlo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
