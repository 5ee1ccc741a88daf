package shelters

import (
	"fmt"
	"strings"

	"pet-shelter-directory/internal/domain/geo"
)

// Límites de búsqueda. Los defaults aplican cuando el caller no manda el campo.
const (
	DefaultRadiusKm = 5.0
	MaxRadiusKm     = 50.0

	DefaultLimit = 50
	MaxLimit     = 200
)

// SearchFilter son las entradas opcionales tal como llegan del handler.
// Punteros nil = campo no enviado.
type SearchFilter struct {
	Type       string
	CrowdLevel string
	Keyword    string

	Center   *geo.Point
	RadiusKm *float64

	Limit  *int
	Offset *int
}

// OrderKind es la variante explícita de ordenamiento.
// Se elige una sola vez al planear, nunca dentro del repo.
type OrderKind int

const (
	OrderByName OrderKind = iota
	OrderByDistance
)

// Query es el plan ya validado y normalizado que ejecutan los repos.
// Los repos asumen entradas sanas; toda validación ocurre en Plan.
type Query struct {
	Type       string
	CrowdLevel string
	Keyword    string

	// Center presente => filtro de radio + orden por distancia.
	Center  *geo.Point
	RadiusM float64

	Order  OrderKind
	Limit  int
	Offset int
}

// Plan valida el filtro y lo convierte en una Query determinista:
// - conjunción pura de los filtros activos (keyword hace OR solo entre name/address)
// - con Center: radio en metros + orden por distancia asc, desempate por id
// - sin Center: orden por name asc, desempate por id
func (f SearchFilter) Plan() (Query, error) {
	q := Query{
		CrowdLevel: strings.TrimSpace(f.CrowdLevel),
		Keyword:    strings.TrimSpace(f.Keyword),
		Limit:      DefaultLimit,
		Order:      OrderByName,
	}

	if t := strings.TrimSpace(f.Type); t != "" {
		if !Type(t).Valid() {
			return Query{}, fmt.Errorf("%w: type %q", ErrInvalidInput, t)
		}
		q.Type = t
	}

	radiusKm := DefaultRadiusKm
	if f.RadiusKm != nil {
		radiusKm = *f.RadiusKm
		if radiusKm < 0 || radiusKm > MaxRadiusKm {
			return Query{}, fmt.Errorf("%w: radius %v km", ErrInvalidInput, radiusKm)
		}
	}

	if f.Center != nil {
		if err := f.Center.Validate(); err != nil {
			return Query{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		c := *f.Center
		q.Center = &c
		q.RadiusM = radiusKm * 1000
		q.Order = OrderByDistance
	}

	if f.Limit != nil {
		if *f.Limit < 1 || *f.Limit > MaxLimit {
			return Query{}, fmt.Errorf("%w: limit %d", ErrInvalidInput, *f.Limit)
		}
		q.Limit = *f.Limit
	}

	if f.Offset != nil {
		if *f.Offset < 0 {
			return Query{}, fmt.Errorf("%w: offset %d", ErrInvalidInput, *f.Offset)
		}
		q.Offset = *f.Offset
	}

	return q, nil
}
