package geo

import (
	"errors"
	"fmt"
	"math"
)

// Radio medio terrestre en metros (esfera WGS84 aproximada).
const earthRadiusM = 6371000.0

var ErrOutOfRange = errors.New("coordinates out of range")

// Point es un par latitud/longitud en grados (WGS84).
type Point struct {
	Lat float64
	Lng float64
}

// New valida y construye un Point.
func New(lat, lng float64) (Point, error) {
	p := Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return ErrOutOfRange
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: lat=%v", ErrOutOfRange, p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: lng=%v", ErrOutOfRange, p.Lng)
	}
	return nil
}

// DistanceMeters devuelve la distancia de gran círculo (haversine) en metros.
// Misma semántica que ST_Distance sobre geography en Postgres (aprox. esférica).
func (p Point) DistanceMeters(q Point) float64 {
	lat1 := radians(p.Lat)
	lat2 := radians(q.Lat)
	dLat := radians(q.Lat - p.Lat)
	dLng := radians(q.Lng - p.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
