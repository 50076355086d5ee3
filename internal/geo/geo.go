package geo

import (
	"math"

	"floodwatch-client/internal/models"
)

// Distance returns the great-circle distance between two points in
// kilometres using the Haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371

	lat1Rad := toRadians(lat1)
	lng1Rad := toRadians(lng1)
	lat2Rad := toRadians(lat2)
	lng2Rad := toRadians(lng2)

	deltaLat := lat2Rad - lat1Rad
	deltaLng := lng2Rad - lng1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// NearestShelter picks the shelter closest to the given point, with its
// distance in kilometres. Returns nil for an alert without shelters.
func NearestShelter(lat, lng float64, shelters []models.AlertShelter) (*models.AlertShelter, float64) {
	var nearest *models.AlertShelter
	best := math.MaxFloat64

	for i := range shelters {
		d := Distance(lat, lng, shelters[i].Lat, shelters[i].Lng)
		if d < best {
			best = d
			nearest = &shelters[i]
		}
	}

	if nearest == nil {
		return nil, 0
	}
	return nearest, best
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
