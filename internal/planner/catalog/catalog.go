package catalog

import (
	"sync"

	"github.com/ringsaturn/tzf"

	"github.com/stayconcierge/server/internal/planner/model"
)

// Candidates builds the full route list to probe: every major origin hub
// crossed with every destination city. Order is deterministic so batch
// windows over it are reproducible.
func Candidates() []model.RouteCandidate {
	origins := MajorOrigins()
	out := make([]model.RouteCandidate, 0, len(origins)*len(destinations))
	for _, o := range origins {
		for _, d := range destinations {
			out = append(out, model.RouteCandidate{
				Origin:               o.IATACode,
				OriginName:           o.NameLocal,
				Destination:          d.AirportCode,
				DestinationCity:      d.City,
				DestinationCityLocal: d.CityLocal,
				DestinationCountry:   d.Country,
			})
		}
	}
	return out
}

var (
	tzOnce   sync.Once
	tzFinder tzf.F
)

// Timezone resolves the IANA timezone of an airport from its coordinates.
// Unknown codes and finder init failures fall back to the given default.
func Timezone(iata string, fallback string) string {
	var lat, lon float64
	if a, ok := OriginByCode(iata); ok {
		lat, lon = a.Latitude, a.Longitude
	} else if d, ok := DestinationByAirport(iata); ok {
		lat, lon = d.Latitude, d.Longitude
	} else {
		return fallback
	}

	tzOnce.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err == nil {
			tzFinder = f
		}
	})
	if tzFinder == nil {
		return fallback
	}
	if name := tzFinder.GetTimezoneName(lon, lat); name != "" {
		return name
	}
	return fallback
}

// NearestOrigin returns the origin airport closest to the given coordinates,
// restricted to major hubs when majorOnly is set.
func NearestOrigin(lat, lon float64, majorOnly bool) OriginAirport {
	pool := AllOrigins()
	if majorOnly {
		pool = MajorOrigins()
	}
	best := pool[0]
	bestDist := squaredDistance(lat, lon, best.Latitude, best.Longitude)
	for _, a := range pool[1:] {
		if d := squaredDistance(lat, lon, a.Latitude, a.Longitude); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

// Squared equirectangular distance. Good enough to rank airports within one
// country; no need for haversine here.
func squaredDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return dLat*dLat + dLon*dLon
}
