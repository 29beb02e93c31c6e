package catalog

// Destination maps a city with accommodation data to its nearest airport for
// flight search.
type Destination struct {
	Country      string
	City         string
	CityLocal    string
	AirportCode  string
	AirportName  string
	Latitude     float64
	Longitude    float64
	Alternatives []AlternativeAirport
}

type AlternativeAirport struct {
	Code string
	Name string
}

// Destination cities backed by room inventory. Kyoto and Osaka share KIX,
// the three New York boroughs share JFK.
var destinations = []Destination{
	{
		Country:     "Japan",
		City:        "Fukuoka-City",
		CityLocal:   "후쿠오카",
		AirportCode: "FUK",
		AirportName: "Fukuoka Airport",
		Latitude:    33.5859,
		Longitude:   130.4507,
	},
	{
		Country:     "Japan",
		City:        "Hiroshima",
		CityLocal:   "히로시마",
		AirportCode: "HIJ",
		AirportName: "Hiroshima Airport",
		Latitude:    34.4361,
		Longitude:   132.9194,
		Alternatives: []AlternativeAirport{
			{Code: "OKJ", Name: "Okayama Airport"},
		},
	},
	{
		Country:     "Japan",
		City:        "Kyoto",
		CityLocal:   "교토",
		AirportCode: "KIX",
		AirportName: "Kansai International Airport",
		Latitude:    34.4347,
		Longitude:   135.2441,
		Alternatives: []AlternativeAirport{
			{Code: "ITM", Name: "Osaka International Airport (Itami)"},
		},
	},
	{
		Country:     "Japan",
		City:        "Osaka",
		CityLocal:   "오사카",
		AirportCode: "KIX",
		AirportName: "Kansai International Airport",
		Latitude:    34.4347,
		Longitude:   135.2441,
		Alternatives: []AlternativeAirport{
			{Code: "ITM", Name: "Osaka International Airport (Itami)"},
		},
	},
	{
		Country:     "Japan",
		City:        "Tokyo",
		CityLocal:   "도쿄",
		AirportCode: "NRT",
		AirportName: "Narita International Airport",
		Latitude:    35.7653,
		Longitude:   140.3856,
		Alternatives: []AlternativeAirport{
			{Code: "HND", Name: "Haneda Airport"},
		},
	},
	{
		Country:     "United States",
		City:        "Brooklyn",
		CityLocal:   "브루클린",
		AirportCode: "JFK",
		AirportName: "John F. Kennedy International Airport",
		Latitude:    40.6413,
		Longitude:   -73.7781,
		Alternatives: []AlternativeAirport{
			{Code: "LGA", Name: "LaGuardia Airport"},
			{Code: "EWR", Name: "Newark Liberty International Airport"},
		},
	},
	{
		Country:     "United States",
		City:        "Manhattan",
		CityLocal:   "맨해튼",
		AirportCode: "JFK",
		AirportName: "John F. Kennedy International Airport",
		Latitude:    40.6413,
		Longitude:   -73.7781,
		Alternatives: []AlternativeAirport{
			{Code: "LGA", Name: "LaGuardia Airport"},
			{Code: "EWR", Name: "Newark Liberty International Airport"},
		},
	},
	{
		Country:     "United States",
		City:        "Queens",
		CityLocal:   "퀸스",
		AirportCode: "JFK",
		AirportName: "John F. Kennedy International Airport",
		Latitude:    40.6413,
		Longitude:   -73.7781,
		Alternatives: []AlternativeAirport{
			{Code: "LGA", Name: "LaGuardia Airport"},
			{Code: "EWR", Name: "Newark Liberty International Airport"},
		},
	},
}

// AllDestinations returns every destination city with room inventory.
func AllDestinations() []Destination {
	return destinations
}

// DestinationByAirport looks up the first destination served by the given
// airport code.
func DestinationByAirport(code string) (Destination, bool) {
	for _, d := range destinations {
		if d.AirportCode == code {
			return d, true
		}
	}
	return Destination{}, false
}

// DestinationsByCountry filters destinations by country name.
func DestinationsByCountry(country string) []Destination {
	out := make([]Destination, 0, len(destinations))
	for _, d := range destinations {
		if d.Country == country {
			out = append(out, d)
		}
	}
	return out
}
