package catalog

// OriginAirport is one departure airport the planner probes from, with the
// localized display name used in logs and answers.
type OriginAirport struct {
	IATACode  string
	Name      string
	NameLocal string
	City      string
	Region    string
	IsMajor   bool
	Latitude  float64
	Longitude float64
}

// Origin airports: the international airports of South Korea. Major hubs
// first, then regional international airports.
var originAirports = []OriginAirport{
	{
		IATACode:  "ICN",
		Name:      "Incheon International Airport",
		NameLocal: "인천국제공항",
		City:      "Incheon",
		Region:    "Gyeonggi",
		IsMajor:   true,
		Latitude:  37.4602,
		Longitude: 126.4407,
	},
	{
		IATACode:  "GMP",
		Name:      "Gimpo International Airport",
		NameLocal: "김포국제공항",
		City:      "Seoul",
		Region:    "Seoul",
		IsMajor:   true,
		Latitude:  37.5584,
		Longitude: 126.7906,
	},
	{
		IATACode:  "PUS",
		Name:      "Gimhae International Airport",
		NameLocal: "김해국제공항",
		City:      "Busan",
		Region:    "Gyeongsangnam",
		IsMajor:   true,
		Latitude:  35.1795,
		Longitude: 128.9429,
	},
	{
		IATACode:  "CJU",
		Name:      "Jeju International Airport",
		NameLocal: "제주국제공항",
		City:      "Jeju",
		Region:    "Jeju",
		IsMajor:   true,
		Latitude:  33.5104,
		Longitude: 126.4913,
	},
	{
		IATACode:  "TAE",
		Name:      "Daegu International Airport",
		NameLocal: "대구국제공항",
		City:      "Daegu",
		Region:    "Gyeongsangbuk",
		IsMajor:   false,
		Latitude:  35.8939,
		Longitude: 128.6553,
	},
	{
		IATACode:  "CJJ",
		Name:      "Cheongju International Airport",
		NameLocal: "청주국제공항",
		City:      "Cheongju",
		Region:    "Chungcheongbuk",
		IsMajor:   false,
		Latitude:  36.7167,
		Longitude: 127.4997,
	},
	{
		IATACode:  "MWX",
		Name:      "Muan International Airport",
		NameLocal: "무안국제공항",
		City:      "Muan",
		Region:    "Jeollanam",
		IsMajor:   false,
		Latitude:  34.9914,
		Longitude: 126.3828,
	},
	{
		IATACode:  "YNY",
		Name:      "Yangyang International Airport",
		NameLocal: "양양국제공항",
		City:      "Yangyang",
		Region:    "Gangwon",
		IsMajor:   false,
		Latitude:  38.0613,
		Longitude: 128.6657,
	},
}

// AllOrigins returns every origin airport.
func AllOrigins() []OriginAirport {
	return originAirports
}

// MajorOrigins returns only the major international hubs.
func MajorOrigins() []OriginAirport {
	majors := make([]OriginAirport, 0, len(originAirports))
	for _, a := range originAirports {
		if a.IsMajor {
			majors = append(majors, a)
		}
	}
	return majors
}

// OriginByCode looks up an origin airport by IATA code. The second return
// value is false when the code is not in the catalog.
func OriginByCode(iata string) (OriginAirport, bool) {
	for _, a := range originAirports {
		if a.IATACode == iata {
			return a, true
		}
	}
	return OriginAirport{}, false
}
