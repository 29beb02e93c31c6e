package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/stayconcierge/server/internal/planner/model"
)

// Location is a resolved client position.
type Location struct {
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	Timezone  string
}

// GeoLocator resolves a client IP to an approximate location.
type GeoLocator interface {
	Locate(ctx context.Context, ip string) (Location, error)
}

// Seoul city center. Private, loopback, and unresolvable addresses land
// here so local development still produces a sensible departure hub.
var seoulFallback = Location{
	City:      "Seoul",
	Country:   "South Korea",
	Latitude:  37.5665,
	Longitude: 126.9780,
	Timezone:  "Asia/Seoul",
}

// IPAPILocator resolves IPs via ip-api.com with an in-process TTL cache.
type IPAPILocator struct {
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
}

func NewIPAPILocator(cfg model.GeoIPConfig) *IPAPILocator {
	ttl, err := time.ParseDuration(cfg.CacheTTL)
	if err != nil || ttl <= 0 {
		ttl = 30 * time.Minute
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IPAPILocator{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      gocache.New(ttl, 2*ttl),
	}
}

type ipAPIResponse struct {
	Status   string  `json:"status"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Timezone string  `json:"timezone"`
}

// Locate resolves an IP. Lookup failures degrade to the Seoul fallback with
// a nil error; the planner should never fail a run on geo data.
func (l *IPAPILocator) Locate(ctx context.Context, ip string) (Location, error) {
	if isPrivateOrEmpty(ip) {
		return seoulFallback, nil
	}
	if cached, ok := l.cache.Get(ip); ok {
		return cached.(Location), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/json/"+ip, nil)
	if err != nil {
		return seoulFallback, nil
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return seoulFallback, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return seoulFallback, nil
	}

	var parsed ipAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Status != "success" {
		return seoulFallback, nil
	}

	loc := Location{
		City:      parsed.City,
		Country:   parsed.Country,
		Latitude:  parsed.Lat,
		Longitude: parsed.Lon,
		Timezone:  parsed.Timezone,
	}
	l.cache.Set(ip, loc, gocache.DefaultExpiration)
	return loc, nil
}

func isPrivateOrEmpty(ip string) bool {
	if ip == "" {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified()
}

// String implements fmt.Stringer for log lines.
func (loc Location) String() string {
	return fmt.Sprintf("%s, %s (%.4f, %.4f)", loc.City, loc.Country, loc.Latitude, loc.Longitude)
}
