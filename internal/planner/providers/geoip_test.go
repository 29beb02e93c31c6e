package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stayconcierge/server/internal/planner/model"
)

func TestLocatePrivateIPFallsBackToSeoul(t *testing.T) {
	l := NewIPAPILocator(model.GeoIPConfig{BaseURL: "http://unused", TimeoutSec: 1, CacheTTL: "1m"})

	for _, ip := range []string{"", "127.0.0.1", "192.168.0.10", "10.1.2.3", "not-an-ip", "::1"} {
		loc, err := l.Locate(context.Background(), ip)
		if err != nil {
			t.Fatalf("Locate(%q): %v", ip, err)
		}
		if loc.City != "Seoul" {
			t.Errorf("Locate(%q) = %s, want Seoul fallback", ip, loc.City)
		}
	}
}

func TestLocateResolvesAndCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/json/8.8.8.8" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","city":"Mountain View","country":"United States","lat":37.4,"lon":-122.07,"timezone":"America/Los_Angeles"}`))
	}))
	defer srv.Close()

	l := NewIPAPILocator(model.GeoIPConfig{BaseURL: srv.URL, TimeoutSec: 2, CacheTTL: "1m"})

	for i := 0; i < 2; i++ {
		loc, err := l.Locate(context.Background(), "8.8.8.8")
		if err != nil {
			t.Fatal(err)
		}
		if loc.City != "Mountain View" || loc.Timezone != "America/Los_Angeles" {
			t.Errorf("unexpected location %+v", loc)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestLocateUpstreamFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewIPAPILocator(model.GeoIPConfig{BaseURL: srv.URL, TimeoutSec: 2, CacheTTL: "1m"})
	loc, err := l.Locate(context.Background(), "8.8.8.8")
	if err != nil {
		t.Fatal(err)
	}
	if loc.City != "Seoul" {
		t.Errorf("expected Seoul fallback, got %s", loc.City)
	}
}
