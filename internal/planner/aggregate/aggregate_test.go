package aggregate

import (
	"context"
	"strings"
	"testing"

	"github.com/stayconcierge/server/internal/planner/model"
	"github.com/stayconcierge/server/internal/planner/rooms"
)

var testBudget = model.BudgetConfig{
	TargetBudget:    1000000,
	Days:            6,
	MealsPerDay:     3,
	MealPrice:       15000,
	RoomPriceFloor:  50000,
	ConversionToKRW: 1450,
	TopDestinations: 5,
}

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	store, err := rooms.OpenStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Seed(context.Background(), rooms.SeedRooms()); err != nil {
		t.Fatal(err)
	}
	return New(rooms.NewCatalog(store, nil), testBudget)
}

func result(city, cityLocal, origin, dest, date, currency, total string) model.SearchResult {
	return model.SearchResult{
		RouteCandidate: model.RouteCandidate{
			Origin:               origin,
			Destination:          dest,
			DestinationCity:      city,
			DestinationCityLocal: cityLocal,
		},
		Flight: &model.FlightOffer{
			ID:      city + "-" + total,
			Airline: "TEST AIR",
			Price:   model.FlightPrice{Currency: currency, Total: total},
		},
		SearchDate: date,
	}
}

func TestFinalizeRanksCheapestFirst(t *testing.T) {
	a := newTestAggregator(t)

	results := []model.SearchResult{
		result("Tokyo", "도쿄", "ICN", "NRT", "2026-09-01", "KRW", "300000"),
		result("Osaka", "오사카", "ICN", "KIX", "2026-09-01", "KRW", "150000"),
		result("Fukuoka-City", "후쿠오카", "ICN", "FUK", "2026-09-01", "KRW", "120000"),
	}

	options, _ := a.Finalize(context.Background(), results)
	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}
	if options[0].City != "후쿠오카" || options[2].City != "도쿄" {
		t.Errorf("unexpected ranking: %s, %s, %s", options[0].City, options[1].City, options[2].City)
	}
}

func TestFinalizeKeepsCheapestPerCity(t *testing.T) {
	a := newTestAggregator(t)

	results := []model.SearchResult{
		result("Osaka", "오사카", "ICN", "KIX", "2026-09-01", "KRW", "250000"),
		result("Osaka", "오사카", "PUS", "KIX", "2026-09-01", "KRW", "140000"),
	}

	options, _ := a.Finalize(context.Background(), results)
	if len(options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(options))
	}
	if options[0].FlightCostKRW != 140000 {
		t.Errorf("expected cheapest flight kept, got %f", options[0].FlightCostKRW)
	}
	if options[0].Flight.ID != "Osaka-140000" {
		t.Errorf("unexpected flight %s", options[0].Flight.ID)
	}
}

func TestFinalizeSkipsNilFlights(t *testing.T) {
	a := newTestAggregator(t)

	results := []model.SearchResult{
		{RouteCandidate: model.RouteCandidate{DestinationCity: "Tokyo"}},
		result("Osaka", "오사카", "ICN", "KIX", "2026-09-01", "KRW", "150000"),
	}
	options, _ := a.Finalize(context.Background(), results)
	if len(options) != 1 {
		t.Errorf("expected 1 option, got %d", len(options))
	}
}

func TestFinalizeEmptyWhenNothingFound(t *testing.T) {
	a := newTestAggregator(t)

	options, logs := a.Finalize(context.Background(), []model.SearchResult{
		{RouteCandidate: model.RouteCandidate{DestinationCity: "Tokyo"}},
	})
	if options != nil {
		t.Errorf("expected no options, got %+v", options)
	}
	if len(logs) == 0 {
		t.Error("expected at least the aggregation log")
	}
}

func TestFinalizeNormalizesForeignCurrency(t *testing.T) {
	a := newTestAggregator(t)

	// 700 USD * 1450 = 1,015,000 KRW, over the 1,000,000 target.
	results := []model.SearchResult{
		result("Manhattan", "맨해튼", "ICN", "JFK", "2026-09-01", "USD", "700.00"),
	}
	options, _ := a.Finalize(context.Background(), results)
	if len(options) != 1 {
		t.Fatal("expected 1 option")
	}
	if options[0].FlightCostKRW != 1015000 {
		t.Errorf("FlightCostKRW = %f, want 1015000", options[0].FlightCostKRW)
	}
	if !options[0].OverBudget {
		t.Error("expected over-budget flag")
	}
	if options[0].Room != nil {
		t.Error("over-budget option should skip the room search")
	}
}

func TestFinalizeBudgetMathAndRoomFit(t *testing.T) {
	a := newTestAggregator(t)

	results := []model.SearchResult{
		result("Osaka", "오사카", "ICN", "KIX", "2026-09-01", "KRW", "200000"),
	}
	options, _ := a.Finalize(context.Background(), results)
	if len(options) != 1 {
		t.Fatal("expected 1 option")
	}
	opt := options[0]

	// remaining = 1,000,000 - 200,000 - 6*3*15,000 = 530,000; cap 88,333/night.
	// Cheapest seeded Osaka room under the cap is the 38,000 hostel bunk.
	if opt.Room == nil {
		t.Fatal("expected a room")
	}
	if opt.Room.ID != "osa-003" {
		t.Errorf("unexpected room %s", opt.Room.ID)
	}
	if opt.RoomCostKRW != 38000*6 {
		t.Errorf("RoomCostKRW = %f", opt.RoomCostKRW)
	}
	wantTotal := 200000.0 + 270000.0 + 38000*6
	if opt.TotalCost != wantTotal {
		t.Errorf("TotalCost = %f, want %f", opt.TotalCost, wantTotal)
	}
	if opt.RoomLink != "/rooms/osa-003" {
		t.Errorf("unexpected room link %s", opt.RoomLink)
	}
}

func TestFinalizeCapsTopDestinations(t *testing.T) {
	a := newTestAggregator(t)

	results := []model.SearchResult{
		result("Tokyo", "도쿄", "ICN", "NRT", "2026-09-01", "KRW", "300000"),
		result("Osaka", "오사카", "ICN", "KIX", "2026-09-01", "KRW", "150000"),
		result("Kyoto", "교토", "ICN", "KIX", "2026-09-01", "KRW", "160000"),
		result("Fukuoka-City", "후쿠오카", "ICN", "FUK", "2026-09-01", "KRW", "120000"),
		result("Hiroshima", "히로시마", "ICN", "HIJ", "2026-09-01", "KRW", "170000"),
		result("Brooklyn", "브루클린", "ICN", "JFK", "2026-09-01", "KRW", "900000"),
	}
	options, _ := a.Finalize(context.Background(), results)
	if len(options) != 5 {
		t.Errorf("expected top 5 options, got %d", len(options))
	}
	for _, o := range options {
		if o.City == "브루클린" {
			t.Error("most expensive destination should be cut")
		}
	}
}

func TestFlightLinkFormat(t *testing.T) {
	r := result("Osaka", "오사카", "ICN", "KIX", "2026-09-01", "KRW", "150000")
	link := flightLink(r)
	want := "https://www.skyscanner.co.kr/transport/flights/icn/kix/260901/"
	if link != want {
		t.Errorf("link = %s, want %s", link, want)
	}
}

func TestFormatKRW(t *testing.T) {
	got := FormatKRW(1015000)
	if !strings.Contains(got, "1,015,000") || !strings.HasPrefix(got, "₩") {
		t.Errorf("FormatKRW = %q", got)
	}
}
