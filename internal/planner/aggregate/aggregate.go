// Package aggregate turns raw search results into ranked, budget-fitted
// destination options.
package aggregate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stayconcierge/server/internal/planner/model"
	"github.com/stayconcierge/server/internal/planner/rooms"
	logx "github.com/stayconcierge/server/pkg/logger"
)

const flightLinkBase = "https://www.skyscanner.co.kr/transport/flights"

type Aggregator struct {
	roomCatalog *rooms.Catalog
	cfg         model.BudgetConfig
}

func New(roomCatalog *rooms.Catalog, cfg model.BudgetConfig) *Aggregator {
	return &Aggregator{roomCatalog: roomCatalog, cfg: cfg}
}

// Finalize groups results by destination city, keeps the cheapest flight per
// city, ranks cities by that cost, fits a room under the remaining budget
// for the top ones, and returns the options in ranked order plus the
// progress logs describing the work.
func (a *Aggregator) Finalize(ctx context.Context, results []model.SearchResult) ([]model.FinalOption, []string) {
	var logs []string

	found := lo.Filter(results, func(r model.SearchResult, _ int) bool {
		return r.Flight != nil
	})
	logs = append(logs, fmt.Sprintf("📊 검색 결과 집계 중... (%d개 노선 중 %d개 항공편 확보)", len(results), len(found)))
	if len(found) == 0 {
		return nil, logs
	}

	// Cheapest flight per destination city.
	byCity := lo.GroupBy(found, func(r model.SearchResult) string {
		return r.CityLabel()
	})
	bests := make([]model.SearchResult, 0, len(byCity))
	for _, group := range byCity {
		bests = append(bests, lo.MinBy(group, func(x, y model.SearchResult) bool {
			return a.flightCostKRW(x.Flight) < a.flightCostKRW(y.Flight)
		}))
	}
	sort.SliceStable(bests, func(i, j int) bool {
		return a.flightCostKRW(bests[i].Flight) < a.flightCostKRW(bests[j].Flight)
	})
	if len(bests) > a.cfg.TopDestinations {
		bests = bests[:a.cfg.TopDestinations]
	}

	mealCost := float64(a.cfg.Days) * float64(a.cfg.MealsPerDay) * a.cfg.MealPrice

	options := make([]model.FinalOption, 0, len(bests))
	for _, r := range bests {
		flightKRW := a.flightCostKRW(r.Flight)
		remaining := a.cfg.TargetBudget - flightKRW - mealCost

		opt := model.FinalOption{
			City:          r.CityLabel(),
			Flight:        r.Flight,
			FlightCostKRW: flightKRW,
			FlightLink:    flightLink(r),
			TotalCost:     flightKRW + mealCost,
		}

		// Flight and meals alone blow the budget: keep the option so the
		// user sees why, but skip the room search.
		if remaining <= 0 {
			opt.OverBudget = true
			logs = append(logs, fmt.Sprintf("⚠️ %s: 항공편과 식비만으로 예산 초과 (%s)", opt.City, FormatKRW(flightKRW)))
			options = append(options, opt)
			continue
		}

		perNight := math.Floor(remaining / float64(a.cfg.Days))
		maxPrice := math.Max(perNight, a.cfg.RoomPriceFloor)

		listings, err := a.roomCatalog.FindRooms(ctx, r.DestinationCity, maxPrice, 1)
		if err != nil {
			logx.Warn().Err(err).Str("city", r.DestinationCity).Msg("room lookup failed")
		}
		if len(listings) > 0 {
			room := listings[0]
			opt.Room = &room
			opt.RoomCostKRW = room.Price * float64(a.cfg.Days)
			opt.RoomLink = "/rooms/" + room.ID
			opt.TotalCost += opt.RoomCostKRW
			logs = append(logs, fmt.Sprintf("🏠 %s 숙소 확보: %s (1박 %s)", opt.City, room.Title, FormatKRW(room.Price)))
		} else {
			logs = append(logs, fmt.Sprintf("🏠 %s: 예산 내 숙소를 찾지 못했습니다", opt.City))
		}
		options = append(options, opt)
	}

	logs = append(logs, fmt.Sprintf("💰 예산 %s 기준 상위 %d개 목적지 선정 완료", FormatKRW(a.cfg.TargetBudget), len(options)))
	return options, logs
}

// flightCostKRW normalizes an offer price into the reference currency.
func (a *Aggregator) flightCostKRW(f *model.FlightOffer) float64 {
	total, err := strconv.ParseFloat(f.Price.Total, 64)
	if err != nil {
		return math.MaxFloat64
	}
	if f.Price.Currency != "KRW" {
		total *= a.cfg.ConversionToKRW
	}
	return total
}

// flightLink builds the deep link for a searched route and date.
func flightLink(r model.SearchResult) string {
	yymmdd := strings.ReplaceAll(r.SearchDate, "-", "")
	if len(yymmdd) == 8 {
		yymmdd = yymmdd[2:]
	}
	return fmt.Sprintf("%s/%s/%s/%s/",
		flightLinkBase, strings.ToLower(r.Origin), strings.ToLower(r.Destination), yymmdd)
}

var krwPrinter = message.NewPrinter(language.Korean)

// FormatKRW renders an amount with thousands separators and the won sign.
func FormatKRW(v float64) string {
	return krwPrinter.Sprintf("₩%d", int64(math.Round(v)))
}
