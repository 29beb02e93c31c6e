// Package scheduler runs the batched flight search loop. Each Advance call
// processes one batch window of route candidates and returns a delta, so the
// engine can flush progress to the client between batches.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	errx "github.com/stayconcierge/server/internal/core/error"
	"github.com/stayconcierge/server/internal/planner/catalog"
	"github.com/stayconcierge/server/internal/planner/model"
	"github.com/stayconcierge/server/internal/planner/providers"
	logx "github.com/stayconcierge/server/pkg/logger"
)

const offersPerSearch = 5

type Scheduler struct {
	searcher providers.FlightSearcher
	cfg      model.SchedulerConfig

	// Injection points for tests. Production uses real time.
	sleep func(context.Context, time.Duration) error
	now   func() time.Time
}

func New(searcher providers.FlightSearcher, cfg model.SchedulerConfig) *Scheduler {
	return &Scheduler{
		searcher: searcher,
		cfg:      cfg,
		sleep:    sleepCtx,
		now:      time.Now,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Advance processes the next batch window of candidates sequentially and
// returns the delta: cursor moved to the end of the window, one result per
// candidate (nil Flight when nothing was found), and progress log lines.
// Only context cancellation aborts a batch; provider failures are recorded
// as empty results and the loop keeps going.
func (s *Scheduler) Advance(ctx context.Context, st *model.RunState) (model.Delta, error) {
	if st.Exhausted() {
		return model.Delta{}, nil
	}

	end := st.Cursor + s.cfg.BatchSize
	if end > len(st.Candidates) {
		end = len(st.Candidates)
	}

	delta := model.Delta{Cursor: model.CursorAt(end)}
	for i := st.Cursor; i < end; i++ {
		cand := st.Candidates[i]
		delta.Logs = append(delta.Logs,
			fmt.Sprintf("✈️ %s → %s 항공편 검색 중... (%d/%d)", cand.OriginName, cand.CityLabel(), i+1, len(st.Candidates)))

		result, err := s.searchCandidate(ctx, cand)
		if err != nil {
			// Context gone: stop mid-batch, keep what we have.
			if ctx.Err() != nil {
				return delta, err
			}
			logx.Warn().Err(err).Str("origin", cand.Origin).Str("destination", cand.Destination).Msg("candidate search failed")
			result = model.SearchResult{RouteCandidate: cand}
		}
		delta.Results = append(delta.Results, result)

		if result.Flight != nil {
			delta.Logs = append(delta.Logs,
				fmt.Sprintf("✅ %s행 항공편 발견: %s %s원", cand.CityLabel(), result.Flight.Airline, result.Flight.Price.Total))
		} else {
			delta.Logs = append(delta.Logs,
				fmt.Sprintf("❌ %s행 항공편을 찾지 못했습니다", cand.CityLabel()))
		}

		// Gap between candidates, not after the last one.
		if i+1 < end {
			if err := s.sleep(ctx, time.Duration(s.cfg.InterRequestMS)*time.Millisecond); err != nil {
				return delta, err
			}
		}
	}
	return delta, nil
}

// searchCandidate probes today then tomorrow in the origin airport's local
// timezone, returning the first-departing offer of the first date with data.
func (s *Scheduler) searchCandidate(ctx context.Context, cand model.RouteCandidate) (model.SearchResult, error) {
	loc := s.originLocation(cand.Origin)
	today := s.now().In(loc).Format("2006-01-02")
	tomorrow := s.now().In(loc).AddDate(0, 0, 1).Format("2006-01-02")

	offers, err := s.searchWithRetry(ctx, cand, today)
	if err != nil {
		if ctx.Err() != nil {
			return model.SearchResult{}, err
		}
		if errx.KindOf(err) != errx.KindInvalidDate {
			logx.Warn().Err(err).Str("route", cand.Origin+"-"+cand.Destination).Str("date", today).Msg("today search failed, trying tomorrow")
		}
	}
	if len(offers) > 0 {
		return model.SearchResult{RouteCandidate: cand, Flight: firstByDeparture(offers), SearchDate: today}, nil
	}

	// Today came up empty, errored, or was rejected as a past date near
	// midnight. Tomorrow gets one more try either way.
	if err := s.sleep(ctx, time.Duration(s.cfg.InterRequestMS)*time.Millisecond); err != nil {
		return model.SearchResult{}, err
	}
	offers, err = s.searchWithRetry(ctx, cand, tomorrow)
	if err != nil {
		if ctx.Err() != nil {
			return model.SearchResult{}, err
		}
		return model.SearchResult{RouteCandidate: cand}, nil
	}
	if len(offers) == 0 {
		return model.SearchResult{RouteCandidate: cand}, nil
	}
	return model.SearchResult{RouteCandidate: cand, Flight: firstByDeparture(offers), SearchDate: tomorrow}, nil
}

// searchWithRetry retries rate-limited calls with exponential backoff
// (base, 2x, 4x). Any other error returns immediately.
func (s *Scheduler) searchWithRetry(ctx context.Context, cand model.RouteCandidate, date string) ([]model.FlightOffer, error) {
	offers, err := s.searcher.SearchFlights(ctx, cand.Origin, cand.Destination, date, offersPerSearch)
	if err == nil {
		return offers, nil
	}

	for retry := 0; retry < s.cfg.MaxRetries && errx.RateLimited(err); retry++ {
		delay := time.Duration(s.cfg.BackoffBaseMS) * time.Millisecond << retry
		logx.Debug().Str("route", cand.Origin+"-"+cand.Destination).Dur("delay", delay).Int("retry", retry+1).Msg("rate limited, backing off")
		if serr := s.sleep(ctx, delay); serr != nil {
			return nil, serr
		}
		offers, err = s.searcher.SearchFlights(ctx, cand.Origin, cand.Destination, date, offersPerSearch)
		if err == nil {
			return offers, nil
		}
	}
	return nil, err
}

func (s *Scheduler) originLocation(iata string) *time.Location {
	name := catalog.Timezone(iata, s.cfg.DefaultTimezone)
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func firstByDeparture(offers []model.FlightOffer) *model.FlightOffer {
	sorted := make([]model.FlightOffer, len(offers))
	copy(sorted, offers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Departure.At < sorted[j].Departure.At
	})
	return &sorted[0]
}
