package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	errx "github.com/stayconcierge/server/internal/core/error"
	"github.com/stayconcierge/server/internal/planner/model"
)

type searchCall struct {
	origin, destination, date string
}

// fakeSearcher replays scripted responses in call order.
type fakeSearcher struct {
	calls   []searchCall
	replies []func() ([]model.FlightOffer, error)
}

func (f *fakeSearcher) SearchFlights(_ context.Context, origin, destination, date string, _ int) ([]model.FlightOffer, error) {
	f.calls = append(f.calls, searchCall{origin, destination, date})
	if len(f.replies) == 0 {
		return nil, nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply()
}

func offers(o ...model.FlightOffer) func() ([]model.FlightOffer, error) {
	return func() ([]model.FlightOffer, error) { return o, nil }
}

func fail(err error) func() ([]model.FlightOffer, error) {
	return func() ([]model.FlightOffer, error) { return nil, err }
}

func offer(id, departAt, total string) model.FlightOffer {
	return model.FlightOffer{
		ID:        id,
		Airline:   "TEST AIR",
		Departure: model.FlightPoint{IATACode: "AAA", At: departAt},
		Arrival:   model.FlightPoint{IATACode: "BBB", At: departAt},
		Price:     model.FlightPrice{Currency: "KRW", Total: total},
	}
}

var testConfig = model.SchedulerConfig{
	BatchSize:       2,
	MaxRetries:      3,
	BackoffBaseMS:   2000,
	InterRequestMS:  300,
	DefaultTimezone: "Asia/Seoul",
}

// Unknown IATA codes keep timezone resolution on the config default.
func candidates(n int) []model.RouteCandidate {
	out := make([]model.RouteCandidate, n)
	for i := range out {
		out[i] = model.RouteCandidate{
			Origin:          "AAA",
			OriginName:      "테스트공항",
			Destination:     "BBB",
			DestinationCity: "Testville",
		}
	}
	return out
}

func newTestScheduler(f *fakeSearcher, slept *[]time.Duration) *Scheduler {
	s := New(f, testConfig)
	s.sleep = func(_ context.Context, d time.Duration) error {
		if slept != nil {
			*slept = append(*slept, d)
		}
		return nil
	}
	s.now = func() time.Time {
		loc, _ := time.LoadLocation("Asia/Seoul")
		return time.Date(2026, 8, 31, 14, 0, 0, 0, loc)
	}
	return s
}

func TestAdvanceProcessesOneBatchWindow(t *testing.T) {
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		offers(offer("1", "2026-08-31T18:00:00", "100000")),
		offers(offer("2", "2026-08-31T19:00:00", "120000")),
	}}
	s := newTestScheduler(f, nil)

	st := &model.RunState{Candidates: candidates(5)}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	delta.Apply(st)

	if st.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", st.Cursor)
	}
	if len(st.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(st.Results))
	}
	if st.Results[0].Flight == nil || st.Results[0].Flight.ID != "1" {
		t.Errorf("unexpected first result %+v", st.Results[0])
	}
	if len(st.Logs) == 0 {
		t.Error("expected progress logs")
	}
}

func TestAdvancePicksEarliestDeparture(t *testing.T) {
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		offers(
			offer("late", "2026-08-31T21:00:00", "90000"),
			offer("early", "2026-08-31T08:30:00", "150000"),
		),
	}}
	s := newTestScheduler(f, nil)

	st := &model.RunState{Candidates: candidates(1)}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if delta.Results[0].Flight.ID != "early" {
		t.Errorf("expected earliest departure picked, got %s", delta.Results[0].Flight.ID)
	}
}

func TestAdvanceFallsBackToTomorrow(t *testing.T) {
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		offers(), // today: empty
		offers(offer("t", "2026-09-01T10:00:00", "110000")),
	}}
	var slept []time.Duration
	s := newTestScheduler(f, &slept)

	st := &model.RunState{Candidates: candidates(1)}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}

	if len(f.calls) != 2 {
		t.Fatalf("expected 2 searches, got %d", len(f.calls))
	}
	if f.calls[0].date != "2026-08-31" || f.calls[1].date != "2026-09-01" {
		t.Errorf("unexpected dates: %+v", f.calls)
	}
	if delta.Results[0].SearchDate != "2026-09-01" {
		t.Errorf("SearchDate = %s, want tomorrow", delta.Results[0].SearchDate)
	}
	// One inter-request gap before the tomorrow probe.
	if len(slept) != 1 || slept[0] != 300*time.Millisecond {
		t.Errorf("unexpected sleeps %v", slept)
	}
}

func TestAdvanceRetriesRateLimitWithBackoff(t *testing.T) {
	rl := errx.NewProvider(errx.KindRateLimit, "quota", nil)
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		fail(rl),
		fail(rl),
		offers(offer("ok", "2026-08-31T12:00:00", "100000")),
	}}
	var slept []time.Duration
	s := newTestScheduler(f, &slept)

	st := &model.RunState{Candidates: candidates(1)}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if delta.Results[0].Flight == nil {
		t.Fatal("expected flight after retries")
	}
	if len(slept) != 2 || slept[0] != 2*time.Second || slept[1] != 4*time.Second {
		t.Errorf("unexpected backoff %v", slept)
	}
}

func TestAdvanceGivesUpAfterMaxRetries(t *testing.T) {
	rl := errx.NewProvider(errx.KindRateLimit, "quota", nil)
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		fail(rl), fail(rl), fail(rl), fail(rl), // today: initial + 3 retries
	}}
	var slept []time.Duration
	s := newTestScheduler(f, &slept)

	st := &model.RunState{Candidates: candidates(1)}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if delta.Results[0].Flight != nil {
		t.Error("expected nil flight after exhausted retries")
	}
	// Backoff sleeps 2s/4s/8s for today's probe.
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(slept) < 3 {
		t.Fatalf("expected at least 3 backoff sleeps, got %v", slept)
	}
	for i, w := range want {
		if slept[i] != w {
			t.Errorf("sleep[%d] = %v, want %v", i, slept[i], w)
		}
	}
}

func TestAdvanceNonRateLimitErrorDoesNotRetry(t *testing.T) {
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		fail(errors.New("boom")), // today
		offers(),                 // tomorrow
	}}
	var slept []time.Duration
	s := newTestScheduler(f, &slept)

	st := &model.RunState{Candidates: candidates(1)}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if delta.Results[0].Flight != nil {
		t.Error("expected nil flight")
	}
	// No backoff retry on today, but tomorrow still gets its probe.
	if len(f.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(f.calls))
	}
	if f.calls[1].date != "2026-09-01" {
		t.Errorf("second call date = %s, want tomorrow", f.calls[1].date)
	}
	if len(slept) != 1 || slept[0] != 300*time.Millisecond {
		t.Errorf("unexpected sleeps %v", slept)
	}
}

func TestAdvanceTodayErrorStillProbesTomorrow(t *testing.T) {
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		fail(errors.New("upstream hiccup")),
		offers(offer("t", "2026-09-01T09:00:00", "105000")),
	}}
	s := newTestScheduler(f, nil)

	st := &model.RunState{Candidates: candidates(1)}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if delta.Results[0].Flight == nil || delta.Results[0].SearchDate != "2026-09-01" {
		t.Errorf("expected tomorrow's flight, got %+v", delta.Results[0])
	}
}

func TestAdvanceInvalidDateFallsThroughToTomorrow(t *testing.T) {
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		fail(errx.NewProvider(errx.KindInvalidDate, "past date", nil)),
		offers(offer("t", "2026-09-01T07:00:00", "95000")),
	}}
	s := newTestScheduler(f, nil)

	st := &model.RunState{Candidates: candidates(1)}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if delta.Results[0].Flight == nil || delta.Results[0].SearchDate != "2026-09-01" {
		t.Errorf("expected tomorrow's flight, got %+v", delta.Results[0])
	}
}

func TestAdvanceOnExhaustedStateIsNoop(t *testing.T) {
	s := newTestScheduler(&fakeSearcher{}, nil)
	st := &model.RunState{Candidates: candidates(2), Cursor: 2}

	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if delta.Cursor != nil || len(delta.Results) != 0 {
		t.Errorf("expected empty delta, got %+v", delta)
	}
}

func TestAdvanceClampsFinalWindow(t *testing.T) {
	f := &fakeSearcher{replies: []func() ([]model.FlightOffer, error){
		offers(offer("1", "2026-08-31T12:00:00", "100000")),
	}}
	s := newTestScheduler(f, nil)

	st := &model.RunState{Candidates: candidates(3), Cursor: 2}
	delta, err := s.Advance(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if *delta.Cursor != 3 || len(delta.Results) != 1 {
		t.Errorf("unexpected delta %+v", delta)
	}
}
