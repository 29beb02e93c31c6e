package model

// Intent is the classified purpose of a user query and drives which pipeline
// branch the engine executes.
type Intent string

const (
	IntentGreeting  Intent = "GREETING"
	IntentSearch    Intent = "SEARCH"
	IntentFlight    Intent = "FLIGHT"
	IntentEmergency Intent = "EMERGENCY"
	IntentBudget    Intent = "BUDGET"
	IntentAutoPlan  Intent = "AUTO_PLAN"
)

// ParseIntent maps a raw classifier label to an Intent. Unknown labels fall
// back to IntentSearch so a misbehaving classifier never breaks a run.
func ParseIntent(label string) Intent {
	switch Intent(label) {
	case IntentGreeting, IntentSearch, IntentFlight, IntentEmergency, IntentBudget, IntentAutoPlan:
		return Intent(label)
	default:
		return IntentSearch
	}
}

// TripParams holds the optional structured extraction from the user query.
type TripParams struct {
	Origin      string
	Destination string
	Budget      int
	Days        int
	Date        string
}

// RouteCandidate is one origin-destination route to probe for a flight.
// Produced once from the route catalog's cartesian product, never mutated.
type RouteCandidate struct {
	Origin               string // IATA code
	OriginName           string // localized display name
	Destination          string // IATA code
	DestinationCity      string
	DestinationCityLocal string // optional localized city name
	DestinationCountry   string
}

// CityLabel returns the display name used for grouping and answers:
// the localized city name when present, else the English one.
func (c RouteCandidate) CityLabel() string {
	if c.DestinationCityLocal != "" {
		return c.DestinationCityLocal
	}
	return c.DestinationCity
}

// FlightOffer is a single priced flight as returned by the provider.
// Treated as immutable once returned.
type FlightOffer struct {
	ID           string
	Airline      string
	FlightNumber string
	Departure    FlightPoint
	Arrival      FlightPoint
	Duration     string
	Price        FlightPrice
}

type FlightPoint struct {
	IATACode string
	At       string // provider timestamp, e.g. "2026-08-31T14:30:00"
}

type FlightPrice struct {
	Currency string
	Total    string
}

// SearchResult pairs a candidate with the flight found for it, if any.
// A nil Flight records "no flight for this candidate" (failure or no data).
type SearchResult struct {
	RouteCandidate
	Flight     *FlightOffer
	SearchDate string // calendar date actually matched, "" when Flight is nil
}

// RoomListing is one accommodation from the room catalog.
type RoomListing struct {
	ID       string
	Title    string
	Price    float64 // nightly, reference currency
	City     string
	Country  string
	Category string
}

// FinalOption is one ranked destination proposal: flight plus room plus the
// budget arithmetic, ready for answer composition.
type FinalOption struct {
	City          string
	Flight        *FlightOffer
	FlightCostKRW float64
	Room          *RoomListing
	RoomCostKRW   float64
	TotalCost     float64
	FlightLink    string
	RoomLink      string
	OverBudget    bool // flight and meals leave nothing for lodging
}

// RunState is the single mutable record threaded through the engine's state
// machine. One RunState per incoming query; it never outlives one user turn.
//
// Invariants maintained by the engine:
//   - Cursor only increases and never exceeds len(Candidates).
//   - len(Results) tracks 1:1 with candidates already processed.
//   - Answer is set at most once; its presence signals the terminal state.
//   - Logs are append-only, never truncated or deduplicated.
type RunState struct {
	Query          string
	ClientIP       string
	ConversationID string
	Intent         Intent
	Params         TripParams
	Candidates     []RouteCandidate
	Cursor         int
	Results        []SearchResult
	FinalOptions   []FinalOption
	Answer         string
	Logs           []string
}

// Done reports whether the run reached its terminal state.
func (s *RunState) Done() bool {
	return s.Answer != ""
}

// Exhausted reports whether the batch cursor has consumed the candidate list.
func (s *RunState) Exhausted() bool {
	return s.Cursor >= len(s.Candidates)
}

// Delta is the immutable update a pipeline step returns. The engine merges it
// into the RunState: Logs and Results merge by append, everything else by
// override-if-present. Steps never alias or mutate the state they were given.
type Delta struct {
	Intent       Intent
	Candidates   []RouteCandidate
	Cursor       *int
	Results      []SearchResult
	FinalOptions []FinalOption
	Answer       string
	Logs         []string
}

// Apply merges the delta into the state.
func (d Delta) Apply(s *RunState) {
	if d.Intent != "" {
		s.Intent = d.Intent
	}
	if d.Candidates != nil {
		s.Candidates = d.Candidates
	}
	if d.Cursor != nil && *d.Cursor > s.Cursor {
		s.Cursor = *d.Cursor
	}
	if len(d.Results) > 0 {
		s.Results = append(s.Results, d.Results...)
	}
	if d.FinalOptions != nil {
		s.FinalOptions = d.FinalOptions
	}
	if d.Answer != "" && s.Answer == "" {
		s.Answer = d.Answer
	}
	if len(d.Logs) > 0 {
		s.Logs = append(s.Logs, d.Logs...)
	}
}

// CursorAt is a convenience for building cursor deltas.
func CursorAt(v int) *int {
	return &v
}
