package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/stayconcierge/server/internal/planner/aggregate"
	"github.com/stayconcierge/server/internal/planner/catalog"
	"github.com/stayconcierge/server/internal/planner/model"
	"github.com/stayconcierge/server/internal/planner/prompts"
	"github.com/stayconcierge/server/internal/planner/stream"
	logx "github.com/stayconcierge/server/pkg/logger"
)

// Auto-plan phases. The loop in runAutoPlan applies one delta per phase
// step and flushes newly appended logs before moving on, which is what lets
// progress reach the client between search batches.
type phase int

const (
	phaseInit phase = iota
	phaseBatch
	phaseFinalize
	phaseDone
)

func (e *Engine) runAutoPlan(ctx context.Context, st *model.RunState, mux *stream.Mux) error {
	flushed := 0
	flushLogs := func() error {
		for ; flushed < len(st.Logs); flushed++ {
			if err := mux.Log(st.Logs[flushed]); err != nil {
				return err
			}
		}
		return nil
	}

	for ph := phaseInit; ph != phaseDone; {
		switch ph {
		case phaseInit:
			delta := e.initCandidates(ctx, st)
			delta.Apply(st)
			ph = phaseBatch

		case phaseBatch:
			delta, err := e.scheduler.Advance(ctx, st)
			delta.Apply(st)
			if err != nil {
				_ = flushLogs()
				return err
			}
			if st.Exhausted() {
				ph = phaseFinalize
			}

		case phaseFinalize:
			options, logs := e.aggregator.Finalize(ctx, st.Results)
			model.Delta{FinalOptions: options, Logs: logs}.Apply(st)
			if err := flushLogs(); err != nil {
				return err
			}
			if err := e.composeAnswer(ctx, st, mux); err != nil {
				return err
			}
			ph = phaseDone
		}

		if err := flushLogs(); err != nil {
			return err
		}
	}
	return nil
}

// initCandidates lays out the full origin-by-destination route list to
// probe. The geo lookup only decorates the progress log with the traveler's
// location and nearest hub; it never narrows the search.
func (e *Engine) initCandidates(ctx context.Context, st *model.RunState) model.Delta {
	candidates := e.candidates()
	logs := make([]string, 0, 2)

	loc, err := e.locator.Locate(ctx, st.ClientIP)
	if err != nil {
		logx.Warn().Err(err).Msg("geo lookup failed")
		logs = append(logs, "📍 현재 위치를 확인하지 못했습니다")
	} else {
		origin := catalog.NearestOrigin(loc.Latitude, loc.Longitude, true)
		logs = append(logs,
			fmt.Sprintf("📍 현재 위치: %s, %s (가까운 공항: %s %s)", loc.City, loc.Country, origin.NameLocal, origin.IATACode))
	}
	logs = append(logs, fmt.Sprintf("🛫 주요 공항 출발 %d개 노선 검색 시작", len(candidates)))

	return model.Delta{Candidates: candidates, Logs: logs}
}

// composerOption is the wire shape handed to the composing model.
type composerOption struct {
	City          string `json:"city"`
	Airline       string `json:"airline,omitempty"`
	FlightNumber  string `json:"flightNumber,omitempty"`
	DepartureAt   string `json:"departureAt,omitempty"`
	ArrivalAt     string `json:"arrivalAt,omitempty"`
	FlightCostKRW string `json:"flightCostKRW"`
	RoomTitle     string `json:"roomTitle,omitempty"`
	RoomCostKRW   string `json:"roomCostKRW,omitempty"`
	TotalCostKRW  string `json:"totalCostKRW"`
	FlightLink    string `json:"flightLink"`
	RoomLink      string `json:"roomLink,omitempty"`
	OverBudget    bool   `json:"overBudget,omitempty"`
}

// composeAnswer runs the final composition as one blocking call, repairs the
// markdown links, and emits the finished text to the client in a single
// write. The client never sees an unrepaired link.
func (e *Engine) composeAnswer(ctx context.Context, st *model.RunState, mux *stream.Mux) error {
	if len(st.FinalOptions) == 0 {
		st.Answer = noFlightsAnswer
		return mux.Answer(noFlightsAnswer + "\n")
	}

	payload := make([]composerOption, 0, len(st.FinalOptions))
	for _, o := range st.FinalOptions {
		co := composerOption{
			City:          o.City,
			FlightCostKRW: aggregate.FormatKRW(o.FlightCostKRW),
			TotalCostKRW:  aggregate.FormatKRW(o.TotalCost),
			FlightLink:    o.FlightLink,
			OverBudget:    o.OverBudget,
		}
		if o.Flight != nil {
			co.Airline = o.Flight.Airline
			co.FlightNumber = o.Flight.FlightNumber
			co.DepartureAt = o.Flight.Departure.At
			co.ArrivalAt = o.Flight.Arrival.At
		}
		if o.Room != nil {
			co.RoomTitle = o.Room.Title
			co.RoomCostKRW = aggregate.FormatKRW(o.RoomCostKRW)
			co.RoomLink = o.RoomLink
		}
		payload = append(payload, co)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return e.apologize(st, mux, err)
	}
	system, err := prompts.RenderComposerSystem(ctx)
	if err != nil {
		return e.apologize(st, mux, err)
	}

	answer, err := e.composer.Complete(ctx, system, nil, string(body))
	if err != nil {
		return e.apologize(st, mux, err)
	}
	answer = repairMarkdownLinks(stream.StripLogs(answer))
	if strings.TrimSpace(answer) == "" {
		return e.apologize(st, mux, errors.New("empty composition"))
	}

	st.Answer = answer
	if !strings.HasSuffix(answer, "\n") {
		answer += "\n"
	}
	return mux.Answer(answer)
}

// Composing models occasionally emit whitespace inside markdown links,
// which breaks rendering on the client: between the bracket and the paren,
// around the URL inside the parens, or inside a /rooms/ path.
var (
	bracketParenGap = regexp.MustCompile(`\]\s+\(`)
	urlParenPadding = regexp.MustCompile(`\(\s*(https?://\S+?|/rooms/\S+?)\s*\)`)
	roomsPathGap    = regexp.MustCompile(`(/rooms/)\s+`)
)

func repairMarkdownLinks(text string) string {
	text = bracketParenGap.ReplaceAllString(text, "](")
	text = roomsPathGap.ReplaceAllString(text, "$1")
	text = urlParenPadding.ReplaceAllString(text, "($1)")
	return text
}
