// Package engine drives one user turn end to end: conversation bookkeeping,
// intent routing, the auto-plan state machine, and the muxed output stream.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/stayconcierge/server/internal/planner/aggregate"
	"github.com/stayconcierge/server/internal/planner/catalog"
	"github.com/stayconcierge/server/internal/planner/model"
	"github.com/stayconcierge/server/internal/planner/prompts"
	"github.com/stayconcierge/server/internal/planner/providers"
	"github.com/stayconcierge/server/internal/planner/rooms"
	"github.com/stayconcierge/server/internal/planner/router"
	"github.com/stayconcierge/server/internal/planner/scheduler"
	"github.com/stayconcierge/server/internal/planner/stream"
	logx "github.com/stayconcierge/server/pkg/logger"
)

const apologyAnswer = "죄송합니다. 지금은 답변을 생성하지 못했습니다. 잠시 후 다시 시도해 주세요."

const noFlightsAnswer = "죄송합니다. 지금은 예산에 맞는 항공편을 찾지 못했습니다. 잠시 후 다시 시도하거나 날짜를 바꿔서 문의해 주세요."

// Request is one incoming user turn.
type Request struct {
	Query          string
	ConversationID string // empty starts a new conversation
	ClientIP       string
}

type Engine struct {
	router      *router.Router
	scheduler   *scheduler.Scheduler
	aggregator  *aggregate.Aggregator
	answerer    *providers.Completer
	composer    *providers.Completer
	store       model.ConversationStore
	locator     providers.GeoLocator
	roomCatalog *rooms.Catalog

	// candidates is swappable in tests; production uses the catalog's full
	// origin-by-destination product.
	candidates func() []model.RouteCandidate
}

func New(
	rt *router.Router,
	sched *scheduler.Scheduler,
	agg *aggregate.Aggregator,
	answerer *providers.Completer,
	composer *providers.Completer,
	store model.ConversationStore,
	locator providers.GeoLocator,
	roomCatalog *rooms.Catalog,
) *Engine {
	return &Engine{
		router:      rt,
		scheduler:   sched,
		aggregator:  agg,
		answerer:    answerer,
		composer:    composer,
		store:       store,
		locator:     locator,
		roomCatalog: roomCatalog,
		candidates:  catalog.Candidates,
	}
}

// Run executes one turn, writing the muxed log/answer stream to out. The
// returned state carries the final answer and the conversation id. The
// assistant turn is persisted only after the stream completed successfully,
// and only the answer text is persisted, never the progress logs.
func (e *Engine) Run(ctx context.Context, req Request, out io.Writer) (*model.RunState, error) {
	st := &model.RunState{
		Query:          req.Query,
		ClientIP:       req.ClientIP,
		ConversationID: req.ConversationID,
	}

	history, err := e.prepareConversation(ctx, st)
	if err != nil {
		// History is context, not a prerequisite. Answer anyway.
		logx.Warn().Err(err).Msg("conversation bookkeeping failed, continuing without history")
	}

	st.Intent = e.router.Route(ctx, st.Query, history)
	logx.Info().Str("intent", string(st.Intent)).Str("conversationID", st.ConversationID).Msg("turn started")

	mux := stream.NewMux(out)
	var runErr error
	switch st.Intent {
	case model.IntentAutoPlan, model.IntentEmergency, model.IntentBudget:
		// EMERGENCY and BUDGET are budget-planning questions at heart and
		// run the same search pipeline as the explicit trigger.
		runErr = e.runAutoPlan(ctx, st, mux)
	default:
		runErr = e.runDirectAnswer(ctx, st, mux, history)
	}
	if runErr != nil {
		return st, runErr
	}

	e.persistAssistantTurn(ctx, st)
	return st, nil
}

// prepareConversation loads prior history, then records the incoming user
// turn. A new conversation is created when the request carried no id.
func (e *Engine) prepareConversation(ctx context.Context, st *model.RunState) ([]*schema.Message, error) {
	if st.ConversationID == "" {
		id, err := e.store.CreateConversation(ctx, st.Query)
		if err != nil {
			return nil, err
		}
		st.ConversationID = id
		return nil, nil
	}

	hist, err := e.store.LoadHistory(ctx, st.ConversationID)
	if err != nil {
		return nil, err
	}
	if err := e.store.AppendTurn(ctx, st.ConversationID, schema.User, st.Query); err != nil {
		return hist.Messages, err
	}
	return hist.Messages, nil
}

func (e *Engine) persistAssistantTurn(ctx context.Context, st *model.RunState) {
	if st.Answer == "" || st.ConversationID == "" {
		return
	}
	// Stored turns carry answer text only, never log frames.
	if err := e.store.AppendTurn(ctx, st.ConversationID, schema.Assistant, stream.StripLogs(st.Answer)); err != nil {
		logx.Warn().Err(err).Str("conversationID", st.ConversationID).Msg("failed to persist assistant turn")
	}
}

// runDirectAnswer streams a single model answer for the non-planning
// intents. The flight branch is seeded with the traveler's nearest airport,
// the search branch with matching inventory rooms.
func (e *Engine) runDirectAnswer(ctx context.Context, st *model.RunState, mux *stream.Mux, history []*schema.Message) error {
	var system string
	var err error
	switch st.Intent {
	case model.IntentGreeting:
		system, err = prompts.RenderGreetingSystem(ctx)
	case model.IntentFlight:
		system, err = prompts.RenderFlightSystem(ctx, e.flightHint(ctx, st.ClientIP))
	default:
		system, err = prompts.RenderSearchSystem(ctx, e.roomContext(ctx, st.Query))
	}
	if err != nil {
		return e.apologize(st, mux, err)
	}

	sr, err := e.answerer.Stream(ctx, system, history, st.Query)
	if err != nil {
		return e.apologize(st, mux, err)
	}
	return e.streamAnswer(st, mux, sr)
}

// roomContext grounds the concierge answer in matching inventory. Lookup
// failure just means an unseeded answer.
func (e *Engine) roomContext(ctx context.Context, query string) string {
	listings, err := e.roomCatalog.Match(ctx, query, 4)
	if err != nil {
		logx.Warn().Err(err).Msg("room context lookup failed")
		return ""
	}
	var b strings.Builder
	for _, r := range listings {
		fmt.Fprintf(&b, "- %s (%s, %s) %s/night\n", r.Title, r.City, r.Country, aggregate.FormatKRW(r.Price))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *Engine) flightHint(ctx context.Context, clientIP string) prompts.FlightHint {
	loc, err := e.locator.Locate(ctx, clientIP)
	if err != nil {
		return prompts.FlightHint{}
	}
	nearest := catalog.NearestOrigin(loc.Latitude, loc.Longitude, false)
	return prompts.FlightHint{
		NearestAirport:     nearest.IATACode,
		NearestAirportCity: nearest.City,
	}
}

// streamAnswer drains a token stream into the mux and accumulates the full
// answer on the state. Any model-side stream failure degrades to the
// apology, even mid-stream after partial output already reached the client;
// only a broken output sink stops the run.
func (e *Engine) streamAnswer(st *model.RunState, mux *stream.Mux, sr *schema.StreamReader[*schema.Message]) error {
	defer sr.Close()

	answer := ""
	for {
		chunk, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return e.apologize(st, mux, err)
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		answer += chunk.Content
		if werr := mux.Answer(chunk.Content); werr != nil {
			return werr
		}
	}

	st.Answer = answer
	if st.Answer == "" {
		return e.apologize(st, mux, errors.New("empty answer stream"))
	}
	return nil
}

func (e *Engine) apologize(st *model.RunState, mux *stream.Mux, cause error) error {
	logx.Warn().Err(cause).Msg("answer generation failed, sending apology")
	st.Answer = apologyAnswer
	return mux.Answer(apologyAnswer + "\n")
}
