// Package router classifies the user query into the pipeline branch to run.
package router

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/stayconcierge/server/internal/planner/model"
	"github.com/stayconcierge/server/internal/planner/prompts"
	"github.com/stayconcierge/server/internal/planner/providers"
	logx "github.com/stayconcierge/server/pkg/logger"
)

// AutoPlanTrigger is the client-side magic token that requests a full trip
// plan from the current location. It bypasses the classifier entirely.
const AutoPlanTrigger = "RECOMMEND_TRIP_FROM_CURRENT_LOCATION_TRIGGER"

type Router struct {
	completer *providers.Completer
}

func New(completer *providers.Completer) *Router {
	return &Router{completer: completer}
}

// Route classifies the query. A query carrying the trigger token anywhere
// short-circuits to AUTO_PLAN. Classifier failure degrades to SEARCH so the
// user always gets an answer.
func (r *Router) Route(ctx context.Context, query string, history []*schema.Message) model.Intent {
	if strings.Contains(query, AutoPlanTrigger) {
		return model.IntentAutoPlan
	}

	system, err := prompts.RenderIntentSystem(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("intent prompt render failed, defaulting to SEARCH")
		return model.IntentSearch
	}

	label, err := r.completer.Complete(ctx, system, history, query)
	if err != nil {
		logx.Warn().Err(err).Msg("intent classification failed, defaulting to SEARCH")
		return model.IntentSearch
	}

	intent := model.ParseIntent(strings.ToUpper(strings.TrimSpace(label)))
	logx.Debug().Str("intent", string(intent)).Str("raw", label).Msg("query routed")
	return intent
}
