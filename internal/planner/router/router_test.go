package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stayconcierge/server/internal/planner/model"
	"github.com/stayconcierge/server/internal/planner/providers"
	"github.com/stayconcierge/server/internal/planner/providers/providertest"
)

func TestRouteTriggerTokenSkipsClassifier(t *testing.T) {
	m := providertest.NewScriptedModel()
	r := New(providers.NewCompleter(m))

	queries := []string{
		AutoPlanTrigger,
		"  " + AutoPlanTrigger + "  ",
		"지금 위치에서 여행 추천해줘 " + AutoPlanTrigger,
	}
	for _, q := range queries {
		if got := r.Route(context.Background(), q, nil); got != model.IntentAutoPlan {
			t.Errorf("Route(%q) = %s, want AUTO_PLAN", q, got)
		}
	}
	if m.Calls() != 0 {
		t.Errorf("classifier should not be called, got %d calls", m.Calls())
	}
}

func TestRouteClassifiesLabel(t *testing.T) {
	cases := []struct {
		reply string
		want  model.Intent
	}{
		{"FLIGHT", model.IntentFlight},
		{"  greeting \n", model.IntentGreeting},
		{"BUDGET", model.IntentBudget},
		{"nonsense label", model.IntentSearch},
	}
	for _, tc := range cases {
		m := providertest.NewScriptedModel(providertest.Reply{Content: tc.reply})
		r := New(providers.NewCompleter(m))
		if got := r.Route(context.Background(), "some query", nil); got != tc.want {
			t.Errorf("Route(%q) = %s, want %s", tc.reply, got, tc.want)
		}
	}
}

func TestRouteModelFailureDefaultsToSearch(t *testing.T) {
	m := providertest.NewScriptedModel(providertest.Reply{Err: errors.New("model down")})
	r := New(providers.NewCompleter(m))

	if got := r.Route(context.Background(), "what about flights", nil); got != model.IntentSearch {
		t.Errorf("expected SEARCH fallback, got %s", got)
	}
}
