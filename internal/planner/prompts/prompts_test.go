package prompts

import (
	"context"
	"strings"
	"testing"
)

func TestRenderIntentSystemListsAllLabels(t *testing.T) {
	got, err := RenderIntentSystem(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, label := range []string{"GREETING", "SEARCH", "FLIGHT", "EMERGENCY", "BUDGET", "AUTO_PLAN"} {
		if !strings.Contains(got, label) {
			t.Errorf("intent prompt missing label %s", label)
		}
	}
}

func TestRenderSearchSystemWithRoomContext(t *testing.T) {
	ctx := context.Background()

	withRooms, err := RenderSearchSystem(ctx, "- Gion machiya (Kyoto) ₩145,000/night")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(withRooms, "Gion machiya") {
		t.Error("room context should appear in rendered prompt")
	}

	withoutRooms, err := RenderSearchSystem(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(withoutRooms, "our own inventory") {
		t.Error("empty context should omit the inventory paragraph")
	}
}

func TestRenderFlightSystemWithHint(t *testing.T) {
	ctx := context.Background()

	withHint, err := RenderFlightSystem(ctx, FlightHint{NearestAirport: "GMP", NearestAirportCity: "Seoul"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(withHint, "GMP") || !strings.Contains(withHint, "Seoul") {
		t.Error("hint should appear in rendered prompt")
	}

	withoutHint, err := RenderFlightSystem(ctx, FlightHint{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(withoutHint, "appears to be near") {
		t.Error("empty hint should omit the nearest-airport paragraph")
	}
}
