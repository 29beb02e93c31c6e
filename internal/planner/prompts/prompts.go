package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

//go:embed template/greeting_prompt.txt
var greetingSystemPrompt string

//go:embed template/concierge_prompt.txt
var conciergeSystemPrompt string

//go:embed template/flight_prompt.txt
var flightSystemPrompt string

//go:embed template/composer_prompt.txt
var composerSystemPrompt string

// RenderIntentSystem renders the intent classifier system prompt via the
// Eino prompt component. This triggers Prompt callbacks and returns the
// final system prompt string.
func RenderIntentSystem(ctx context.Context) (string, error) {
	return renderStatic(ctx, "intent", intentSystemPrompt)
}

// RenderGreetingSystem renders the greeting branch system prompt.
func RenderGreetingSystem(ctx context.Context) (string, error) {
	return renderStatic(ctx, "greeting", greetingSystemPrompt)
}

// RenderSearchSystem renders the concierge answer prompt, optionally
// grounded with room inventory context.
func RenderSearchSystem(ctx context.Context, roomContext string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(conciergeSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"RoomContext": roomContext,
	})
	if err != nil {
		return "", fmt.Errorf("concierge prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("concierge prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// FlightHint carries the geo lookup result injected into the flight prompt.
type FlightHint struct {
	NearestAirport     string
	NearestAirportCity string
}

// RenderFlightSystem renders the flight branch system prompt, optionally
// seeded with the traveler's nearest airport.
func RenderFlightSystem(ctx context.Context, hint FlightHint) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(flightSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"NearestAirport":     hint.NearestAirport,
		"NearestAirportCity": hint.NearestAirportCity,
	})
	if err != nil {
		return "", fmt.Errorf("flight prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("flight prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderComposerSystem renders the final answer composer system prompt.
func RenderComposerSystem(ctx context.Context) (string, error) {
	return renderStatic(ctx, "composer", composerSystemPrompt)
}

// renderStatic wraps a static template through the Eino prompt component
// using a messages placeholder, so prompt callbacks still fire.
func renderStatic(ctx context.Context, name, content string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("%s prompt callbacks: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%s prompt callbacks: empty result", name)
	}
	return msgs[0].Content, nil
}
