package providers

import (
	"context"
	"fmt"
	"strings"

	chatmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Completer wraps a chat model behind the two call shapes the engine needs:
// a blocking completion and a token stream.
type Completer struct {
	chat chatmodel.BaseChatModel
}

func NewCompleter(chat chatmodel.BaseChatModel) *Completer {
	return &Completer{chat: chat}
}

// Complete runs one blocking generation over a system prompt plus prior
// turns and returns the trimmed text content.
func (c *Completer) Complete(ctx context.Context, system string, history []*schema.Message, user string) (string, error) {
	msg, err := c.chat.Generate(ctx, buildMessages(system, history, user))
	if err != nil {
		return "", fmt.Errorf("chat generate: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("chat generate: nil message")
	}
	return strings.TrimSpace(msg.Content), nil
}

// Stream starts a streamed generation. The caller owns the reader and must
// Close it.
func (c *Completer) Stream(ctx context.Context, system string, history []*schema.Message, user string) (*schema.StreamReader[*schema.Message], error) {
	sr, err := c.chat.Stream(ctx, buildMessages(system, history, user))
	if err != nil {
		return nil, fmt.Errorf("chat stream: %w", err)
	}
	return sr, nil
}

func buildMessages(system string, history []*schema.Message, user string) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, schema.SystemMessage(system))
	}
	msgs = append(msgs, history...)
	if user != "" {
		msgs = append(msgs, schema.UserMessage(user))
	}
	return msgs
}
