// Package providertest provides scripted chat model fakes for tests.
package providertest

import (
	"context"
	"errors"
	"sync"

	chatmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Reply is one scripted model response. Err takes precedence over Content;
// when both Err and Chunks are set, Stream emits the chunks first and then
// fails, which models a connection dropping mid-stream.
type Reply struct {
	Content string
	Chunks  []string // used by Stream; falls back to Content as one chunk
	Err     error
}

// ScriptedModel replays a fixed sequence of replies, one per call, in order.
// Calls past the end of the script return an error.
type ScriptedModel struct {
	mu      sync.Mutex
	script  []Reply
	pos     int
	History [][]*schema.Message // inputs of every call, for assertions
}

func NewScriptedModel(script ...Reply) *ScriptedModel {
	return &ScriptedModel{script: script}
}

func (m *ScriptedModel) next(in []*schema.Message) (Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.History = append(m.History, in)
	if m.pos >= len(m.script) {
		return Reply{}, errors.New("scripted model: script exhausted")
	}
	r := m.script[m.pos]
	m.pos++
	return r, nil
}

// Calls reports how many times the model was invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.History)
}

func (m *ScriptedModel) Generate(_ context.Context, in []*schema.Message, _ ...chatmodel.Option) (*schema.Message, error) {
	r, err := m.next(in)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return schema.AssistantMessage(r.Content, nil), nil
}

func (m *ScriptedModel) Stream(_ context.Context, in []*schema.Message, _ ...chatmodel.Option) (*schema.StreamReader[*schema.Message], error) {
	r, err := m.next(in)
	if err != nil {
		return nil, err
	}
	if r.Err != nil && len(r.Chunks) == 0 {
		return nil, r.Err
	}

	chunks := r.Chunks
	if len(chunks) == 0 {
		chunks = []string{r.Content}
	}
	sr, sw := schema.Pipe[*schema.Message](len(chunks) + 1)
	go func() {
		defer sw.Close()
		for _, c := range chunks {
			if closed := sw.Send(schema.AssistantMessage(c, nil), nil); closed {
				return
			}
		}
		if r.Err != nil {
			sw.Send(nil, r.Err)
		}
	}()
	return sr, nil
}

var _ chatmodel.BaseChatModel = (*ScriptedModel)(nil)
