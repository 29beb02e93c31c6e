package rooms

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/openai/openai-go"
	"google.golang.org/genai"

	"github.com/stayconcierge/server/internal/planner/model"
)

// Embedder turns text into vectors. Implementations batch as they see fit.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// GeminiEmbedder embeds via the genai SDK.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbedder(client *genai.Client, embedModel string) *GeminiEmbedder {
	return &GeminiEmbedder{client: client, model: embedModel}
}

func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}
	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}
	out := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vec := make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			vec[j] = float64(v)
		}
		out[i] = vec
	}
	return out, nil
}

// OpenAIEmbedder embeds via the OpenAI SDK. Used as the failover provider.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

func NewOpenAIEmbedder(client *openai.Client, embedModel string) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: embedModel}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}
	out := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// FailoverEmbedder tries the primary and falls back to the secondary on any
// error. Both sides failing returns the secondary's error.
type FailoverEmbedder struct {
	Primary   Embedder
	Secondary Embedder
}

func (e *FailoverEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vecs, err := e.Primary.Embed(ctx, texts)
	if err == nil {
		return vecs, nil
	}
	if e.Secondary == nil {
		return nil, err
	}
	return e.Secondary.Embed(ctx, texts)
}

type indexEntry struct {
	room   Room
	vector []float64
}

// SemanticIndex is an in-memory cosine-similarity index over room
// descriptions. Built once at startup, read-only afterwards.
type SemanticIndex struct {
	embedder Embedder
	entries  []indexEntry

	batchSize int
	batchGap  time.Duration
	sleep     func(context.Context, time.Duration) error
}

func NewSemanticIndex(embedder Embedder, cfg model.EmbeddingConfig) *SemanticIndex {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 2
	}
	return &SemanticIndex{
		embedder:  embedder,
		batchSize: batch,
		batchGap:  time.Duration(cfg.BatchGapMS) * time.Millisecond,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Build embeds all rooms in small batches with a gap between batches, to
// stay under free-tier embedding quotas.
func (ix *SemanticIndex) Build(ctx context.Context, all []Room) error {
	ix.entries = ix.entries[:0]
	for start := 0; start < len(all); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(all) {
			end = len(all)
		}
		batch := all[start:end]

		texts := make([]string, 0, len(batch))
		for _, r := range batch {
			texts = append(texts, embeddingText(r))
		}
		vecs, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("index batch %d: %w", start/ix.batchSize, err)
		}
		for i, r := range batch {
			ix.entries = append(ix.entries, indexEntry{room: r, vector: vecs[i]})
		}

		if end < len(all) {
			if err := ix.sleep(ctx, ix.batchGap); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len reports the number of indexed rooms.
func (ix *SemanticIndex) Len() int {
	return len(ix.entries)
}

// Query embeds the query text and returns up to limit rooms by descending
// cosine similarity, optionally capped by price.
func (ix *SemanticIndex) Query(ctx context.Context, text string, maxPrice float64, limit int) ([]model.RoomListing, error) {
	if len(ix.entries) == 0 {
		return nil, nil
	}
	vecs, err := ix.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("query embed: %w", err)
	}
	q := vecs[0]

	type scored struct {
		room  Room
		score float64
	}
	candidates := make([]scored, 0, len(ix.entries))
	for _, e := range ix.entries {
		if maxPrice > 0 && e.room.Price > maxPrice {
			continue
		}
		candidates = append(candidates, scored{room: e.room, score: cosine(q, e.vector)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit <= 0 || limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]model.RoomListing, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, toListing(c.room))
	}
	return out, nil
}

func embeddingText(r Room) string {
	return fmt.Sprintf("%s. %s. %s, %s. %s", r.Title, r.Description, r.City, r.Country, r.Category)
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
