package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (s *stubGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{Text: s.text}},
			},
		}},
	}, nil
}

type mapCache struct {
	data map[string]string
}

func (c *mapCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.data[key] = value.(string)
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *mapCache) Ping() error  { return nil }
func (c *mapCache) Close() error { return nil }

func newTestClient(gen generator, cache *mapCache) *Client {
	c := &Client{
		gen:  gen,
		opts: Options{Model: "gemini-2.5-flash", Timeout: time.Second},
		ttl:  time.Minute,
		log:  zap.NewNop(),
	}
	if cache != nil {
		c.cache = cache
	}
	return c
}

func TestGetAdvice_ReturnsModelText(t *testing.T) {
	gen := &stubGenerator{text: "  Rest and drink fluids.  "}
	c := newTestClient(gen, nil)

	got := c.GetAdvice(context.Background(), "fever", "English")
	if got != "Rest and drink fluids." {
		t.Errorf("unexpected advice: %q", got)
	}
}

func TestGetAdvice_FallbackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	c := newTestClient(gen, nil)

	for lang, marker := range map[string]string{
		"English": "general health recommendations",
		"Hindi":   "सामान्य स्वास्थ्य सुझाव",
		"Marathi": "सामान्य आरोग्य सूचना",
	} {
		got := c.GetAdvice(context.Background(), "fever", lang)
		if got == "" {
			t.Fatalf("%s: advice must never be empty", lang)
		}
		if !strings.Contains(got, marker) {
			t.Errorf("%s: fallback text missing marker %q", lang, marker)
		}
	}
}

func TestGetAdvice_FallbackOnEmptyResponse(t *testing.T) {
	gen := &stubGenerator{text: "   "}
	c := newTestClient(gen, nil)

	got := c.GetAdvice(context.Background(), "cough", "English")
	if got != fallbacks["English"] {
		t.Errorf("expected English fallback, got %q", got)
	}
}

func TestGetAdvice_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	c := newTestClient(gen, nil)

	got := c.GetAdvice(context.Background(), "cough", "French")
	if got != fallbacks["English"] {
		t.Errorf("expected English fallback for unknown language, got %q", got)
	}
}

func TestGetAdvice_CacheHitSkipsProvider(t *testing.T) {
	gen := &stubGenerator{text: "Take paracetamol if needed."}
	cache := &mapCache{data: map[string]string{}}
	c := newTestClient(gen, cache)

	first := c.GetAdvice(context.Background(), "headache", "English")
	second := c.GetAdvice(context.Background(), "headache", "English")

	if first != second {
		t.Errorf("cache returned different advice: %q vs %q", first, second)
	}
	if gen.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", gen.calls)
	}
}
