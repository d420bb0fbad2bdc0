package gtts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
	"github.com/seu-repo/arogya-bot/internal/infrastructure/circuitbreaker"
)

const (
	ttsURL = "https://translate.google.com/translate_tts"
	// The endpoint rejects long q parameters; text is split on word
	// boundaries into chunks below this rune count and the MP3 segments are
	// concatenated (MPEG frames are self-delimiting).
	maxChunkRunes = 200
)

// supported mirrors the voice-language tags of the intake flow.
var supported = map[string]bool{"en": true, "hi": true, "mr": true}

// Synthesizer produces MP3 speech via the Google Translate TTS endpoint.
type Synthesizer struct {
	client *circuitbreaker.HTTPClient
	log    *zap.Logger
}

func NewSynthesizer(client *circuitbreaker.HTTPClient, log *zap.Logger) *Synthesizer {
	return &Synthesizer{client: client, log: log}
}

// Synthesize converts text to spoken MP3 audio in the given language.
func (s *Synthesizer) Synthesize(ctx context.Context, text, languageTag string) ([]byte, error) {
	if !supported[languageTag] {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedLanguage, languageTag)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrUnsupportedLanguage)
	}

	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		part, err := s.fetchChunk(ctx, chunk, languageTag)
		if err != nil {
			return nil, err
		}
		audio = append(audio, part...)
	}

	s.log.Info("Voice reply synthesized",
		zap.String("lang", languageTag),
		zap.Int("bytes", len(audio)),
	)
	return audio, nil
}

func (s *Synthesizer) fetchChunk(ctx context.Context, text, languageTag string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", languageTag)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ttsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrSpeechUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("TTS request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrSpeechUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSpeechUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// splitChunks breaks text on whitespace into pieces of at most max runes.
// A single over-long word is emitted as its own chunk rather than split.
func splitChunks(text string, max int) []string {
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}
	var chunks []string
	var b strings.Builder
	count := 0
	for _, word := range strings.Fields(text) {
		wlen := utf8.RuneCountInString(word)
		if count > 0 && count+wlen+1 > max {
			chunks = append(chunks, b.String())
			b.Reset()
			count = 0
		}
		if count > 0 {
			b.WriteByte(' ')
			count++
		}
		b.WriteString(word)
		count += wlen
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
