package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/seu-repo/arogya-bot/internal/observability/telemetry"
	"github.com/seu-repo/arogya-bot/internal/ports"
)

// generator is the slice of the genai SDK the client uses; *genai.Models
// satisfies it, tests substitute a stub.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options tune the generation request.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	TopP        float32
	Timeout     time.Duration
}

// Client generates health guidance through the Gemini API. GetAdvice never
// returns an empty string: any provider failure yields the fixed fallback
// text for the requested language, so the conversation always has something
// to show the user.
type Client struct {
	gen   generator
	opts  Options
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewClient dials the Gemini API. cache may be nil; when set, identical
// symptom and language pairs are served from it for ttl.
func NewClient(ctx context.Context, apiKey string, opts Options, cache ports.Cache, ttl time.Duration, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		gen:   client.Models,
		opts:  opts,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}, nil
}

// GetAdvice returns guidance for the symptoms in the named language
// ("English", "Hindi" or "Marathi").
func (c *Client) GetAdvice(ctx context.Context, symptoms, languageName string) string {
	key := cacheKey(symptoms, languageName)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil && cached != "" {
			c.log.Debug("Advice served from cache", zap.String("language", languageName))
			return cached
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.opts.Temperature),
		MaxOutputTokens: c.opts.MaxTokens,
		TopP:            genai.Ptr(c.opts.TopP),
	}

	c.log.Info("Requesting health advice", zap.String("language", languageName))

	resp, err := c.gen.GenerateContent(ctx, c.opts.Model, genai.Text(prompt(symptoms, languageName)), cfg)
	if err != nil {
		c.log.Error("Gemini request failed", zap.Error(err))
		telemetry.AdviceFallbacksTotal.Inc()
		return fallbackAdvice(languageName)
	}

	advice := strings.TrimSpace(resp.Text())
	if advice == "" {
		c.log.Warn("Empty response from Gemini")
		telemetry.AdviceFallbacksTotal.Inc()
		return fallbackAdvice(languageName)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, advice, c.ttl); err != nil {
			c.log.Warn("Failed to cache advice", zap.Error(err))
		}
	}
	return advice
}

func cacheKey(symptoms, languageName string) string {
	sum := sha256.Sum256([]byte(symptoms + "|" + languageName))
	return "advice:" + hex.EncodeToString(sum[:])
}

func prompt(symptoms, languageName string) string {
	return fmt.Sprintf(`You are a helpful medical assistant providing general health guidance.

IMPORTANT GUIDELINES:
- Provide general health advice only, not medical diagnosis
- Always recommend consulting a qualified doctor for serious concerns
- Be supportive and helpful while maintaining medical responsibility
- Keep response concise but informative (under 300 words)
- Respond in %s language

USER SYMPTOMS: %s

Please provide safe, general health advice and recommendations for these symptoms. Include when to seek professional medical care. Remember to emphasize that this is general guidance only and not a medical diagnosis.

Respond in %s.`, languageName, symptoms, languageName)
}

var fallbacks = map[string]string{
	"English": "I'm sorry, I'm currently unable to provide specific advice for your symptoms. " +
		"Here are some general health recommendations:\n\n" +
		"• Stay hydrated and get adequate rest\n" +
		"• Monitor your symptoms closely\n" +
		"• Consider consulting a healthcare professional if symptoms persist or worsen\n" +
		"• Seek immediate medical attention for severe or emergency symptoms\n\n" +
		"Please consult with a qualified doctor for proper medical evaluation and treatment.",
	"Hindi": "मुझे खुशी है कि आपने संपर्क किया। फिलहाल मैं आपके लक्षणों के लिए विशिष्ट सलाह नहीं दे पा रहा हूं। " +
		"यहां कुछ सामान्य स्वास्थ्य सुझाव हैं:\n\n" +
		"• पर्याप्त पानी पिएं और आराम करें\n" +
		"• अपने लक्षणों पर ध्यान रखें\n" +
		"• यदि लक्षण बने रहें या बढ़ें तो डॉक्टर से सलाह लें\n" +
		"• गंभीर लक्षणों के लिए तुरंत चिकित्सा सहायता लें\n\n" +
		"कृपया उचित चिकित्सा मूल्यांकन के लिए किसी योग्य डॉक्टर से सलाह लें।",
	"Marathi": "मला खुशी आहे की तुम्ही संपर्क केला। सध्या मी तुमच्या लक्षणांसाठी विशिष्ट सल्ला देऊ शकत नाही। " +
		"येथे काही सामान्य आरोग्य सूचना आहेत:\n\n" +
		"• पुरेसे पाणी प्या आणि आराम करा\n" +
		"• तुमच्या लक्षणांवर लक्ष ठेवा\n" +
		"• लक्षणे कायम राहिल्यास किंवा वाढल्यास डॉक्टरांचा सल्ला घ्या\n" +
		"• गंभीर लक्षणांसाठी तात्काळ वैद्यकीय मदत घ्या\n\n" +
		"कृपया योग्य वैद्यकीय तपासणीसाठी पात्र डॉक्टरांचा सल्ला घ्या।",
}

func fallbackAdvice(languageName string) string {
	if text, ok := fallbacks[languageName]; ok {
		return text
	}
	return fallbacks["English"]
}
