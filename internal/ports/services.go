package ports

import (
	"context"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

// AdviceClient generates health guidance for a set of symptoms. It must never
// return an empty string: on any provider error or empty response it returns
// the fixed local fallback text for the requested language.
type AdviceClient interface {
	GetAdvice(ctx context.Context, symptoms, languageName string) string
}

// Transcriber converts uncompressed WAV audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte, languageTag string) (string, error)
}

// Synthesizer converts text to playback-ready audio (MP3).
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageTag string) ([]byte, error)
}

// VoicePipeline bridges compressed chat-platform clips to the recognizer and
// advice text to a spoken reply. Both operations are slow (decode + network
// round-trip) and run off the dispatch path.
type VoicePipeline interface {
	TranscribeClip(ctx context.Context, clip *domain.VoiceClip, speechTag string) (string, error)
	SynthesizeReply(ctx context.Context, text, voiceTag string) ([]byte, error)
}

// Button is one selectable option attached to an outbound message.
type Button struct {
	Label string
	Data  string
}

// Messenger is the outbound half of the chat transport. The conversation
// service never talks to the platform API directly.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMarkdown(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, buttons []Button) error
	SendVoice(ctx context.Context, chatID int64, audio []byte, caption string) (err error)
	// SendStatus sends a progress message and returns its ID so it can be
	// edited in place as the step advances.
	SendStatus(ctx context.Context, chatID int64, text string) (messageID int, err error)
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
}

// Notifier delivers out-of-band notifications about completed consultations
// (clinician email). Best effort; failures are logged, never surfaced.
type Notifier interface {
	ConsultationCompleted(ctx context.Context, rec *domain.ConsultationRecord) error
}
