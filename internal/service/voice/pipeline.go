package voice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
	"github.com/seu-repo/arogya-bot/internal/ports"
)

// Decoder transcodes a compressed voice clip to 16 kHz mono WAV.
type Decoder interface {
	ToWAV(ctx context.Context, data []byte) ([]byte, error)
}

// Pipeline chains decode, recognition and synthesis behind the
// ports.VoicePipeline interface. Each stage gets its own deadline so a stuck
// ffmpeg or speech endpoint cannot hold a chat worker indefinitely.
type Pipeline struct {
	decoder     Decoder
	transcriber ports.Transcriber
	synthesizer ports.Synthesizer
	timeout     time.Duration
	log         *zap.Logger
}

func NewPipeline(decoder Decoder, t ports.Transcriber, s ports.Synthesizer, timeout time.Duration, log *zap.Logger) *Pipeline {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pipeline{
		decoder:     decoder,
		transcriber: t,
		synthesizer: s,
		timeout:     timeout,
		log:         log,
	}
}

// TranscribeClip decodes the clip and sends the WAV for recognition in the
// given speech language. Decode failures and recognition failures surface as
// their respective domain sentinel errors.
func (p *Pipeline) TranscribeClip(ctx context.Context, clip *domain.VoiceClip, speechTag string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	wav, err := p.decoder.ToWAV(ctx, clip.Data)
	if err != nil {
		p.log.Error("Voice clip decode failed", zap.Error(err))
		return "", err
	}

	transcript, err := p.transcriber.Transcribe(ctx, wav, speechTag)
	if err != nil {
		if errors.Is(err, domain.ErrUnintelligible) {
			p.log.Info("Voice clip unintelligible", zap.String("lang", speechTag))
		} else {
			p.log.Error("Transcription failed", zap.Error(err))
		}
		return "", err
	}
	return transcript, nil
}

// SynthesizeReply converts text to spoken audio in the given voice language.
func (p *Pipeline) SynthesizeReply(ctx context.Context, text, voiceTag string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	audio, err := p.synthesizer.Synthesize(ctx, text, voiceTag)
	if err != nil {
		p.log.Warn("Voice synthesis failed", zap.String("lang", voiceTag), zap.Error(err))
		return nil, err
	}
	return audio, nil
}
