package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

type stubDecoder struct {
	wav []byte
	err error
}

func (d *stubDecoder) ToWAV(ctx context.Context, data []byte) ([]byte, error) {
	return d.wav, d.err
}

type stubTranscriber struct {
	text string
	err  error
	wav  []byte
}

func (t *stubTranscriber) Transcribe(ctx context.Context, wav []byte, languageTag string) (string, error) {
	t.wav = wav
	return t.text, t.err
}

type stubSynthesizer struct {
	audio []byte
	err   error
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text, languageTag string) ([]byte, error) {
	return s.audio, s.err
}

func TestTranscribeClip_Success(t *testing.T) {
	// Arrange
	dec := &stubDecoder{wav: []byte("RIFFwav")}
	tr := &stubTranscriber{text: "fever and headache"}
	p := NewPipeline(dec, tr, &stubSynthesizer{}, time.Second, zap.NewNop())

	// Act
	got, err := p.TranscribeClip(context.Background(), &domain.VoiceClip{Data: []byte("ogg")}, "en-US")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "fever and headache" {
		t.Errorf("unexpected transcript: %q", got)
	}
	if string(tr.wav) != "RIFFwav" {
		t.Errorf("transcriber received wrong audio: %q", tr.wav)
	}
}

func TestTranscribeClip_DecodeFailure(t *testing.T) {
	dec := &stubDecoder{err: domain.ErrDecodeFailed}
	p := NewPipeline(dec, &stubTranscriber{}, &stubSynthesizer{}, time.Second, zap.NewNop())

	_, err := p.TranscribeClip(context.Background(), &domain.VoiceClip{Data: []byte("bad")}, "hi-IN")
	if !errors.Is(err, domain.ErrDecodeFailed) {
		t.Fatalf("expected ErrDecodeFailed, got %v", err)
	}
}

func TestTranscribeClip_Unintelligible(t *testing.T) {
	dec := &stubDecoder{wav: []byte("RIFFwav")}
	tr := &stubTranscriber{err: domain.ErrUnintelligible}
	p := NewPipeline(dec, tr, &stubSynthesizer{}, time.Second, zap.NewNop())

	_, err := p.TranscribeClip(context.Background(), &domain.VoiceClip{Data: []byte("ogg")}, "mr-IN")
	if !errors.Is(err, domain.ErrUnintelligible) {
		t.Fatalf("expected ErrUnintelligible, got %v", err)
	}
}

func TestSynthesizeReply(t *testing.T) {
	syn := &stubSynthesizer{audio: []byte("mp3data")}
	p := NewPipeline(&stubDecoder{}, &stubTranscriber{}, syn, time.Second, zap.NewNop())

	audio, err := p.SynthesizeReply(context.Background(), "rest and hydrate", "en")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(audio) != "mp3data" {
		t.Errorf("unexpected audio: %q", audio)
	}

	syn.err = domain.ErrUnsupportedLanguage
	if _, err := p.SynthesizeReply(context.Background(), "text", "fr"); !errors.Is(err, domain.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}
