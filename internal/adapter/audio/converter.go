package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

// runner executes the external conversion command; swapped in tests.
type runner func(ctx context.Context, name string, args ...string) error

// Converter transcodes compressed chat-platform clips (OGG/Opus) into the
// 16 kHz mono WAV the recognizer requires, by shelling out to ffmpeg. Every
// temporary file is removed before Convert returns, on every exit path.
type Converter struct {
	ffmpegPath string
	run        runner
	log        *zap.Logger
}

func NewConverter(ffmpegPath string, log *zap.Logger) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Converter{
		ffmpegPath: ffmpegPath,
		run:        runCommand,
		log:        log,
	}
}

// ToWAV converts the compressed clip to WAV bytes. All failures wrap
// domain.ErrDecodeFailed; the underlying cause stays in the log, callers only
// see the generic decode outcome.
func (c *Converter) ToWAV(ctx context.Context, data []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "arogya-voice-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp dir: %v", domain.ErrDecodeFailed, err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			c.log.Warn("Failed to remove temp audio dir", zap.String("dir", tmpDir), zap.Error(err))
		}
	}()

	inPath := filepath.Join(tmpDir, "clip.ogg")
	outPath := filepath.Join(tmpDir, "clip.wav")

	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write clip: %v", domain.ErrDecodeFailed, err)
	}

	if err := c.run(ctx, c.ffmpegPath,
		"-y",
		"-i", inPath,
		"-ar", "16000",
		"-ac", "1",
		"-f", "wav",
		outPath,
	); err != nil {
		c.log.Error("ffmpeg conversion failed", zap.Error(err))
		return nil, fmt.Errorf("%w: ffmpeg: %v", domain.ErrDecodeFailed, err)
	}

	wav, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read wav: %v", domain.ErrDecodeFailed, err)
	}
	return wav, nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %v: %s", name, err, out)
	}
	return nil
}
