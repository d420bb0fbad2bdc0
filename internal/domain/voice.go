package domain

import "errors"

// Voice pipeline failure modes. Decode failures are distinguished from
// recognition failures in logs; callers treat both as "transcription failed".
var (
	ErrUnintelligible      = errors.New("voice: audio not intelligible")
	ErrSpeechUnavailable   = errors.New("voice: speech service unavailable")
	ErrDecodeFailed        = errors.New("voice: audio decode failed")
	ErrUnsupportedLanguage = errors.New("voice: unsupported language")
)

// VoiceClip is a user-supplied voice message pending transcription. The raw
// bytes live only for the duration of one pipeline call.
type VoiceClip struct {
	Data     []byte
	MimeType string
}
