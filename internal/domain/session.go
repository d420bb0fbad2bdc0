package domain

import "time"

// State identifies the step of the intake conversation a session is in.
type State int

const (
	StateAwaitingLanguage State = iota
	StateAwaitingName
	StateAwaitingAge
	StateAwaitingPhone
	StateAwaitingGender
	StateAwaitingSymptoms
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateAwaitingLanguage:
		return "awaiting_language"
	case StateAwaitingName:
		return "awaiting_name"
	case StateAwaitingAge:
		return "awaiting_age"
	case StateAwaitingPhone:
		return "awaiting_phone"
	case StateAwaitingGender:
		return "awaiting_gender"
	case StateAwaitingSymptoms:
		return "awaiting_symptoms"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Language is one of the closed set of supported languages.
type Language struct {
	Code        string // "en", "hi", "mr"
	Name        string // display name: "English", "Hindi", "Marathi"
	SpeechTag   string // BCP-47 tag for speech recognition: "en-US", "hi-IN", "mr-IN"
	VoiceTag    string // tag for text-to-speech: "en", "hi", "mr"
	NativeLabel string // button label in the language itself
}

// Session holds the transient per-conversation state. It is created on
// /start, mutated only by the conversation service as steps validate, and
// dropped on cancel or after the terminal step persists a record. It is not
// durable; a process restart loses in-flight sessions and the user starts
// over.
type Session struct {
	ChatID      int64
	UserID      int64
	DisplayName string
	State       State
	Language    *Language
	Name        string
	Age         int
	Phone       string
	Gender      string
	Symptoms    string
	Advice      string
	StartedAt   time.Time
}

// LanguageCode returns the session's language code, defaulting to English
// before a language has been chosen (used for error messages mid-selection).
func (s *Session) LanguageCode() string {
	if s.Language == nil {
		return "en"
	}
	return s.Language.Code
}
