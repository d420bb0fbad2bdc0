package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/seu-repo/arogya-bot/internal/domain"
	"github.com/seu-repo/arogya-bot/internal/ports"
)

// MockAdviceClient is a mock implementation of AdviceClient
type MockAdviceClient struct {
	GetAdviceFunc func(ctx context.Context, symptoms, languageName string) string
}

func (m *MockAdviceClient) GetAdvice(ctx context.Context, symptoms, languageName string) string {
	if m.GetAdviceFunc != nil {
		return m.GetAdviceFunc(ctx, symptoms, languageName)
	}
	return "Rest, hydrate and consult a doctor if symptoms persist."
}

// MockVoicePipeline is a mock implementation of VoicePipeline
type MockVoicePipeline struct {
	TranscribeClipFunc  func(ctx context.Context, clip *domain.VoiceClip, speechTag string) (string, error)
	SynthesizeReplyFunc func(ctx context.Context, text, voiceTag string) ([]byte, error)
}

func (m *MockVoicePipeline) TranscribeClip(ctx context.Context, clip *domain.VoiceClip, speechTag string) (string, error) {
	if m.TranscribeClipFunc != nil {
		return m.TranscribeClipFunc(ctx, clip, speechTag)
	}
	return "", nil
}

func (m *MockVoicePipeline) SynthesizeReply(ctx context.Context, text, voiceTag string) ([]byte, error) {
	if m.SynthesizeReplyFunc != nil {
		return m.SynthesizeReplyFunc(ctx, text, voiceTag)
	}
	return nil, nil
}

// SentMessage records one outbound message for assertions.
type SentMessage struct {
	Kind      string // "text", "markdown", "buttons", "voice", "status", "edit"
	ChatID    int64
	MessageID int
	Text      string
	Buttons   []ports.Button
	Audio     []byte
}

// MockMessenger is a mock implementation of Messenger that records every
// outbound message in order.
type MockMessenger struct {
	mu   sync.Mutex
	Sent []SentMessage

	SendTextErr   error
	SendVoiceErr  error
	EditTextErr   error
	SendStatusErr error

	nextMessageID int
}

func (m *MockMessenger) record(msg SentMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
}

func (m *MockMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	if m.SendTextErr != nil {
		return m.SendTextErr
	}
	m.record(SentMessage{Kind: "text", ChatID: chatID, Text: text})
	return nil
}

func (m *MockMessenger) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	m.record(SentMessage{Kind: "markdown", ChatID: chatID, Text: text})
	return nil
}

func (m *MockMessenger) SendButtons(ctx context.Context, chatID int64, text string, buttons []ports.Button) error {
	m.record(SentMessage{Kind: "buttons", ChatID: chatID, Text: text, Buttons: buttons})
	return nil
}

func (m *MockMessenger) SendVoice(ctx context.Context, chatID int64, audio []byte, caption string) error {
	if m.SendVoiceErr != nil {
		return m.SendVoiceErr
	}
	m.record(SentMessage{Kind: "voice", ChatID: chatID, Text: caption, Audio: audio})
	return nil
}

func (m *MockMessenger) SendStatus(ctx context.Context, chatID int64, text string) (int, error) {
	if m.SendStatusErr != nil {
		return 0, m.SendStatusErr
	}
	m.mu.Lock()
	m.nextMessageID++
	id := m.nextMessageID
	m.mu.Unlock()
	m.record(SentMessage{Kind: "status", ChatID: chatID, MessageID: id, Text: text})
	return id, nil
}

func (m *MockMessenger) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	if m.EditTextErr != nil {
		return m.EditTextErr
	}
	m.record(SentMessage{Kind: "edit", ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

// Texts returns every recorded message text in send order.
func (m *MockMessenger) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Sent))
	for _, msg := range m.Sent {
		out = append(out, msg.Text)
	}
	return out
}

// LastOfKind returns the most recent message of the given kind.
func (m *MockMessenger) LastOfKind(kind string) (SentMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].Kind == kind {
			return m.Sent[i], nil
		}
	}
	return SentMessage{}, fmt.Errorf("no %q message recorded", kind)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	ConsultationCompletedFunc func(ctx context.Context, rec *domain.ConsultationRecord) error

	Notified []*domain.ConsultationRecord
}

func (m *MockNotifier) ConsultationCompleted(ctx context.Context, rec *domain.ConsultationRecord) error {
	m.Notified = append(m.Notified, rec)
	if m.ConsultationCompletedFunc != nil {
		return m.ConsultationCompletedFunc(ctx, rec)
	}
	return nil
}

// MockQueue records published events.
type MockQueue struct {
	mu        sync.Mutex
	Published map[string][][]byte
}

func (m *MockQueue) Publish(subject string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Published == nil {
		m.Published = make(map[string][][]byte)
	}
	m.Published[subject] = append(m.Published[subject], data)
	return nil
}

func (m *MockQueue) Subscribe(subject string, handler func(data []byte) error) error { return nil }
func (m *MockQueue) Close() error                                                    { return nil }
