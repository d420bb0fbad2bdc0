package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
	"github.com/seu-repo/arogya-bot/internal/mocks"
)

type fixture struct {
	svc      *Service
	sessions *SessionStore
	advice   *mocks.MockAdviceClient
	voice    *mocks.MockVoicePipeline
	repo     *mocks.MockConsultationRepository
	msgr     *mocks.MockMessenger
	notifier *mocks.MockNotifier
	mq       *mocks.MockQueue
}

func newFixture() *fixture {
	f := &fixture{
		sessions: NewSessionStore(),
		advice:   &mocks.MockAdviceClient{},
		voice:    &mocks.MockVoicePipeline{},
		repo:     &mocks.MockConsultationRepository{},
		msgr:     &mocks.MockMessenger{},
		notifier: &mocks.MockNotifier{},
		mq:       &mocks.MockQueue{},
	}
	f.svc = NewService(f.sessions, f.advice, f.voice, f.repo, f.msgr, f.notifier, f.mq, zap.NewNop())
	return f
}

const (
	chatID = int64(42)
	userID = int64(9)
)

// driveToSymptoms walks a session through language, name, age, phone and
// gender so individual tests can focus on the terminal step.
func (f *fixture) driveToSymptoms(t *testing.T, ctx context.Context) {
	t.Helper()
	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "en")
	f.svc.HandleText(ctx, chatID, "Anna Lee")
	f.svc.HandleText(ctx, chatID, "34")
	f.svc.HandleText(ctx, chatID, "+919876543210")
	f.svc.HandleSelection(ctx, chatID, 2, "female")

	sess := f.sessions.Get(chatID)
	if sess == nil || sess.State != domain.StateAwaitingSymptoms {
		t.Fatalf("setup failed: session not in AwaitingSymptoms: %+v", sess)
	}
}

func TestStart_PresentsLanguageButtons(t *testing.T) {
	f := newFixture()
	f.svc.Start(context.Background(), chatID, userID, "anna_l")

	sess := f.sessions.Get(chatID)
	if sess == nil || sess.State != domain.StateAwaitingLanguage {
		t.Fatalf("expected session in AwaitingLanguage, got %+v", sess)
	}

	msg, err := f.msgr.LastOfKind("buttons")
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.Buttons) != 3 {
		t.Fatalf("expected 3 language buttons, got %d", len(msg.Buttons))
	}
	if msg.Buttons[1].Data != "hi" || msg.Buttons[1].Label != "हिंदी (Hindi)" {
		t.Errorf("unexpected second button: %+v", msg.Buttons[1])
	}
}

func TestStart_ResetsInProgressSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "hi")
	f.svc.HandleText(ctx, chatID, "Anna Lee")

	// Restart mid-flow: everything collected so far is discarded.
	f.svc.Start(ctx, chatID, userID, "anna_l")

	sess := f.sessions.Get(chatID)
	if sess.State != domain.StateAwaitingLanguage {
		t.Errorf("expected AwaitingLanguage after restart, got %s", sess.State)
	}
	if sess.Name != "" || sess.Language != nil {
		t.Errorf("expected cleared fields after restart, got name=%q lang=%v", sess.Name, sess.Language)
	}
}

func TestHappyPath_TextConsultation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.advice.GetAdviceFunc = func(ctx context.Context, symptoms, languageName string) string {
		if symptoms != "fever and headache since yesterday" {
			t.Errorf("advice called with wrong symptoms: %q", symptoms)
		}
		if languageName != "English" {
			t.Errorf("advice called with wrong language: %q", languageName)
		}
		return "Rest and hydrate."
	}
	f.voice.SynthesizeReplyFunc = func(ctx context.Context, text, voiceTag string) ([]byte, error) {
		return []byte("mp3"), nil
	}

	f.driveToSymptoms(t, ctx)
	f.svc.HandleText(ctx, chatID, "fever and headache since yesterday")

	if len(f.repo.Appended) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(f.repo.Appended))
	}
	rec := f.repo.Appended[0]
	if rec.Name != "Anna Lee" || rec.Age != 34 || rec.Phone != "+919876543210" {
		t.Errorf("record fields wrong: %+v", rec)
	}
	if rec.Gender != "Female" || rec.Language != "English" {
		t.Errorf("record gender/language wrong: %+v", rec)
	}
	if rec.Advice != "Rest and hydrate." {
		t.Errorf("record advice wrong: %q", rec.Advice)
	}
	if rec.ID == "" {
		t.Error("record must carry a generated id")
	}

	if _, err := f.msgr.LastOfKind("voice"); err != nil {
		t.Error("expected a voice reply to be sent")
	}

	if f.sessions.Get(chatID) != nil {
		t.Error("session must be cleared after completion")
	}
	if len(f.notifier.Notified) != 1 {
		t.Errorf("expected 1 notification, got %d", len(f.notifier.Notified))
	}
	if len(f.mq.Published["consultation.completed"]) != 1 {
		t.Errorf("expected 1 published event, got %d", len(f.mq.Published["consultation.completed"]))
	}

	texts := f.msgr.Texts()
	last := texts[len(texts)-1]
	if !strings.Contains(last, "Consultation completed") {
		t.Errorf("final message should confirm completion, got %q", last)
	}
}

func TestInvalidInput_RepromptsWithoutMutation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "en")

	cases := []struct {
		state domain.State
		input string
		valid string
	}{
		{domain.StateAwaitingName, "A", "Anna Lee"},
		{domain.StateAwaitingAge, "150", "34"},
		{domain.StateAwaitingPhone, "12345", "9876543210"},
	}

	for _, tc := range cases {
		sess := f.sessions.Get(chatID)
		if sess.State != tc.state {
			t.Fatalf("expected state %s, got %s", tc.state, sess.State)
		}

		f.svc.HandleText(ctx, chatID, tc.input)
		if got := f.sessions.Get(chatID).State; got != tc.state {
			t.Errorf("invalid input %q advanced state to %s", tc.input, got)
		}

		f.svc.HandleText(ctx, chatID, tc.valid)
	}

	sess := f.sessions.Get(chatID)
	if sess.Name != "Anna Lee" || sess.Age != 34 || sess.Phone != "9876543210" {
		t.Errorf("valid inputs not stored: %+v", sess)
	}
}

func TestAgeBoundaries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "en")
	f.svc.HandleText(ctx, chatID, "Anna Lee")

	for _, bad := range []string{"0", "121", "-3", "abc"} {
		f.svc.HandleText(ctx, chatID, bad)
		if got := f.sessions.Get(chatID).State; got != domain.StateAwaitingAge {
			t.Errorf("age %q advanced state to %s", bad, got)
		}
	}

	f.svc.HandleText(ctx, chatID, "120")
	if got := f.sessions.Get(chatID).State; got != domain.StateAwaitingPhone {
		t.Errorf("age 120 should be accepted, state %s", got)
	}
}

func TestUnknownLanguageSelection_Ignored(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "fr")

	sess := f.sessions.Get(chatID)
	if sess.State != domain.StateAwaitingLanguage || sess.Language != nil {
		t.Errorf("unknown language must not advance: %+v", sess)
	}
}

func TestGenderSelection_CaseInsensitive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "en")
	f.svc.HandleText(ctx, chatID, "Anna Lee")
	f.svc.HandleText(ctx, chatID, "34")
	f.svc.HandleText(ctx, chatID, "+919876543210")

	// Forged or re-cased callback data must still resolve a real label.
	f.svc.HandleSelection(ctx, chatID, 2, "MALE")

	sess := f.sessions.Get(chatID)
	if sess.State != domain.StateAwaitingSymptoms {
		t.Fatalf("expected AwaitingSymptoms after gender selection, got %s", sess.State)
	}
	if sess.Gender != "Male" {
		t.Errorf("expected gender label %q, got %q", "Male", sess.Gender)
	}
}

func TestTextWithoutSession_Ignored(t *testing.T) {
	f := newFixture()
	f.svc.HandleText(context.Background(), chatID, "hello")

	if len(f.msgr.Sent) != 0 {
		t.Errorf("expected no reply without a session, got %d messages", len(f.msgr.Sent))
	}
}

func TestCancel_ClearsSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "hi")
	f.svc.Cancel(ctx, chatID)

	if f.sessions.Get(chatID) != nil {
		t.Error("session must be cleared on cancel")
	}
	msg, err := f.msgr.LastOfKind("text")
	if err != nil {
		t.Fatal(err)
	}
	// Cancelled in the session's language.
	if !strings.Contains(msg.Text, "रद्द") {
		t.Errorf("expected Hindi cancellation, got %q", msg.Text)
	}
	if len(f.repo.Appended) != 0 {
		t.Error("cancel must not persist anything")
	}
}

func TestVoice_HappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.voice.TranscribeClipFunc = func(ctx context.Context, clip *domain.VoiceClip, speechTag string) (string, error) {
		if speechTag != "en-US" {
			t.Errorf("wrong speech tag: %q", speechTag)
		}
		return "fever and headache", nil
	}

	f.driveToSymptoms(t, ctx)
	f.svc.HandleVoice(ctx, chatID, &domain.VoiceClip{Data: []byte("ogg")})

	if len(f.repo.Appended) != 1 {
		t.Fatalf("expected persisted record, got %d", len(f.repo.Appended))
	}
	if f.repo.Appended[0].Symptoms != "fever and headache" {
		t.Errorf("transcript not stored as symptoms: %q", f.repo.Appended[0].Symptoms)
	}
}

func TestVoice_ShortTranscriptStaysInSymptoms(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.voice.TranscribeClipFunc = func(ctx context.Context, clip *domain.VoiceClip, speechTag string) (string, error) {
		return "hm", nil
	}

	f.driveToSymptoms(t, ctx)
	f.svc.HandleVoice(ctx, chatID, &domain.VoiceClip{Data: []byte("ogg")})

	sess := f.sessions.Get(chatID)
	if sess == nil || sess.State != domain.StateAwaitingSymptoms {
		t.Fatalf("short transcript must keep session in AwaitingSymptoms: %+v", sess)
	}
	if len(f.repo.Appended) != 0 {
		t.Error("nothing may be persisted for a failed transcription")
	}

	msg, err := f.msgr.LastOfKind("edit")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg.Text, "Could not understand") {
		t.Errorf("expected transcription failure message, got %q", msg.Text)
	}
}

func TestVoice_PipelineErrorReprompts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.voice.TranscribeClipFunc = func(ctx context.Context, clip *domain.VoiceClip, speechTag string) (string, error) {
		return "", domain.ErrDecodeFailed
	}

	f.driveToSymptoms(t, ctx)
	f.svc.HandleVoice(ctx, chatID, &domain.VoiceClip{Data: []byte("bad")})

	sess := f.sessions.Get(chatID)
	if sess == nil || sess.State != domain.StateAwaitingSymptoms {
		t.Fatalf("pipeline error must keep session in AwaitingSymptoms: %+v", sess)
	}
	msg, err := f.msgr.LastOfKind("edit")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg.Text, "Error processing voice") {
		t.Errorf("expected processing error message, got %q", msg.Text)
	}
}

func TestVoice_IgnoredOutsideSymptomsStep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "en")
	before := len(f.msgr.Sent)

	f.svc.HandleVoice(ctx, chatID, &domain.VoiceClip{Data: []byte("ogg")})

	if len(f.msgr.Sent) != before {
		t.Error("voice outside AwaitingSymptoms must be ignored")
	}
}

func TestFinish_SaveFailureIsSurfaced(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.AppendFunc = func(ctx context.Context, rec *domain.ConsultationRecord) error {
		return errors.New("disk full")
	}

	f.driveToSymptoms(t, ctx)
	f.svc.HandleText(ctx, chatID, "fever and headache")

	msg, err := f.msgr.LastOfKind("text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg.Text, "could not save") {
		t.Errorf("save failure must be surfaced, got %q", msg.Text)
	}
	if f.sessions.Get(chatID) != nil {
		t.Error("session must be cleared even when the save fails")
	}
	if len(f.notifier.Notified) != 0 {
		t.Error("no notification on save failure")
	}
	if len(f.mq.Published["consultation.completed"]) != 0 {
		t.Error("no event on save failure")
	}
}

func TestFinish_SynthesisFailureStillCompletes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.voice.SynthesizeReplyFunc = func(ctx context.Context, text, voiceTag string) ([]byte, error) {
		return nil, domain.ErrSpeechUnavailable
	}

	f.driveToSymptoms(t, ctx)
	f.svc.HandleText(ctx, chatID, "fever and headache")

	if len(f.repo.Appended) != 1 {
		t.Fatalf("synthesis failure must not block persistence, got %d records", len(f.repo.Appended))
	}
	if _, err := f.msgr.LastOfKind("voice"); err == nil {
		t.Error("no voice message should be sent when synthesis fails")
	}
}

func TestLocalizedFlow_Hindi(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.advice.GetAdviceFunc = func(ctx context.Context, symptoms, languageName string) string {
		if languageName != "Hindi" {
			t.Errorf("expected Hindi advice request, got %q", languageName)
		}
		return "आराम करें।"
	}

	f.svc.Start(ctx, chatID, userID, "anna_l")
	f.svc.HandleSelection(ctx, chatID, 1, "hi")

	msg, err := f.msgr.LastOfKind("text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg.Text, "नाम") {
		t.Errorf("name prompt should be in Hindi, got %q", msg.Text)
	}

	f.svc.HandleText(ctx, chatID, "Anna Lee")
	f.svc.HandleText(ctx, chatID, "34")
	f.svc.HandleText(ctx, chatID, "9876543210")
	f.svc.HandleSelection(ctx, chatID, 2, "female")
	f.svc.HandleText(ctx, chatID, "बुखार और सिरदर्द")

	if len(f.repo.Appended) != 1 {
		t.Fatalf("expected persisted record, got %d", len(f.repo.Appended))
	}
	rec := f.repo.Appended[0]
	if rec.Language != "Hindi" || rec.Gender != "महिला" {
		t.Errorf("localized record fields wrong: %+v", rec)
	}
}
