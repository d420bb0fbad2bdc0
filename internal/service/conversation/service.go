package conversation

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/adapter/queue"
	"github.com/seu-repo/arogya-bot/internal/domain"
	"github.com/seu-repo/arogya-bot/internal/observability/telemetry"
	"github.com/seu-repo/arogya-bot/internal/ports"
	"github.com/seu-repo/arogya-bot/internal/validator"
)

// minSymptomRunes applies to typed and transcribed symptoms alike; a shorter
// transcript is treated as a validation failure, not a distinct error class.
const minSymptomRunes = 5

// Service drives the intake state machine. Each inbound event is routed by
// the session's current state; a failed validation re-issues the same prompt
// and leaves both state and stored fields untouched. Events for one chat
// arrive sequentially (the transport serializes per chat), while different
// chats progress concurrently.
type Service struct {
	sessions *SessionStore
	advice   ports.AdviceClient
	voice    ports.VoicePipeline
	repo     ports.ConsultationRepository
	msgr     ports.Messenger
	notifier ports.Notifier
	mq       queue.MessageQueue
	log      *zap.Logger
}

func NewService(
	sessions *SessionStore,
	advice ports.AdviceClient,
	voice ports.VoicePipeline,
	repo ports.ConsultationRepository,
	msgr ports.Messenger,
	notifier ports.Notifier,
	mq queue.MessageQueue,
	log *zap.Logger,
) *Service {
	if mq == nil {
		mq = queue.NewNoopQueue()
	}
	return &Service{
		sessions: sessions,
		advice:   advice,
		voice:    voice,
		repo:     repo,
		msgr:     msgr,
		notifier: notifier,
		mq:       mq,
		log:      log,
	}
}

// Start handles /start: resets any prior session for the chat and presents
// the language options. Idempotent regardless of prior session data.
func (s *Service) Start(ctx context.Context, chatID, userID int64, displayName string) {
	s.sessions.Reset(chatID, userID, displayName)
	s.log.Info("Conversation started",
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", userID),
	)

	buttons := make([]ports.Button, 0, len(Languages))
	for _, lang := range Languages {
		buttons = append(buttons, ports.Button{Label: lang.NativeLabel, Data: lang.Code})
	}
	if err := s.msgr.SendButtons(ctx, chatID, welcomeMessage, buttons); err != nil {
		s.log.Error("Failed to send welcome message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// Cancel handles /cancel in any non-terminal state: clears the session and
// ends the flow without persisting anything.
func (s *Service) Cancel(ctx context.Context, chatID int64) {
	langCode := "en"
	if sess := s.sessions.Get(chatID); sess != nil {
		langCode = sess.LanguageCode()
	}
	s.sessions.Delete(chatID)
	s.send(ctx, chatID, msg(langCode, "cancelled"))
}

// Help handles /help at any time without altering state.
func (s *Service) Help(ctx context.Context, chatID int64) {
	if err := s.msgr.SendMarkdown(ctx, chatID, helpMessage); err != nil {
		s.log.Error("Failed to send help message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleSelection handles a button tap (language or gender). Unknown data or
// a tap outside the expecting states is ignored.
func (s *Service) HandleSelection(ctx context.Context, chatID int64, messageID int, data string) {
	sess := s.sessions.Get(chatID)
	if sess == nil {
		return
	}

	switch sess.State {
	case domain.StateAwaitingLanguage:
		s.handleLanguage(ctx, sess, messageID, data)
	case domain.StateAwaitingGender:
		s.handleGender(ctx, sess, messageID, data)
	default:
		s.log.Debug("Selection ignored in state",
			zap.Int64("chat_id", chatID),
			zap.String("state", sess.State.String()),
		)
	}
}

func (s *Service) handleLanguage(ctx context.Context, sess *domain.Session, messageID int, code string) {
	lang := LanguageByCode(code)
	if lang == nil {
		return // closed set; stale or forged callback data
	}

	sess.Language = lang
	sess.State = domain.StateAwaitingName

	confirm := msgf(lang.Code, "language_selected", "language", lang.Name)
	if err := s.msgr.EditText(ctx, sess.ChatID, messageID, confirm); err != nil {
		s.log.Warn("Failed to edit language message", zap.Error(err))
	}
	s.send(ctx, sess.ChatID, msg(lang.Code, "ask_name"))
}

func (s *Service) handleGender(ctx context.Context, sess *domain.Session, messageID int, code string) {
	// Callback data is attacker-controlled; match the label table's casing.
	code = strings.ToLower(code)
	if !validator.Gender(code) {
		return
	}
	langCode := sess.LanguageCode()
	label := GenderLabel(langCode, code)

	sess.Gender = label
	sess.State = domain.StateAwaitingSymptoms

	if err := s.msgr.EditText(ctx, sess.ChatID, messageID, "Gender: "+label); err != nil {
		s.log.Warn("Failed to edit gender message", zap.Error(err))
	}
	s.send(ctx, sess.ChatID, msg(langCode, "ask_symptoms"))
}

// HandleText routes a free-text message into the current step. Outside of a
// flow (no session) the text is ignored; /start is required to begin.
func (s *Service) HandleText(ctx context.Context, chatID int64, text string) {
	sess := s.sessions.Get(chatID)
	if sess == nil {
		return
	}

	text = validator.Sanitize(text)
	langCode := sess.LanguageCode()

	switch sess.State {
	case domain.StateAwaitingName:
		if !validator.Name(text) {
			s.send(ctx, chatID, msg(langCode, "invalid_name"))
			return
		}
		sess.Name = text
		sess.State = domain.StateAwaitingAge
		s.send(ctx, chatID, msg(langCode, "ask_age"))

	case domain.StateAwaitingAge:
		if !validator.Age(text) {
			s.send(ctx, chatID, msg(langCode, "invalid_age"))
			return
		}
		sess.Age = mustAtoi(text)
		sess.State = domain.StateAwaitingPhone
		s.send(ctx, chatID, msg(langCode, "ask_phone"))

	case domain.StateAwaitingPhone:
		if !validator.Phone(text) {
			s.send(ctx, chatID, msg(langCode, "invalid_phone"))
			return
		}
		sess.Phone = text
		sess.State = domain.StateAwaitingGender
		buttons := []ports.Button{
			{Label: GenderLabel(langCode, "male"), Data: "male"},
			{Label: GenderLabel(langCode, "female"), Data: "female"},
			{Label: GenderLabel(langCode, "other"), Data: "other"},
		}
		if err := s.msgr.SendButtons(ctx, chatID, msg(langCode, "ask_gender"), buttons); err != nil {
			s.log.Error("Failed to send gender keyboard", zap.Error(err))
		}

	case domain.StateAwaitingSymptoms:
		if !validator.Symptoms(text) {
			s.send(ctx, chatID, msg(langCode, "invalid_symptoms"))
			return
		}
		sess.Symptoms = text
		s.finish(ctx, sess)

	default:
		// AwaitingLanguage and AwaitingGender expect button taps, not text.
		s.log.Debug("Text ignored in state",
			zap.Int64("chat_id", chatID),
			zap.String("state", sess.State.String()),
		)
	}
}

// HandleVoice routes a spoken clip. Only the symptoms step accepts voice; a
// transcript below the minimum length is treated exactly like invalid typed
// symptoms, with a transcription-specific message.
func (s *Service) HandleVoice(ctx context.Context, chatID int64, clip *domain.VoiceClip) {
	sess := s.sessions.Get(chatID)
	if sess == nil || sess.State != domain.StateAwaitingSymptoms {
		return
	}
	langCode := sess.LanguageCode()

	statusID, err := s.msgr.SendStatus(ctx, chatID, msg(langCode, "processing_voice"))
	if err != nil {
		s.log.Error("Failed to send voice status", zap.Error(err))
	}

	transcript, err := s.voice.TranscribeClip(ctx, clip, sess.Language.SpeechTag)
	if err != nil {
		telemetry.VoiceTranscriptionsTotal.WithLabelValues("error").Inc()
		s.log.Warn("Voice transcription failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		// Pipeline failure re-prompts; the session stays in AwaitingSymptoms.
		s.edit(ctx, chatID, statusID, msg(langCode, "voice_processing_error"))
		return
	}

	transcript = validator.Sanitize(transcript)
	if len([]rune(transcript)) < minSymptomRunes {
		telemetry.VoiceTranscriptionsTotal.WithLabelValues("too_short").Inc()
		s.edit(ctx, chatID, statusID, msg(langCode, "voice_transcription_failed"))
		return
	}

	telemetry.VoiceTranscriptionsTotal.WithLabelValues("ok").Inc()
	sess.Symptoms = transcript
	s.edit(ctx, chatID, statusID, msgf(langCode, "voice_transcribed", "symptoms", transcript))
	s.finish(ctx, sess)
}

// finish is the terminal compound action: advice, text reply, voice reply,
// persist, confirmation. Failures are isolated per step; a later failure
// never rolls back an earlier step's visible effect.
func (s *Service) finish(ctx context.Context, sess *domain.Session) {
	ctx, span := telemetry.Tracer().Start(ctx, "conversation.finish")
	defer span.End()

	chatID := sess.ChatID
	langCode := sess.LanguageCode()

	statusID, err := s.msgr.SendStatus(ctx, chatID, msg(langCode, "generating_advice"))
	if err != nil {
		s.log.Error("Failed to send advice status", zap.Error(err))
	}

	started := time.Now()
	advice := s.advice.GetAdvice(ctx, sess.Symptoms, sess.Language.Name)
	telemetry.AdviceLatency.Observe(time.Since(started).Seconds())

	if strings.TrimSpace(advice) == "" {
		// The client falls back to a fixed text, so this only happens if the
		// fallback itself is missing. Nothing is persisted.
		telemetry.ConsultationsTotal.WithLabelValues("advice_failed").Inc()
		s.edit(ctx, chatID, statusID, msg(langCode, "advice_generation_failed"))
		return
	}
	sess.Advice = advice
	s.edit(ctx, chatID, statusID, msg(langCode, "advice_generated"))

	if err := s.msgr.SendMarkdown(ctx, chatID, msg(langCode, "advice_header")+"\n\n"+advice); err != nil {
		s.log.Error("Failed to send advice text", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	// Voice reply is best effort: a synthesis failure skips the clip but the
	// consultation continues.
	if audio, err := s.voice.SynthesizeReply(ctx, advice, sess.Language.VoiceTag); err != nil {
		telemetry.VoiceSynthesesTotal.WithLabelValues("error").Inc()
		s.log.Warn("Voice synthesis failed, skipping voice reply",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	} else {
		telemetry.VoiceSynthesesTotal.WithLabelValues("ok").Inc()
		if err := s.msgr.SendVoice(ctx, chatID, audio, msg(langCode, "voice_advice")); err != nil {
			s.log.Error("Failed to send voice reply", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	rec := recordFromSession(sess)
	if err := s.repo.Append(ctx, rec); err != nil {
		telemetry.ConsultationsTotal.WithLabelValues("save_failed").Inc()
		s.log.Error("Failed to persist consultation",
			zap.Int64("user_id", sess.UserID),
			zap.Error(err),
		)
		s.send(ctx, chatID, msg(langCode, "consultation_save_failed"))
		s.sessions.Delete(chatID)
		return
	}

	telemetry.ConsultationsTotal.WithLabelValues("completed").Inc()
	s.log.Info("Consultation completed",
		zap.String("record_id", rec.ID),
		zap.Int64("user_id", rec.UserID),
		zap.String("language", rec.Language),
	)

	s.publishCompleted(rec)
	s.notifyCompleted(ctx, rec)

	s.send(ctx, chatID, msg(langCode, "consultation_complete"))
	s.sessions.Delete(chatID)
}

func (s *Service) publishCompleted(rec *domain.ConsultationRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.mq.Publish(queue.SubjectConsultationCompleted, data); err != nil {
		s.log.Warn("Failed to publish consultation event", zap.Error(err))
	}
}

func (s *Service) notifyCompleted(ctx context.Context, rec *domain.ConsultationRecord) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ConsultationCompleted(ctx, rec); err != nil {
		s.log.Warn("Failed to send consultation notification", zap.Error(err))
	}
}

func (s *Service) send(ctx context.Context, chatID int64, text string) {
	if err := s.msgr.SendText(ctx, chatID, text); err != nil {
		s.log.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// edit updates a status message in place, falling back to a fresh message
// when the edit fails (e.g. the status send itself had failed).
func (s *Service) edit(ctx context.Context, chatID int64, messageID int, text string) {
	if messageID == 0 {
		s.send(ctx, chatID, text)
		return
	}
	if err := s.msgr.EditText(ctx, chatID, messageID, text); err != nil {
		s.send(ctx, chatID, text)
	}
}

func recordFromSession(sess *domain.Session) *domain.ConsultationRecord {
	return &domain.ConsultationRecord{
		ID:          uuid.NewString(),
		UserID:      sess.UserID,
		DisplayName: sess.DisplayName,
		Name:        sess.Name,
		Age:         sess.Age,
		Phone:       sess.Phone,
		Gender:      sess.Gender,
		Language:    sess.Language.Name,
		Symptoms:    sess.Symptoms,
		Advice:      sess.Advice,
		CreatedAt:   time.Now(),
	}
}

// mustAtoi is only called after validator.Age accepted the input.
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
