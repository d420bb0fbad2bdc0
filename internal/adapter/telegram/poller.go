package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

// Handler receives routed chat events. The conversation service satisfies it.
type Handler interface {
	Start(ctx context.Context, chatID, userID int64, displayName string)
	Cancel(ctx context.Context, chatID int64)
	Help(ctx context.Context, chatID int64)
	HandleText(ctx context.Context, chatID int64, text string)
	HandleSelection(ctx context.Context, chatID int64, messageID int, data string)
	HandleVoice(ctx context.Context, chatID int64, clip *domain.VoiceClip)
}

// Poller long-polls getUpdates and dispatches each update to a per-chat
// worker goroutine. Updates for one chat are handled strictly in arrival
// order; different chats proceed concurrently, so one user's slow voice
// transcription never blocks another's conversation.
type Poller struct {
	client      *Client
	handler     Handler
	pollTimeout time.Duration
	log         *zap.Logger

	mu      sync.Mutex
	workers map[int64]chan Update
	wg      sync.WaitGroup
}

func NewPoller(client *Client, handler Handler, pollTimeout time.Duration, log *zap.Logger) *Poller {
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Poller{
		client:      client,
		handler:     handler,
		pollTimeout: pollTimeout,
		log:         log,
		workers:     make(map[int64]chan Update),
	}
}

// Run polls until ctx is cancelled, then waits for each worker to finish
// the update it is currently handling; updates still queued for a chat at
// that point are dropped. Poll errors back off and retry; the loop never
// exits on its own.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("Telegram poller started", zap.Duration("poll_timeout", p.pollTimeout))

	var offset int64
	for {
		select {
		case <-ctx.Done():
			p.shutdown()
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				p.shutdown()
				return ctx.Err()
			}
			p.log.Error("getUpdates failed", zap.Error(err))
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
			}
			continue
		}

		for _, upd := range updates {
			offset = upd.UpdateID + 1
			p.dispatch(ctx, upd)
		}
	}
}

// dispatch routes the update to its chat worker, creating one on first
// contact. Workers live for the life of the poller; a chat's channel is its
// serialization point. The send never blocks: a chat whose queue is full
// has its oldest-pending updates already backed up behind a slow call, and
// the newest update is dropped rather than holding up every other chat.
func (p *Poller) dispatch(ctx context.Context, upd Update) {
	chatID, ok := updateChatID(upd)
	if !ok {
		return
	}

	p.mu.Lock()
	ch, exists := p.workers[chatID]
	if !exists {
		ch = make(chan Update, 16)
		p.workers[chatID] = ch
		p.wg.Add(1)
		go p.worker(ctx, chatID, ch)
	}
	p.mu.Unlock()

	select {
	case ch <- upd:
	default:
		// The shared poll loop must never block on one chat's backlog.
		p.log.Warn("Chat update queue full, dropping update",
			zap.Int64("chat_id", chatID),
			zap.Int64("update_id", upd.UpdateID),
		)
	}
}

func (p *Poller) worker(ctx context.Context, chatID int64, ch chan Update) {
	defer p.wg.Done()
	for {
		select {
		case upd := <-ch:
			p.handle(ctx, chatID, upd)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) handle(ctx context.Context, chatID int64, upd Update) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Panic handling update",
				zap.Int64("chat_id", chatID),
				zap.Any("panic", r),
			)
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		p.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.Voice != nil:
		p.handleVoice(ctx, upd.Message)
	case upd.Message != nil && upd.Message.Text != "":
		p.handleText(ctx, upd.Message)
	}
}

func (p *Poller) handleText(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch command(text) {
	case "start":
		var userID int64
		if msg.From != nil {
			userID = msg.From.ID
		}
		p.handler.Start(ctx, chatID, userID, msg.From.DisplayName())
	case "cancel":
		p.handler.Cancel(ctx, chatID)
	case "help":
		p.handler.Help(ctx, chatID)
	default:
		p.handler.HandleText(ctx, chatID, text)
	}
}

func (p *Poller) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if err := p.client.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		p.log.Warn("Failed to answer callback query", zap.Error(err))
	}
	if cb.Message == nil {
		return
	}
	p.handler.HandleSelection(ctx, cb.Message.Chat.ID, cb.Message.MessageID, cb.Data)
}

func (p *Poller) handleVoice(ctx context.Context, msg *Message) {
	clip, err := p.client.DownloadVoice(ctx, msg.Voice.FileID)
	if err != nil {
		p.log.Error("Failed to download voice note",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err),
		)
		clip = &domain.VoiceClip{}
	}
	p.handler.HandleVoice(ctx, msg.Chat.ID, clip)
}

func (p *Poller) shutdown() {
	p.log.Info("Telegram poller stopping")
	p.wg.Wait()
}

// command extracts a leading slash command, tolerating the @botname suffix.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	cmd = strings.TrimPrefix(cmd, "/")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}

func updateChatID(upd Update) (int64, bool) {
	switch {
	case upd.Message != nil:
		return upd.Message.Chat.ID, true
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		return upd.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}
