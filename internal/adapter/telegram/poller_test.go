package telegram

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

// blockingHandler parks HandleText for one designated chat until release is
// closed, signalling every handler entry on the entered channel.
type blockingHandler struct {
	blockOn int64
	entered chan int64
	release chan struct{}
}

func newBlockingHandler(blockOn int64) *blockingHandler {
	return &blockingHandler{
		blockOn: blockOn,
		entered: make(chan int64, 64),
		release: make(chan struct{}),
	}
}

func (h *blockingHandler) HandleText(ctx context.Context, chatID int64, text string) {
	h.entered <- chatID
	if chatID == h.blockOn {
		<-h.release
	}
}

func (h *blockingHandler) Start(ctx context.Context, chatID, userID int64, displayName string) {}
func (h *blockingHandler) Cancel(ctx context.Context, chatID int64)                            {}
func (h *blockingHandler) Help(ctx context.Context, chatID int64)                              {}
func (h *blockingHandler) HandleSelection(ctx context.Context, chatID int64, messageID int, data string) {
}
func (h *blockingHandler) HandleVoice(ctx context.Context, chatID int64, clip *domain.VoiceClip) {}

func textUpdate(id, chatID int64, text string) Update {
	return Update{
		UpdateID: id,
		Message:  &Message{Chat: Chat{ID: chatID}, Text: text},
	}
}

func TestDispatch_BusyChatDoesNotStallOthers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newBlockingHandler(1)
	defer close(h.release)
	p := NewPoller(nil, h, time.Second, zap.NewNop())

	// Park chat 1's worker inside its handler.
	p.dispatch(ctx, textUpdate(1, 1, "slow"))
	select {
	case <-h.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("chat 1's first update was never handled")
	}

	// Pile far more updates onto chat 1 than its queue holds, then dispatch
	// for another chat. None of it may block the dispatching goroutine.
	done := make(chan struct{})
	go func() {
		for i := int64(2); i <= 40; i++ {
			p.dispatch(ctx, textUpdate(i, 1, "queued"))
		}
		p.dispatch(ctx, textUpdate(41, 2, "hello"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch stalled behind a busy chat's full queue")
	}

	select {
	case got := <-h.entered:
		if got != 2 {
			t.Fatalf("expected chat 2 handled while chat 1 is busy, got chat %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("chat 2's update was not handled while chat 1 was busy")
	}
}

func TestShutdown_WaitsForInFlightUpdate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := newBlockingHandler(1)
	p := NewPoller(nil, h, time.Second, zap.NewNop())

	p.dispatch(ctx, textUpdate(1, 1, "slow"))
	select {
	case <-h.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("update was never handled")
	}

	cancel()

	finished := make(chan struct{})
	go func() {
		p.shutdown()
		close(finished)
	}()

	select {
	case <-finished:
		t.Fatal("shutdown returned while an update was still being handled")
	case <-time.After(100 * time.Millisecond):
	}

	close(h.release)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not return after the in-flight update finished")
	}
}
