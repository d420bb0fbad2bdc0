package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

func TestSessionStore_ResetInstallsFreshSession(t *testing.T) {
	store := NewSessionStore()

	sess := store.Reset(1, 10, "anna_l")
	if sess.State != domain.StateAwaitingLanguage {
		t.Errorf("fresh session state: %s", sess.State)
	}

	sess.Name = "Anna Lee"
	sess.State = domain.StateAwaitingAge

	again := store.Reset(1, 10, "anna_l")
	if again.Name != "" || again.State != domain.StateAwaitingLanguage {
		t.Errorf("reset must discard prior data: %+v", again)
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := NewSessionStore()
	if store.Get(99) != nil {
		t.Error("expected nil for unknown chat")
	}
}

func TestSessionStore_DeleteAndLen(t *testing.T) {
	store := NewSessionStore()
	store.Reset(1, 10, "a")
	store.Reset(2, 20, "b")

	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
	store.Delete(1)
	if store.Len() != 1 {
		t.Fatalf("expected 1 session after delete, got %d", store.Len())
	}
	if store.Get(1) != nil {
		t.Error("deleted session still present")
	}
}

func TestSessionStore_ConcurrentChats(t *testing.T) {
	store := NewSessionStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			chatID := int64(i)
			store.Reset(chatID, chatID, fmt.Sprintf("user%d", i))
			sess := store.Get(chatID)
			sess.Name = fmt.Sprintf("Name %d", i)
		}(i)
	}
	wg.Wait()

	if store.Len() != n {
		t.Fatalf("expected %d sessions, got %d", n, store.Len())
	}
	for i := 0; i < n; i++ {
		sess := store.Get(int64(i))
		if sess.Name != fmt.Sprintf("Name %d", i) {
			t.Errorf("session %d cross-contaminated: %q", i, sess.Name)
		}
	}
}
