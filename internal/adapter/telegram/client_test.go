package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/ports"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("TESTTOKEN", 5*time.Second, zap.NewNop())
	c.baseURL = srv.URL
	return c, srv
}

func TestSendText(t *testing.T) {
	var gotPath, gotChatID, gotText string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotChatID = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})

	if err := c.SendText(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotPath != "/botTESTTOKEN/sendMessage" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotChatID != "42" || gotText != "hello" {
		t.Errorf("unexpected form values: chat_id=%s text=%s", gotChatID, gotText)
	}
}

func TestSendButtons_EncodesInlineKeyboard(t *testing.T) {
	var gotMarkup string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotMarkup = r.FormValue("reply_markup")
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})

	buttons := []ports.Button{
		{Label: "English", Data: "lang:en"},
		{Label: "हिंदी", Data: "lang:hi"},
	}
	if err := c.SendButtons(context.Background(), 42, "Choose", buttons); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var markup inlineKeyboardMarkup
	if err := json.Unmarshal([]byte(gotMarkup), &markup); err != nil {
		t.Fatalf("invalid reply_markup json: %v", err)
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("expected 2 keyboard rows, got %d", len(markup.InlineKeyboard))
	}
	if markup.InlineKeyboard[1][0].CallbackData != "lang:hi" {
		t.Errorf("unexpected callback data: %s", markup.InlineKeyboard[1][0].CallbackData)
	}
}

func TestSendStatus_ReturnsMessageID(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": map[string]interface{}{"message_id": 77, "chat": map[string]interface{}{"id": 42}},
		})
	})

	id, err := c.SendStatus(context.Background(), 42, "Processing...")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id != 77 {
		t.Errorf("expected message id 77, got %d", id)
	}
}

func TestCall_APIError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":          false,
			"description": "Bad Request: chat not found",
			"error_code":  400,
		})
	})

	err := c.EditText(context.Background(), 42, 7, "updated")
	if err == nil {
		t.Fatal("expected error for ok=false response")
	}
}

func TestGetUpdates_ParsesMessagesAndCallbacks(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok": true,
			"result": []map[string]interface{}{
				{
					"update_id": 100,
					"message": map[string]interface{}{
						"message_id": 1,
						"chat":       map[string]interface{}{"id": 42, "type": "private"},
						"text":       "/start",
						"from":       map[string]interface{}{"id": 9, "first_name": "Anna"},
					},
				},
				{
					"update_id": 101,
					"callback_query": map[string]interface{}{
						"id":   "cb1",
						"data": "lang:en",
						"message": map[string]interface{}{
							"message_id": 2,
							"chat":       map[string]interface{}{"id": 42, "type": "private"},
						},
					},
				},
			},
		})
	})

	updates, err := c.GetUpdates(context.Background(), 0, time.Second)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Message == nil || updates[0].Message.Text != "/start" {
		t.Errorf("first update not parsed as message: %+v", updates[0])
	}
	if updates[1].CallbackQuery == nil || updates[1].CallbackQuery.Data != "lang:en" {
		t.Errorf("second update not parsed as callback: %+v", updates[1])
	}
}

func TestCommandParsing(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/start", "start"},
		{"/START", "start"},
		{"/help@arogya_bot", "help"},
		{"/cancel now", "cancel"},
		{"hello", ""},
	}
	for _, tc := range cases {
		if got := command(tc.in); got != tc.want {
			t.Errorf("command(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (&User{Username: "anna_l"}).DisplayName(); got != "anna_l" {
		t.Errorf("username preferred: got %q", got)
	}
	if got := (&User{FirstName: "Anna", LastName: "Lee"}).DisplayName(); got != "Anna Lee" {
		t.Errorf("full name fallback: got %q", got)
	}
	var nobody *User
	if got := nobody.DisplayName(); got != "" {
		t.Errorf("nil user: got %q", got)
	}
}
