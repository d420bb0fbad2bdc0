package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
	"github.com/seu-repo/arogya-bot/internal/ports"
)

const (
	apiBase = "https://api.telegram.org"
	// Voice notes are capped to keep decode memory bounded.
	maxVoiceBytes = 20 << 20
)

// Client is a minimal Bot API client. It implements ports.Messenger for
// outbound traffic and exposes the polling and file endpoints the poller
// needs.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewClient(token string, httpTimeout time.Duration, log *zap.Logger) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	return &Client{
		token:   token,
		baseURL: apiBase,
		client:  &http.Client{Timeout: httpTimeout},
		log:     log,
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// call posts form values to a Bot API method and decodes the envelope.
func (c *Client) call(ctx context.Context, method string, params url.Values, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.methodURL(method), bytes.NewBufferString(params.Encode()))
	if err != nil {
		return fmt.Errorf("telegram %s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var env apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !env.OK {
		return fmt.Errorf("telegram %s: %s (code %d)", method, env.Description, env.ErrorCode)
	}
	if result != nil && env.Result != nil {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

// GetUpdates long-polls for new updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	seconds := int(timeout.Seconds())
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(seconds))
	params.Set("allowed_updates", `["message","callback_query"]`)

	// The request must outlive the server-side hold.
	ctx, cancel := context.WithTimeout(ctx, timeout+10*time.Second)
	defer cancel()

	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	return c.call(ctx, "sendMessage", params, nil)
}

func (c *Client) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	params.Set("parse_mode", "Markdown")
	if err := c.call(ctx, "sendMessage", params, nil); err != nil {
		// Markdown parse errors come back as 400s; deliver as plain text
		// rather than losing the message.
		c.log.Warn("Markdown send failed, retrying as plain text", zap.Error(err))
		return c.SendText(ctx, chatID, text)
	}
	return nil
}

func (c *Client) SendButtons(ctx context.Context, chatID int64, text string, buttons []ports.Button) error {
	rows := make([][]inlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []inlineKeyboardButton{{Text: b.Label, CallbackData: b.Data}})
	}
	markup, err := json.Marshal(inlineKeyboardMarkup{InlineKeyboard: rows})
	if err != nil {
		return fmt.Errorf("telegram: marshal keyboard: %w", err)
	}

	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	params.Set("reply_markup", string(markup))
	return c.call(ctx, "sendMessage", params, nil)
}

// SendStatus sends a progress message and returns its ID for later edits.
func (c *Client) SendStatus(ctx context.Context, chatID int64, text string) (int, error) {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)

	var msg Message
	if err := c.call(ctx, "sendMessage", params, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (c *Client) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("message_id", strconv.Itoa(messageID))
	params.Set("text", text)
	return c.call(ctx, "editMessageText", params, nil)
}

// SendVoice uploads audio as a voice note via multipart form data.
func (c *Client) SendVoice(ctx context.Context, chatID int64, audio []byte, caption string) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("telegram sendVoice: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("telegram sendVoice: %w", err)
		}
	}
	part, err := w.CreateFormFile("voice", "advice.mp3")
	if err != nil {
		return fmt.Errorf("telegram sendVoice: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return fmt.Errorf("telegram sendVoice: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("telegram sendVoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendVoice"), &body)
	if err != nil {
		return fmt.Errorf("telegram sendVoice: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram sendVoice: %w", err)
	}
	defer resp.Body.Close()

	var env apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("telegram sendVoice: decode response: %w", err)
	}
	if !env.OK {
		return fmt.Errorf("telegram sendVoice: %s (code %d)", env.Description, env.ErrorCode)
	}
	return nil
}

// AnswerCallbackQuery acknowledges a button press so the client stops the
// loading spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	params := url.Values{}
	params.Set("callback_query_id", callbackID)
	return c.call(ctx, "answerCallbackQuery", params, nil)
}

// DownloadVoice fetches the raw OGG/Opus payload of a voice note.
func (c *Client) DownloadVoice(ctx context.Context, fileID string) (*domain.VoiceClip, error) {
	params := url.Values{}
	params.Set("file_id", fileID)

	var file File
	if err := c.call(ctx, "getFile", params, &file); err != nil {
		return nil, err
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("telegram getFile: empty file path for %s", fileID)
	}

	fileURL := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram download: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram download: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("telegram download: %w", err)
	}
	if len(data) > maxVoiceBytes {
		return nil, fmt.Errorf("telegram download: voice note exceeds %d bytes", maxVoiceBytes)
	}

	return &domain.VoiceClip{Data: data, MimeType: "audio/ogg"}, nil
}
