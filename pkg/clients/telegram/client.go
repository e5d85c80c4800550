package telegram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"uniformledger/internal/config"
)

// Client exposes the Telegram Bot API operations used by the application.
type Client interface {
	SendDocument(ctx context.Context, req SendDocumentRequest) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	chatID     string
}

// NewClient builds a Telegram Bot API client using the provided configuration values.
func NewClient(cfg config.TelegramConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/bot%s", base, cfg.BotToken)).
		SetTimeout(30 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		chatID:     cfg.GroupChatID,
	}
}

// SendDocumentRequest carries a file upload destined for the configured group chat.
type SendDocumentRequest struct {
	Filename string
	Data     []byte
	Caption  string
}

// apiError represents a Telegram Bot API error payload.
type apiError struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendDocument uploads a document to the group chat via multipart form data.
func (c *APIClient) SendDocument(ctx context.Context, req SendDocumentRequest) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("document", req.Filename, bytes.NewReader(req.Data)).
		SetFormData(map[string]string{
			"chat_id": c.chatID,
			"caption": req.Caption,
		}).
		SetError(apiErr).
		Post("/sendDocument")
	if err != nil {
		return fmt.Errorf("send telegram document: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.ErrorCode != 0 {
			code = apiErr.ErrorCode
		}
		return fmt.Errorf("telegram api error: code=%d, description=%s", code, apiErr.Description)
	}

	return nil
}
