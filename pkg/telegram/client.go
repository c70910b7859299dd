package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rescuenet/rescuenet-api/pkg/circuitbreaker"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.telegram.org"

var ErrNotConfigured = errors.New("telegram bot token is not configured")

type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// Sender delivers a formatted message to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID, text string) (*SentMessage, error)
}

// SentMessage is the subset of the Bot API result we keep.
type SentMessage struct {
	MessageID int64 `json:"message_id"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
	Result      json.RawMessage `json:"result"`
}

// APIError is returned when the Bot API answers ok=false.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

type Client struct {
	token   string
	baseURL string
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
}

func NewClient(cfg Config, logger *zerolog.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		token:   cfg.Token,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:                "telegram",
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             30 * time.Second,
			ConsecutiveFailures: 5,
		}, logger),
	}, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*SentMessage, error) {
	body, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return nil, err
	}

	var sent SentMessage
	err = c.cb.Execute(func() error {
		return c.call(ctx, "sendMessage", body, &sent)
	})
	if err != nil {
		return nil, err
	}
	return &sent, nil
}

func (c *Client) call(ctx context.Context, method string, body []byte, out interface{}) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !decoded.OK {
		return &APIError{Code: decoded.ErrorCode, Description: decoded.Description}
	}
	if out != nil && len(decoded.Result) > 0 {
		return json.Unmarshal(decoded.Result, out)
	}
	return nil
}
