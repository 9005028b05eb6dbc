package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

var ErrSessionCreationFailed = errors.New("payment session creation failed")

// HTTPClient は決済プロセッサのREST APIクライアント。
// 外部呼び出しはタイムアウトで打ち切り、サーキットブレーカーで保護する。
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[Session]
}

func NewHTTPClient(baseURL string, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[Session](gobreaker.Settings{
		Name:    "payment-session",
		Timeout: 30 * time.Second,
	})

	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		breaker: cb,
	}
}

// CreateSession は決済セッションを作成する。
// 失敗した場合に永続化される副作用は無い（孤児セッションは許容）。
func (c *HTTPClient) CreateSession(ctx context.Context, in CreateSessionInput) (Session, error) {
	return c.breaker.Execute(func() (Session, error) {
		return c.createSession(ctx, in)
	})
}

func (c *HTTPClient) createSession(ctx context.Context, in CreateSessionInput) (Session, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return Session{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Session{}, fmt.Errorf("%w: status %d", ErrSessionCreationFailed, resp.StatusCode)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	if s.ID == "" {
		return Session{}, fmt.Errorf("%w: empty session id", ErrSessionCreationFailed)
	}

	return s, nil
}
