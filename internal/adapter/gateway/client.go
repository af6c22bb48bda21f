package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trocagames/pkg/errors"
	"trocagames/pkg/logger"
)

// invalidTokenMessage is what the API puts in a body when it rejects a token without a 401.
const invalidTokenMessage = "Token inválido"

// Client talks to the marketplace REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type request struct {
	method   string
	path     string
	token    string
	query    url.Values
	body     io.Reader
	ctype    string
	fallback string // message shown when the API gives none
}

func (r request) withJSON(v interface{}) (request, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return r, errors.Internal("Falha ao preparar a requisição", err)
	}
	r.body = bytes.NewReader(payload)
	r.ctype = "application/json"
	return r, nil
}

type apiMessage struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m apiMessage) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

// do sends r and decodes a 2xx body into out (when out is non-nil). Errors are already
// classified: errors.SessionExpired for a rejected token, errors.Upstream otherwise.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, r.body)
	if err != nil {
		return errors.Internal("Falha ao preparar a requisição", err)
	}
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.LogUpstreamFailure(r.method, r.path, 0, err)
		return errors.Upstream(0, r.fallback, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Upstream(resp.StatusCode, r.fallback, err)
	}

	var msg apiMessage
	_ = json.Unmarshal(raw, &msg)
	message := msg.text()
	if message == "" {
		message = r.fallback
	}

	// Without a token a 401 is a plain credential rejection (login).
	if resp.StatusCode == http.StatusUnauthorized && r.token == "" {
		return errors.Unauthorized(message, nil)
	}

	if resp.StatusCode == http.StatusUnauthorized || (r.token != "" && msg.text() == invalidTokenMessage) {
		logger.Debug("API rejected token: %s %s (%d)", r.method, r.path, resp.StatusCode)
		return errors.SessionExpired(fmt.Errorf("%s %s: status %d", r.method, r.path, resp.StatusCode))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		logger.LogUpstreamFailure(r.method, r.path, resp.StatusCode, fmt.Errorf("%s", message))
		return errors.Upstream(resp.StatusCode, message, fmt.Errorf("%s %s: status %d", r.method, r.path, resp.StatusCode))
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Upstream(resp.StatusCode, r.fallback, err)
	}
	return nil
}
