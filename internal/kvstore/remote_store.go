package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// RemoteStore talks to the token-protected key-value HTTP service:
//
//	GET  {url}?key=K&token=T  -> {"data": {"value": "..."}}
//	POST {url} {"key","value","token"}
//
// The service has no revisions, so concurrent read-modify-write cycles are
// last-write-wins.
type RemoteStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRemoteStore creates a RemoteStore. A nil client uses http.DefaultClient.
func NewRemoteStore(baseURL, token string, client *http.Client) *RemoteStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteStore{
		baseURL: baseURL,
		token:   token,
		client:  client,
	}
}

type remoteGetResponse struct {
	Data *struct {
		Value json.RawMessage `json:"value"`
	} `json:"data"`
}

type remoteSetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Token string `json:"token"`
}

// Get fetches the value stored under key.
func (s *RemoteStore) Get(ctx context.Context, key string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("remote store: invalid url: %w", err)
	}
	q := u.Query()
	q.Set("key", key)
	q.Set("token", s.token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("remote store: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("remote store: get %q: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("remote store: get %q: unexpected status %d", key, resp.StatusCode)
	}

	var body remoteGetResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("remote store: decode response: %w", err)
	}
	if body.Data == nil || len(body.Data.Value) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNotFound, key)
	}

	// Older writers posted the document itself instead of its serialized form.
	raw := bytes.TrimSpace(body.Data.Value)
	if raw[0] != '"' {
		return string(raw), nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("remote store: decode value: %w", err)
	}
	return value, nil
}

// Set stores value under key.
func (s *RemoteStore) Set(ctx context.Context, key, value string) error {
	payload, err := json.Marshal(remoteSetRequest{Key: key, Value: value, Token: s.token})
	if err != nil {
		return fmt.Errorf("remote store: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("remote store: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote store: set %q: %w", key, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote store: set %q: unexpected status %d", key, resp.StatusCode)
	}
	return nil
}
