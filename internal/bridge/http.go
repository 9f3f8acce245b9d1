package bridge

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

	"github.com/CoWork-OS/cowork/internal/contracts"
)

// HTTPBridge implements contracts.Bridge against the workspace daemon's
// local HTTP API.
type HTTPBridge struct {
	baseURL   string
	authToken string
	client    *http.Client
}

var _ contracts.Bridge = (*HTTPBridge)(nil)

func NewHTTPBridge(baseURL string, authToken string) *HTTPBridge {
	return &HTTPBridge{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *HTTPBridge) RunHistory(ctx context.Context, runID string) ([]contracts.ThoughtRecord, error) {
	var records []contracts.ThoughtRecord
	err := b.getJSON(ctx, "/api/runs/"+url.PathEscape(runID)+"/history", &records)
	return records, err
}

func (b *HTTPBridge) Roster(ctx context.Context, runID string) ([]contracts.RosterMember, error) {
	var members []contracts.RosterMember
	err := b.getJSON(ctx, "/api/runs/"+url.PathEscape(runID)+"/roster", &members)
	return members, err
}

func (b *HTTPBridge) Providers(ctx context.Context) ([]contracts.Provider, error) {
	var providers []contracts.Provider
	err := b.getJSON(ctx, "/api/providers", &providers)
	return providers, err
}

func (b *HTTPBridge) LoadSettings(ctx context.Context, section string) ([]byte, error) {
	resp, err := b.do(ctx, http.MethodGet, "/api/settings/"+url.PathEscape(section), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (b *HTTPBridge) SaveSettings(ctx context.Context, section string, payload []byte) error {
	resp, err := b.do(ctx, http.MethodPut, "/api/settings/"+url.PathEscape(section), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (b *HTTPBridge) SearchRegistry(ctx context.Context, query string) ([]contracts.RegistryEntry, error) {
	var entries []contracts.RegistryEntry
	err := b.getJSON(ctx, "/api/registry/search?q="+url.QueryEscape(query), &entries)
	return entries, err
}

func (b *HTTPBridge) InstallRegistryEntry(ctx context.Context, name string) error {
	return b.postJSON(ctx, "/api/registry/install", map[string]string{"name": name}, nil)
}

func (b *HTTPBridge) ScaffoldRegistryEntry(ctx context.Context, name string, dir string) error {
	return b.postJSON(ctx, "/api/registry/scaffold", map[string]string{"name": name, "dir": dir}, nil)
}

func (b *HTTPBridge) TestConnection(ctx context.Context, channel string) (contracts.ConnectionTestResult, error) {
	var result contracts.ConnectionTestResult
	err := b.postJSON(ctx, "/api/channels/"+url.PathEscape(channel)+"/test", nil, &result)
	return result, err
}

func (b *HTTPBridge) GeneratePairingCode(ctx context.Context, channel string) (contracts.PairingCode, error) {
	var code contracts.PairingCode
	err := b.postJSON(ctx, "/api/channels/"+url.PathEscape(channel)+"/pairing-code", nil, &code)
	return code, err
}

func (b *HTTPBridge) RevokeAccess(ctx context.Context, channel string) error {
	resp, err := b.do(ctx, http.MethodDelete, "/api/channels/"+url.PathEscape(channel)+"/access", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (b *HTTPBridge) Usage(ctx context.Context) (contracts.UsageSnapshot, error) {
	var snapshot contracts.UsageSnapshot
	err := b.getJSON(ctx, "/api/usage", &snapshot)
	return snapshot, err
}

func (b *HTTPBridge) do(ctx context.Context, method string, path string, body io.Reader) (*http.Response, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("bridge is not initialized")
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.authToken)
	}
	return b.client.Do(req)
}

func (b *HTTPBridge) getJSON(ctx context.Context, path string, out any) error {
	resp, err := b.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (b *HTTPBridge) postJSON(ctx context.Context, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	resp, err := b.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("daemon returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
}
