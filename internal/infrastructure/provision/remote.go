package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/taskflow/taskflow-api/internal/core/ports"
)

const (
	createUserPath = "/functions/v1/create-user"
	remoteTimeout  = 15 * time.Second
	maxBody        = 1 << 20
)

// Remote calls a hosted create-user function with a bearer API key.
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote returns a provisioner that posts to baseURL + /functions/v1/create-user.
func NewRemote(ctx context.Context, baseURL, apiKey string) *Remote {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = remoteTimeout
	return NewRemoteWithHTTPClient(baseURL, client)
}

// NewRemoteWithHTTPClient uses client as is (for testing).
func NewRemoteWithHTTPClient(baseURL string, client *http.Client) *Remote {
	return &Remote{endpoint: strings.TrimRight(baseURL, "/") + createUserPath, client: client}
}

// Provision returns the decoded body whenever there is one, so a refusal
// reported in the body's error field reaches the caller along with err.
func (r *Remote) Provision(ctx context.Context, req ports.ProvisionRequest) (*ports.ProvisionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode create-user request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build create-user request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call create-user: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read create-user response: %w", err)
	}

	var result ports.ProvisionResult
	decodeErr := json.Unmarshal(raw, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("create-user returned status %d", resp.StatusCode)
		if decodeErr != nil {
			return nil, statusErr
		}
		return &result, statusErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode create-user response: %w", decodeErr)
	}
	return &result, nil
}
