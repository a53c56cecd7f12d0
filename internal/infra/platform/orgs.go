// Where: internal/infra/platform/orgs.go
// What: Org name to org id lookup against the platform API.
// Why: Persisted state and ingestion scopes use the org id, configuration uses the name.
package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/poruru-code/fndeploy/internal/config"
)

const (
	productionAPIURL = "https://core.serverless.com/api"
	devStageAPIURL   = "https://core.serverless-dev.com/api"
)

var errOrgNotFound = errors.New("org not found")

// OrgResolver maps an org name to its id.
type OrgResolver interface {
	OrgID(ctx context.Context, name string) (string, error)
}

// StaticOrgs resolves from a fixed table; unknown names map to themselves.
type StaticOrgs map[string]string

func (s StaticOrgs) OrgID(_ context.Context, name string) (string, error) {
	if id, ok := s[name]; ok {
		return id, nil
	}
	return name, nil
}

// APIClient queries the platform API.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// ResolveAPIURL picks the platform API endpoint for settings.
func ResolveAPIURL(settings config.Settings) string {
	if override := strings.TrimRight(settings.PlatformURL, "/"); override != "" {
		return override
	}
	if settings.IsDevPlatform() {
		return devStageAPIURL
	}
	return productionAPIURL
}

// NewAPIClient authenticates requests with accessKey.
func NewAPIClient(baseURL, accessKey string, base *http.Client) *APIClient {
	if base == nil {
		base = &http.Client{Timeout: 30 * time.Second}
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessKey, TokenType: "Bearer"})
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   base.Timeout,
			Transport: &oauth2.Transport{Source: source, Base: transport},
		},
	}
}

type orgResponse struct {
	OrgUID string `json:"orgUid"`
}

// OrgID implements OrgResolver.
func (c *APIClient) OrgID(ctx context.Context, name string) (string, error) {
	endpoint := c.baseURL + "/orgs/name/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create org request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup org %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", errOrgNotFound, name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("lookup org %s: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var payload orgResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode org response: %w", err)
	}
	if payload.OrgUID == "" {
		return "", fmt.Errorf("%w: %s", errOrgNotFound, name)
	}
	return payload.OrgUID, nil
}
