// Where: internal/infra/ingest/client.go
// What: HTTP client for the ingestion token endpoints.
// Why: Each call returns either a fatal error or a soft result that is already logged.
package ingest

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

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/poruru-code/fndeploy/internal/domain/console"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorBody    = 4096
	requestIDHeader = "X-Request-Id"
)

// Client talks to the ingestion token API on behalf of one authenticated session.
type Client struct {
	baseURL string
	base    *http.Client
	http    *http.Client
	logger  console.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport base used beneath bearer authentication.
func WithHTTPClient(base *http.Client) Option {
	return func(c *Client) {
		if base != nil {
			c.base = base
		}
	}
}

// New returns a Client authenticating with accessKey as a bearer credential.
func New(baseURL, accessKey string, logger console.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessKey, TokenType: "Bearer"})
	c.http = newAuthorizedClient(c.base, source)
	return c
}

func newAuthorizedClient(base *http.Client, source oauth2.TokenSource) *http.Client {
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   base.Timeout,
		Transport: &oauth2.Transport{Source: source, Base: transport},
	}
}

// BaseURL returns the resolved ingestion base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type scope struct {
	OrgID     string `json:"orgId"`
	ServiceID string `json:"serviceId"`
	Token     string `json:"token,omitempty"`
}

type createResponse struct {
	AccessToken string `json:"accessToken"`
}

// Create issues a new ingestion token for (orgID, serviceID).
func (c *Client) Create(ctx context.Context, orgID, serviceID string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/token", nil, scope{OrgID: orgID, ServiceID: serviceID})
	if err != nil {
		return "", &console.Error{Kind: console.KindTokenCreation, Message: "could not create ingestion token: " + err.Error()}
	}
	defer resp.Body.Close()
	if !success(resp.StatusCode) {
		return "", remoteError(resp, "could not create ingestion token")
	}
	var payload createResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &console.Error{Kind: console.KindTokenCreation, Message: fmt.Sprintf("decode ingestion token response: %v", err)}
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", &console.Error{Kind: console.KindTokenCreation, Message: "ingestion token response carried no accessToken", StatusCode: resp.StatusCode}
	}
	return payload.AccessToken, nil
}

// Activate marks token as the live token for (orgID, serviceID).
func (c *Client) Activate(ctx context.Context, token, orgID, serviceID string) error {
	resp, err := c.do(ctx, http.MethodPatch, "/token", nil, scope{OrgID: orgID, ServiceID: serviceID, Token: token})
	if err != nil {
		return &console.Error{Kind: console.KindTokenCreation, Message: "could not activate ingestion token: " + err.Error()}
	}
	defer resp.Body.Close()
	if !success(resp.StatusCode) {
		return remoteError(resp, "could not activate ingestion token")
	}
	drain(resp.Body)
	return nil
}

// DeactivateOthers retires every token for the scope except token.
func (c *Client) DeactivateOthers(ctx context.Context, token, orgID, serviceID string) SoftResult {
	query := url.Values{}
	query.Set("orgId", orgID)
	query.Set("serviceId", serviceID)
	query.Set("token", token)
	return c.soft(ctx, "/tokens", query, "deactivate previous ingestion tokens")
}

// DeactivateSingle retires exactly token.
func (c *Client) DeactivateSingle(ctx context.Context, token string) SoftResult {
	query := url.Values{}
	query.Set("token", token)
	return c.soft(ctx, "/token", query, "deactivate ingestion token")
}

func (c *Client) soft(ctx context.Context, path string, query url.Values, action string) SoftResult {
	resp, err := c.do(ctx, http.MethodDelete, path, query, nil)
	if err != nil {
		return c.logSoft(&console.Error{Kind: console.KindIngestionUnreachable, Message: "could not " + action + ": " + err.Error()})
	}
	defer resp.Body.Close()
	if !success(resp.StatusCode) {
		failure := remoteError(resp, "could not "+action)
		failure.Kind = console.KindIngestionUnreachable
		return c.logSoft(failure)
	}
	drain(resp.Body)
	return SoftResult{}
}

func (c *Client) logSoft(err *console.Error) SoftResult {
	if c.logger != nil {
		c.logger.Error(err.Error(), "code", err.Code())
	}
	return SoftResult{Err: err}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	return c.http.Do(req)
}

func success(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func remoteError(resp *http.Response, message string) *console.Error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &console.Error{
		Kind:       console.KindTokenCreation,
		Message:    message,
		StatusCode: resp.StatusCode,
		Body:       string(data),
	}
}

func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
}
