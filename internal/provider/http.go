package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fjacquet/finance-sync/internal/syncerror"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultTimeout = 30 * time.Second

// apiClient is the authenticated JSON transport shared by provider clients.
type apiClient struct {
	kind       Kind
	baseURL    string
	httpClient *http.Client
}

// newAPIClient builds an HTTP client that obtains bearer tokens with the
// OAuth2 client-credentials grant from {baseURL}/oauth/token.
func newAPIClient(kind Kind, cfg Config) *apiClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := cc.Client(ctx)
	httpClient.Timeout = timeout

	return &apiClient{kind: kind, baseURL: baseURL, httpClient: httpClient}
}

// getJSON issues an authenticated GET and decodes the JSON body into out.
// Any failure is reported as a *syncerror.ProviderError.
func (c *apiClient) getJSON(ctx context.Context, operation, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return c.fail(operation, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(operation, statusFromTokenError(err), fmt.Errorf("failed to make request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(operation, resp.StatusCode, parseError(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(operation, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *apiClient) fail(operation string, status int, err error) error {
	return &syncerror.ProviderError{
		Provider:   string(c.kind),
		Operation:  operation,
		StatusCode: status,
		Err:        err,
	}
}

// errorResponse covers the error bodies of both provider families.
type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

func parseError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return errors.New("failed to read error response")
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return errors.New(strings.TrimSpace(string(body)))
	}

	for _, msg := range []string{errResp.Message, errResp.Detail, errResp.Summary, errResp.Error} {
		if msg != "" {
			return errors.New(msg)
		}
	}
	return errors.New(strings.TrimSpace(string(body)))
}

func statusFromTokenError(err error) int {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return retrieveErr.Response.StatusCode
	}
	return 0
}
