// Package uc provides a client for the Unity Catalog functions API. It covers
// the subset of the catalog surface the toolkit needs: resolving function
// metadata, listing functions, and delegating execution to the catalog
// backend.
package uc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const apiPrefix = "/api/2.1/unity-catalog"

// ErrFunctionNameFormat is returned when a function name is not a
// three-level "catalog.schema.function" identifier.
var ErrFunctionNameFormat = errors.New("function name must be in 'catalog.schema.function' format")

// APIError is an error reported by the catalog service. The toolkit performs
// no local validation beyond name-format checks; whatever the catalog reports
// is surfaced through this type.
type APIError struct {
	StatusCode int
	Code       string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("unity catalog: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("unity catalog: %s (HTTP %d)", e.Message, e.StatusCode)
}

// FunctionRetriever resolves catalog function metadata.
type FunctionRetriever interface {
	GetFunction(ctx context.Context, fullName string) (*FunctionInfo, error)
}

// FunctionExecutor executes a catalog function with named parameters.
type FunctionExecutor interface {
	ExecuteFunction(ctx context.Context, fullName string, params map[string]any) (*FunctionExecutionResult, error)
}

// FunctionClient is the full catalog client contract consumed by the toolkit.
type FunctionClient interface {
	FunctionRetriever
	FunctionExecutor
	ListFunctions(ctx context.Context, catalog, schema string, opts *ListOptions) (*FunctionList, error)
}

// ListOptions controls function listing pagination.
type ListOptions struct {
	MaxResults int
	PageToken  string
}

// Options configures the REST client.
type Options struct {
	// BaseURL is the catalog server base URL, e.g. "http://localhost:8080".
	// Required.
	BaseURL string

	// Token is the bearer token attached to every request. Optional for
	// unsecured deployments.
	Token string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// Logger is used for request diagnostics. When zero, logging is disabled.
	Logger zerolog.Logger
}

// Client is the REST implementation of FunctionClient.
type Client struct {
	base   *url.URL
	token  string
	http   *http.Client
	logger zerolog.Logger
}

var _ FunctionClient = (*Client)(nil)

// NewClient creates a Unity Catalog REST client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("unity catalog base URL is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid unity catalog base URL: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		base:   base,
		token:  opts.Token,
		http:   httpClient,
		logger: opts.Logger,
	}, nil
}

// ValidateFunctionName checks the three-level name format and returns the
// catalog, schema and function components.
func ValidateFunctionName(fullName string) (catalog, schema, function string, err error) {
	parts := strings.Split(fullName, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: %q", ErrFunctionNameFormat, fullName)
	}
	return parts[0], parts[1], parts[2], nil
}

// GetFunction fetches metadata for a fully qualified function name.
func (c *Client) GetFunction(ctx context.Context, fullName string) (*FunctionInfo, error) {
	if _, _, _, err := ValidateFunctionName(fullName); err != nil {
		return nil, err
	}
	var info FunctionInfo
	path := apiPrefix + "/functions/" + url.PathEscape(fullName)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &info); err != nil {
		return nil, fmt.Errorf("get function %q: %w", fullName, err)
	}
	return &info, nil
}

// ListFunctions lists the functions of a catalog schema, one page at a time.
func (c *Client) ListFunctions(ctx context.Context, catalog, schema string, opts *ListOptions) (*FunctionList, error) {
	query := url.Values{}
	query.Set("catalog_name", catalog)
	query.Set("schema_name", schema)
	if opts != nil {
		if opts.MaxResults > 0 {
			query.Set("max_results", strconv.Itoa(opts.MaxResults))
		}
		if opts.PageToken != "" {
			query.Set("page_token", opts.PageToken)
		}
	}
	var list FunctionList
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/functions", query, nil, &list); err != nil {
		return nil, fmt.Errorf("list functions %s.%s: %w", catalog, schema, err)
	}
	return &list, nil
}

// ExecuteFunction invokes a function on the catalog's execution backend with
// named parameters and returns the result. Execution semantics, including
// parameter coercion and error reporting, are owned by the catalog.
func (c *Client) ExecuteFunction(ctx context.Context, fullName string, params map[string]any) (*FunctionExecutionResult, error) {
	if _, _, _, err := ValidateFunctionName(fullName); err != nil {
		return nil, err
	}
	body := struct {
		Parameters map[string]any `json:"parameters"`
	}{Parameters: params}
	var result FunctionExecutionResult
	path := apiPrefix + "/functions/" + url.PathEscape(fullName) + "/execute"
	if err := c.do(ctx, http.MethodPost, path, nil, &body, &result); err != nil {
		return nil, fmt.Errorf("execute function %q: %w", fullName, err)
	}
	return &result, nil
}

// VerifyToken checks that the given bearer token is accepted by the catalog
// by issuing an authenticated no-op listing. Used by the HTTP authorization
// middleware when catalog-side token validation is enabled.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	query := url.Values{}
	query.Set("max_results", "1")
	req, err := c.newRequest(ctx, http.MethodGet, apiPrefix+"/catalogs", query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("verify token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("unity catalog request")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(payload) > 0 {
		if jsonErr := json.Unmarshal(payload, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(payload))
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
