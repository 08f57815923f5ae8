package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
	"github.com/frenchcercle/cercle/internal/site"
)

// Client is a Go SDK for the cercle API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the admin bearer token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new cercle client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Token returns the admin bearer token in use
func (c *Client) Token() string {
	return c.token
}

// Error is a failed API call
type Error struct {
	StatusCode int
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

// RegistrationFields is the registration form
type RegistrationFields struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	CourseInterest string `json:"courseInterest"`
	Level          string `json:"level,omitempty"`
}

// Registration is the result of a successful registration
type Registration struct {
	Registrant models.Registrant `json:"registrant"`
	Page       site.Page         `json:"page"`
}

// Directory is the registrant list seen by an admin
type Directory struct {
	Registrants []models.Registrant `json:"registrants"`
	Total       int                 `json:"total"`
	Placeholder bool                `json:"placeholder"`
}

// Content returns the site content catalog
func (c *Client) Content(ctx context.Context) (*models.Content, error) {
	var out models.Content
	if err := c.call(ctx, http.MethodGet, "/api/v1/content", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateVisit starts a visit. The client's token, if any, restores an
// admin session on it.
func (c *Client) CreateVisit(ctx context.Context) (*site.Page, error) {
	return c.page(ctx, http.MethodPost, "/api/v1/visits", nil)
}

// GetVisit returns the current page of a visit
func (c *Client) GetVisit(ctx context.Context, id string) (*site.Page, error) {
	return c.page(ctx, http.MethodGet, visitPath(id, ""), nil)
}

// DeleteVisit drops a visit
func (c *Client) DeleteVisit(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, visitPath(id, ""), nil, nil)
}

// Navigate switches the active view
func (c *Client) Navigate(ctx context.Context, id string, view models.ViewState) (*site.Page, error) {
	return c.page(ctx, http.MethodPost, visitPath(id, "/navigate"), map[string]any{"view": view})
}

// ToggleMenu flips the mobile menu
func (c *Client) ToggleMenu(ctx context.Context, id string) (*site.Page, error) {
	return c.page(ctx, http.MethodPost, visitPath(id, "/menu"), nil)
}

// ScrollTo moves to HOME and scrolls to anchor
func (c *Client) ScrollTo(ctx context.Context, id, anchor string) (*site.Page, error) {
	return c.page(ctx, http.MethodPost, visitPath(id, "/scroll"), map[string]any{"anchor": anchor})
}

// SetPlacementText edits the placement text
func (c *Client) SetPlacementText(ctx context.Context, id, text string) (*site.Page, error) {
	return c.page(ctx, http.MethodPut, visitPath(id, "/placement/text"), map[string]any{"text": text})
}

// SubmitPlacement evaluates the placement text
func (c *Client) SubmitPlacement(ctx context.Context, id string) (*site.Page, error) {
	return c.page(ctx, http.MethodPost, visitPath(id, "/placement/submit"), nil)
}

// ResetPlacement clears the placement result
func (c *Client) ResetPlacement(ctx context.Context, id string) (*site.Page, error) {
	return c.page(ctx, http.MethodPost, visitPath(id, "/placement/reset"), nil)
}

// ConfirmPlacement carries the assessed level to the registration form
func (c *Client) ConfirmPlacement(ctx context.Context, id string) (*site.Page, error) {
	return c.page(ctx, http.MethodPost, visitPath(id, "/placement/confirm"), nil)
}

// SetMode toggles the learning mode
func (c *Client) SetMode(ctx context.Context, id string, mode models.Mode) (*site.Page, error) {
	return c.page(ctx, http.MethodPut, visitPath(id, "/registration/mode"), map[string]any{"mode": mode})
}

// Register submits the registration form
func (c *Client) Register(ctx context.Context, id string, fields RegistrationFields) (*Registration, error) {
	var out Registration
	if err := c.call(ctx, http.MethodPost, visitPath(id, "/registration"), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs the visit in as admin and keeps the returned token for the
// bearer routes
func (c *Client) Login(ctx context.Context, id, identifier, secret string) (*site.Page, error) {
	var out struct {
		Token string    `json:"token"`
		Page  site.Page `json:"page"`
	}
	body := map[string]string{"identifier": identifier, "secret": secret}
	if err := c.call(ctx, http.MethodPost, visitPath(id, "/admin/login"), body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.Page, nil
}

// Logout signs the visit out and forgets the token
func (c *Client) Logout(ctx context.Context, id string) (*site.Page, error) {
	p, err := c.page(ctx, http.MethodPost, visitPath(id, "/admin/logout"), nil)
	if err != nil {
		return nil, err
	}
	c.token = ""
	return p, nil
}

// ReloadDirectory refetches the directory of a signed-in visit
func (c *Client) ReloadDirectory(ctx context.Context, id string) (*site.Page, error) {
	return c.page(ctx, http.MethodPost, visitPath(id, "/admin/directory"), nil)
}

// ListRegistrants returns the directory using the bearer token
func (c *Client) ListRegistrants(ctx context.Context) (*Directory, error) {
	var out Directory
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/registrants", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportRegistrants downloads the CSV export using the bearer token
func (c *Client) ExportRegistrants(ctx context.Context) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/v1/admin/registrants/export", nil)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	return err
}

func visitPath(id, suffix string) string {
	return "/api/v1/visits/" + url.PathEscape(id) + suffix
}

func (c *Client) page(ctx context.Context, method, path string, body any) (*site.Page, error) {
	var p site.Page
	if err := c.call(ctx, method, path, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// call sends body as JSON and decodes the envelope data into out
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	resp, err := c.doRequest(ctx, method, path, rdr)
	if err != nil {
		return err
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request. Error responses are returned as
// *Error.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var envelope struct {
			Error *Error `json:"error"`
		}
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			apiErr.Fields = envelope.Error.Fields
		} else {
			apiErr.Message = string(respBody)
		}
		return nil, apiErr
	}

	return respBody, nil
}
