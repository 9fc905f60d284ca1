package aarsdk

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
)

// Client is a minimal AAR HTTP API client.
type Client struct {
	BaseURL    string
	BasePath   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "api",
		Timeout:  30 * time.Second,
	}
}

// Report mirrors the API report shape.
type Report struct {
	Date          string            `json:"date"`
	PilotName     string            `json:"pilotName"`
	HoistOperator string            `json:"hoistOperator"`
	CrewMembers   string            `json:"crewMembers,omitempty"`
	Sections      map[string]string `json:"sections,omitempty"`
}

// Session is a form session view.
type Session struct {
	ID         string `json:"id"`
	Step       int    `json:"step"`
	Submitting bool   `json:"submitting"`
	Report     Report `json:"report"`
}

// StepResult is a session view plus whether navigation moved.
type StepResult struct {
	Session
	Moved bool `json:"moved"`
}

// Section is one catalog entry.
type Section struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Catalog is the static form configuration.
type Catalog struct {
	Product    string    `json:"product"`
	ShortName  string    `json:"shortName"`
	Recipients []string  `json:"recipients"`
	Sections   []Section `json:"sections"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Catalog fetches the section catalog and recipient list.
func (c *Client) Catalog(ctx context.Context) (Catalog, error) {
	var resp Catalog
	err := c.do(ctx, http.MethodGet, "catalog", nil, &resp)
	return resp, err
}

// CreateSession starts a new form session.
func (c *Client) CreateSession(ctx context.Context) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodPost, "sessions", nil, &resp)
	return resp, err
}

// GetSession fetches current session state.
func (c *Client) GetSession(ctx context.Context, id string) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodGet, c.sessionPath(id, ""), nil, &resp)
	return resp, err
}

// EndSession discards the session and its draft.
func (c *Client) EndSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.sessionPath(id, ""), nil, nil)
}

// SetField sets one scalar report field.
func (c *Client) SetField(ctx context.Context, id, field, value string) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodPatch, c.sessionPath(id, "report"), map[string]string{
		"field": field,
		"value": value,
	}, &resp)
	return resp, err
}

// SetSection replaces the note text for one section.
func (c *Client) SetSection(ctx context.Context, id, sectionID, text string) (Session, error) {
	var resp Session
	endpoint := c.sessionPath(id, "sections/"+url.PathEscape(sectionID))
	err := c.do(ctx, http.MethodPut, endpoint, map[string]string{"text": text}, &resp)
	return resp, err
}

// Advance moves the session forward one step if its guard passes.
func (c *Client) Advance(ctx context.Context, id string) (StepResult, error) {
	var resp StepResult
	err := c.do(ctx, http.MethodPost, c.sessionPath(id, "advance"), nil, &resp)
	return resp, err
}

// Retreat moves the session back one step.
func (c *Client) Retreat(ctx context.Context, id string) (StepResult, error) {
	var resp StepResult
	err := c.do(ctx, http.MethodPost, c.sessionPath(id, "retreat"), nil, &resp)
	return resp, err
}

// GoTo jumps to a step.
func (c *Client) GoTo(ctx context.Context, id string, step int) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodPost, c.sessionPath(id, "goto"), map[string]int{"step": step}, &resp)
	return resp, err
}

// Reset starts the session over with a fresh draft.
func (c *Client) Reset(ctx context.Context, id string) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodPost, c.sessionPath(id, "reset"), nil, &resp)
	return resp, err
}

// SubmitSession submits the session's draft through the pipeline.
func (c *Client) SubmitSession(ctx context.Context, id string) error {
	var resp struct {
		Success bool `json:"success"`
	}
	return c.do(ctx, http.MethodPost, c.sessionPath(id, "submit"), nil, &resp)
}

// Submit pushes a full report through the stateless endpoint.
func (c *Client) Submit(ctx context.Context, report Report) error {
	var resp struct {
		Success bool `json:"success"`
	}
	return c.do(ctx, http.MethodPost, "submit-aar", report, &resp)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.Trim(c.BasePath, "/") + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) sessionPath(id, suffix string) string {
	p := "sessions/" + url.PathEscape(id)
	if suffix != "" {
		p += "/" + strings.TrimLeft(suffix, "/")
	}
	return p
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
