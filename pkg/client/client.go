// Package client is a small Go client for the Diwan al-Maarifa workflow API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPDoer is the transport used by Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Submission is a content item as returned by the API
type Submission struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	CategoryID  *uint64    `json:"category_id,omitempty"`
	Tags        []string   `json:"tags"`
	ContentType string     `json:"content_type"`
	AuthorID    uint64     `json:"author_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ViewCount   int64      `json:"view_count"`
}

// ReviewRecord is one ledger entry
type ReviewRecord struct {
	ID           uint64    `json:"id"`
	SubmissionID uint64    `json:"submission_id"`
	ReviewerID   uint64    `json:"reviewer_id"`
	ReviewerRole string    `json:"reviewer_role"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	Decision     string    `json:"decision"`
	Comments     string    `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Detail is a submission with its workflow history, most recent first
type Detail struct {
	Submission
	History []ReviewRecord `json:"workflow_history"`
}

// Meta is the pagination block of list responses
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// APIError is a non-2xx answer from the server
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *Meta           `json:"meta"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the API under baseURL (for example http://localhost:8080/api/v1)
type Client struct {
	baseURL string
	creds   CredentialProvider
	http    HTTPDoer
}

// New creates a Client. A nil doer uses a default http.Client with a timeout;
// nil creds means anonymous.
func New(baseURL string, creds CredentialProvider, doer HTTPDoer) *Client {
	if creds == nil {
		creds = Anonymous{}
	}
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		creds:   creds,
		http:    doer,
	}
}

// Pending lists submissions awaiting the caller's review stage
func (c *Client) Pending(ctx context.Context, page, limit int) ([]Submission, *Meta, error) {
	var out []Submission
	meta, err := c.call(ctx, http.MethodGet, "/reviews/pending"+pageQuery(nil, page, limit), nil, &out)
	return out, meta, err
}

// Show returns a submission with its history
func (c *Client) Show(ctx context.Context, id uint64) (*Detail, error) {
	var out Detail
	if _, err := c.call(ctx, http.MethodGet, "/content/"+strconv.FormatUint(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the workflow ledger of a submission
func (c *Client) History(ctx context.Context, id uint64) ([]ReviewRecord, error) {
	var out []ReviewRecord
	_, err := c.call(ctx, http.MethodGet, "/reviews/"+strconv.FormatUint(id, 10), nil, &out)
	return out, err
}

// Review records a decision: approved, rejected or needs_revision
func (c *Client) Review(ctx context.Context, id uint64, decision, comments string) (*Submission, error) {
	body := map[string]string{"decision": decision, "comments": comments}
	return c.submission(ctx, http.MethodPost, "/reviews/"+strconv.FormatUint(id, 10), body)
}

// Publish makes an approved submission public
func (c *Client) Publish(ctx context.Context, id uint64) (*Submission, error) {
	return c.submission(ctx, http.MethodPut, "/content/"+strconv.FormatUint(id, 10)+"/publish", nil)
}

// Unpublish returns a published submission to draft
func (c *Client) Unpublish(ctx context.Context, id uint64) (*Submission, error) {
	return c.submission(ctx, http.MethodPut, "/content/"+strconv.FormatUint(id, 10)+"/unpublish", nil)
}

// PublishedFilter narrows Published
type PublishedFilter struct {
	CategoryID  uint64
	ContentType string
	Search      string
	Page        int
	Limit       int
}

// Published lists public content
func (c *Client) Published(ctx context.Context, f PublishedFilter) ([]Submission, *Meta, error) {
	q := url.Values{}
	if f.CategoryID > 0 {
		q.Set("category", strconv.FormatUint(f.CategoryID, 10))
	}
	if f.ContentType != "" {
		q.Set("content_type", f.ContentType)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	var out []Submission
	meta, err := c.call(ctx, http.MethodGet, "/content"+pageQuery(q, f.Page, f.Limit), nil, &out)
	return out, meta, err
}

func (c *Client) submission(ctx context.Context, method, path string, body interface{}) (*Submission, error) {
	var out Submission
	if _, err := c.call(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, dst interface{}) (*Meta, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, &APIError{Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}
	if dst != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Meta, nil
}

func pageQuery(q url.Values, page, limit int) string {
	if q == nil {
		q = url.Values{}
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
