// Package client is the Go consumer of the examdrill API: a thin HTTP
// client plus the Session view state a frontend keeps while a user
// works through an exam.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"examdrill/internal/dto"
)

// APIError is a non-2xx reply decoded from the error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the examdrill HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a client for the API at baseURL, e.g.
// "http://localhost:8090".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken sets the bearer token attached to authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope dto.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil || envelope.Error == "" {
			envelope.Error = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetQuestions fetches every question for an exam.
func (c *Client) GetQuestions(ctx context.Context, examName string) ([]dto.QuestionResponse, error) {
	query := url.Values{"examname": {examName}}
	var result dto.QuestionListResponse
	if err := c.do(ctx, http.MethodGet, "/api/qs", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Questions, nil
}

// ListExams fetches the available exams.
func (c *Client) ListExams(ctx context.Context) ([]dto.ExamSummaryResponse, error) {
	var result dto.ExamListResponse
	if err := c.do(ctx, http.MethodGet, "/api/exams", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Exams, nil
}

// ResponseFilters narrows GetResponses. Nil boolean fields are omitted.
type ResponseFilters struct {
	Bookmarked *bool
	Correct    *bool
	ExamName   string
	Category   string
}

// GetResponses fetches the caller's response rows with their questions.
func (c *Client) GetResponses(ctx context.Context, filters ResponseFilters) ([]dto.ResponseItem, error) {
	query := url.Values{}
	if filters.Bookmarked != nil {
		query.Set("bookmarked", strconv.FormatBool(*filters.Bookmarked))
	}
	if filters.Correct != nil {
		query.Set("correct", strconv.FormatBool(*filters.Correct))
	}
	if filters.ExamName != "" {
		query.Set("exam", filters.ExamName)
	}
	if filters.Category != "" {
		query.Set("category", filters.Category)
	}

	var result dto.ResponseListResponse
	if err := c.do(ctx, http.MethodGet, "/api/responses", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Responses, nil
}

// SaveResponse upserts the caller's row for a question.
func (c *Client) SaveResponse(ctx context.Context, req *dto.UpsertResponseRequest) (*dto.ResponseItem, error) {
	var result dto.SingleResponseEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/responses", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.Response, nil
}

// UpdateBookmark issues the legacy bookmark-only update.
func (c *Client) UpdateBookmark(ctx context.Context, questionID string, bookmarked bool) (*dto.ResponseItem, error) {
	req := dto.BookmarkUpdateRequest{QuestionID: questionID, IsBookmarked: &bookmarked}
	var result dto.SingleResponseEnvelope
	if err := c.do(ctx, http.MethodPatch, "/api/responses", nil, &req, &result); err != nil {
		return nil, err
	}
	return &result.Response, nil
}

// DeleteResponse deletes the caller's row for one question.
func (c *Client) DeleteResponse(ctx context.Context, questionID string) error {
	query := url.Values{"questionId": {questionID}}
	return c.do(ctx, http.MethodDelete, "/api/responses", query, nil, nil)
}

// ResetResponses deletes every response row the caller owns.
func (c *Client) ResetResponses(ctx context.Context) error {
	query := url.Values{"resetAll": {"true"}}
	return c.do(ctx, http.MethodDelete, "/api/responses", query, nil, nil)
}
