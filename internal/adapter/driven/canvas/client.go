// Package canvas implements the LMSClient port against the Canvas REST API.
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
	"github.com/ericfisherdev/canvasdue/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LMSClient = (*Client)(nil)

// pageSize asks Canvas for its largest single page; further pages are not followed.
const pageSize = 100

// maxErrorBody bounds how much of a failed response is quoted in errors.
const maxErrorBody = 512

// Client implements the driven.LMSClient port over plain HTTP with bearer-token auth.
type Client struct {
	http        *http.Client
	baseURL     *url.URL
	credentials driven.CredentialStore
	timeout     time.Duration
	sanitizer   *bluemonday.Policy
}

// NewClient creates a Canvas API client. baseURL must point at the API root
// (for example https://school.instructure.com/api/v1/). The token is read from
// credentials on every request. timeout bounds each individual request.
func NewClient(baseURL *url.URL, credentials driven.CredentialStore, timeout time.Duration) *Client {
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, baseURL, credentials, timeout)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL *url.URL, credentials driven.CredentialStore, timeout time.Duration) *Client {
	base := *baseURL
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return &Client{
		http:        httpClient,
		baseURL:     &base,
		credentials: credentials,
		timeout:     timeout,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// courseJSON is the subset of the Canvas course object the client reads.
type courseJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// assignmentJSON is the subset of the Canvas assignment object the client reads.
// due_at and description are null or absent for many assignments.
type assignmentJSON struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	DueAt       *time.Time `json:"due_at"`
	Description *string    `json:"description"`
}

// ListFavoriteCourses returns the courses the user has marked as favorites.
func (c *Client) ListFavoriteCourses(ctx context.Context) ([]model.Course, error) {
	var raw []courseJSON
	if err := c.getJSON(ctx, "users/self/favorites/courses", &raw); err != nil {
		return nil, fmt.Errorf("listing favorite courses: %w", err)
	}

	courses := make([]model.Course, 0, len(raw))
	for _, rc := range raw {
		courses = append(courses, mapCourse(rc))
	}
	return courses, nil
}

// ListAssignments returns the assignments of a single course.
func (c *Client) ListAssignments(ctx context.Context, courseID int64) ([]model.Assignment, error) {
	var raw []assignmentJSON
	endpoint := "courses/" + strconv.FormatInt(courseID, 10) + "/assignments"
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("listing assignments for course %d: %w", courseID, err)
	}

	assignments := make([]model.Assignment, 0, len(raw))
	for _, ra := range raw {
		assignments = append(assignments, c.mapAssignment(ra))
	}
	return assignments, nil
}

// getJSON performs a single authenticated GET and decodes the JSON body into dst.
func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	cred, err := c.credentials.Get(ctx)
	if err != nil {
		if errors.Is(err, driven.ErrConfigMissing) {
			return fmt.Errorf("%w: %w", driven.ErrUnauthenticated, err)
		}
		return err
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: endpoint})
	q := u.Query()
	q.Set("per_page", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %v", driven.ErrTransport, endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", driven.ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	logCall(endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: GET %s returned %s", driven.ErrUnauthenticated, endpoint, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: GET %s returned %s: %s", driven.ErrTransport, endpoint, resp.Status, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %w", driven.ErrTransport, endpoint, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %s response: %v", driven.ErrDecode, endpoint, err)
	}

	return nil
}

// mapCourse converts a Canvas course object to a domain model Course.
func mapCourse(rc courseJSON) model.Course {
	return model.Course{
		ID:   rc.ID,
		Name: strings.TrimSpace(rc.Name),
	}
}

// mapAssignment converts a Canvas assignment object to a domain model Assignment.
// Descriptions arrive as HTML; only their text survives.
func (c *Client) mapAssignment(ra assignmentJSON) model.Assignment {
	var description string
	if ra.Description != nil {
		description = strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(*ra.Description)))
	}

	var dueAt *time.Time
	if ra.DueAt != nil {
		utc := ra.DueAt.UTC()
		dueAt = &utc
	}

	return model.Assignment{
		ID:          ra.ID,
		Name:        strings.TrimSpace(ra.Name),
		DueAt:       dueAt,
		Description: description,
	}
}

// logCall logs each Canvas API call at debug level.
func logCall(endpoint string, status int, elapsed time.Duration) {
	slog.Debug("canvas api call",
		"endpoint", endpoint,
		"status", status,
		"duration", elapsed.Round(time.Millisecond),
	)
}
