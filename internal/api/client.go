// Package api is the HTTP/JSON client for the DevLog backend. It owns the
// wire contract only; view-level behavior (drafts, overlays, refetch rules)
// lives in the packages that consume it.
package api

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

	"github.com/devlog/devlog-cli/internal/model"
)

// Client talks to one DevLog backend. The HTTP client is injected: commands
// pass http.DefaultClient for the unauthenticated auth endpoints and the
// session store's bearer-injecting client for everything else.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the backend at baseURL (including the /api prefix).
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// authResponse is the token-issuing response of /auth/login and /auth/register.
type authResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

// RegisterInput is the /auth/register payload.
type RegisterInput struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
}

// LogInput is the payload for creating or updating a daily log. TotalTime
// must already equal the exact sum of the tasks' time_spent values; the
// logbook package recomputes it right before every submit.
type LogInput struct {
	Date      string       `json:"date"`
	Tasks     []model.Task `json:"tasks"`
	Mood      int          `json:"mood"`
	Blockers  string       `json:"blockers"`
	TotalTime float64      `json:"total_time"`
}

// Login exchanges credentials for a token and the resolved user.
func (c *Client) Login(ctx context.Context, username, password string) (string, model.User, error) {
	payload := map[string]string{"username": username, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return "", model.User{}, err
	}
	return resp.AccessToken, resp.User, nil
}

// Register creates an account and returns a ready-to-use session, exactly
// like Login.
func (c *Client) Register(ctx context.Context, in RegisterInput) (string, model.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &resp); err != nil {
		return "", model.User{}, err
	}
	return resp.AccessToken, resp.User, nil
}

// Managers lists accounts a developer may register under. Unauthenticated.
func (c *Client) Managers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/users/managers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Notifications returns the current user's notifications in backend order
// (most recent first).
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var out []model.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead flips one notification to read on the backend.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// Logs returns all logs owned by the current user, in backend order.
func (c *Client) Logs(ctx context.Context) ([]model.DailyLog, error) {
	var out []model.DailyLog
	if err := c.do(ctx, http.MethodGet, "/logs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLog submits a new daily log.
func (c *Client) CreateLog(ctx context.Context, in LogInput) (model.DailyLog, error) {
	var out model.DailyLog
	if err := c.do(ctx, http.MethodPost, "/logs", in, &out); err != nil {
		return model.DailyLog{}, err
	}
	return out, nil
}

// UpdateLog replaces an existing daily log.
func (c *Client) UpdateLog(ctx context.Context, id string, in LogInput) (model.DailyLog, error) {
	var out model.DailyLog
	if err := c.do(ctx, http.MethodPut, "/logs/"+url.PathEscape(id), in, &out); err != nil {
		return model.DailyLog{}, err
	}
	return out, nil
}

// Productivity returns the time-bucketed series for the window of the given
// size ending today. Days without activity may be absent.
func (c *Client) Productivity(ctx context.Context, days int) ([]model.ProductivityPoint, error) {
	var out []model.ProductivityPoint
	path := "/analytics/productivity?days=" + strconv.Itoa(days)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Export requests the server-rendered CSV for [start, end]. A non-nil filter
// scopes a manager export; its empty fields are omitted from the query.
func (c *Client) Export(ctx context.Context, start, end string, filter *model.TeamFilter) (string, error) {
	params := url.Values{}
	params.Set("start_date", start)
	params.Set("end_date", end)
	if filter != nil && filter.DeveloperID != "" {
		params.Set("developer_id", filter.DeveloperID)
	}

	var out struct {
		CSVData string `json:"csv_data"`
	}
	if err := c.do(ctx, http.MethodGet, "/analytics/export?"+params.Encode(), nil, &out); err != nil {
		return "", err
	}
	return out.CSVData, nil
}

// TeamLogs returns the filtered manager feed. Empty filter fields are left
// out of the query entirely — an absent developer_id means all developers
// in scope, not a developer whose id is the empty string.
func (c *Client) TeamLogs(ctx context.Context, filter model.TeamFilter) ([]model.TeamLog, error) {
	params := url.Values{}
	for key, val := range map[string]string{
		"developer_id":    filter.DeveloperID,
		"start_date":      filter.StartDate,
		"end_date":        filter.EndDate,
		"has_blockers":    filter.HasBlockers,
		"reviewed_status": filter.ReviewedStatus,
	} {
		if val != "" {
			params.Set(key, val)
		}
	}

	path := "/team/logs"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out []model.TeamLog
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TeamDevelopers lists the manager's reports.
func (c *Client) TeamDevelopers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/team/developers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitFeedback attaches feedback text to a log. The same call creates and
// edits; the backend overwrites any existing feedback.
func (c *Client) SubmitFeedback(ctx context.Context, logID, text string) error {
	payload := map[string]string{"log_id": logID, "feedback_text": text}
	return c.do(ctx, http.MethodPost, "/feedback", payload, nil)
}

// errorBody is the backend's error envelope ({"detail": "..."}).
type errorBody struct {
	Detail string `json:"detail"`
}

// do issues one request and decodes the response into out (when non-nil).
// 401 becomes an AuthError, other error statuses an APIError carrying the
// server-provided detail when available; transport failures are returned
// wrapped as-is.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("devlog API request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		if resp.StatusCode == http.StatusUnauthorized {
			return &AuthError{Message: eb.Detail}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Detail}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
