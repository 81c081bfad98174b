// Package client talks to the plantcare HTTP API and keeps a local copy of
// its collections in sync.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stsysd/plantcare/care"
	"github.com/stsysd/plantcare/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client is a typed HTTP client for the record store API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New returns a client for the server at baseURL. apiKey may be empty when
// the server runs without authentication.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func idQuery(id string) url.Values {
	return url.Values{"id": []string{id}}
}

// Init asks the server to create missing tables.
func (c *Client) Init(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/init", nil, nil, nil)
}

// ListPlants returns every plant, newest first.
func (c *Client) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	var plants []*model.Plant
	if err := c.do(ctx, http.MethodGet, "/api/plants", nil, nil, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// CreatePlant stores a new plant.
func (c *Client) CreatePlant(ctx context.Context, plant *model.Plant) error {
	return c.do(ctx, http.MethodPost, "/api/plants", nil, plant, nil)
}

// UpdatePlantCare writes the last-care dates present in update.
func (c *Client) UpdatePlantCare(ctx context.Context, update *model.PlantCareUpdate) error {
	body := struct {
		ID             string  `json:"id"`
		LastWatered    *string `json:"lastWatered,omitempty"`
		LastFertilized *string `json:"lastFertilized,omitempty"`
	}{update.ID, update.LastWatered, update.LastFertilized}
	return c.do(ctx, http.MethodPut, "/api/plants", nil, body, nil)
}

// DeletePlant removes a plant. Unknown ids succeed.
func (c *Client) DeletePlant(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/plants", idQuery(id), nil, nil)
}

// ListFertilizers returns every fertilizer, newest first.
func (c *Client) ListFertilizers(ctx context.Context) ([]*model.Fertilizer, error) {
	var fertilizers []*model.Fertilizer
	if err := c.do(ctx, http.MethodGet, "/api/fertilizers", nil, nil, &fertilizers); err != nil {
		return nil, err
	}
	return fertilizers, nil
}

// CreateFertilizer stores a new fertilizer.
func (c *Client) CreateFertilizer(ctx context.Context, fertilizer *model.Fertilizer) error {
	return c.do(ctx, http.MethodPost, "/api/fertilizers", nil, fertilizer, nil)
}

// DeleteFertilizer removes a fertilizer. Unknown ids succeed.
func (c *Client) DeleteFertilizer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/fertilizers", idQuery(id), nil, nil)
}

// ListCareLogs returns the newest care logs (at most model.CareLogLimit).
func (c *Client) ListCareLogs(ctx context.Context) ([]*model.CareLog, error) {
	var logs []*model.CareLog
	if err := c.do(ctx, http.MethodGet, "/api/logs", nil, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// CreateCareLog appends a care log.
func (c *Client) CreateCareLog(ctx context.Context, log *model.CareLog) error {
	return c.do(ctx, http.MethodPost, "/api/logs", nil, log, nil)
}

// RecordCare updates the plant's last-care date and appends a log in one
// server-side transaction. An empty date means today on the server.
func (c *Client) RecordCare(ctx context.Context, plantID string, action model.CareAction, date string) (*model.CareLog, error) {
	body := map[string]string{
		"plantId": plantID,
		"action":  string(action),
	}
	if date != "" {
		body["date"] = date
	}
	var log model.CareLog
	if err := c.do(ctx, http.MethodPost, "/api/care", nil, body, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// ImportBackup sends a whole backup in one request.
func (c *Client) ImportBackup(ctx context.Context, backup *model.Backup, policy model.ConflictPolicy) (*model.ImportResult, error) {
	var query url.Values
	if policy != "" {
		query = url.Values{"policy": []string{string(policy)}}
	}
	var result model.ImportResult
	if err := c.do(ctx, http.MethodPost, "/api/import", query, backup, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Due returns the server-side care evaluation of every plant.
func (c *Client) Due(ctx context.Context) (*care.Report, error) {
	var report care.Report
	if err := c.do(ctx, http.MethodGet, "/api/due", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Subscribe connects to the event stream and calls fn for every event until
// ctx is cancelled or the connection drops. It returns nil on cancellation.
func (c *Client) Subscribe(ctx context.Context, fn func(model.ChangeEvent)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/events"
	opts := &websocket.DialOptions{}
	if c.apiKey != "" {
		opts.HTTPHeader = http.Header{"X-API-Key": []string{c.apiKey}}
	}

	conn, resp, err := websocket.Dial(ctx, wsURL, opts)
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Message: "event stream refused"}
		}
		return fmt.Errorf("failed to connect to event stream: %w", err)
	}
	defer conn.CloseNow()

	for {
		var ev model.ChangeEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "")
				return nil
			}
			return fmt.Errorf("event stream closed: %w", err)
		}
		fn(ev)
	}
}
