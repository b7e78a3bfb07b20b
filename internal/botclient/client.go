// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package botclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

// DefaultTimeout bounds every call to the bot API.
const DefaultTimeout = 10 * time.Second

// maxErrorBodySize limits how much of an error response is kept for diagnostics.
const maxErrorBodySize = 4 * 1024

// ErrRejected is returned when the bot answered a write without success:true.
var ErrRejected = errors.New("bot rejected settings update")

// StatusError is returned for any non-200 response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Remote is the bot's internal settings API.
type Remote interface {
	GetSettings(ctx context.Context, guildID string) (models.GuildSettings, error)
	PostSettings(ctx context.Context, guildID string, patch models.SettingsPatch) error
	GetGuilds(ctx context.Context) ([]models.GuildSummary, error)
	GetChannels(ctx context.Context, guildID string) ([]models.ChannelSummary, error)
}

// Client calls the bot API over HTTP. Thread Safety: safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client for the bot API at baseURL. A zero timeout
// selects DefaultTimeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetSettings fetches one guild's settings.
func (c *Client) GetSettings(ctx context.Context, guildID string) (models.GuildSettings, error) {
	var s models.GuildSettings
	if err := c.do(ctx, "get_settings", http.MethodGet, "/api/settings/"+url.PathEscape(guildID), nil, &s); err != nil {
		return models.GuildSettings{}, err
	}
	s.Normalize()
	return s, nil
}

// PostSettings pushes a (partial) settings update.
func (c *Client) PostSettings(ctx context.Context, guildID string, patch models.SettingsPatch) error {
	var result struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, "post_settings", http.MethodPost, "/api/settings/"+url.PathEscape(guildID), patch, &result); err != nil {
		return err
	}
	if !result.Success {
		return ErrRejected
	}
	return nil
}

// GetGuilds lists the guilds the bot is a member of.
func (c *Client) GetGuilds(ctx context.Context) ([]models.GuildSummary, error) {
	var guilds []models.GuildSummary
	if err := c.do(ctx, "get_guilds", http.MethodGet, "/api/guilds", nil, &guilds); err != nil {
		return nil, err
	}
	if guilds == nil {
		guilds = []models.GuildSummary{}
	}
	return guilds, nil
}

// GetChannels lists a guild's text channels.
func (c *Client) GetChannels(ctx context.Context, guildID string) ([]models.ChannelSummary, error) {
	var channels []models.ChannelSummary
	if err := c.do(ctx, "get_channels", http.MethodGet, "/api/channels/"+url.PathEscape(guildID), nil, &channels); err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []models.ChannelSummary{}
	}
	return channels, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.RecordRemoteRequest(operation, time.Since(start), err) }()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
