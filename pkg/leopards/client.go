package leopards

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
)

const bookedPacketsPath = "/getBookedPacketLastStatus/format/json/"

// Config holds the merchant API credentials.
type Config struct {
	BaseURL  string
	APIKey   string
	Password string
	Lookback time.Duration // how far back booked packets are listed
	Timeout  time.Duration
}

// Client talks to the Leopards Courier merchant API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

type bookedPacketsRequest struct {
	APIKey      string `json:"api_key"`
	APIPassword string `json:"api_password"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
}

type bookedPacketsResponse struct {
	Status     json.RawMessage  `json:"status"`
	Error      json.RawMessage  `json:"error"`
	PacketList *[]models.Parcel `json:"packet_list"`
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 30 * 24 * time.Hour
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

// IsConfigured reports whether credentials are present.
func (c *Client) IsConfigured() bool { return c.cfg.APIKey != "" && c.cfg.Password != "" }

// ListParcels returns the packets booked within the lookback window, as the
// courier reports them.
func (c *Client) ListParcels(ctx context.Context) ([]models.Parcel, error) {
	if !c.IsConfigured() {
		return nil, errors.New("leopards credentials are not configured")
	}

	now := c.now()
	body, err := json.Marshal(bookedPacketsRequest{
		APIKey:      c.cfg.APIKey,
		APIPassword: c.cfg.Password,
		FromDate:    now.Add(-c.cfg.Lookback).Format("2006-01-02"),
		ToDate:      now.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+bookedPacketsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leopards request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read leopards response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leopards API status %d", resp.StatusCode)
	}

	var parsed bookedPacketsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unexpected leopards response: %w", err)
	}
	if !isOne(parsed.Status) {
		return nil, fmt.Errorf("leopards API returned status %s, error %s", string(parsed.Status), string(parsed.Error))
	}
	if parsed.PacketList == nil {
		return nil, errors.New("leopards response has no packet_list")
	}
	return *parsed.PacketList, nil
}

// isOne accepts 1 or "1"; the API uses both.
func isOne(raw json.RawMessage) bool {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return s == "1"
}
