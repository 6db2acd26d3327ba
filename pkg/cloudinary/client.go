package cloudinary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Config selects the cloud and the unsigned upload preset.
type Config struct {
	APIURL    string // e.g. https://api.cloudinary.com/v1_1
	CloudName string
	Preset    string
	Timeout   time.Duration
}

// Client uploads images through the unsigned upload API.
type Client struct {
	cfg Config
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &Client{cfg: cfg}
}

// IsConfigured reports whether a cloud and preset are set.
func (c *Client) IsConfigured() bool { return c.cfg.CloudName != "" && c.cfg.Preset != "" }

// Upload sends the image and returns its https URL.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if !c.IsConfigured() {
		return "", errors.New("cloudinary is not configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("upload_preset", c.cfg.Preset)

	agent := fiber.Post(fmt.Sprintf("%s/%s/image/upload", c.cfg.APIURL, c.cfg.CloudName)).
		Timeout(timeout).
		FileData(&fiber.FormFile{Fieldname: "file", Name: filename, Content: data}).
		MultipartForm(args)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("cloudinary upload failed: %w", errors.Join(errs...))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unexpected cloudinary response (status %d): %w", status, err)
	}
	if status != fiber.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("cloudinary status %d: %s", status, parsed.Error.Message)
		}
		return "", fmt.Errorf("cloudinary status %d", status)
	}
	if parsed.SecureURL == "" {
		return "", errors.New("cloudinary response has no secure_url")
	}
	return parsed.SecureURL, nil
}
