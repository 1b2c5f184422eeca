// Package pose wraps the external keypoint-estimation oracles and normalizes
// their output to the fixed 33-point skeletal topology.
package pose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"squatanalyzer/internal/landmarks"
)

// Oracle produces zero or one skeletal keypoint sets for an RGB image.
// A nil slice with a nil error means no person was detected.
type Oracle interface {
	Detect(ctx context.Context, img image.Image) ([]landmarks.Keypoint, error)
}

// Client calls a pose-inference sidecar over HTTP.
type Client struct {
	baseURL  string
	endpoint string
	http     *http.Client
}

// NewClient returns an oracle client for the given sidecar base URL and
// detection endpoint (e.g. "/detect_pose").
func NewClient(baseURL, endpoint string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Detect uploads one frame and decodes the keypoint response.
func (c *Client) Detect(ctx context.Context, img image.Image) ([]landmarks.Keypoint, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("pose oracle not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := jpeg.Encode(part, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("oracle inference failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var payload struct {
		Landmarks []landmarks.Keypoint `json:"landmarks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode oracle response: %w", err)
	}
	return payload.Landmarks, nil
}
