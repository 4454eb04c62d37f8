// Package device implements the HTTP command client for the SmartBlink
// signal hardware. Commands are plain GET requests; the response body is
// opaque and only echoed to the debug log.
package device

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/model"
)

var _ model.DeviceCommander = (*Client)(nil)

// Client issues single-shot commands against a device base URL. There is no
// retry and no confirmation that the device changed state.
type Client struct {
	http   *http.Client
	logger *logger.Logger
}

// NewClient creates a device command client using the given HTTP client.
// Pass http.DefaultClient to keep the transport defaults.
func NewClient(httpClient *http.Client, logger *logger.Logger) *Client {
	return &Client{http: httpClient, logger: logger}
}

// ToggleSignal issues GET {base}/{kind}/toggle.
func (c *Client) ToggleSignal(ctx context.Context, baseURL string, kind model.SignalKind) error {
	return c.get(ctx, fmt.Sprintf("%s/%s/toggle", baseURL, kind))
}

// SetTimer issues GET {base}/set_timer?duration={duration}. The duration is
// transmitted as entered; the device parses it.
func (c *Client) SetTimer(ctx context.Context, baseURL string, duration string) error {
	return c.get(ctx, fmt.Sprintf("%s/set_timer?duration=%s", baseURL, url.QueryEscape(duration)))
}

func (c *Client) get(ctx context.Context, commandURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, commandURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build device request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", model.ErrDeviceUnreachable, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %s", model.ErrDeviceUnreachable, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: device answered %d", model.ErrDeviceUnreachable, resp.StatusCode)
	}

	c.logger.Debug("device command acknowledged",
		"url", commandURL,
		"status", resp.StatusCode,
		"body", string(body))

	return nil
}
