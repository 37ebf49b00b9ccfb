package dispatch

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

	aqm "github.com/appetiteclub/apt"
)

const (
	DefaultBridgeTimeout = 5 * time.Second

	bridgeMaxResponseBytes = 1 << 16
)

// BridgeClient talks to the print bridge running on the restaurant's LAN.
// The bridge relays tickets to printers the cloud cannot reach. It speaks
// plain JSON, not the platform envelope, so this client sits on net/http
// directly.
//
// Every send is a single attempt with a hard deadline. The bridge is a
// best-effort rescue path; retrying against a dead LAN only delays the
// failure report.
type BridgeClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  aqm.Logger
}

func NewBridgeClient(baseURL string, timeout time.Duration, logger aqm.Logger) *BridgeClient {
	if timeout <= 0 {
		timeout = DefaultBridgeTimeout
	}
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &BridgeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
		logger:  logger,
	}
}

type bridgeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Send asks the bridge to print the ticket on the printer at ip. A nil
// return means the bridge confirmed the print.
func (c *BridgeClient) Send(ctx context.Context, station, ip string, ticket Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("cannot encode ticket for station %q: %w", station, err)
	}

	url := fmt.Sprintf("%s/print/%s", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cannot build bridge request for station %q: %w", station, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &BridgeTimeoutError{Station: station, IP: ip}
		}
		return fmt.Errorf("bridge request for station %q (%s) failed: %w", station, ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &BridgeRejectedError{Station: station, IP: ip, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, bridgeMaxResponseBytes))
	if err != nil {
		return fmt.Errorf("cannot read bridge response for station %q (%s): %w", station, ip, err)
	}

	var decoded bridgeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("invalid bridge response for station %q (%s): %w", station, ip, err)
	}
	if !decoded.Success {
		c.logger.Debug("bridge declined print", "station", station, "ip", ip, "error", decoded.Error)
		return &BridgeRejectedError{Station: station, IP: ip}
	}

	return nil
}
