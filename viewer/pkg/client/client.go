package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cgmview/viewer/defs"

	"go.uber.org/zap"
)

const snapshotEndpoint = "api/snapshot"

// Client reads snapshots from a running viewer.
type Client struct {
	client  *http.Client
	logger  *zap.Logger
	baseUrl string
}

func New(baseUrl string, logger *zap.Logger) *Client {
	return &Client{
		client:  &http.Client{Timeout: defs.FetchTimeout},
		logger:  logger,
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
	}
}

func (c *Client) Fetch(ctx context.Context) (*defs.Snapshot, error) {
	url := c.baseUrl + "/" + snapshotEndpoint
	c.logger.Debug("requesting snapshot", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to request snapshot: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read snapshot: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("snapshot request failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("%w: status %d", defs.ErrUpstreamFetch, resp.StatusCode)
	}

	var snap defs.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("unable to decode snapshot: %w", err)
	}

	c.logger.Debug("received snapshot",
		zap.Int("glucose", len(snap.BG)),
		zap.Int("carbs", len(snap.Treatments.Carbs)),
		zap.Int("insulin", len(snap.Treatments.Insulin)),
	)
	return &snap, nil
}
