// Package feed pulls the external analytics and fulfilment feeds and
// exposes them as normalized records. The feeds are slow and occasionally
// down, so the client keeps an in-memory snapshot per feed and serves the
// last good one whenever a refresh fails.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adopshq/mkt-report-api/internal/models"
	"github.com/adopshq/mkt-report-api/internal/reporting"
	"github.com/adopshq/mkt-report-api/pkg/config"
	"github.com/adopshq/mkt-report-api/pkg/errors"
)

type envelope struct {
	Data []map[string]interface{} `json:"data"`
}

// Client fetches the analytics and fulfilment feeds over HTTP and caches
// the normalized results for the configured TTL. The two feeds snapshot
// independently.
type Client struct {
	cfg    config.FeedConfig
	client *http.Client
	logger *zap.Logger

	mu        sync.RWMutex
	snapshot  []models.ReportRecord
	fetchedAt time.Time

	orderMu        sync.RWMutex
	orderSnapshot  []models.OrderRecord
	orderFetchedAt time.Time
}

// NewClient constructs a feed client with sane defaults.
func NewClient(cfg config.FeedConfig, logger *zap.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Records returns the normalized feed records, refreshing the snapshot when
// it is older than the configured TTL. When a refresh fails and a previous
// snapshot exists, the stale snapshot is returned instead of an error.
func (c *Client) Records(ctx context.Context) ([]models.ReportRecord, error) {
	c.mu.RLock()
	snapshot, fetchedAt := c.snapshot, c.fetchedAt
	c.mu.RUnlock()

	if snapshot != nil && time.Since(fetchedAt) < c.cfg.SnapshotTTL {
		return snapshot, nil
	}

	records, err := c.fetch(ctx)
	if err != nil {
		if snapshot != nil {
			c.logger.Warn("feed refresh failed, serving last good snapshot",
				zap.Error(err),
				zap.Time("fetched_at", fetchedAt))
			return snapshot, nil
		}
		return nil, errors.Wrap(err, errors.ErrFeedUnavailable.Code, errors.ErrFeedUnavailable.Status, errors.ErrFeedUnavailable.Message)
	}

	c.mu.Lock()
	c.snapshot = records
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return records, nil
}

// Orders returns the normalized fulfilment feed records with the same
// snapshot and last-good-fallback behaviour as Records.
func (c *Client) Orders(ctx context.Context) ([]models.OrderRecord, error) {
	c.orderMu.RLock()
	snapshot, fetchedAt := c.orderSnapshot, c.orderFetchedAt
	c.orderMu.RUnlock()

	if snapshot != nil && time.Since(fetchedAt) < c.cfg.SnapshotTTL {
		return snapshot, nil
	}

	records, err := c.fetchOrders(ctx)
	if err != nil {
		if snapshot != nil {
			c.logger.Warn("order feed refresh failed, serving last good snapshot",
				zap.Error(err),
				zap.Time("fetched_at", fetchedAt))
			return snapshot, nil
		}
		return nil, errors.Wrap(err, errors.ErrFeedUnavailable.Code, errors.ErrFeedUnavailable.Status, errors.ErrFeedUnavailable.Message)
	}

	c.orderMu.Lock()
	c.orderSnapshot = records
	c.orderFetchedAt = time.Now()
	c.orderMu.Unlock()

	return records, nil
}

// Invalidate drops the cached snapshots so the next calls refetch.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()

	c.orderMu.Lock()
	c.orderSnapshot = nil
	c.orderFetchedAt = time.Time{}
	c.orderMu.Unlock()
}

func (c *Client) fetch(ctx context.Context) ([]models.ReportRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode feed payload: %w", err)
	}

	records := reporting.NormalizeAll(body.Data, reporting.FeedMapping)
	c.logger.Debug("feed snapshot refreshed",
		zap.Int("raw_rows", len(body.Data)),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)))

	return records, nil
}

func (c *Client) fetchOrders(ctx context.Context) ([]models.OrderRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.OrdersURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order feed returned status %d", resp.StatusCode)
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode order feed payload: %w", err)
	}

	records := reporting.NormalizeAllOrders(body.Data, reporting.OrderFeedMapping)
	c.logger.Debug("order feed snapshot refreshed",
		zap.Int("raw_rows", len(body.Data)),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)))

	return records, nil
}
