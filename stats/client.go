package stats

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/stakestar/nodechecker/roster"
	"github.com/stakestar/nodechecker/utils"
	"go.uber.org/zap"
)

const (
	statsPath  = "/stats"
	statsQuery = "filter=last_1_days&verbose=true"
	authHeader = "auth"

	// DefaultTimeout bounds a single node request.
	DefaultTimeout = 15 * time.Second

	maxBodySize = 4 << 20
)

// ErrNodeUnreachable is returned when a node's stats could not be retrieved.
var ErrNodeUnreachable = errors.New("node unreachable")

// Client fetches raw stats payloads from nodes. One Client is shared by a whole run.
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// NewClient creates a stats client whose requests give up after timeout.
func NewClient(logger *zap.Logger, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger.With(zap.String("who", "StatsClient")),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StatsURL returns the stats endpoint of a node.
func StatsURL(node roster.NodeEntry) string {
	return "http://" + node.IPAddress + statsPath + "?" + statsQuery
}

// Fetch performs one blocking GET against the node's stats endpoint and returns the body.
func (c *Client) Fetch(ctx context.Context, node roster.NodeEntry) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, StatsURL(node), nil)
	if err != nil {
		return nil, errors.Wrapf(ErrNodeUnreachable, "build request for %s: %v", node.IPAddress, err)
	}
	req.Header.Set(authHeader, utils.NormalizeAddress(node.TNTAddress))
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrNodeUnreachable, "%v", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("stats response",
		zap.String("node", node.IPAddress),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(ErrNodeUnreachable, "GET %s: status %d", statsPath, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrapf(ErrNodeUnreachable, "read body: %v", err)
	}
	return body, nil
}
