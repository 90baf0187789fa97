package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"rollwallet/rollups"
)

// AdvanceHandler processes one state-mutating input and returns the verdict
// reported on the next finish call.
type AdvanceHandler func(ctx context.Context, req *rollups.AdvanceRequest) rollups.FinishStatus

// InspectHandler answers one read-only query.
type InspectHandler func(ctx context.Context, req *rollups.InspectRequest) rollups.FinishStatus

// Client talks to the rollup node's HTTP API. It polls /finish for the next
// input and posts vouchers, notices and reports produced while handling it.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the logger used for the polling loop.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLimiter overrides the pacing of the finish polling loop.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// NewClient builds a client for the rollup node at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type finishRequest struct {
	Status rollups.FinishStatus `json:"status"`
}

// RollupRequest is the envelope the node returns from /finish.
type RollupRequest struct {
	RequestType string          `json:"request_type"`
	Data        json.RawMessage `json:"data"`
}

const (
	requestTypeAdvance = "advance_state"
	requestTypeInspect = "inspect_state"
)

// Finish reports the verdict for the previous input and blocks on the node
// until the next one is available. A nil request with a nil error means the
// node had nothing pending yet.
func (c *Client) Finish(ctx context.Context, status rollups.FinishStatus) (*RollupRequest, error) {
	body, err := json.Marshal(finishRequest{Status: status})
	if err != nil {
		return nil, err
	}
	resp, err := c.post(ctx, "/finish", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var req RollupRequest
		if err := json.NewDecoder(resp.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("node: decode finish response: %w", err)
		}
		return &req, nil
	case http.StatusAccepted:
		// No input pending; poll again.
		return nil, nil
	default:
		return nil, unexpectedStatus("/finish", resp)
	}
}

// SendVoucher submits a settlement voucher for the input being processed.
func (c *Client) SendVoucher(ctx context.Context, voucher *rollups.Voucher) error {
	return c.sendOutput(ctx, "/voucher", voucher)
}

// SendNotice submits an informational notice for the input being processed.
func (c *Client) SendNotice(ctx context.Context, notice *rollups.Notice) error {
	return c.sendOutput(ctx, "/notice", notice)
}

// SendReport submits a diagnostic report for the input being processed.
func (c *Client) SendReport(ctx context.Context, report *rollups.Report) error {
	return c.sendOutput(ctx, "/report", report)
}

func (c *Client) sendOutput(ctx context.Context, path string, output any) error {
	body, err := json.Marshal(output)
	if err != nil {
		return err
	}
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return unexpectedStatus(path, resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

func unexpectedStatus(path string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("node: %s returned status %d: %s", path, resp.StatusCode, bytes.TrimSpace(snippet))
}

// Run drives the input loop until the context is cancelled. Inputs are
// processed strictly one at a time: the verdict of each handler call is
// reported on the next finish request.
func (c *Client) Run(ctx context.Context, advance AdvanceHandler, inspect InspectHandler) error {
	status := rollups.Accept
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := c.Finish(ctx, status)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("finish request failed", slog.Any("error", err))
			status = rollups.Accept
			continue
		}
		if req == nil {
			status = rollups.Accept
			continue
		}

		switch req.RequestType {
		case requestTypeAdvance:
			var advanceReq rollups.AdvanceRequest
			if err := json.Unmarshal(req.Data, &advanceReq); err != nil {
				c.logger.Error("malformed advance request", slog.Any("error", err))
				status = rollups.Reject
				continue
			}
			if advance == nil {
				status = rollups.Reject
				continue
			}
			status = advance(ctx, &advanceReq)
		case requestTypeInspect:
			var inspectReq rollups.InspectRequest
			if err := json.Unmarshal(req.Data, &inspectReq); err != nil {
				c.logger.Error("malformed inspect request", slog.Any("error", err))
				status = rollups.Reject
				continue
			}
			if inspect == nil {
				status = rollups.Accept
				continue
			}
			status = inspect(ctx, &inspectReq)
		default:
			c.logger.Error("unknown request type", slog.String("request_type", req.RequestType))
			status = rollups.Reject
		}
	}
}
