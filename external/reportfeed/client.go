// Package reportfeed pulls scraped match reports from the upstream feed
// service. The feed is slow and flaky, so calls go through retries, a
// circuit breaker and request deduplication.
package reportfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/dmarchuk/matchfeed/internal/domain/report"
	"github.com/dmarchuk/matchfeed/internal/platform/logging"
	"github.com/dmarchuk/matchfeed/internal/platform/resilience"
	"github.com/dmarchuk/matchfeed/internal/usecase"
)

const (
	defaultTimeout     = 20 * time.Second
	maxResponseBody    = 16 << 20
	reportPathTemplate = "/matches/%d/report"
)

var errFeedTransient = crerr.New("report feed transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			MaxResponseBodySize: maxResponseBody,
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchMatchReport pulls the full nested report of one match. Concurrent
// fetches of the same match share a single upstream request.
func (c *Client) FetchMatchReport(ctx context.Context, externalMatchID int64) (report.Match, error) {
	if externalMatchID <= 0 {
		return report.Match{}, fmt.Errorf("%w: match id must be greater than zero", usecase.ErrInvalidInput)
	}
	if c.baseURL == "" {
		return report.Match{}, fmt.Errorf("%w: report feed base url is not configured", usecase.ErrDependencyUnavailable)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "report feed circuit breaker rejected request", "state", c.breaker.State())
			return report.Match{}, fmt.Errorf("%w: report feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	key := "match-report:" + strconv.FormatInt(externalMatchID, 10)
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, externalMatchID)
		c.recordCircuitResult(reqErr)
		return raw, reqErr
	})
	if err != nil {
		return report.Match{}, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return report.Match{}, fmt.Errorf("unexpected response payload type %T", out)
	}

	var rep report.Match
	if err := sonic.Unmarshal(raw, &rep); err != nil {
		return report.Match{}, fmt.Errorf("decode match report: %w", err)
	}

	return rep, nil
}

func (c *Client) executeRequest(ctx context.Context, externalMatchID int64) ([]byte, error) {
	fullURL := c.buildReportURL(externalMatchID)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, retryable, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable {
			return nil, lastErr
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "report feed request failed",
		"url", fullURL,
		"error", lastErr,
	)
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) ([]byte, bool, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, true, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		// The response buffer is pooled, so the body has to be copied out.
		return append([]byte(nil), resp.Body()...), false, nil
	}

	if status == fasthttp.StatusNotFound {
		return nil, false, fmt.Errorf("%w: feed has no report for this match", usecase.ErrNotFound)
	}
	if isRetryableStatus(status) {
		return nil, true, fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(resp.Body()))
	}
	return nil, false, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(resp.Body()))
}

func (c *Client) buildReportURL(externalMatchID int64) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(fmt.Sprintf(reportPathTemplate, externalMatchID))
	return buf.String()
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errFeedTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func abbreviateBody(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "...(truncated)"
}
