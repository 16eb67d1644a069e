package reportfeed

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/dmarchuk/matchfeed/internal/platform/resilience"
	"github.com/dmarchuk/matchfeed/internal/usecase"
)

func newTestClient(t *testing.T, cfg ClientConfig, handler fasthttp.RequestHandler) *Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() {
		_ = server.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = ln.Close()
	})

	cfg.HTTPClient = &fasthttp.Client{
		Dial: func(_ string) (net.Conn, error) {
			return ln.Dial()
		},
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://reportfeed.test"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	return NewClient(cfg)
}

func TestClient_FetchMatchReport_DecodesPayload(t *testing.T) {
	t.Parallel()

	var path atomic.Value
	client := newTestClient(t, ClientConfig{}, func(ctx *fasthttp.RequestCtx) {
		path.Store(string(ctx.Path()))
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"matchId": 1821372, "league": "Premier League", "score": "2 : 1"}`)
	})

	rep, err := client.FetchMatchReport(context.Background(), 1821372)
	if err != nil {
		t.Fatalf("FetchMatchReport error: %v", err)
	}
	if rep.MatchID != 1821372 || rep.League != "Premier League" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if got := path.Load().(string); got != "/matches/1821372/report" {
		t.Fatalf("unexpected request path %q", got)
	}
}

func TestClient_FetchMatchReport_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, ClientConfig{MaxRetries: 2}, func(ctx *fasthttp.RequestCtx) {
		if calls.Add(1) == 1 {
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
			return
		}
		ctx.SetBodyString(`{"matchId": 7}`)
	})

	rep, err := client.FetchMatchReport(context.Background(), 7)
	if err != nil {
		t.Fatalf("FetchMatchReport error: %v", err)
	}
	if rep.MatchID != 7 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_FetchMatchReport_NotFoundIsPermanent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, ClientConfig{MaxRetries: 3}, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})

	_, err := client.FetchMatchReport(context.Background(), 42)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("missing report must not be retried, got %d attempts", got)
	}
}

func TestClient_FetchMatchReport_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, ClientConfig{
		MaxRetries: 0,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchMatchReport(context.Background(), 7); err == nil {
			t.Fatalf("expected failure on attempt %d", i+1)
		}
	}

	_, err := client.FetchMatchReport(context.Background(), 7)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected circuit rejection, got %v", err)
	}
}
