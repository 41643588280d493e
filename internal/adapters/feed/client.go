// Package feed downloads raw hotel exports published by the scraper over HTTP.
package feed

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_catalog/internal/adapters/observability"
	"hotel_catalog/internal/adapters/source"
	"hotel_catalog/internal/domain"
)

const maxBody = 256 << 20

type Client struct {
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

// New builds a client. token is sent as a bearer token when non-empty.
func New(token string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		hc:    &http.Client{Timeout: 60 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}
}

var (
	ErrUnauthorized = errors.New("feed: unauthorized")
	ErrForbidden    = errors.New("feed: forbidden")
)

// GetHotels downloads an export and decodes it as CSV or JSON, judged by the
// Content-Type header and then by the URL extension.
func (c *Client) GetHotels(ctx context.Context, url string) ([]domain.RawHotel, error) {
	body, ctype, err := c.get(ctx, url)
	if err != nil {
		return nil, domain.NewSourceError(domain.SourceKindFetch, url, "download failed", err)
	}
	format := source.FormatJSON
	if strings.Contains(ctype, "csv") || (!strings.Contains(ctype, "json") && strings.HasSuffix(strings.ToLower(pathOf(url)), ".csv")) {
		format = source.FormatCSV
	}
	return source.Decode(bytes.NewReader(body), format, ctype, url)
}

func pathOf(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}

// get performs a GET with client-side rate limiting and retries, returning the
// body and its Content-Type. Retries on 429 and transient 5xx, honoring
// Retry-After when provided.
func (c *Client) get(ctx context.Context, url string) ([]byte, string, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, "", err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, "", err
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json, text/csv;q=0.9")
		req.Header.Set("User-Agent", "hotel-catalog/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			// network error or context canceled
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			lastErr = err
			observability.ObserveExternal("feed", "export", 0, time.Since(start))
			// context-aware sleep before retry
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			return nil, "", lastErr
		}
		observability.ObserveExternal("feed", "export", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
			resp.Body.Close()
			return b, resp.Header.Get("Content-Type"), err

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, "", domain.ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, "", ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return nil, "", ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			return nil, "", lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, "", fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return nil, "", lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
