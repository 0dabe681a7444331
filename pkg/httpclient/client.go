package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// Options configures an HttpClient for a single API host.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration // pause between successive requests
}

// Observer is notified after every request with the response status (0 when
// no response was received), the request latency and the classified error.
type Observer func(status int, elapsed time.Duration, err error)

// HttpClient issues paced, sequential GET requests against a JSON API.
type HttpClient struct {
	collector *colly.Collector
	pacer     *Pacer
	observer  Observer
	userAgent string
}

func NewHttpClient(opts Options) (*HttpClient, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Hostname()),
		colly.AllowURLRevisit(),
	)
	if opts.UserAgent != "" {
		collector.UserAgent = opts.UserAgent
	}
	if opts.Timeout > 0 {
		collector.SetRequestTimeout(opts.Timeout)
	}
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &HttpClient{
		collector: collector,
		pacer:     NewPacer(opts.Delay),
		userAgent: opts.UserAgent,
	}, nil
}

// WithTransport replaces the underlying round tripper.
func (h *HttpClient) WithTransport(rt http.RoundTripper) {
	h.collector.WithTransport(rt)
}

// SetObserver installs a callback invoked after every request.
func (h *HttpClient) SetObserver(o Observer) {
	h.observer = o
}

// GetJSON requests rawURL with query appended and decodes the response body
// into out. Any non-2xx response is returned as an error.
func (h *HttpClient) GetJSON(ctx context.Context, rawURL string, query url.Values, header http.Header, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.pacer.Wait(ctx); err != nil {
		return err
	}
	defer h.pacer.Mark()

	target := rawURL
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		target += sep + query.Encode()
	}

	hdr := header.Clone()
	if hdr == nil {
		hdr = http.Header{}
	}
	if hdr.Get("User-Agent") == "" && h.userAgent != "" {
		hdr.Set("User-Agent", h.userAgent)
	}

	c := h.collector.Clone()

	var (
		status    int
		decodeErr error
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		if err := json.Unmarshal(r.Body, out); err != nil {
			decodeErr = fmt.Errorf("decode response from %s: %w", r.Request.URL, err)
		}
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	start := time.Now()
	err := c.Request(http.MethodGet, target, nil, colly.NewContext(), hdr)
	if err != nil {
		err = classifyError(fmt.Errorf("GET %s: %w", target, err), status)
	} else if decodeErr != nil {
		err = decodeErr
	}

	if h.observer != nil {
		h.observer(status, time.Since(start), err)
	}
	return err
}
