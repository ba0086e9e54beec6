package polygon

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.polygon.io"
	DefaultTimeout = 10 * time.Second

	gainersPath = "/v2/snapshot/locale/us/markets/stocks/gainers"
	detailsPath = "/v3/reference/tickers/{ticker}"
	newsPath    = "/v2/reference/news"
)

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerMinute paces outgoing calls; zero disables pacing.
	RequestsPerMinute int
	Logger            *zap.Logger
}

// Client talks to the Polygon REST API. Calls are synchronous and share one
// connection pool; nothing is cached between calls.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	httpClient := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetQueryParam("apiKey", opts.APIKey)

	return &Client{
		http:    httpClient,
		limiter: limiter,
		logger:  opts.Logger,
	}
}

// get issues one GET and decodes a 2xx JSON body into out.
func (c *Client) get(ctx context.Context, endpoint, path string, out any, opts ...func(*resty.Request)) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Endpoint: endpoint, Err: errors.Wrap(err, "wait for request slot")}
	}

	start := time.Now()
	req := c.http.R().SetContext(ctx)
	for _, opt := range opts {
		opt(req)
	}
	resp, err := req.Get(path)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}

	c.logger.Debug("polygon request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", time.Since(start)),
	)

	if !resp.IsSuccess() {
		return newStatusError(endpoint, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		if ce := c.logger.Check(zap.DebugLevel, "undecodable polygon payload"); ce != nil {
			body := resp.Body()
			if json.Valid(body) {
				body = pretty.Pretty(body)
			}
			ce.Write(zap.String("endpoint", endpoint), zap.ByteString("body", body))
		}
		fetchErr := newStatusError(endpoint, resp.StatusCode())
		fetchErr.Err = errors.Wrap(err, "decode response")
		return fetchErr
	}
	return nil
}
