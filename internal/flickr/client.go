package flickr

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"photogrip/internal/domain"
	"photogrip/internal/logger"
)

// ErrTransport marks every failure to obtain a page: network, HTTP status,
// API error envelope or undecodable body.
var ErrTransport = errors.New("flickr: transport error")

// DefaultBaseURL is the REST endpoint
const DefaultBaseURL = "https://api.flickr.com/services/rest"

// Config holds configuration for the API client
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *logger.Logger
}

// Client fetches photo pages from the REST API
type Client struct {
	http    *resty.Client
	apiKey  string
	limiter *rate.Limiter
	group   singleflight.Group
	log     *logger.Logger
}

// NewClient creates a new API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		http:    client,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(limit, burst),
		log:     log.WithComponent("flickr"),
	}
}

// Recent returns a page of the recent photos feed
func (c *Client) Recent(ctx context.Context, page, perPage int) (domain.PhotoPage, error) {
	return c.call(ctx, MethodRecent, "", page, perPage)
}

// Search returns a page of photos matching text
func (c *Client) Search(ctx context.Context, text string, page, perPage int) (domain.PhotoPage, error) {
	return c.call(ctx, MethodSearch, text, page, perPage)
}

// call collapses identical concurrent requests into one round trip. The
// shared request is detached from every caller's cancellation; each caller
// only stops waiting for it when its own ctx is done.
func (c *Client) call(ctx context.Context, method, text string, page, perPage int) (domain.PhotoPage, error) {
	key := method + "\x00" + text + "\x00" + strconv.Itoa(page) + "\x00" + strconv.Itoa(perPage)
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.fetch(shared, method, text, page, perPage)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.log.WithFields(logger.Fields{logger.FieldMethod: method, logger.FieldPage: page}).Debug("shared in-flight request")
		}
		if res.Err != nil {
			return domain.PhotoPage{}, res.Err
		}
		return res.Val.(domain.PhotoPage), nil
	case <-ctx.Done():
		return domain.PhotoPage{}, errors.Mark(errors.Wrapf(ctx.Err(), "failed to call %s", method), ErrTransport)
	}
}

func (c *Client) fetch(ctx context.Context, method, text string, page, perPage int) (domain.PhotoPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.PhotoPage{}, errors.Mark(errors.Wrap(err, "rate limiter"), ErrTransport)
	}

	params := map[string]string{
		"method":         method,
		"api_key":        c.apiKey,
		"page":           strconv.Itoa(page),
		"per_page":       strconv.Itoa(perPage),
		"format":         "json",
		"nojsoncallback": "1",
	}
	if method == MethodSearch {
		params["text"] = text
	}

	log := c.log.WithFields(logger.Fields{
		logger.FieldMethod: method,
		logger.FieldQuery:  text,
		logger.FieldPage:   page,
	})
	start := time.Now()

	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&env).
		Get("/")
	if err != nil {
		log.WithError(err).Warn("request failed")
		return domain.PhotoPage{}, errors.Mark(errors.Wrapf(err, "failed to call %s", method), ErrTransport)
	}

	if resp.StatusCode() != http.StatusOK {
		log.WithField(logger.FieldStatus, resp.StatusCode()).Warn("unexpected status")
		return domain.PhotoPage{}, errors.Mark(errors.Newf("%s: unexpected status %d", method, resp.StatusCode()), ErrTransport)
	}

	if env.Stat != "ok" {
		apiErr := &APIError{Code: env.Code, Message: env.Message}
		if env.Stat == "" {
			apiErr.Message = "malformed response"
		}
		log.WithError(apiErr).Warn("api returned failure")
		return domain.PhotoPage{}, errors.Mark(errors.WithStack(apiErr), ErrTransport)
	}
	if env.Photos == nil {
		return domain.PhotoPage{}, errors.Mark(errors.Newf("%s: response has no photos", method), ErrTransport)
	}

	result, dropped := env.Photos.toDomain()
	log.WithFields(logger.Fields{
		logger.FieldCount:      len(result.Photos),
		logger.FieldTotal:      result.Total,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		"dropped":              dropped,
	}).Debug("page fetched")

	return result, nil
}
