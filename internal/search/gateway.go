// Package search fetches raw hits from the Google Custom Search JSON API,
// spreading calls over a pool of API keys.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"opportunity/discovery-service/internal/credentials"
	"opportunity/discovery-service/internal/metrics"
	"opportunity/discovery-service/internal/model"
)

const (
	DefaultEndpoint   = "https://www.googleapis.com/customsearch/v1"
	MaxResultsPerPage = 10
	MaxTimeout        = 10 * time.Second
	maxErrorBody      = 512
)

// Failure kinds returned by Fetch. Callers decide the fallback.
var (
	ErrCredentialsMissing = errors.New("search credentials not configured")
	ErrRateLimited        = errors.New("search provider rate limited")
	ErrTransport          = errors.New("search provider unreachable")
	ErrEmptyResult        = errors.New("search returned no items")
	errHTTPStatus         = errors.New("search provider returned error status")
)

// Options are the fixed request parameters sent with every page.
type Options struct {
	Endpoint       string
	EngineID       string
	ResultsPerPage int
	Timeout        time.Duration
	DateRestrict   string // e.g. "m3"
	Sort           string // e.g. "date:d:s"
	Geo            string // gl, e.g. "in"
	Country        string // cr, e.g. "countryIN"
}

func (o Options) withDefaults() Options {
	if o.Endpoint == "" {
		o.Endpoint = DefaultEndpoint
	}
	if o.ResultsPerPage <= 0 || o.ResultsPerPage > MaxResultsPerPage {
		o.ResultsPerPage = MaxResultsPerPage
	}
	if o.Timeout <= 0 || o.Timeout > MaxTimeout {
		o.Timeout = MaxTimeout
	}
	return o
}

// Gateway issues paged search requests. It is safe for concurrent use; the
// only shared state is the credential pool.
type Gateway struct {
	pool     *credentials.Pool
	opts     Options
	client   *http.Client
	sanitize *bluemonday.Policy
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// NewGateway wires a Gateway. log and m may be nil.
func NewGateway(pool *credentials.Pool, opts Options, log *zap.Logger, m *metrics.Metrics) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		pool:     pool,
		opts:     opts.withDefaults(),
		client:   &http.Client{},
		sanitize: bluemonday.StrictPolicy(),
		log:      log.With(zap.String("component", "search")),
		metrics:  m,
	}
}

// cseResponse mirrors the parts of the Custom Search response we read.
type cseResponse struct {
	Items []cseItem `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type cseItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Fetch requests each page offset in order and concatenates the hits.
//
// A 429 rotates to a credential not yet used in this call and retries the
// page once; if none is left, paging stops. Other bad statuses skip the page.
// Transport failures skip the page, except on the first page, which aborts.
// When nothing was collected Fetch returns an error wrapping ErrEmptyResult
// or ErrCredentialsMissing.
func (g *Gateway) Fetch(ctx context.Context, query string, offsets []int) ([]model.RawSearchHit, error) {
	if g.pool == nil || g.pool.Empty() {
		return nil, ErrCredentialsMissing
	}
	if g.opts.EngineID == "" {
		return nil, fmt.Errorf("%w: engine id is empty", ErrCredentialsMissing)
	}

	tried := make(map[int]bool, g.pool.Len())
	var (
		hits    []model.RawSearchHit
		lastErr error
	)

pages:
	for i, start := range offsets {
		items, err := g.fetchPage(ctx, query, start, tried)
		if err == nil {
			hits = append(hits, items...)
			continue
		}
		lastErr = err

		switch {
		case errors.Is(err, ErrRateLimited):
			g.log.Warn("Rate limited on every credential, stop paging",
				zap.Int("start", start), zap.Int("collected", len(hits)))
			break pages
		case errors.Is(err, ErrTransport) && i == 0:
			g.log.Warn("First page failed, abort fetch", zap.Int("start", start), zap.Error(err))
			break pages
		default:
			g.log.Warn("Page failed, continue", zap.Int("start", start), zap.Error(err))
		}
	}

	if len(hits) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrEmptyResult, lastErr)
		}
		return nil, ErrEmptyResult
	}
	return hits, nil
}

// fetchPage requests one page with the next credential in rotation. A 429
// is retried once with a credential not yet used in this Fetch.
func (g *Gateway) fetchPage(ctx context.Context, query string, start int, tried map[int]bool) ([]model.RawSearchHit, error) {
	cred, ok := g.pool.Next()
	if !ok {
		return nil, ErrCredentialsMissing
	}
	tried[cred.Index] = true
	items, err := g.request(ctx, cred, query, start)
	if !errors.Is(err, ErrRateLimited) {
		return items, err
	}

	next, ok := g.pool.NextWhere(func(c credentials.Credential) bool { return !tried[c.Index] })
	if !ok {
		return nil, err
	}
	tried[next.Index] = true
	g.log.Info("Rate limited, retry with next credential",
		zap.Int("start", start), zap.Int("from", cred.Index), zap.Int("to", next.Index))
	return g.request(ctx, next, query, start)
}

func (g *Gateway) request(ctx context.Context, cred credentials.Credential, query string, start int) ([]model.RawSearchHit, error) {
	if err := cred.Wait(ctx); err != nil {
		g.metrics.ProviderRequest(metrics.OutcomeTransport)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.pageURL(cred.Key, query, start), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.metrics.ProviderRequest(metrics.OutcomeTransport)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		g.metrics.ProviderRequest(metrics.OutcomeRateLimited)
		return nil, fmt.Errorf("%w: credential %d", ErrRateLimited, cred.Index)
	case resp.StatusCode != http.StatusOK:
		g.metrics.ProviderRequest(metrics.OutcomeHTTPError)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w %d: %s", errHTTPStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var body cseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		g.metrics.ProviderRequest(metrics.OutcomeDecodeError)
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.Error != nil {
		g.metrics.ProviderRequest(metrics.OutcomeHTTPError)
		return nil, fmt.Errorf("%w %d: %s", errHTTPStatus, body.Error.Code, body.Error.Message)
	}
	g.metrics.ProviderRequest(metrics.OutcomeOK)

	hits := make([]model.RawSearchHit, 0, len(body.Items))
	for _, it := range body.Items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		hits = append(hits, model.RawSearchHit{
			Title:   g.plainText(it.Title),
			Link:    link,
			Snippet: g.plainText(it.Snippet),
		})
	}
	return hits, nil
}

func (g *Gateway) pageURL(key, query string, start int) string {
	params := url.Values{}
	params.Set("key", key)
	params.Set("cx", g.opts.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(g.opts.ResultsPerPage))
	params.Set("start", strconv.Itoa(start))
	setIf(params, "dateRestrict", g.opts.DateRestrict)
	setIf(params, "sort", g.opts.Sort)
	setIf(params, "gl", g.opts.Geo)
	setIf(params, "cr", g.opts.Country)
	return g.opts.Endpoint + "?" + params.Encode()
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// plainText strips markup the provider sometimes leaves in titles and
// snippets and folds whitespace.
func (g *Gateway) plainText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(g.sanitize.Sanitize(s))), " ")
}
