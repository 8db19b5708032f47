// Package worldbank fetches country-level indicator series from the World
// Bank API (v2) and reshapes them into a sparse (country, year) table for
// normalization. One Fetch call covers every requested indicator; individual
// series are pulled concurrently but the call fails as a whole if any series
// cannot be completed.
package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/utils"
)

// ErrProvider marks a failed provider call. Fetch errors are fatal to an
// ingestion run; no facts are written when one occurs.
var ErrProvider = errors.New("worldbank: provider request failed")

const (
	defaultBaseURL = "https://api.worldbank.org/v2"
	defaultPerPage = 1000
	defaultWorkers = 4
)

// Client talks to the World Bank API.
type Client struct {
	baseURL string
	perPage int
	workers int
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithWorkers sets how many indicator series are fetched concurrently.
func WithWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithPerPage sets the provider page size.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// NewClient builds a Client. The base URL defaults to the public API and can
// be overridden through WORLDBANK_URL.
func NewClient(logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(utils.Env("WORLDBANK_URL", defaultBaseURL), "/"),
		perPage: defaultPerPage,
		workers: defaultWorkers,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the given indicator series for the given country codes over
// [startYear, endYear). The upper bound is exclusive at year granularity,
// matching the provider convention of year-start timestamps.
func (c *Client) Fetch(ctx context.Context, indicatorCodes []string, countryCodes []string, startYear, endYear int) (SparseTable, error) {
	if startYear <= 0 || endYear <= startYear {
		return nil, fmt.Errorf("%w: bad year range [%d, %d)", ErrProvider, startYear, endYear)
	}
	if len(indicatorCodes) == 0 || len(countryCodes) == 0 {
		return nil, fmt.Errorf("%w: no indicators or countries requested", ErrProvider)
	}

	countryPath := strings.Join(countryCodes, ";")
	table := make(SparseTable)
	var mu sync.Mutex

	pool := pond.NewPool(c.workers)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for _, code := range indicatorCodes {
		code := code
		group.SubmitErr(func() error {
			series, err := c.fetchSeries(groupCtx, countryPath, code, startYear, endYear)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, obs := range series {
				year, err := strconv.Atoi(obs.Date)
				if err != nil {
					// sub-annual series point (e.g. "2015Q3"); the loader only
					// deals in years
					continue
				}
				key := CellKey{Country: obs.Country.Value, Year: year}
				cell, ok := table[key]
				if !ok {
					cell = make(map[string]*float64)
					table[key] = cell
				}
				cell[obs.Indicator.Value] = obs.Value
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, pond.ErrGroupStopped) {
		return nil, err
	}

	c.logger.Info("provider fetch complete",
		zap.Int("indicators", len(indicatorCodes)),
		zap.Int("countries", len(countryCodes)),
		zap.Int("cells", len(table)))

	return table, nil
}

// fetchSeries pulls every page of one indicator series.
func (c *Client) fetchSeries(ctx context.Context, countryPath, indicatorCode string, startYear, endYear int) ([]observation, error) {
	var series []observation

	for page := 1; ; page++ {
		meta, obs, err := c.fetchPage(ctx, countryPath, indicatorCode, startYear, endYear, page)
		if err != nil {
			return nil, err
		}
		series = append(series, obs...)
		if page >= meta.Pages {
			return series, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, countryPath, indicatorCode string, startYear, endYear, page int) (pageMeta, []observation, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", strconv.Itoa(page))
	// exclusive upper bound, provider takes inclusive year spans
	q.Set("date", fmt.Sprintf("%d:%d", startYear, endYear-1))

	u := fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		c.baseURL, url.PathEscape(countryPath), url.PathEscape(indicatorCode), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return pageMeta{}, nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pageMeta{}, nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer func() { _ = utils.DrainAndClose(resp.Body) }()

	if resp.StatusCode != http.StatusOK {
		return pageMeta{}, nil, fmt.Errorf("%w: %s returned status %d", ErrProvider, indicatorCode, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pageMeta{}, nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	// v2 responses are a two element array: [meta, observations]
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return pageMeta{}, nil, fmt.Errorf("%w: malformed response for %s: %v", ErrProvider, indicatorCode, err)
	}
	if len(raw) < 2 {
		return pageMeta{}, nil, fmt.Errorf("%w: response for %s has no data element", ErrProvider, indicatorCode)
	}

	var meta pageMeta
	if err := json.Unmarshal(raw[0], &meta); err != nil {
		return pageMeta{}, nil, fmt.Errorf("%w: malformed page meta for %s: %v", ErrProvider, indicatorCode, err)
	}

	var obs []observation
	if err := json.Unmarshal(raw[1], &obs); err != nil {
		return pageMeta{}, nil, fmt.Errorf("%w: malformed observations for %s: %v", ErrProvider, indicatorCode, err)
	}

	return meta, obs, nil
}
