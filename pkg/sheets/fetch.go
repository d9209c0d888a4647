package sheets

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/ist-ho/progdash/internal/utils"
)

const userAgent = "progdash/1.0 (+https://github.com/ist-ho/progdash)"

// DefaultFetchTimeout bounds each download attempt when FetchOptions.Timeout
// is zero. Cached loads are detached from request contexts, so every attempt
// needs a limit of its own.
const DefaultFetchTimeout = 30 * time.Second

// FetchOptions tunes the HTTP client used to download the export.
type FetchOptions struct {
	Timeout time.Duration
	// Retries is the number of extra attempts on transport errors and 5xx.
	// Zero surfaces the first failure to the caller.
	Retries int
	Proxy   string
}

// Fetcher downloads and parses the CSV export of a spreadsheet tab.
type Fetcher struct {
	client *retryablehttp.Client
}

func NewFetcher(opts FetchOptions) (*Fetcher, error) {
	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = opts.Retries
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client.HTTPClient.Timeout = DefaultFetchTimeout
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}
		client.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &Fetcher{client: client}, nil
}

// Fetch downloads exportURL and parses it. Every failure is a *DataSourceError.
func (f *Fetcher) Fetch(ctx context.Context, exportURL string) (*Table, error) {
	fail := func(err error) (*Table, error) {
		return nil, &DataSourceError{ExportURL: exportURL, Err: err}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("unexpected status %s", resp.Status))
	}

	table, err := ParseCSV(resp.Body)
	if err != nil {
		return fail(err)
	}

	utils.Log.WithFields(logrus.Fields{
		"url":      exportURL,
		"rows":     len(table.Rows),
		"columns":  len(table.Columns),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("Fetched spreadsheet export")

	return table, nil
}
