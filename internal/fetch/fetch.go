// Package fetch downloads CI run log files over HTTP.
//
// Artifact servers behind proxies occasionally close the connection before
// the full body declared in Content-Length has been sent, which used to yield
// silently truncated logs and bogus classification results. The fetcher
// treats a short transfer as a retryable failure and repeats the request with
// a fresh connection, up to three attempts in total. Any other failure, such
// as a non-200 status or an unreachable host, aborts immediately.
package fetch

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-getter/v2"
	"golang.org/x/sync/singleflight"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/telemetry"
	"github.com/openshift-eng/ci-monitor/pkg/log"
	"github.com/openshift-eng/ci-monitor/util"
)

const (
	// Two retries on top of the initial request, three requests in total.
	maxRetriesFetchLog = 2

	sleepBetweenRetriesMin = time.Second * 1
	sleepBetweenRetriesMax = time.Second * 3
)

// Fetcher downloads log files over HTTP, retrying truncated transfers.
// Concurrent fetches of the same URL share a single download; nothing is
// retained once the download completes.
type Fetcher struct {
	client       *http.Client
	logger       log.Logger
	singleflight *singleflight.Group

	maxRetries      int
	sleepBetweenMin time.Duration
	sleepBetweenMax time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(fetcher *Fetcher) {
		fetcher.client = client
	}
}

// WithMaxRetries overrides how many times a truncated download is retried on
// top of the initial attempt.
func WithMaxRetries(maxRetries int) Option {
	return func(fetcher *Fetcher) {
		fetcher.maxRetries = maxRetries
	}
}

// WithRetrySleep overrides the bounds of the randomized sleep between
// attempts.
func WithRetrySleep(minSleep, maxSleep time.Duration) Option {
	return func(fetcher *Fetcher) {
		fetcher.sleepBetweenMin = minSleep
		fetcher.sleepBetweenMax = maxSleep
	}
}

// NewFetcher returns a Fetcher logging retry activity to the given logger.
func NewFetcher(logger log.Logger, opts ...Option) *Fetcher {
	fetcher := &Fetcher{
		client:          cleanhttp.DefaultPooledClient(),
		logger:          logger,
		singleflight:    &singleflight.Group{},
		maxRetries:      maxRetriesFetchLog,
		sleepBetweenMin: sleepBetweenRetriesMin,
		sleepBetweenMax: sleepBetweenRetriesMax,
	}

	for _, opt := range opts {
		opt(fetcher)
	}

	return fetcher
}

// Fetch returns the complete text of the log at the given url. When every
// attempt ends in a truncated transfer, a FetchExhaustedError is returned
// instead of partial content.
func (fetcher *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	content, err, _ := fetcher.singleflight.Do(url, func() (any, error) {
		return fetcher.fetch(ctx, url)
	})
	if err != nil {
		return "", err
	}

	return content.(string), nil
}

func (fetcher *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	var content string

	sleepBetweenRetries := util.GetRandomTime(fetcher.sleepBetweenMin, fetcher.sleepBetweenMax)

	err := telemetry.TelemeterFromContext(ctx).Collect(ctx, "fetch_log", map[string]any{
		"url": url,
	}, func(ctx context.Context) error {
		return util.DoWithRetry(ctx, "Fetching log "+url, fetcher.maxRetries, sleepBetweenRetries, fetcher.logger, log.DebugLevel, func(ctx context.Context) error {
			text, err := fetcher.download(ctx, url)
			if err != nil {
				return err
			}

			content = text

			return nil
		})
	})
	if err != nil {
		var retriesExceededErr util.MaxRetriesExceeded
		if errors.As(err, &retriesExceededErr) {
			return "", errors.New(FetchExhaustedError{URL: url, Attempts: fetcher.maxRetries + 1})
		}

		return "", err
	}

	return content, nil
}

// download performs a single GET and verifies that the number of bytes
// received matches the declared Content-Length.
func (fetcher *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", util.FatalError{Underlying: errors.New(err)}
	}

	resp, err := fetcher.client.Do(req)
	if err != nil {
		return "", util.FatalError{Underlying: errors.New(err)}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", util.FatalError{Underlying: errors.Errorf("%s returned from %s", resp.Status, url)}
	}

	var buf bytes.Buffer

	written, copyErr := getter.Copy(ctx, &buf, resp.Body)
	if copyErr == nil && (resp.ContentLength < 0 || written == resp.ContentLength) {
		return buf.String(), nil
	}

	return "", errors.New(TruncatedTransferError{
		URL:      url,
		Expected: resp.ContentLength,
		Received: written,
		Err:      copyErr,
	})
}
