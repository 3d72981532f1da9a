package fetch_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/fetch"
	"github.com/openshift-eng/ci-monitor/pkg/log"
)

const sampleLog = "=== Scenario: deploy frontend\nstep passed\n"

func testLogger() log.Logger {
	return log.New(log.WithOutput(io.Discard))
}

func newFetcher(opts ...fetch.Option) *fetch.Fetcher {
	opts = append([]fetch.Option{fetch.WithRetrySleep(time.Millisecond, time.Millisecond*2)}, opts...)

	return fetch.NewFetcher(testLogger(), opts...)
}

func TestFetchReturnsFullBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleLog)
	}))
	defer server.Close()

	content, err := newFetcher().Fetch(context.Background(), server.URL+"/log")
	require.NoError(t, err)
	assert.Equal(t, sampleLog, content)
}

func TestFetchRetriesTruncatedTransfer(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			// Declare more bytes than are sent so the client sees the
			// transfer end early.
			w.Header().Set("Content-Length", "1000")
			_, _ = w.Write([]byte("partial"))

			return
		}

		fmt.Fprint(w, sampleLog)
	}))
	defer server.Close()

	content, err := newFetcher().Fetch(context.Background(), server.URL+"/log")
	require.NoError(t, err)
	assert.Equal(t, sampleLog, content)
	assert.Equal(t, int32(3), requests.Load())
}

func TestFetchGivesUpAfterThreeAttempts(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte("partial"))
	}))
	defer server.Close()

	_, err := newFetcher().Fetch(context.Background(), server.URL+"/log")
	require.Error(t, err)

	var exhaustedErr fetch.FetchExhaustedError
	require.True(t, errors.As(err, &exhaustedErr))
	assert.Equal(t, 3, exhaustedErr.Attempts)
	assert.Equal(t, int32(3), requests.Load())
}

func TestFetchDoesNotRetryErrorStatus(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newFetcher().Fetch(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), requests.Load())
}

func TestFetchDeduplicatesConcurrentDownloads(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, sampleLog)
	}))
	defer server.Close()

	fetcher := newFetcher()

	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			content, err := fetcher.Fetch(context.Background(), server.URL+"/log")
			assert.NoError(t, err)
			assert.Equal(t, sampleLog, content)
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(1), requests.Load())
}
