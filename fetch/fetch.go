// Package fetch is the network collaborator: it performs one HTTP request
// per call and exposes the eventual outcome as a godefer.Deferred, with the
// continuation always delivered on the designated Loop.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/panyam/godefer"
)

// Result is the success payload of a fetch: the raw response bytes plus the
// response metadata. Consumers of the combinator treat it as opaque.
type Result struct {
	Body     []byte
	Response *http.Response
}

// Failure is the failure payload of a fetch: the error plus whatever
// response metadata was available (nil when the request never got one).
type Failure struct {
	Err      error
	Response *http.Response
}

func (f Failure) Error() string {
	return f.Err.Error()
}

// Fetcher issues HTTP GET requests and wraps their outcomes in Deferreds.
type Fetcher struct {
	client   *http.Client
	loop     *godefer.Loop
	logger   zerolog.Logger
	inflight *semaphore.Weighted
}

// FetcherOption is a functional option for configuring a Fetcher
type FetcherOption func(*Fetcher)

// WithClient sets the HTTP client used for requests
func WithClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLimit bounds the number of concurrently in-flight requests
func WithLimit(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.inflight = semaphore.NewWeighted(n)
	}
}

// WithLogger sets the logger used for request lifecycle events
func WithLogger(logger zerolog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher delivering all continuations on loop.
// By default it uses a 30 second client timeout, allows 4 in-flight
// requests and logs nothing.
func NewFetcher(loop *godefer.Loop, opts ...FetcherOption) *Fetcher {
	out := &Fetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		loop:     loop,
		logger:   zerolog.Nop(),
		inflight: semaphore.NewWeighted(4),
	}
	for _, opt := range opts {
		opt(out)
	}
	return out
}

// Fetch returns a Deferred for one GET of url. Nothing happens until the
// Deferred is subscribed; the request then runs on a worker goroutine and
// the outcome re-enters the Loop before either continuation is invoked.
// Responses with status >= 400 are reported as failures.
func (f *Fetcher) Fetch(url string) godefer.Deferred[Result, Failure] {
	return godefer.New(func(succeed func(Result), fail func(Failure)) {
		go f.run(url, succeed, fail)
	})
}

func (f *Fetcher) run(url string, succeed func(Result), fail func(Failure)) {
	if err := f.inflight.Acquire(context.Background(), 1); err != nil {
		f.deliverFailure(fail, Failure{Err: err})
		return
	}
	defer f.inflight.Release(1)

	started := time.Now()
	resp, err := f.client.Get(url)
	if err != nil {
		f.logger.Error().Err(err).Str("url", url).Msg("request failed")
		f.deliverFailure(fail, Failure{Err: err})
		return
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		f.logger.Error().Err(err).Str("url", url).Msg("reading body failed")
		f.deliverFailure(fail, Failure{Err: err, Response: resp})
		return
	}
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("GET %s: %s", url, resp.Status)
		f.logger.Warn().Str("url", url).Int("status", resp.StatusCode).Msg("error status")
		f.deliverFailure(fail, Failure{Err: err, Response: resp})
		return
	}

	f.logger.Debug().
		Str("url", url).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(started)).
		Msg("fetched")
	f.loop.Dispatch(func() {
		succeed(Result{Body: body, Response: resp})
	})
}

func (f *Fetcher) deliverFailure(fail func(Failure), failure Failure) {
	f.loop.Dispatch(func() {
		fail(failure)
	})
}
