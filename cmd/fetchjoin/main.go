// Command fetchjoin fetches every URL given on the command line
// concurrently, joins the results in argument order, decodes each payload
// as a list of records and prints them. The first failed fetch aborts the
// whole run.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/panyam/godefer"
	"github.com/panyam/godefer/fetch"
	"github.com/panyam/godefer/records"
)

func main() {
	limit := flag.Int64("limit", 4, "maximum concurrently in-flight requests")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	urls := flag.Args()
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: fetchjoin [-limit n] [-v] url [url ...]")
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	loop := godefer.NewLoop()
	fetcher := fetch.NewFetcher(loop,
		fetch.WithLimit(*limit),
		fetch.WithLogger(logger),
	)

	sources := make([]godefer.Deferred[fetch.Result, fetch.Failure], len(urls))
	for i, url := range urls {
		sources[i] = fetcher.Fetch(url)
	}

	exitCode := 0
	done := make(chan struct{})
	godefer.JoinAll(sources...).Subscribe(func(results []fetch.Result) {
		defer close(done)
		for i, result := range results {
			posts, err := records.DecodeList[records.Post](result.Body)
			if err != nil {
				logger.Error().Err(err).Str("url", urls[i]).Msg("undecodable payload")
				exitCode = 1
				return
			}
			for _, post := range posts {
				fmt.Printf("%s\t#%d\t%s\n", urls[i], post.ID, post.Title)
			}
		}
	}, func(failure fetch.Failure) {
		defer close(done)
		logger.Error().Err(failure.Err).Msg("fetch failed")
		exitCode = 1
	})

	<-done
	loop.Stop()
	os.Exit(exitCode)
}
