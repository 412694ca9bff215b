// Command pagedeps audits a list of web pages and local HTML files: which
// scripts each page loads, how many bytes it takes in its declared charset,
// and how often each script appears across the list.
//
// Usage:
//
//	pagedeps [flags] <list.csv>
//
// Each line of the list is "<label>,<location>"; locations starting with '~'
// or '.' are local files, anything else is fetched over HTTP.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}
