/*
Lr1server starts an HTTP server exposing the LR(1) parser-construction
pipeline as a REST API.

Usage:

	lr1server [flags]
	lr1server [flags] -l [[ADDRESS]:PORT]

Once started, lr1server listens for HTTP requests and responds to them
using a small REST API under /api/v1: POST a grammar to /build to get back
its automaton/table/FIRST-FOLLOW, or POST a grammar plus an input token
sequence to /parse to get back a full driver trace. By default it listens
on ":8080" (port 8080 on all interfaces); this can be changed with the --listen/-l flag or the
LR1TRACE_LISTEN_ADDRESS environment variable, or via a config file.

The flags are:

	-v, --version
		Give the current version of lr1server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable LR1TRACE_LISTEN_ADDRESS, and if that is not given, falls
		back to the configured or default listen address.

	-c, --config FILE
		Load settings from the given TOML config file. If not given, the
		server runs with built-in defaults.

	--cache DIR
		Store built automatons/tables under DIR, keyed by grammar text.
		Every request rebuilds its parser whether or not a cache is given;
		the cache only receives entries, it is not read back.
*/
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"

	"github.com/corvidlabs/lr1trace/internal/config"
	"github.com/corvidlabs/lr1trace/internal/lr1cache"
	"github.com/corvidlabs/lr1trace/internal/version"
	"github.com/corvidlabs/lr1trace/server/api"
	"github.com/corvidlabs/lr1trace/server/middle"
)

const EnvListen = "LR1TRACE_LISTEN_ADDRESS"

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of lr1server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagConfig  = pflag.StringP("config", "c", "", "Load settings from the given TOML config file.")
	flagCache   = pflag.String("cache", "", "Cache built automatons/tables under the given directory.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("lr1server (lr1trace v%s)\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("FATAL could not load config: %s", err.Error())
	}

	listenAddr := cfg.Server.ListenAddress
	if envAddr := os.Getenv(EnvListen); envAddr != "" {
		listenAddr = envAddr
	}
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}

	var cache *lr1cache.Cache
	if *flagCache != "" {
		cache, err = lr1cache.New(*flagCache)
		if err != nil {
			log.Fatalf("FATAL could not initialize cache: %s", err.Error())
		}
	}

	a := &api.API{Cache: cache}

	r := chi.NewRouter()
	r.Use(middle.RequestID())
	r.Use(middle.DontPanic())
	r.Mount(api.PathPrefix, a.Routes())

	log.Printf("INFO  Starting lr1server %s on %s...", version.Current, listenAddr)
	if err := http.ListenAndServe(listenAddr, r); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}
