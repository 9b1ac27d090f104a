// Package api provides the HTTP API endpoints for the lr1trace server: POST
// a grammar to get back its built automaton/table/FIRST-FOLLOW, or POST a
// grammar plus an input token sequence to get back a full driver trace.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/corvidlabs/lr1trace/internal/gtext"
	"github.com/corvidlabs/lr1trace/internal/lr1"
	"github.com/corvidlabs/lr1trace/internal/lr1cache"
	"github.com/corvidlabs/lr1trace/internal/lr1/serialize"
	"github.com/corvidlabs/lr1trace/server/result"
)

// PathPrefix is the prefix of all paths in the API. Routers should mount a
// sub-router that routes all requests to the API at this path.
const PathPrefix = "/api/v1"

// API holds the dependencies needed to serve requests: a build cache shared
// across requests for identical grammar text.
type API struct {
	Cache *lr1cache.Cache
}

// Routes returns a chi.Router serving the API's endpoints, to be mounted at
// PathPrefix.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/build", httpEndpoint(a.handleBuild))
	r.Post("/parse", httpEndpoint(a.handleParse))
	r.Get("/health", httpEndpoint(a.handleHealth))
	return r
}

type buildRequest struct {
	Grammar   string `json:"grammar"`
	Epsilon   string `json:"epsilon"`
	EndMarker string `json:"end_marker"`
}

type parseRequest struct {
	buildRequest
	Input []string `json:"input"`
}

func (a *API) handleBuild(req *http.Request) result.Result {
	var body buildRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error())
	}

	analyzer, err := a.build(body.Grammar, body.Epsilon, body.EndMarker)
	if err != nil {
		return result.BadRequest(err.Error())
	}

	doc := serialize.FromAnalyzer(analyzer)
	return result.OK(doc, "built grammar with %d productions", len(analyzer.Original.Productions()))
}

func (a *API) handleParse(req *http.Request) result.Result {
	var body parseRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error())
	}

	analyzer, err := a.build(body.Grammar, body.Epsilon, body.EndMarker)
	if err != nil {
		return result.BadRequest(err.Error())
	}

	driveResult := analyzer.NewDriver().Run(body.Input, analyzer.NumStates())
	doc := serialize.FromAnalyzer(analyzer).WithTrace(driveResult)

	if driveResult.Err != nil {
		return result.Response(http.StatusUnprocessableEntity, doc, "parse failed: %s", driveResult.Err.Error())
	}
	return result.OK(doc, "parsed %d input tokens", len(body.Input))
}

func (a *API) handleHealth(req *http.Request) result.Result {
	return result.OK(map[string]string{"status": "ok"})
}

// build parses grammarText and runs the full lr1 pipeline over it on every
// call. If a.Cache is configured and holds no entry for grammarText yet, the
// built automaton and table are stored in it; cached entries are not read
// back here.
func (a *API) build(grammarText, epsilon, endMarker string) (*lr1.Analyzer, error) {
	g, err := gtext.Parse(grammarText, epsilon, endMarker)
	if err != nil {
		return nil, err
	}

	analyzer, err := lr1.Build(g)
	if err != nil {
		return nil, err
	}

	if a.Cache != nil {
		key := lr1cache.Key(grammarText)
		if _, _, found, _ := a.Cache.Get(key); !found {
			_ = a.Cache.Put(key, analyzer.Automaton, analyzer.Table)
		}
	}

	return analyzer, nil
}

// parseJSON decodes req's JSON body into v, leaving the body re-readable
// afterward for any later middleware that also wants it.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}

// EndpointFunc is an HTTP handler that returns its response as a
// result.Result instead of writing directly to a http.ResponseWriter.
type EndpointFunc func(req *http.Request) result.Result

func httpEndpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			logHttpResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := result.Err(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
			newResp.WriteResponse(w)
			return
		}

		if r.IsErr {
			logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHttpResponse("INFO", req, r.Status, r.InternalMsg)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		).WriteResponse(w)
		return true
	}
	return false
}

func logHttpResponse(level string, req *http.Request, respStatus int, msg string) {
	if len(level) > 5 {
		level = level[0:5]
	}
	for len(level) < 5 {
		level += " "
	}

	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}
