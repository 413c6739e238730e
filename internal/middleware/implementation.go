package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/akolanti/studyrag/internal/adapter"
	"github.com/akolanti/studyrag/internal/handlers"
	"github.com/akolanti/studyrag/internal/metrics"
	"github.com/akolanti/studyrag/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var logger = logger_i.NewLogger("middleware")

var GetHandler = Wrap(handlers.GetHandler)

var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var PostIngestHandler = Wrap(handlers.PostIngestHandler)
var QueryContentHandler = Wrap(handlers.QueryContentHandler)
var QueryFlashcardsHandler = Wrap(handlers.QueryFlashcardsHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		defer func() {
			metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc() //metrics
		}()

		re := processRequest(requestResponseStruct{req: r, writer: rec})
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)
	}
}

// processRequest stops at the first failing step.
func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger
	steps := []func(requestResponseStruct) requestResponseStruct{injectTrace, rateLimiter, authenticate}
	for _, step := range steps {
		re = step(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	return re
}

// routePattern keeps metric labels bounded by using the chi route, not the raw path.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func writeFailure(w http.ResponseWriter, f failureStruct) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.httpCode)
	_ = json.NewEncoder(w).Encode(adapter.BadRequest(f.id, f.errorMessage, f.httpCode))
}
