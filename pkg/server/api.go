package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	defaultLastPoints  = 100
	defaultRangeLimit  = 1000
	healthzBody        = `{"status":"ok"}`
	contentTypeHeader  = "Content-Type"
	contentTypeJSON    = "application/json"
	invalidParamStatus = http.StatusBadRequest
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set(contentTypeHeader, contentTypeJSON)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

// intParam parses an optional integer query parameter, falling back to def
// when absent. The bool result reports whether the value was well-formed.
func intParam(r *http.Request, key string, def int64) (int64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

func (s *Server) listMetrics(w http.ResponseWriter, _ *http.Request) {
	names := s.store.MetricNames()
	sort.Strings(names)

	writeJSON(w, names)
}

// getLast serves GET /api/metrics/{name}/last?n=N, newest first. Unknown
// metrics yield an empty array, not an error.
func (s *Server) getLast(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	n, ok := intParam(r, "n", defaultLastPoints)
	if !ok || n < 0 {
		http.Error(w, "invalid n parameter", invalidParamStatus)
		return
	}

	writeJSON(w, s.store.QueryLast(name, int(n)))
}

// getRange serves GET /api/metrics/{name}/range?start=&end=&limit=, oldest
// first. start and end are required epoch milliseconds; an inverted range
// yields an empty array.
func (s *Server) getRange(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	query := r.URL.Query()
	if query.Get("start") == "" || query.Get("end") == "" {
		http.Error(w, "start and end parameters are required", invalidParamStatus)
		return
	}

	start, ok := intParam(r, "start", 0)
	if !ok {
		http.Error(w, "invalid start parameter", invalidParamStatus)
		return
	}

	end, ok := intParam(r, "end", 0)
	if !ok {
		http.Error(w, "invalid end parameter", invalidParamStatus)
		return
	}

	limit, ok := intParam(r, "limit", defaultRangeLimit)
	if !ok || limit < 0 {
		http.Error(w, "invalid limit parameter", invalidParamStatus)
		return
	}

	writeJSON(w, s.store.QueryRange(name, start, end, int(limit)))
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	_, _ = w.Write([]byte(healthzBody))
}
