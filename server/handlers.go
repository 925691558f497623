package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/s0up4200/reviewqueue/airtable"
	"github.com/s0up4200/reviewqueue/submission"
)

// Version is reported by the liveness probe
var Version = "dev"

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := indexPage()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read embedded index page")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleRecordByIndex(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}

	rec, err := s.api.Get(r.Context(), index)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(rec))
}

func (s *Server) handleNextRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.api.Next(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(rec))
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.api.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionList(records))
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.api.Record(r.Context(), airtable.RecordID(chi.URLParam(r, "id")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(rec))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := s.api.SetStatus(r.Context(), airtable.RecordID(chi.URLParam(r, "id")), req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(rec))
}

func (s *Server) handleStatuses(w http.ResponseWriter, _ *http.Request) {
	statuses := s.statuses
	if statuses == nil {
		statuses = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"statuses": statuses})
}

func (s *Server) handleHealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// fail logs err and writes the matching error response
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)

	event := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.
		Err(err).
		Str("request_id", RequestIDFrom(r.Context())).
		Int("status", status).
		Msg("Request failed")

	writeError(w, status, message)
}

// listOptions reads ListOptions from the query string
func listOptions(r *http.Request) (submission.ListOptions, error) {
	q := r.URL.Query()
	opts := submission.ListOptions{
		View:      q.Get("view"),
		Formula:   q.Get("formula"),
		SortField: q.Get("sort"),
	}

	switch dir := strings.ToLower(q.Get("direction")); dir {
	case "", "asc", "ascending":
		opts.SortDirection = airtable.Ascending
	case "desc", "descending":
		opts.SortDirection = airtable.Descending
	default:
		return opts, fmt.Errorf("invalid direction %q: must be asc or desc", dir)
	}

	for _, raw := range q["fields"] {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opts.Fields = append(opts.Fields, f)
			}
		}
	}

	if raw := q.Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid max %q: must be a non-negative integer", raw)
		}
		opts.MaxRecords = n
	}

	return opts, nil
}
