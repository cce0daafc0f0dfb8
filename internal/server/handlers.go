package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/job-capture/internal/cache"
	"github.com/jonathan/job-capture/internal/capture"
	"github.com/jonathan/job-capture/internal/db"
	"github.com/jonathan/job-capture/internal/progress"
	"github.com/jonathan/job-capture/internal/types"
)

// ExistsResponse represents the response for /jobs/exists. The extraction
// and summary flags tell the capture client whether a full run, a
// summary-only run, or just displaying the stored doc is warranted.
type ExistsResponse struct {
	Exists        bool       `json:"exists"`
	JobID         *uuid.UUID `json:"job_id,omitempty"`
	HasExtraction bool       `json:"has_extraction"`
	HasSummary    bool       `json:"has_summary"`
	NormalizedURL string     `json:"normalized_url"`
	Cached        bool       `json:"cached"`
}

func existsResponse(entry cache.Entry, normalizedURL string, cached bool) ExistsResponse {
	return ExistsResponse{
		Exists:        entry.Exists,
		JobID:         entry.JobID,
		HasExtraction: entry.HasExtraction,
		HasSummary:    entry.HasSummary,
		NormalizedURL: normalizedURL,
		Cached:        cached,
	}
}

// ListJobsResponse represents the response for /jobs
type ListJobsResponse struct {
	Jobs  []types.JobDoc `json:"jobs"`
	Total int            `json:"total"`
}

// handleCaptureStream runs one capture and streams progress events back to
// the client over SSE. The stream ends with a done or failed event; if the
// client disconnects mid-run, the run finishes server-side anyway.
func (s *Server) handleCaptureStream(w http.ResponseWriter, r *http.Request) {
	var raw types.RawCapture
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(raw); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid capture: "+err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The emitter is bound to the request context so delivery stops on
	// disconnect, but the run itself keeps going and still lands the doc.
	emitter := progress.NewEmitter(r.Context(), 0)
	runCtx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := s.pipe.Run(runCtx, raw, emitter); err != nil {
			log.Printf("Capture run failed for %s: %v", raw.URL, err)
		}
	}()

	for event := range emitter.Events() {
		if err := sse.WriteEvent(eventName(event), event); err != nil {
			// Client went away; drain remaining events and stop.
			log.Printf("SSE write failed: %v", err)
			return
		}
	}
}

func eventName(event types.ProgressEvent) string {
	switch event.Status {
	case types.StatusDone:
		return "done"
	case types.StatusFailed:
		return "failed"
	default:
		return "progress"
	}
}

// handleJobExists answers the duplicate check for a posting URL. The answer
// comes from the existence cache when fresh; cache errors fall through to a
// live lookup, and concurrent checks for one URL share a single query.
func (s *Server) handleJobExists(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	normalized, err := capture.NormalizeURL(rawURL)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid URL: "+err.Error())
		return
	}

	if s.existence != nil {
		entry, hit, err := s.existence.Check(r.Context(), normalized)
		if err != nil {
			log.Printf("Existence cache check failed for %s: %v", normalized, err)
		} else if hit {
			s.jsonResponse(w, http.StatusOK, existsResponse(entry, normalized, true))
			return
		}
	}

	result, err, _ := s.existsGroup.Do(normalized, func() (any, error) {
		doc, err := s.docs.GetJobDocByURL(r.Context(), normalized)
		if err != nil {
			return nil, err
		}
		return cache.EntryFor(doc), nil
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	entry := result.(cache.Entry)

	if s.existence != nil {
		if err := s.existence.Set(r.Context(), normalized, entry); err != nil {
			log.Printf("Existence cache set failed for %s: %v", normalized, err)
		}
	}

	s.jsonResponse(w, http.StatusOK, existsResponse(entry, normalized, false))
}

// handleGetJob returns one saved doc by ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	doc, err := s.docs.GetJobDocByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, doc)
}

// handleListJobs lists saved docs with optional filters
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	opts := db.ListJobDocsOptions{
		Company:   r.URL.Query().Get("company"),
		Seniority: r.URL.Query().Get("seniority"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		opts.Limit = limit
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid offset parameter")
			return
		}
		opts.Offset = offset
	}

	jobs, total, err := s.docs.ListJobDocs(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if jobs == nil {
		jobs = []types.JobDoc{}
	}

	s.jsonResponse(w, http.StatusOK, ListJobsResponse{Jobs: jobs, Total: total})
}
