package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-capture/internal/cache"
	"github.com/jonathan/job-capture/internal/db"
	"github.com/jonathan/job-capture/internal/pipeline"
	"github.com/jonathan/job-capture/internal/types"
)

type stubDocStore struct {
	docs    map[uuid.UUID]*types.JobDoc
	byURL   map[string]*types.JobDoc
	lookups int
	pingErr error
}

func newStubDocStore() *stubDocStore {
	return &stubDocStore{
		docs:  make(map[uuid.UUID]*types.JobDoc),
		byURL: make(map[string]*types.JobDoc),
	}
}

func (s *stubDocStore) add(doc *types.JobDoc) {
	s.docs[doc.ID] = doc
	s.byURL[doc.NormalizedURL] = doc
}

func (s *stubDocStore) GetJobDocByID(_ context.Context, id uuid.UUID) (*types.JobDoc, error) {
	return s.docs[id], nil
}

func (s *stubDocStore) GetJobDocByURL(_ context.Context, normalizedURL string) (*types.JobDoc, error) {
	s.lookups++
	return s.byURL[normalizedURL], nil
}

func (s *stubDocStore) ListJobDocs(_ context.Context, _ db.ListJobDocsOptions) ([]types.JobDoc, int, error) {
	var out []types.JobDoc
	for _, doc := range s.docs {
		out = append(out, *doc)
	}
	return out, len(out), nil
}

func (s *stubDocStore) Ping(context.Context) error {
	return s.pingErr
}

func newTestServer(docs DocStore) *Server {
	return NewWithComponents(0, docs, pipeline.New(pipeline.Options{}), cache.NewMemoryCache(0))
}

const streamBody = `{
  "posting_url": "https://boards.greenhouse.io/acme/jobs/123",
  "raw_text": "Senior Platform Engineer\n\nRequirements\n- 5+ years of experience with Go and Kubernetes\n- Strong PostgreSQL skills\n\nSalary range: $150,000 - $200,000 per year. Hybrid role in Denver.",
  "client_hints": {"board": "greenhouse", "page_title": "Senior Platform Engineer - Acme"}
}`

func TestCaptureStream_EmitsDoneEvent(t *testing.T) {
	srv := newTestServer(newStubDocStore())
	req := httptest.NewRequest(http.MethodPost, "/capture/stream", strings.NewReader(streamBody))
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event: progress")
	assert.Contains(t, body, "event: done")
	assert.Contains(t, body, `"percent":100`)
	assert.Contains(t, body, "Senior Platform Engineer")
}

func TestCaptureStream_ShortTextFails(t *testing.T) {
	srv := newTestServer(newStubDocStore())
	body := `{"posting_url": "https://example.com/job", "raw_text": "too short"}`
	req := httptest.NewRequest(http.MethodPost, "/capture/stream", strings.NewReader(body))
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "event: failed")
	assert.NotContains(t, rec.Body.String(), "event: done")
}

func TestCaptureStream_RejectsInvalidBody(t *testing.T) {
	srv := newTestServer(newStubDocStore())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"missing url", `{"raw_text": "some posting text"}`},
		{"bad url", `{"posting_url": "not-a-url", "raw_text": "some posting text"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/capture/stream", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Routes().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestJobExists_NormalizesAndCaches(t *testing.T) {
	docs := newStubDocStore()
	summary := "Senior platform role at Acme."
	saved := &types.JobDoc{
		ID:            uuid.New(),
		NormalizedURL: "https://boards.greenhouse.io/acme/jobs/123",
		Title:         "Senior Platform Engineer",
		Summary:       &summary,
	}
	docs.add(saved)
	srv := newTestServer(docs)

	get := func() ExistsResponse {
		req := httptest.NewRequest(http.MethodGet,
			"/jobs/exists?url="+
				"https%3A%2F%2FBoards.Greenhouse.io%2Facme%2Fjobs%2F123%3Fgh_src%3Dlink", nil)
		rec := httptest.NewRecorder()
		srv.Routes().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ExistsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	first := get()
	assert.True(t, first.Exists)
	assert.False(t, first.Cached)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/123", first.NormalizedURL)

	second := get()
	assert.True(t, second.Exists)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, docs.lookups, "second check should come from the cache")

	// The cached answer must carry the same doc details as the live one.
	require.NotNil(t, second.JobID)
	assert.Equal(t, saved.ID, *second.JobID)
	assert.True(t, second.HasExtraction)
	assert.True(t, second.HasSummary)
}

func TestJobExists_ReportsDocDetails(t *testing.T) {
	docs := newStubDocStore()
	saved := &types.JobDoc{
		ID:            uuid.New(),
		NormalizedURL: "https://example.com/job",
		Title:         "Platform Engineer",
	}
	docs.add(saved)
	srv := newTestServer(docs)

	req := httptest.NewRequest(http.MethodGet, "/jobs/exists?url=https://example.com/job", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The client picks between full extraction, summary-only, and display
	// based on these keys, so they must be present on the wire.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, saved.ID.String(), raw["job_id"])
	assert.Equal(t, true, raw["has_extraction"])
	assert.Equal(t, false, raw["has_summary"])
	assert.Equal(t, true, raw["exists"])
}

func TestJobExists_UnknownURLHasNoDocDetails(t *testing.T) {
	srv := newTestServer(newStubDocStore())

	req := httptest.NewRequest(http.MethodGet, "/jobs/exists?url=https://example.com/unseen", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExistsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Exists)
	assert.Nil(t, resp.JobID)
	assert.False(t, resp.HasExtraction)
	assert.False(t, resp.HasSummary)
}

func TestJobExists_RequiresURL(t *testing.T) {
	srv := newTestServer(newStubDocStore())
	req := httptest.NewRequest(http.MethodGet, "/jobs/exists", nil)
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobExists_CacheErrorFallsThrough(t *testing.T) {
	docs := newStubDocStore()
	docs.add(&types.JobDoc{ID: uuid.New(), NormalizedURL: "https://example.com/job"})
	srv := NewWithComponents(0, docs, pipeline.New(pipeline.Options{}), &failingCache{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/exists?url=https://example.com/job", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExistsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Exists)
	assert.Equal(t, 1, docs.lookups, "cache failure must fall through to the live check")
}

type failingCache struct{}

func (f *failingCache) Check(context.Context, string) (cache.Entry, bool, error) {
	return cache.Entry{}, false, errors.New("cache down")
}
func (f *failingCache) Set(context.Context, string, cache.Entry) error {
	return errors.New("cache down")
}
func (f *failingCache) Invalidate(context.Context, string) error { return errors.New("cache down") }

func TestGetJob(t *testing.T) {
	docs := newStubDocStore()
	id := uuid.New()
	docs.docs[id] = &types.JobDoc{ID: id, NormalizedURL: "https://example.com/job", Title: "Platform Engineer"}
	srv := newTestServer(docs)

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+id.String(), nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var doc types.JobDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Platform Engineer", doc.Title)
}

func TestGetJob_NotFound(t *testing.T) {
	srv := newTestServer(newStubDocStore())
	req := httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJob_InvalidID(t *testing.T) {
	srv := newTestServer(newStubDocStore())
	req := httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListJobs(t *testing.T) {
	docs := newStubDocStore()
	for i := 0; i < 3; i++ {
		id := uuid.New()
		docs.docs[id] = &types.JobDoc{ID: id, NormalizedURL: fmt.Sprintf("https://example.com/job/%d", i)}
	}
	srv := newTestServer(docs)

	req := httptest.NewRequest(http.MethodGet, "/jobs?limit=10", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListJobsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Jobs, 3)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(newStubDocStore())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealth_DatabaseDown(t *testing.T) {
	docs := newStubDocStore()
	docs.pingErr = errors.New("connection refused")
	srv := newTestServer(docs)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
