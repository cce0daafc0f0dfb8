// Package cache implements the short-lived existence cache backing the
// duplicate-check endpoint. Entries answer "is this URL already saved" and
// expire quickly; a save invalidates the entry so the next check is fresh.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-capture/internal/types"
)

// DefaultTTL is how long an existence answer stays trustworthy. Saves
// invalidate eagerly, so the TTL only bounds staleness across processes.
const DefaultTTL = 5 * time.Minute

// Entry is one cached existence answer. The extraction and summary flags let
// the capture client decide between showing the stored doc, running a
// summary-only pass, or running a full extraction.
type Entry struct {
	Exists        bool       `json:"exists"`
	JobID         *uuid.UUID `json:"job_id,omitempty"`
	HasExtraction bool       `json:"has_extraction"`
	HasSummary    bool       `json:"has_summary"`
}

// EntryFor summarizes a stored doc into a cacheable existence answer. A nil
// doc means the URL has never been saved.
func EntryFor(doc *types.JobDoc) Entry {
	if doc == nil {
		return Entry{}
	}
	id := doc.ID
	return Entry{
		Exists:        true,
		JobID:         &id,
		HasExtraction: doc.HasExtraction(),
		HasSummary:    doc.HasSummary(),
	}
}

// ExistenceCache caches existence answers keyed by normalized URL. Any
// error from Check is treated by callers as a miss and falls through to a
// live lookup; the cache is never the source of truth.
type ExistenceCache interface {
	// Check returns the cached answer and whether the entry was present.
	Check(ctx context.Context, normalizedURL string) (entry Entry, hit bool, err error)
	// Set records an existence answer.
	Set(ctx context.Context, normalizedURL string, entry Entry) error
	// Invalidate removes an entry, typically after a save.
	Invalidate(ctx context.Context, normalizedURL string) error
}
