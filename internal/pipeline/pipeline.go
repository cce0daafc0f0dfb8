// Package pipeline orchestrates one capture run: acquisition, segmentation,
// field extraction, summarization, and persistence, with progress reported
// along the way. Only acquisition failures abort a run; every later stage
// degrades and the run still lands a doc.
package pipeline

import (
	"context"
	"log"

	"github.com/jonathan/job-capture/internal/cache"
	"github.com/jonathan/job-capture/internal/capture"
	"github.com/jonathan/job-capture/internal/llm"
	"github.com/jonathan/job-capture/internal/progress"
	"github.com/jonathan/job-capture/internal/resolve"
	"github.com/jonathan/job-capture/internal/rules"
	"github.com/jonathan/job-capture/internal/segment"
	"github.com/jonathan/job-capture/internal/summarize"
	"github.com/jonathan/job-capture/internal/types"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	SaveJobDoc(ctx context.Context, doc *types.JobDoc) (*types.JobDoc, bool, error)
}

// Pipeline wires the capture stages together. Extractor, summarizer, store,
// and cache are all optional; a nil collaborator skips its stage.
type Pipeline struct {
	rules      *rules.Parser
	extractor  llm.Extractor
	summarizer summarize.Summarizer
	store      Store
	existence  cache.ExistenceCache
}

// Options configures a Pipeline.
type Options struct {
	Rules      rules.Config
	Extractor  llm.Extractor
	Summarizer summarize.Summarizer
	Store      Store
	Existence  cache.ExistenceCache
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		rules:      rules.NewParser(opts.Rules),
		extractor:  opts.Extractor,
		summarizer: opts.Summarizer,
		store:      opts.Store,
		existence:  opts.Existence,
	}
}

// Result is the outcome of one capture run.
type Result struct {
	Doc *types.JobDoc
	// Existing reports whether the URL was already saved before this run.
	Existing bool
	// Score is the aggregate extraction confidence for this run's doc.
	Score int
}

// Run executes one capture end to end, emitting progress on the emitter.
// The emitter may be nil for callers that do not stream.
func (p *Pipeline) Run(ctx context.Context, raw types.RawCapture, emitter *progress.Emitter) (*Result, error) {
	if emitter == nil {
		emitter = progress.NewEmitter(ctx, 1)
		emitter.Close()
	}

	emitter.StageStarted(types.StageIngest, "validating capture")
	prepared, err := capture.Prepare(raw)
	if err != nil {
		emitter.Failed(err)
		return nil, err
	}
	emitter.StageComplete(types.StageIngest, "capture accepted")

	emitter.StageStarted(types.StagePreprocess, "segmenting posting")
	doc := segment.Segment(prepared)
	emitter.StageComplete(types.StagePreprocess, "posting segmented")

	emitter.StageStarted(types.StageExtract, "extracting fields")
	candidates := p.rules.Parse(doc, raw.Hints.PageTitle)
	ruleResolved := resolve.ResolvedFields(candidates)

	if p.extractor != nil {
		modelCandidates, err := p.extractor.Extract(ctx, doc, ruleResolved)
		if err != nil {
			// The model is best-effort; report and continue on rules alone.
			emitter.StageError(types.StageExtract, err)
			log.Printf("Model extraction degraded to rules only: %v", err)
		} else {
			candidates = append(candidates, modelCandidates...)
		}
	}
	candidates = append(candidates, clientHintCandidates(raw.Hints)...)

	jobDoc := &types.JobDoc{
		NormalizedURL: prepared.NormalizedURL,
		SourceURL:     raw.URL,
	}
	resolve.Resolve(jobDoc, candidates)
	score := resolve.Score(jobDoc)
	// Push the resolved snapshot now so the client can render fields while
	// summarization and persistence are still running.
	emitter.StageProgress(types.StageExtract, fieldsPayload(jobDoc), jobDoc.Confidence)
	emitter.StageComplete(types.StageExtract, "fields extracted")

	emitter.StageStarted(types.StageSummarize, "summarizing posting")
	if p.summarizer != nil {
		summary, err := p.summarizer.Summarize(ctx, doc, jobDoc)
		if err != nil {
			emitter.StageError(types.StageSummarize, err)
			log.Printf("Summary generation failed, continuing without: %v", err)
		} else {
			jobDoc.Summary = &summary
		}
	}
	emitter.StageComplete(types.StageSummarize, "summary ready")

	result := &Result{Doc: jobDoc, Score: score}
	if p.store != nil {
		saved, existing, err := p.store.SaveJobDoc(ctx, jobDoc)
		if err != nil {
			emitter.Failed(err)
			return nil, err
		}
		result.Doc = saved
		result.Existing = existing

		if p.existence != nil {
			if err := p.existence.Invalidate(ctx, prepared.NormalizedURL); err != nil {
				log.Printf("Existence cache invalidation failed for %s: %v", prepared.NormalizedURL, err)
			}
		}
	}

	emitter.Done(result.Doc, donePayload(result))
	return result, nil
}

// clientHintCandidates turns capture hints into low-confidence candidates
// that lose to anything the rules or the model produced.
func clientHintCandidates(hints types.ClientHints) []types.FieldCandidate {
	var candidates []types.FieldCandidate
	if hints.PageTitle != "" {
		candidates = append(candidates, types.FieldCandidate{
			Field:      types.FieldTitle,
			Value:      hints.PageTitle,
			Confidence: types.ConfidenceLow,
			Source:     types.SourceClient,
		})
	}
	return candidates
}

// donePayload builds the terminal event's field snapshot plus run metadata.
func donePayload(result *Result) map[string]any {
	fields := fieldsPayload(result.Doc)
	fields["normalized_url"] = result.Doc.NormalizedURL
	fields["save_count"] = result.Doc.SaveCount
	fields["score"] = result.Score
	fields["existing"] = result.Existing
	return fields
}

// fieldsPayload maps a doc's populated fields into an event payload.
func fieldsPayload(doc *types.JobDoc) map[string]any {
	fields := map[string]any{}
	if doc.Title != "" {
		fields["title"] = doc.Title
	}
	if doc.Company != "" {
		fields["company"] = doc.Company
	}
	if doc.Location != "" {
		fields["location"] = doc.Location
	}
	if !doc.Salary.IsZero() {
		fields["salary"] = doc.Salary
	}
	if doc.Seniority != "" {
		fields["seniority"] = doc.Seniority
	}
	if doc.RemoteType != "" {
		fields["remote_type"] = doc.RemoteType
	}
	if doc.RoleType != "" {
		fields["role_type"] = doc.RoleType
	}
	if doc.YearsExperienceMin != nil {
		fields["years_experience_min"] = *doc.YearsExperienceMin
	}
	if doc.YearsExperienceMax != nil {
		fields["years_experience_max"] = *doc.YearsExperienceMax
	}
	if len(doc.RequiredSkills) > 0 {
		fields["required_skills"] = doc.RequiredSkills
	}
	if len(doc.PreferredSkills) > 0 {
		fields["preferred_skills"] = doc.PreferredSkills
	}
	if doc.EasyApply {
		fields["easy_apply"] = true
	}
	return fields
}
