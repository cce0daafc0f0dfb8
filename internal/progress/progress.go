// Package progress carries pipeline progress to a connected capture client.
// Events flow through a bounded channel and exist only for the duration of
// one run; nothing here is persisted.
package progress

import (
	"context"
	"sync"

	"github.com/jonathan/job-capture/internal/types"
)

// DefaultBuffer is the event channel capacity. A run emits on the order of
// a dozen events, so this absorbs a briefly slow consumer without letting an
// abandoned stream pin the pipeline.
const DefaultBuffer = 16

// stagePercent maps each stage's completion to its checkpoint on the 0-100
// scale. Percentages only move forward; a stage that finishes early still
// reports its checkpoint.
var stagePercent = map[types.Stage]int{
	types.StageIngest:     5,
	types.StagePreprocess: 25,
	types.StageExtract:    60,
	types.StageSummarize:  90,
}

// Emitter publishes progress events for a single capture run. All methods
// are safe for concurrent use. Once the consumer's context is cancelled the
// emitter drops everything silently; the pipeline keeps running either way.
type Emitter struct {
	ctx context.Context
	ch  chan types.ProgressEvent

	mu      sync.Mutex
	percent int
	closed  bool
}

// NewEmitter creates an emitter bound to the consumer's context. A buffer
// of zero or less uses DefaultBuffer.
func NewEmitter(ctx context.Context, buffer int) *Emitter {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Emitter{ctx: ctx, ch: make(chan types.ProgressEvent, buffer)}
}

// Events is the consumer side of the stream. The channel is closed after a
// terminal event or when the consumer disconnects.
func (e *Emitter) Events() <-chan types.ProgressEvent {
	return e.ch
}

// StageStarted announces that a stage began.
func (e *Emitter) StageStarted(stage types.Stage, message string) {
	e.emit(types.ProgressEvent{Stage: stage, Status: types.StatusStarted, Message: message})
}

// StageComplete marks a stage finished and advances to its checkpoint.
func (e *Emitter) StageComplete(stage types.Stage, message string) {
	e.emit(types.ProgressEvent{
		Stage:   stage,
		Status:  types.StatusComplete,
		Percent: stagePercent[stage],
		Message: message,
	})
}

// StageProgress pushes the fields and confidence available after a stage,
// so the client can render incrementally instead of waiting for the
// terminal event.
func (e *Emitter) StageProgress(stage types.Stage, fields map[string]any, confidence map[string]types.FieldConfidence) {
	e.emit(types.ProgressEvent{
		Stage:      stage,
		Status:     types.StatusProgress,
		Percent:    stagePercent[stage],
		Fields:     fields,
		Confidence: confidence,
	})
}

// StageError reports a recoverable stage failure. The run continues, so this
// is not terminal and the percentage still advances to the stage checkpoint.
func (e *Emitter) StageError(stage types.Stage, err error) {
	event := types.ProgressEvent{
		Stage:   stage,
		Status:  types.StatusError,
		Percent: stagePercent[stage],
	}
	if err != nil {
		event.Error = err.Error()
	}
	e.emit(event)
}

// Done emits the terminal success event carrying the resolved fields, then
// closes the stream.
func (e *Emitter) Done(doc *types.JobDoc, fields map[string]any) {
	event := types.ProgressEvent{
		Status:  types.StatusDone,
		Percent: 100,
		Fields:  fields,
	}
	if doc != nil {
		event.Confidence = doc.Confidence
		event.Summary = doc.Summary
	}
	e.emit(event)
	e.close()
}

// Failed emits the terminal failure event, then closes the stream.
func (e *Emitter) Failed(err error) {
	event := types.ProgressEvent{Status: types.StatusFailed, Percent: 100}
	if err != nil {
		event.Error = err.Error()
	}
	e.emit(event)
	e.close()
}

// Close releases the stream without a terminal event. Used when the run is
// abandoned before it can report an outcome.
func (e *Emitter) Close() {
	e.close()
}

func (e *Emitter) emit(event types.ProgressEvent) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	// Percent never goes backwards even if stages misreport.
	if event.Percent < e.percent {
		event.Percent = e.percent
	} else {
		e.percent = event.Percent
	}
	e.mu.Unlock()

	select {
	case e.ch <- event:
	case <-e.ctx.Done():
		// Consumer is gone; stop delivering but let the run finish.
		e.close()
	}
}

func (e *Emitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	close(e.ch)
}
