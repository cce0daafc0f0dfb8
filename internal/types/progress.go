package types

// Stage names one phase of a pipeline run.
type Stage string

// Pipeline stages in execution order
const (
	StageIngest     Stage = "ingest"
	StagePreprocess Stage = "preprocess"
	StageExtract    Stage = "extract"
	StageSummarize  Stage = "summarize"
)

// EventStatus is the status carried by a progress event.
type EventStatus string

// Event status constants
const (
	StatusStarted  EventStatus = "started"
	StatusProgress EventStatus = "progress"
	StatusComplete EventStatus = "complete"
	StatusError    EventStatus = "error"
	StatusDone     EventStatus = "done"
	StatusFailed   EventStatus = "failed"
)

// ProgressEvent is one message on the capture client's event stream. Events
// exist only on the wire during a single run; percent is non-decreasing and a
// terminal done/failed status ends the stream.
type ProgressEvent struct {
	Stage      Stage                      `json:"stage,omitempty"`
	Status     EventStatus                `json:"status"`
	Percent    int                        `json:"percent"`
	Message    string                     `json:"message,omitempty"`
	Fields     map[string]any             `json:"fields,omitempty"`
	Confidence map[string]FieldConfidence `json:"confidence,omitempty"`
	Summary    *string                    `json:"summary,omitempty"`
	Error      string                     `json:"error,omitempty"`
}

// Terminal reports whether the event ends the stream.
func (e ProgressEvent) Terminal() bool {
	return e.Status == StatusDone || e.Status == StatusFailed
}
