package segment

import (
	"strings"

	"github.com/jonathan/job-capture/internal/capture"
)

// Strategy applies board-specific cleanup before generic section detection.
// Implementations trim boilerplate a particular board appends to every
// posting; they never remove posting content.
type Strategy interface {
	// Trim returns the text with board boilerplate removed.
	Trim(text string) string
}

// StrategyFor returns the strategy for a detected board. Unknown boards get
// a no-op strategy so a missing hint only reduces segmentation quality.
func StrategyFor(board capture.Board) Strategy {
	switch board {
	case capture.BoardLinkedIn:
		return markerStrategy{markers: []string{
			"similar jobs", "people also viewed", "set alert for similar jobs",
		}}
	case capture.BoardIndeed:
		return markerStrategy{markers: []string{
			"similar jobs", "jobs you may be interested in", "report job",
		}}
	case capture.BoardGreenhouse:
		return markerStrategy{markers: []string{
			"apply for this job", "when you apply to a job on this site",
		}}
	case capture.BoardLever:
		return markerStrategy{markers: []string{
			"apply for this job", "your application has been submitted",
		}}
	case capture.BoardWorkday:
		return markerStrategy{markers: []string{
			"recommended jobs", "follow us",
		}}
	default:
		return noopStrategy{}
	}
}

// markerStrategy cuts the text at the first occurrence of a trailing-section
// marker. Everything after a marker is footer boilerplate on that board.
type markerStrategy struct {
	markers []string
}

func (s markerStrategy) Trim(text string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, marker := range s.markers {
		if idx := strings.Index(lower, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(text[:cut])
}

type noopStrategy struct{}

func (noopStrategy) Trim(text string) string { return text }
