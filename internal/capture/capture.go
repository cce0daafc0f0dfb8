package capture

import (
	"github.com/jonathan/job-capture/internal/types"
)

// Prepared is the validated, normalized form of a RawCapture that the
// pipeline stages consume.
type Prepared struct {
	Raw           types.RawCapture
	NormalizedURL string
	CleanText     string
	ContentHash   string
	Board         Board
}

// Prepare validates a RawCapture and produces the pipeline's working input.
// It fails fast on a malformed URL or text below MinContentLength; those are
// acquisition errors and no downstream stage runs.
func Prepare(raw types.RawCapture) (*Prepared, error) {
	normalized, err := NormalizeURL(raw.URL)
	if err != nil {
		return nil, err
	}

	clean := CleanText(raw.RawText)
	if len(clean) < MinContentLength {
		return nil, &ErrContentTooShort{Length: len(clean), Min: MinContentLength}
	}

	return &Prepared{
		Raw:           raw,
		NormalizedURL: normalized,
		CleanText:     clean,
		ContentHash:   ContentHash(clean),
		Board:         DetectBoard(raw.URL, raw.Hints.Board),
	}, nil
}
