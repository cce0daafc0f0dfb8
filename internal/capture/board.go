package capture

import (
	"net/url"
	"strings"
)

// Board represents a known job board.
type Board string

const (
	// BoardGreenhouse is the Greenhouse ATS
	BoardGreenhouse Board = "greenhouse"
	// BoardLever is the Lever ATS
	BoardLever Board = "lever"
	// BoardWorkday is the Workday ATS
	BoardWorkday Board = "workday"
	// BoardLinkedIn is LinkedIn job postings
	BoardLinkedIn Board = "linkedin"
	// BoardIndeed is Indeed job postings
	BoardIndeed Board = "indeed"
	// BoardUnknown is an unrecognized board
	BoardUnknown Board = "unknown"
)

// DetectBoard identifies the job board from the client hint when present,
// falling back to the posting URL host. A missing or wrong hint only reduces
// segmentation quality, it never fails the run.
func DetectBoard(urlStr string, hint string) Board {
	if b := boardFromHint(hint); b != BoardUnknown {
		return b
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return BoardUnknown
	}
	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return BoardGreenhouse
	case strings.Contains(host, "lever.co"):
		return BoardLever
	case strings.Contains(host, "workday.com") || strings.Contains(host, "myworkdayjobs.com"):
		return BoardWorkday
	case strings.Contains(host, "linkedin.com"):
		return BoardLinkedIn
	case strings.Contains(host, "indeed.com"):
		return BoardIndeed
	}
	return BoardUnknown
}

func boardFromHint(hint string) Board {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "greenhouse":
		return BoardGreenhouse
	case "lever":
		return BoardLever
	case "workday":
		return BoardWorkday
	case "linkedin":
		return BoardLinkedIn
	case "indeed":
		return BoardIndeed
	default:
		return BoardUnknown
	}
}
