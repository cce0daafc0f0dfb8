package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MinContentLength is the minimum number of characters of raw text required
// before the pipeline will run. Shorter captures fail acquisition fast.
const MinContentLength = 100

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	blankLinesRe = regexp.MustCompile(`\n\n\n+`)
	htmlTagRe    = regexp.MustCompile(`(?i)<(html|body|div|p|br|ul|li|span|h[1-6])[\s>/]`)
)

// CleanText normalizes captured text while preserving structure. If the
// capture client handed us an HTML fragment instead of extracted text, the
// markup is stripped first.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	if looksLikeHTML(content) {
		content = stripHTML(content)
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLinesRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine normalizes one line, preserving headings and bullet markers.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ") {
		return trimmed
	}

	return multiSpaceRe.ReplaceAllString(strings.TrimSpace(line), " ")
}

// looksLikeHTML reports whether the content appears to be raw markup rather
// than extracted text.
func looksLikeHTML(content string) bool {
	head := content
	if len(head) > 2048 {
		head = head[:2048]
	}
	return htmlTagRe.MatchString(head)
}

// stripHTML extracts visible text from an HTML fragment, dropping script,
// style, and navigation noise. Parse failures fall back to the raw input so
// the pipeline never loses text here.
func stripHTML(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	doc.Find("script, style, nav, footer, noscript, iframe, form").Remove()

	var sb strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, div, span").Each(func(_ int, sel *goquery.Selection) {
		// Only take leaf-ish nodes to avoid duplicating nested text.
		if sel.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(sel) == "li" {
			sb.WriteString("- ")
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	})

	if sb.Len() == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return sb.String()
}

// ContentHash computes the SHA-256 hex digest of cleaned text, used for
// change detection across captures of the same URL.
func ContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
