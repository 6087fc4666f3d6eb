// Package media handles inline media references embedded in plain-text turn
// content, plus downloading and hosting of the media itself.
//
// The wire contract with the widget is a textual sentinel inside an otherwise
// human-readable part: [IMAGE_URL: <url>] for customer photos and
// [RENDER_URL: <url>] for generated renderings appended to a reply.
package media

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	imageURLPattern  = regexp.MustCompile(`\[IMAGE_URL:\s*([^\]]+)\]`)
	renderURLPattern = regexp.MustCompile(`\[RENDER_URL:\s*([^\]]+)\]`)
)

// EncodeImageURL wraps a customer photo URL in its inline sentinel.
func EncodeImageURL(url string) string {
	return fmt.Sprintf("[IMAGE_URL: %s]", url)
}

// EncodeRenderURL wraps a generated rendering URL in its inline sentinel.
func EncodeRenderURL(url string) string {
	return fmt.Sprintf("[RENDER_URL: %s]", url)
}

// ExtractImageURL extracts the first customer photo sentinel from text. It
// returns the URL, the text with the sentinel removed, and whether a sentinel
// was found. Text without a sentinel is returned unchanged with ok=false,
// never an error.
//
// Only the first sentinel per part is extracted. Multiple sentinels in one
// part are a known limitation of the wire format.
func ExtractImageURL(text string) (url, remainder string, ok bool) {
	return extract(imageURLPattern, text)
}

// ExtractRenderURL extracts the first rendering sentinel from text.
func ExtractRenderURL(text string) (url, remainder string, ok bool) {
	return extract(renderURLPattern, text)
}

func extract(pattern *regexp.Regexp, text string) (string, string, bool) {
	loc := pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}
	url := strings.TrimSpace(text[loc[2]:loc[3]])
	remainder := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return url, remainder, true
}
