package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
)

// Fetcher downloads customer photos and training documents. A failed download
// is reported to the caller, who treats it as "no media available" everywhere
// except rendering.
type Fetcher struct {
	httpClient *resty.Client
}

// NewFetcher creates a Fetcher with sane timeouts for user-supplied URLs.
func NewFetcher() *Fetcher {
	client := resty.New().
		SetTimeout(20 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Fetcher{httpClient: client}
}

// Download fetches the media at url and sniffs its MIME type from the
// extension.
func (f *Fetcher) Download(ctx context.Context, url string) (ai.Image, error) {
	// Uploaded filenames sometimes contain raw spaces.
	safeURL := strings.ReplaceAll(url, " ", "%20")

	resp, err := f.httpClient.R().SetContext(ctx).Get(safeURL)
	if err != nil {
		return ai.Image{}, fmt.Errorf("download failed for %s: %w", url, err)
	}
	if resp.IsError() {
		return ai.Image{}, fmt.Errorf("download failed for %s: status %d", url, resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return ai.Image{}, fmt.Errorf("download returned empty body for %s", url)
	}

	return ai.Image{Data: body, MIMEType: mimeTypeFor(url)}, nil
}

func mimeTypeFor(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}
