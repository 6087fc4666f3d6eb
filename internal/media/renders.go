package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
)

// DiskRenderStore persists generated renderings to a local directory served as
// static files, and returns the public URL a rendering is reachable at.
type DiskRenderStore struct {
	dir     string
	baseURL string
}

// NewDiskRenderStore creates the target directory if needed. baseURL is the
// externally visible prefix the directory is mounted at (e.g.
// https://host/renders).
func NewDiskRenderStore(dir, baseURL string) (*DiskRenderStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create renders dir: %w", err)
	}
	return &DiskRenderStore{dir: dir, baseURL: baseURL}, nil
}

// SaveRender writes the rendering and returns its public URL.
func (s *DiskRenderStore) SaveRender(ctx context.Context, tenantID uuid.UUID, img ai.Image) (string, error) {
	name := fmt.Sprintf("%s-%s%s", tenantID.String(), uuid.New().String(), extFor(img.MIMEType))
	if err := os.WriteFile(filepath.Join(s.dir, name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write render: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func extFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
